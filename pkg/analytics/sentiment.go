package analytics

import "fmt"

// Classifier scores message text against a fixed two-set lexicon. It
// is a pure function of (text, lexicon): identical text always yields
// the identical score, and the score is bounded in [-1, 1] with +1
// fully positive. Deliberately not a learned model — every score is
// explainable from the lexicon alone.
type Classifier struct {
	lex Lexicon
}

// NewClassifier validates the lexicon once at construction: the
// positive and negative cue sets must be non-empty and disjoint.
func NewClassifier(lex Lexicon) (*Classifier, error) {
	if len(lex.Positive) == 0 || len(lex.Negative) == 0 {
		return nil, fmt.Errorf("sentiment lexicon: positive and negative cue sets must be non-empty")
	}
	for w := range lex.Positive {
		if _, ok := lex.Negative[w]; ok {
			return nil, fmt.Errorf("sentiment lexicon: %q appears in both cue sets", w)
		}
	}
	return &Classifier{lex: lex}, nil
}

// Score returns the sentiment of text in [-1, 1]. Tokens are matched
// case-insensitively against the two cue sets; the score is
// (pos-neg)/(pos+neg) over the matched counts, so it is comparable
// across messages of different length. Text matching neither set, and
// empty text, scores 0 (neutral).
func (c *Classifier) Score(text string) float64 {
	var pos, neg int
	for _, tok := range tokenize(text) {
		if _, ok := c.lex.Positive[tok]; ok {
			pos++
			continue
		}
		if _, ok := c.lex.Negative[tok]; ok {
			neg++
		}
	}
	if pos+neg == 0 {
		return 0
	}
	return float64(pos-neg) / float64(pos+neg)
}
