package analytics

import (
	"strings"
	"unicode"
)

// Lexicon is the immutable, process-wide word configuration shared by
// the sentiment classifier and the topic extractor. It is loaded once
// at startup and passed explicitly into the components that need it;
// nothing mutates it at runtime.
type Lexicon struct {
	Positive  map[string]struct{}
	Negative  map[string]struct{}
	StopWords map[string]struct{}
}

var defaultPositive = []string{
	"good", "great", "love", "loved", "excellent", "happy", "agree",
	"agreed", "like", "best", "awesome", "amazing", "helpful", "yes",
	"thanks", "thank", "nice", "win", "better", "right", "perfect",
	"interesting", "support", "clear", "easy", "fun", "useful",
	"fantastic", "wonderful", "brilliant", "enjoy", "glad", "cool",
	"correct", "works", "solid", "clean", "excited", "progress",
}

var defaultNegative = []string{
	"bad", "terrible", "hate", "hated", "awful", "sad", "disagree",
	"wrong", "worst", "problem", "problems", "broken", "fail", "fails",
	"failed", "failure", "bug", "bugs", "slow", "hard", "difficult",
	"confusing", "no", "never", "annoying", "useless", "poor",
	"horrible", "mess", "risky", "doubt", "worried", "concern",
	"concerned", "blocker", "error", "errors", "crash", "stuck",
}

var defaultStopWords = []string{
	"a", "an", "the", "and", "or", "but", "if", "then", "so", "to",
	"of", "in", "on", "at", "for", "with", "as", "by", "from", "is",
	"are", "was", "were", "be", "been", "being", "it", "its", "this",
	"that", "these", "those", "i", "you", "he", "she", "we", "they",
	"them", "his", "her", "our", "your", "my", "me", "us", "not",
	"do", "does", "did", "have", "has", "had", "will", "would", "can",
	"could", "should", "what", "when", "where", "which", "who", "how",
	"all", "any", "there", "here", "about", "into", "over", "just",
	"than", "too", "very", "lets", "let", "get", "got", "also", "im",
}

// DefaultLexicon returns the built-in lexicon.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Positive:  toSet(defaultPositive),
		Negative:  toSet(defaultNegative),
		StopWords: toSet(defaultStopWords),
	}
}

// Extend returns a copy of lx with the given words added. The receiver
// is left untouched so a shared default lexicon stays immutable.
func (lx Lexicon) Extend(positive, negative, stopWords []string) Lexicon {
	out := Lexicon{
		Positive:  copySet(lx.Positive),
		Negative:  copySet(lx.Negative),
		StopWords: copySet(lx.StopWords),
	}
	addAll(out.Positive, positive)
	addAll(out.Negative, negative)
	addAll(out.StopWords, stopWords)
	return out
}

func toSet(words []string) map[string]struct{} {
	s := make(map[string]struct{}, len(words))
	addAll(s, words)
	return s
}

func copySet(in map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}

func addAll(s map[string]struct{}, words []string) {
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			s[w] = struct{}{}
		}
	}
}

// tokenize lowercases text and splits it on anything that is not a
// letter or digit. Both the classifier and the extractor share this so
// their views of a message agree.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
