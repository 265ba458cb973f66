package analytics

import (
	"fmt"
	"sort"

	"convolog/pkg/models"
)

// Extractor slices the message sequence into fixed-size windows and
// pulls the dominant keywords out of each. Windows are counted in
// messages, not wall-clock time, so the partition is deterministic
// regardless of timestamp granularity or append timing.
type Extractor struct {
	windowSize  int
	topN        int
	minTokenLen int
	stop        map[string]struct{}
}

// NewExtractor validates the window configuration once. Non-positive
// sizes are a configuration error, not a per-call one.
func NewExtractor(windowSize, topN, minTokenLen int, lex Lexicon) (*Extractor, error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("topic extractor: window size must be positive, got %d", windowSize)
	}
	if topN <= 0 {
		return nil, fmt.Errorf("topic extractor: top keyword count must be positive, got %d", topN)
	}
	if minTokenLen <= 0 {
		return nil, fmt.Errorf("topic extractor: min token length must be positive, got %d", minTokenLen)
	}
	return &Extractor{
		windowSize:  windowSize,
		topN:        topN,
		minTokenLen: minTokenLen,
		stop:        lex.StopWords,
	}, nil
}

// Windows partitions msgs into consecutive, non-overlapping windows of
// the configured size and extracts keywords plus average sentiment for
// each. The final window may be shorter when the log length is not an
// exact multiple; that is a valid window, not an error. Concatenating
// the window ranges reproduces the message sequence exactly once.
func (e *Extractor) Windows(msgs []models.Message, cls *Classifier) []models.TopicWindow {
	out := make([]models.TopicWindow, 0, (len(msgs)+e.windowSize-1)/e.windowSize)
	for start := 0; start < len(msgs); start += e.windowSize {
		end := start + e.windowSize
		if end > len(msgs) {
			end = len(msgs)
		}
		window := msgs[start:end]
		var sum float64
		for _, m := range window {
			sum += cls.Score(m.Content)
		}
		out = append(out, models.TopicWindow{
			StartIndex:   window[0].Index,
			EndIndex:     window[len(window)-1].Index,
			Keywords:     e.keywords(window),
			AvgSentiment: sum / float64(len(window)),
		})
	}
	return out
}

// keywords counts token frequencies across the window, dropping stop
// words and short tokens, and returns the top-N. Ties break by first
// appearance within the window so the result is deterministic.
func (e *Extractor) keywords(window []models.Message) []string {
	freq := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0
	for _, m := range window {
		for _, tok := range tokenize(m.Content) {
			if len([]rune(tok)) < e.minTokenLen {
				continue
			}
			if _, stopped := e.stop[tok]; stopped {
				continue
			}
			if _, seen := firstSeen[tok]; !seen {
				firstSeen[tok] = order
				order++
			}
			freq[tok]++
		}
	}
	toks := make([]string, 0, len(freq))
	for t := range freq {
		toks = append(toks, t)
	}
	sort.Slice(toks, func(i, j int) bool {
		if freq[toks[i]] != freq[toks[j]] {
			return freq[toks[i]] > freq[toks[j]]
		}
		return firstSeen[toks[i]] < firstSeen[toks[j]]
	})
	if len(toks) > e.topN {
		toks = toks[:e.topN]
	}
	return toks
}
