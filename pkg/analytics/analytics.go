// Package analytics derives live discussion statistics — participation,
// sentiment, emergent topics, and who-talks-to-whom — from a
// conversation log. Everything here is a read-only view recomputed from
// the log; the log stays the single source of truth.
package analytics

import "convolog/pkg/models"

// Source is the read surface a snapshot is computed from. *convo.Log
// implements it; tests can supply fixtures directly. Capture must
// return all three views from a single consistent observation of the
// log — messages, counts, and ledger taken together, not assembled
// from separate reads a writer could slip between.
type Source interface {
	Capture() (msgs []models.Message, reactionsPerMessage []int, reactions []models.Reaction)
}

// Aggregator composes the classifier and extractor into one consistent
// snapshot on demand.
type Aggregator struct {
	cls *Classifier
	ext *Extractor
}

// NewAggregator wires a validated classifier and extractor together.
func NewAggregator(cls *Classifier, ext *Extractor) *Aggregator {
	return &Aggregator{cls: cls, ext: ext}
}

// Snapshot recomputes every derived statistic from the source's current
// state. Nothing is cached across calls, so a snapshot always reflects
// the log at the moment of the call. An empty log yields zero counts
// and empty (non-nil) collections — a valid result, not an error.
func (a *Aggregator) Snapshot(src Source) models.Snapshot {
	msgs, perMessage, reactions := src.Capture()

	perUser := make(map[string]int)
	sentiments := make([]float64, 0, len(msgs))
	for _, m := range msgs {
		perUser[m.Sender]++
		sentiments = append(sentiments, a.cls.Score(m.Content))
	}
	if perMessage == nil {
		perMessage = []int{}
	}

	return models.Snapshot{
		TotalMessages:       len(msgs),
		ActiveUsers:         len(perUser),
		MessagesPerUser:     perUser,
		ReactionsPerMessage: perMessage,
		SentimentSeries:     sentiments,
		TopicWindows:        a.ext.Windows(msgs, a.cls),
		InteractionMatrix:   BuildMatrix(msgs, reactions),
	}
}
