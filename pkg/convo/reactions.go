package convo

import (
	"fmt"
	"time"

	"convolog/pkg/logger"
	"convolog/pkg/models"
)

// AddReaction records a reaction by user on the message at index. The
// ledger is append-only and undeduplicated: repeated identical
// reactions are all kept.
func (l *Log) AddReaction(index int, user, reaction string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if index < 0 || index >= len(l.msgs) {
		return fmt.Errorf("%w: index %d", ErrMessageNotFound, index)
	}
	rx := models.Reaction{
		MessageIndex: index,
		User:         user,
		Reaction:     reaction,
		TS:           time.Now().UTC().UnixNano(),
	}
	if l.journal != nil {
		if err := l.journal.AppendReaction(l.id, rx); err != nil {
			return fmt.Errorf("journal reaction: %w", err)
		}
	}
	l.byMsg[index] = append(l.byMsg[index], rx)
	l.rxs = append(l.rxs, rx)
	logger.Debug("reaction_recorded", "convo", l.id, "index", index, "user", user, "reaction", reaction)
	return nil
}

// ReactionsOf returns the reactions recorded against index, in append
// order. Unknown indices yield an empty slice.
func (l *Log) ReactionsOf(index int) []models.Reaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	rs := l.byMsg[index]
	out := make([]models.Reaction, len(rs))
	copy(out, rs)
	return out
}

// ReactionCount returns the number of reactions recorded against index.
func (l *Log) ReactionCount(index int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byMsg[index])
}

// ReactionsPerMessage returns reaction counts indexed by message
// position; its length always equals the log length.
func (l *Log) ReactionsPerMessage() []int {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]int, len(l.msgs))
	for i := range out {
		out[i] = len(l.byMsg[i])
	}
	return out
}

// AllReactions returns the full reaction ledger in recording order.
func (l *Log) AllReactions() []models.Reaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rxs[:len(l.rxs):len(l.rxs)]
}

// Capture returns the messages, per-message reaction counts, and the
// full reaction ledger from one critical section, so the three views
// agree with each other even while writers are active. Analytics must
// read through this rather than the individual accessors: a snapshot
// observes the log either before or after a given write, never
// mid-write.
func (l *Log) Capture() ([]models.Message, []int, []models.Reaction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	counts := make([]int, len(l.msgs))
	for i := range counts {
		counts[i] = len(l.byMsg[i])
	}
	return l.msgs[:len(l.msgs):len(l.msgs)], counts, l.rxs[:len(l.rxs):len(l.rxs)]
}
