package convo

import (
	"fmt"
	"iter"
	"sync"
	"time"

	"convolog/pkg/logger"
	"convolog/pkg/models"
)

// Journal receives every accepted write for durability. The log calls
// it while holding its own lock, so journaled order always matches log
// order. A nil journal means the log is memory-only.
type Journal interface {
	CreateConversation(convoID string) error
	AppendMessage(convoID string, msg models.Message) error
	AppendReaction(convoID string, rx models.Reaction) error
}

// Log is the append-only record of one conversation and the single
// source of truth for everything derived from it. The thread index and
// reaction ledger are maintained incrementally under the same lock that
// serializes appends, so a reader observes the log either before or
// after a given write, never mid-write.
//
// Messages are never removed or reordered. Index values are dense and
// start at 0.
type Log struct {
	id      string
	journal Journal

	mu sync.Mutex
	// msgs only ever grows; stored messages are immutable, so a slice
	// header captured under mu stays valid after release.
	msgs []models.Message
	// replies maps a root index to reply indices in append order.
	replies map[int][]int
	// byMsg maps a message index to its reactions in append order;
	// rxs keeps the global append-order ledger.
	byMsg map[int][]models.Reaction
	rxs   []models.Reaction
}

// NewLog returns an empty memory-only conversation log.
func NewLog(id string) *Log {
	return NewJournaledLog(id, nil)
}

// NewJournaledLog returns an empty log that forwards accepted writes to j.
func NewJournaledLog(id string, j Journal) *Log {
	return &Log{
		id:      id,
		journal: j,
		replies: make(map[int][]int),
		byMsg:   make(map[int][]models.Reaction),
	}
}

// Restore rebuilds a log from previously journaled records, re-deriving
// the thread index and reaction ledger. It re-checks the log invariants
// so a corrupted journal cannot produce an inconsistent log.
func Restore(id string, msgs []models.Message, rxs []models.Reaction, j Journal) (*Log, error) {
	l := NewJournaledLog(id, j)
	for i, m := range msgs {
		if m.Index != i {
			return nil, fmt.Errorf("restore %s: message %d carries index %d", id, i, m.Index)
		}
		if !m.Type.Valid() {
			return nil, fmt.Errorf("restore %s: message %d: %w: %q", id, i, ErrInvalidMessageType, m.Type)
		}
		if m.ThreadID != nil {
			if *m.ThreadID < 0 || *m.ThreadID >= i {
				return nil, fmt.Errorf("restore %s: message %d: %w: %d", id, i, ErrInvalidThreadReference, *m.ThreadID)
			}
			l.replies[*m.ThreadID] = append(l.replies[*m.ThreadID], i)
		}
		l.msgs = append(l.msgs, m)
	}
	for _, rx := range rxs {
		if rx.MessageIndex < 0 || rx.MessageIndex >= len(l.msgs) {
			return nil, fmt.Errorf("restore %s: reaction targets %d: %w", id, rx.MessageIndex, ErrMessageNotFound)
		}
		l.byMsg[rx.MessageIndex] = append(l.byMsg[rx.MessageIndex], rx)
		l.rxs = append(l.rxs, rx)
	}
	return l, nil
}

// ID returns the conversation identifier.
func (l *Log) ID() string { return l.id }

// Append validates and stores a new message, returning its index. The
// index sequence is dense and strictly increasing. threadID, when
// non-nil, must reference an existing message appended earlier.
func (l *Log) Append(sender, content string, typ models.MessageType, threadID *int) (int, error) {
	if !typ.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMessageType, typ)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := len(l.msgs)
	if threadID != nil && (*threadID < 0 || *threadID >= idx) {
		return 0, fmt.Errorf("%w: %d (log length %d)", ErrInvalidThreadReference, *threadID, idx)
	}
	m := models.Message{
		Index:   idx,
		Sender:  sender,
		Content: content,
		Type:    typ,
		TS:      time.Now().UTC().UnixNano(),
	}
	if threadID != nil {
		tid := *threadID
		m.ThreadID = &tid
	}
	if l.journal != nil {
		if err := l.journal.AppendMessage(l.id, m); err != nil {
			return 0, fmt.Errorf("journal message: %w", err)
		}
	}
	l.msgs = append(l.msgs, m)
	if m.ThreadID != nil {
		l.replies[*m.ThreadID] = append(l.replies[*m.ThreadID], idx)
	}
	logger.Debug("message_appended", "convo", l.id, "index", idx, "sender", sender, "type", string(typ))
	return idx, nil
}

// Get returns the message at index.
func (l *Log) Get(index int) (models.Message, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if index < 0 || index >= len(l.msgs) {
		return models.Message{}, fmt.Errorf("%w: index %d", ErrMessageNotFound, index)
	}
	return l.msgs[index], nil
}

// Len returns the current number of messages.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.msgs)
}

// All returns a lazy, restartable view of the log in insertion order.
// The view is a consistent snapshot: appends after the call do not
// show up in it.
func (l *Log) All() iter.Seq[models.Message] {
	msgs := l.Messages()
	return func(yield func(models.Message) bool) {
		for _, m := range msgs {
			if !yield(m) {
				return
			}
		}
	}
}

// Query selects messages from the log. Zero-valued fields match
// everything; Since/Until bound the timestamp as [Since, Until).
type Query struct {
	Sender string
	Type   models.MessageType
	Since  int64
	Until  int64
}

func (q Query) matches(m models.Message) bool {
	if q.Sender != "" && m.Sender != q.Sender {
		return false
	}
	if q.Type != "" && m.Type != q.Type {
		return false
	}
	if q.Since != 0 && m.TS < q.Since {
		return false
	}
	if q.Until != 0 && m.TS >= q.Until {
		return false
	}
	return true
}

// Filter returns the ordered subsequence of messages matching q. Like
// All, the view is lazy, restartable, and detached from later appends.
func (l *Log) Filter(q Query) iter.Seq[models.Message] {
	msgs := l.Messages()
	return func(yield func(models.Message) bool) {
		for _, m := range msgs {
			if !q.matches(m) {
				continue
			}
			if !yield(m) {
				return
			}
		}
	}
}

// Messages returns a stable snapshot slice of the full log.
func (l *Log) Messages() []models.Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.msgs[:len(l.msgs):len(l.msgs)]
}
