// Package store is the durable journal behind the in-memory
// conversation logs. It is write-behind only: the core never reads
// through it at request time, it exists for boot-time replay.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/cockroachdb/pebble"

	"convolog/pkg/logger"
	"convolog/pkg/models"
)

var (
	db *pebble.DB
	// seq disambiguates reaction keys that share a nanosecond timestamp.
	seq uint64
)

// Open opens (or creates) a Pebble database at the given path and keeps
// a global handle for simple usage in this package.
func Open(path string) error {
	var err error
	logger.Info("opening_pebble_db", "path", path)
	db, err = pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("pebble_open_failed", "path", path, "error", err)
		return err
	}
	return nil
}

// Close closes the opened pebble DB if present.
func Close() error {
	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		return err
	}
	db = nil
	logger.Info("pebble_closed")
	return nil
}

// Ready reports whether the store is opened and ready.
func Ready() bool {
	return db != nil
}

// Journal satisfies convo.Journal over the pebble store.
type Journal struct{}

// NewJournal returns the pebble-backed journal. The store must be
// opened before any writes land.
func NewJournal() *Journal { return &Journal{} }

// AppendMessage persists one message under a key that sorts by message
// index, so replay order matches log order.
// Key format: convo:<id>:msg:<index padded>
func (*Journal) AppendMessage(convoID string, msg models.Message) error {
	if db == nil {
		return fmt.Errorf("pebble not opened; call store.Open first")
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	key := fmt.Sprintf("convo:%s:msg:%012d", convoID, msg.Index)
	if err := db.Set([]byte(key), data, pebble.Sync); err != nil {
		logger.Error("journal_message_failed", "convo", convoID, "key", key, "error", err)
		return err
	}
	return nil
}

// AppendReaction persists one reaction under a timestamp+sequence key
// so ledger order survives replay.
// Key format: convo:<id>:rx:<unix_nano padded>-<seq>
func (*Journal) AppendReaction(convoID string, rx models.Reaction) error {
	if db == nil {
		return fmt.Errorf("pebble not opened; call store.Open first")
	}
	data, err := json.Marshal(rx)
	if err != nil {
		return fmt.Errorf("marshal reaction: %w", err)
	}
	s := atomic.AddUint64(&seq, 1)
	key := fmt.Sprintf("convo:%s:rx:%020d-%06d", convoID, rx.TS, s)
	if err := db.Set([]byte(key), data, pebble.Sync); err != nil {
		logger.Error("journal_reaction_failed", "convo", convoID, "key", key, "error", err)
		return err
	}
	return nil
}

// CreateConversation writes the conversation marker via the journal.
func (*Journal) CreateConversation(convoID string) error {
	return SaveConversation(convoID)
}

// SaveConversation writes the conversation marker so an id is listed
// even before its first message.
func SaveConversation(id string) error {
	if db == nil {
		return fmt.Errorf("pebble not opened; call store.Open first")
	}
	key := fmt.Sprintf("convo:%s:meta", id)
	return db.Set([]byte(key), []byte(`{}`), pebble.Sync)
}

// Conversations returns the ids of all journaled conversations, sorted.
func Conversations() ([]string, error) {
	if db == nil {
		return nil, fmt.Errorf("pebble not opened; call store.Open first")
	}
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	seen := map[string]struct{}{}
	prefix := []byte("convo:")
	for iter.First(); iter.Valid(); iter.Next() {
		k := iter.Key()
		if !bytes.HasPrefix(k, prefix) {
			continue
		}
		rest := string(k[len(prefix):])
		// ids may not contain ':'; enforced at creation
		if i := strings.IndexByte(rest, ':'); i > 0 {
			seen[rest[:i]] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

// Replay returns a conversation's journaled messages and reactions in
// key order, which matches the order they were accepted by the log.
func Replay(id string) ([]models.Message, []models.Reaction, error) {
	if db == nil {
		return nil, nil, fmt.Errorf("pebble not opened; call store.Open first")
	}
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer iter.Close()

	msgPrefix := []byte("convo:" + id + ":msg:")
	rxPrefix := []byte("convo:" + id + ":rx:")
	var msgs []models.Message
	var rxs []models.Reaction
	for iter.First(); iter.Valid(); iter.Next() {
		k := iter.Key()
		switch {
		case bytes.HasPrefix(k, msgPrefix):
			var m models.Message
			if err := json.Unmarshal(iter.Value(), &m); err != nil {
				return nil, nil, fmt.Errorf("replay %s: bad message at %s: %w", id, k, err)
			}
			msgs = append(msgs, m)
		case bytes.HasPrefix(k, rxPrefix):
			var rx models.Reaction
			if err := json.Unmarshal(iter.Value(), &rx); err != nil {
				return nil, nil, fmt.Errorf("replay %s: bad reaction at %s: %w", id, k, err)
			}
			rxs = append(rxs, rx)
		}
	}
	return msgs, rxs, nil
}
