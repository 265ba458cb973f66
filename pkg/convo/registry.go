package convo

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"convolog/pkg/logger"
)

// Registry holds the live conversation logs hosted by one server. Each
// log stays an independent unit of isolation with its own lock; the
// registry only coordinates creation and lookup.
type Registry struct {
	journal Journal

	mu     sync.RWMutex
	convos map[string]*Log
}

// NewRegistry returns an empty registry. Logs it creates forward their
// writes to j when j is non-nil.
func NewRegistry(j Journal) *Registry {
	return &Registry{journal: j, convos: make(map[string]*Log)}
}

// Create registers a new conversation. An empty id gets a generated
// UUID. Creating an id that already exists is an error.
func (r *Registry) Create(id string) (*Log, error) {
	if id == "" {
		id = uuid.NewString()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.convos[id]; ok {
		return nil, fmt.Errorf("conversation %q already exists", id)
	}
	if r.journal != nil {
		if err := r.journal.CreateConversation(id); err != nil {
			return nil, fmt.Errorf("journal conversation: %w", err)
		}
	}
	l := NewJournaledLog(id, r.journal)
	r.convos[id] = l
	logger.Info("conversation_created", "convo", id)
	return l, nil
}

// Attach registers a restored log, replacing nothing: attaching over an
// existing id is an error.
func (r *Registry) Attach(l *Log) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.convos[l.ID()]; ok {
		return fmt.Errorf("conversation %q already exists", l.ID())
	}
	r.convos[l.ID()] = l
	return nil
}

// Get looks up a conversation by id.
func (r *Registry) Get(id string) (*Log, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.convos[id]
	return l, ok
}

// IDs returns the registered conversation ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.convos))
	for id := range r.convos {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
