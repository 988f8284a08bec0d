package session

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/convoagent/agent"
)

// ErrNotFound is returned when no session exists for the given id.
var ErrNotFound = errors.New("session not found")

// Factory builds the agent backing a new session.
type Factory func(sessionID string) (*agent.ConversationalAgent, error)

// Info summarises one session.
type Info struct {
	ID       string    `json:"id"`
	Messages int       `json:"messages"`
	Created  time.Time `json:"created"`
	Updated  time.Time `json:"updated"`
}

// Store is the contract the facade depends on.
type Store interface {
	Create(sessionID string) (string, error)
	WithSession(sessionID string, fn func(a *agent.ConversationalAgent) error) error
	Delete(sessionID string) bool
	List() []Info
}

type entry struct {
	mu      sync.Mutex
	agent   *agent.ConversationalAgent
	created time.Time
	updated time.Time
}

// InMemoryStore is a volatile Store keeping sessions in a process local map.
// It is safe for concurrent access.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	factory  Factory
}

// NewInMemoryStore constructs an empty in-memory session store that builds
// agents with factory.
func NewInMemoryStore(factory Factory) *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*entry), factory: factory}
}

// Create forces the creation (or overwriting) of a session. An empty id is
// replaced by a random UUID. The effective id is returned.
func (s *InMemoryStore) Create(sessionID string) (string, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	a, err := s.factory(sessionID)
	if err != nil {
		return "", err
	}

	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = &entry{agent: a, created: now, updated: now}

	return sessionID, nil
}

// WithSession runs fn with exclusive access to the session's agent.
func (s *InMemoryStore) WithSession(sessionID string, fn func(a *agent.ConversationalAgent) error) error {
	s.mu.RLock()
	e, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	defer func() { e.updated = time.Now() }()

	return fn(e.agent)
}

// Delete removes a session. It reports whether the session existed.
func (s *InMemoryStore) Delete(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	return ok
}

// List returns all sessions ordered by creation time.
func (s *InMemoryStore) List() []Info {
	s.mu.RLock()
	entries := make(map[string]*entry, len(s.sessions))
	for id, e := range s.sessions {
		entries[id] = e
	}
	s.mu.RUnlock()

	out := make([]Info, 0, len(entries))
	for id, e := range entries {
		e.mu.Lock()
		out = append(out, Info{ID: id, Messages: e.agent.Len(), Created: e.created, Updated: e.updated})
		e.mu.Unlock()
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Created.Equal(out[j].Created) {
			return out[i].ID < out[j].ID
		}
		return out[i].Created.Before(out[j].Created)
	})

	return out
}
