package commerce

import (
	"sync"

	"github.com/google/uuid"
)

// Sessions is the registry of per-session stores. A store lives for the
// lifetime of the process; there is no cross-session persistence.
type Sessions struct {
	mu     sync.RWMutex
	stores map[uuid.UUID]*Store
}

// NewSessions creates an empty session registry.
func NewSessions() *Sessions {
	return &Sessions{
		stores: make(map[uuid.UUID]*Store),
	}
}

// Get returns the store for the given session, creating it on first use.
func (s *Sessions) Get(sessionID uuid.UUID) *Store {
	s.mu.RLock()
	store, ok := s.stores[sessionID]
	s.mu.RUnlock()
	if ok {
		return store
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if store, ok = s.stores[sessionID]; ok {
		return store
	}
	store = NewStore()
	s.stores[sessionID] = store
	return store
}

// Len returns the number of active sessions.
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.stores)
}
