package memory

import (
	"context"
	"sync"

	"github.com/paperchat-ai/paperchat/internal/core/domain"
	"github.com/paperchat-ai/paperchat/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.Session),
	}
}

// GetSession retrieves a session by ID.
func (s *SessionStore) GetSession(_ context.Context, sessionID string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	// Copy turns so callers cannot mutate stored state.
	copied := session
	copied.Turns = make([]domain.Turn, len(session.Turns))
	copy(copied.Turns, session.Turns)
	return &copied, nil
}

// SaveSession stores or replaces a session.
func (s *SessionStore) SaveSession(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *session
	stored.Turns = make([]domain.Turn, len(session.Turns))
	copy(stored.Turns, session.Turns)
	s.sessions[session.ID] = stored
	return nil
}

// DeleteSession removes a session.
func (s *SessionStore) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
