package driven

import (
	"context"

	"github.com/paperchat-ai/paperchat/internal/core/domain"
)

// SessionStore persists conversation sessions so history survives
// process restarts. The memory service owns eviction; the store only
// records the surviving turns.
type SessionStore interface {
	// GetSession retrieves a session by ID.
	// Returns domain.ErrNotFound if the session does not exist.
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)

	// SaveSession stores or replaces a session and its turns.
	SaveSession(ctx context.Context, session *domain.Session) error

	// DeleteSession removes a session.
	DeleteSession(ctx context.Context, sessionID string) error
}
