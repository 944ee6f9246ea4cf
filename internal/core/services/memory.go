package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/paperchat-ai/paperchat/internal/core/domain"
	"github.com/paperchat-ai/paperchat/internal/core/ports/driven"
	"github.com/paperchat-ai/paperchat/internal/logger"
)

// DefaultMaxTurns bounds a session's turn count before FIFO eviction.
const DefaultMaxTurns = 40

// DefaultMaxMemoryTokens bounds a session's approximate token cost.
const DefaultMaxMemoryTokens = 4000

// Memory is the bounded per-session conversation log. Appending past
// the configured budget evicts turns from the oldest end, whole turns
// only, and never splits a tool turn from the assistant turn that
// consumed its result.
//
// Concurrent turns for the same session are serialised through
// LockSession; distinct sessions proceed fully in parallel.
type Memory struct {
	store     driven.SessionStore
	maxTurns  int
	maxTokens int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// MemoryOption configures the memory service.
type MemoryOption func(*Memory)

// WithMaxTurns sets the turn budget per session.
func WithMaxTurns(n int) MemoryOption {
	return func(m *Memory) {
		if n > 0 {
			m.maxTurns = n
		}
	}
}

// WithMaxMemoryTokens sets the approximate token budget per session.
func WithMaxMemoryTokens(n int) MemoryOption {
	return func(m *Memory) {
		if n > 0 {
			m.maxTokens = n
		}
	}
}

// NewMemory creates the conversation memory over a session store.
func NewMemory(store driven.SessionStore, opts ...MemoryOption) *Memory {
	m := &Memory{
		store:     store,
		maxTurns:  DefaultMaxTurns,
		maxTokens: DefaultMaxMemoryTokens,
		locks:     make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// LockSession acquires the per-session mutex and returns the unlock
// function. One active turn per session at a time; callers hold the
// lock for the whole query pipeline so interleaved appends cannot
// corrupt turn ordering.
func (m *Memory) LockSession(sessionID string) func() {
	m.mu.Lock()
	lock, ok := m.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[sessionID] = lock
	}
	m.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// Append adds turns to a session, creating it on first use, then
// enforces the eviction policy and persists the surviving turns.
func (m *Memory) Append(ctx context.Context, sessionID string, turns ...domain.Turn) error {
	if len(turns) == 0 {
		return nil
	}

	session, err := m.load(ctx, sessionID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, t := range turns {
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		session.Turns = append(session.Turns, t)
	}

	evicted := m.evict(session)
	if evicted > 0 {
		logger.Debug("Memory: evicted %d turns from session %s", evicted, sessionID)
	}

	if err := m.store.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("save session %s: %w", sessionID, err)
	}
	return nil
}

// Context returns the surviving turns of a session, oldest first.
// A session that does not exist yet yields an empty context.
func (m *Memory) Context(ctx context.Context, sessionID string) ([]domain.Turn, error) {
	session, err := m.store.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}

	turns := m.dropDangling(session.Turns, sessionID)
	return turns, nil
}

// Clear discards a session's memory.
func (m *Memory) Clear(ctx context.Context, sessionID string) error {
	if err := m.store.DeleteSession(ctx, sessionID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	return nil
}

// load fetches a session or creates an empty one.
func (m *Memory) load(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := m.store.GetSession(ctx, sessionID)
	if err == nil {
		return session, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.Session{ID: sessionID, CreatedAt: time.Now().UTC()}, nil
	}
	return nil, fmt.Errorf("get session %s: %w", sessionID, err)
}

// evict removes whole exchanges from the oldest end until both
// budgets hold. Evicting at exchange granularity means a tool turn
// always goes together with the user turn that triggered it and the
// assistant turn that consumed its result; the surviving history
// never starts with an orphaned tool result.
func (m *Memory) evict(session *domain.Session) int {
	evicted := 0
	for len(session.Turns) > m.maxTurns || session.ApproxTokens() > m.maxTokens {
		n := m.evictionSpan(session.Turns)
		if n >= len(session.Turns) {
			// Never evict the newest exchange, however large.
			break
		}
		session.Turns = session.Turns[n:]
		evicted += n
	}
	return evicted
}

// evictionSpan returns the length of the oldest exchange: everything
// from the front up to and including the next assistant turn.
func (m *Memory) evictionSpan(turns []domain.Turn) int {
	n := 0
	for n < len(turns) {
		role := turns[n].Role
		n++
		if role == domain.RoleAssistant {
			break
		}
	}
	return n
}

// dropDangling filters out tool turns with no assistant turn after
// them. Such a turn means an interrupted exchange; it is logged as a
// consistency violation and discarded, and the session continues.
func (m *Memory) dropDangling(turns []domain.Turn, sessionID string) []domain.Turn {
	lastAssistant := -1
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == domain.RoleAssistant {
			lastAssistant = i
			break
		}
	}

	kept := make([]domain.Turn, 0, len(turns))
	for i, t := range turns {
		if t.Role == domain.RoleTool && i > lastAssistant {
			logger.Warn("Memory: %v: dangling tool turn (%s) in session %s discarded",
				domain.ErrConsistencyViolation, t.ToolName, sessionID)
			continue
		}
		kept = append(kept, t)
	}
	return kept
}
