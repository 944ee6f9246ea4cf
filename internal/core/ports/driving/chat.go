package driving

import "context"

// Answer is the result of one query turn.
type Answer struct {
	// Text is the generated answer.
	Text string

	// CitedSources are the source names of the retrieved chunks that
	// grounded the answer. Empty when no context cleared the score
	// threshold; citations are never fabricated.
	CitedSources []string

	// ToolCallsMade are the names of tools invoked during the turn,
	// in invocation order.
	ToolCallsMade []string
}

// ChatService answers questions over the indexed corpus, maintaining
// per-session conversational state.
type ChatService interface {
	// Query runs one full turn: retrieve, prompt, generate, dispatch
	// any tool calls, and record the exchange in session memory.
	Query(ctx context.Context, sessionID, text string) (*Answer, error)

	// History returns the surviving turns of a session, oldest first.
	History(ctx context.Context, sessionID string) ([]Turn, error)

	// ClearSession discards a session's memory.
	ClearSession(ctx context.Context, sessionID string) error
}

// Turn is the transport-facing view of a conversation turn.
type Turn struct {
	// Role is "user", "assistant" or "tool".
	Role string

	// Content is the turn text.
	Content string

	// ToolName is set on tool turns.
	ToolName string
}
