package domain

import "time"

// Role identifies the author of a conversation turn.
type Role string

// Conversation roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a request by the model to invoke a registered tool.
type ToolCall struct {
	// ID is the provider-assigned call identifier, echoed back with
	// the result so the model can correlate them.
	ID string

	// Name is the registered tool name.
	Name string

	// Arguments are the call arguments, validated against the tool
	// schema before dispatch.
	Arguments map[string]any
}

// Turn is a single entry in a conversation session.
type Turn struct {
	// Role is who produced this turn.
	Role Role

	// Content is the message text. For tool turns this is the result
	// payload or error description.
	Content string

	// ToolCall is set on assistant turns that requested a tool.
	ToolCall *ToolCall

	// ToolName is set on tool turns: the tool that produced Content.
	ToolName string

	// IsError marks tool turns that carry an error payload instead
	// of a result. The model sees the error and may retry or explain.
	IsError bool

	// CreatedAt is when the turn was appended.
	CreatedAt time.Time
}

// ApproxTokens estimates the token cost of the turn. A precise
// tokenizer is model-specific; four characters per token is close
// enough for budget enforcement.
func (t Turn) ApproxTokens() int {
	return len(t.Content)/4 + 4
}

// Session is a bounded, append-only conversation log.
type Session struct {
	// ID is the caller-supplied session identifier.
	ID string

	// Turns are the conversation turns, oldest first.
	Turns []Turn

	// CreatedAt is when the first turn arrived.
	CreatedAt time.Time
}

// ApproxTokens estimates the total token cost of the session.
func (s Session) ApproxTokens() int {
	total := 0
	for _, t := range s.Turns {
		total += t.ApproxTokens()
	}
	return total
}
