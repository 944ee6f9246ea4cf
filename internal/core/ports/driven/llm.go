package driven

import (
	"context"

	"github.com/paperchat-ai/paperchat/internal/core/domain"
)

// ChatMessage is a single message sent to the model.
type ChatMessage struct {
	// Role is one of "system", "user", "assistant" or "tool".
	Role string

	// Content is the message text.
	Content string

	// ToolCallID correlates a tool-role message with the assistant
	// tool call it answers.
	ToolCallID string

	// ToolCall is set on assistant messages that requested a tool,
	// so the exchange can be replayed to the provider.
	ToolCall *domain.ToolCall
}

// ChatOptions configures a completion request.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}

// Completion is the model's response to a chat request. Exactly one
// of Content and ToolCall is meaningful: a tool call means the model
// wants external data before answering.
type Completion struct {
	// Content is the generated text.
	Content string

	// ToolCall is set when the model requests a tool invocation.
	ToolCall *domain.ToolCall
}

// LLMService produces chat completions, optionally advertising tools
// the model may call.
//
// Implementations may include:
//   - OpenAI-compatible APIs (OpenAI, Groq, Azure)
//   - Ollama (local models)
type LLMService interface {
	// Complete sends the conversation to the model. When tools is
	// non-empty their schemas are advertised and the model may answer
	// with a tool call instead of content.
	Complete(ctx context.Context, messages []ChatMessage, tools []domain.ToolSchema, opts ChatOptions) (*Completion, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight
	// request. Used by the status endpoint and at startup.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
