package driven

import (
	"context"

	"github.com/paperchat-ai/paperchat/internal/core/domain"
)

// Tool is an external capability the model may invoke during a turn.
// Implementations live under internal/adapters/driven/tools.
type Tool interface {
	// Schema declares the tool's name, description and parameters.
	// The dispatcher validates arguments against it before Invoke.
	Schema() domain.ToolSchema

	// Invoke executes the tool with validated arguments. The context
	// carries the dispatch timeout; implementations must honour it.
	Invoke(ctx context.Context, args map[string]any) (*domain.ToolResult, error)

	// Ping validates the tool's backing service is reachable.
	Ping(ctx context.Context) error
}
