package driving

import "context"

// Status reports the health of the engine and its collaborators.
type Status struct {
	// IndexSize is the number of vectors in the index.
	IndexSize int

	// EmbedderHealthy reports whether the embedding service answered
	// a ping.
	EmbedderHealthy bool

	// LLMHealthy reports whether the LLM service answered a ping.
	LLMHealthy bool

	// ToolHealth maps each registered tool name to its ping result.
	ToolHealth map[string]bool
}

// StatusService exposes engine health to callers.
type StatusService interface {
	// Status pings all collaborators and reports the result.
	Status(ctx context.Context) (*Status, error)
}
