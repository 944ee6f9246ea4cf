package services

import (
	"context"

	"github.com/paperchat-ai/paperchat/internal/core/ports/driven"
	"github.com/paperchat-ai/paperchat/internal/core/ports/driving"
	"github.com/paperchat-ai/paperchat/internal/logger"
)

var _ driving.StatusService = (*StatusReporter)(nil)

// StatusReporter probes the wired providers and reports their health.
type StatusReporter struct {
	index    driven.VectorIndex
	embedder driven.EmbeddingService
	llm      driven.LLMService
	registry *ToolRegistry
}

// NewStatusReporter builds a reporter over the given providers.
func NewStatusReporter(
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	registry *ToolRegistry,
) *StatusReporter {
	return &StatusReporter{
		index:    index,
		embedder: embedder,
		llm:      llm,
		registry: registry,
	}
}

// Status pings every provider. Probe failures degrade the report
// instead of failing it.
func (s *StatusReporter) Status(ctx context.Context) (*driving.Status, error) {
	status := &driving.Status{
		ToolHealth: make(map[string]bool),
	}

	count, err := s.index.Count(ctx)
	if err != nil {
		logger.Warn("Status: vector index unreachable: %v", err)
	} else {
		status.IndexSize = count
	}

	if err := s.embedder.Ping(ctx); err != nil {
		logger.Warn("Status: embedder unhealthy: %v", err)
	} else {
		status.EmbedderHealthy = true
	}

	if err := s.llm.Ping(ctx); err != nil {
		logger.Warn("Status: LLM unhealthy: %v", err)
	} else {
		status.LLMHealthy = true
	}

	for _, name := range s.registry.Names() {
		tool, err := s.registry.Get(name)
		if err != nil {
			continue
		}
		if err := tool.Ping(ctx); err != nil {
			logger.Warn("Status: tool %s unhealthy: %v", name, err)
			status.ToolHealth[name] = false
			continue
		}
		status.ToolHealth[name] = true
	}

	return status, nil
}
