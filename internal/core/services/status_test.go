package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusReporter_AllHealthy(t *testing.T) {
	registry := NewToolRegistry()
	require.NoError(t, registry.Register(&mockTool{schema: quoteToolSchema()}))
	reporter := NewStatusReporter(&mockVectorIndex{count: 42}, &mockEmbedder{}, &mockLLM{}, registry)

	status, err := reporter.Status(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 42, status.IndexSize)
	assert.True(t, status.EmbedderHealthy)
	assert.True(t, status.LLMHealthy)
	assert.Equal(t, map[string]bool{"stock_quote": true}, status.ToolHealth)
}

func TestStatusReporter_DegradedProviders(t *testing.T) {
	registry := NewToolRegistry()
	require.NoError(t, registry.Register(&mockTool{
		schema:  quoteToolSchema(),
		pingErr: errors.New("upstream down"),
	}))
	reporter := NewStatusReporter(
		&mockVectorIndex{},
		&mockEmbedder{pingErr: errors.New("no model")},
		&mockLLM{pingErr: errors.New("unauthorised")},
		registry,
	)

	status, err := reporter.Status(context.Background())

	require.NoError(t, err, "probe failures degrade the report, they do not fail it")
	assert.False(t, status.EmbedderHealthy)
	assert.False(t, status.LLMHealthy)
	assert.Equal(t, map[string]bool{"stock_quote": false}, status.ToolHealth)
}
