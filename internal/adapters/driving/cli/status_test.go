package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperchat-ai/paperchat/internal/core/ports/driving"
)

func TestStatusCmd(t *testing.T) {
	svcs, cleanup := setupTestServices()
	defer cleanup()
	svcs.status.status = &driving.Status{
		IndexSize:       42,
		EmbedderHealthy: true,
		LLMHealthy:      false,
		ToolHealth:      map[string]bool{"stock_quote": true, "symbol_search": false},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"status"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "42 vectors")
	assert.Contains(t, out, "Embedder: ok")
	assert.Contains(t, out, "LLM:      unreachable")
	assert.Contains(t, out, "stock_quote")
	assert.Contains(t, out, "symbol_search")
}
