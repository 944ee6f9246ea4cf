package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperchat-ai/paperchat/internal/core/domain"
	"github.com/paperchat-ai/paperchat/internal/core/ports/driven"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewLLMService(Config{BaseURL: server.URL})
}

func quoteSchema() domain.ToolSchema {
	return domain.ToolSchema{
		Name:        "stock_quote",
		Description: "Get a stock quote",
		Params: []domain.ToolParam{
			{Name: "symbol", Type: domain.ParamString, Description: "Ticker symbol", Required: true},
		},
	}
}

func TestComplete_TextAnswer(t *testing.T) {
	var captured map[string]any

	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{"content": "Hello there."},
			"done":    true,
		})
	})

	completion, err := svc.Complete(context.Background(), []driven.ChatMessage{
		{Role: "user", Content: "hi"},
	}, nil, driven.ChatOptions{})
	require.NoError(t, err)

	assert.Equal(t, "Hello there.", completion.Content)
	assert.Nil(t, completion.ToolCall)
	assert.Equal(t, "llama3.1", captured["model"])
	assert.Equal(t, false, captured["stream"])
	assert.NotContains(t, captured, "tools")
}

func TestComplete_AdvertisesTools(t *testing.T) {
	var captured map[string]any

	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{"content": "ok"},
			"done":    true,
		})
	})

	_, err := svc.Complete(context.Background(), []driven.ChatMessage{
		{Role: "user", Content: "quote AAPL"},
	}, []domain.ToolSchema{quoteSchema()}, driven.ChatOptions{})
	require.NoError(t, err)

	tools, ok := captured["tools"].([]any)
	require.True(t, ok)
	require.Len(t, tools, 1)

	fn := tools[0].(map[string]any)["function"].(map[string]any)
	assert.Equal(t, "stock_quote", fn["name"])

	params := fn["parameters"].(map[string]any)
	assert.Equal(t, "object", params["type"])
	assert.Equal(t, []any{"symbol"}, params["required"])
}

func TestComplete_MintsToolCallID(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{
				"content": "",
				"tool_calls": []map[string]any{
					{"function": map[string]any{
						"name":      "stock_quote",
						"arguments": map[string]any{"symbol": "AAPL"},
					}},
				},
			},
			"done": true,
		})
	})

	completion, err := svc.Complete(context.Background(), []driven.ChatMessage{
		{Role: "user", Content: "quote AAPL"},
	}, []domain.ToolSchema{quoteSchema()}, driven.ChatOptions{})
	require.NoError(t, err)

	require.NotNil(t, completion.ToolCall)
	assert.NotEmpty(t, completion.ToolCall.ID)
	assert.Equal(t, "stock_quote", completion.ToolCall.Name)
	assert.Equal(t, "AAPL", completion.ToolCall.Arguments["symbol"])
}

func TestComplete_ReplaysToolExchange(t *testing.T) {
	var captured map[string]any

	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{"content": "AAPL trades at $255.46."},
			"done":    true,
		})
	})

	call := &domain.ToolCall{
		ID:        "abc-123",
		Name:      "stock_quote",
		Arguments: map[string]any{"symbol": "AAPL"},
	}
	_, err := svc.Complete(context.Background(), []driven.ChatMessage{
		{Role: "user", Content: "quote AAPL"},
		{Role: "assistant", ToolCall: call},
		{Role: "tool", Content: "AAPL is currently trading at $255.46."},
	}, []domain.ToolSchema{quoteSchema()}, driven.ChatOptions{})
	require.NoError(t, err)

	messages := captured["messages"].([]any)
	require.Len(t, messages, 3)

	assistant := messages[1].(map[string]any)
	calls := assistant["tool_calls"].([]any)
	require.Len(t, calls, 1)
	fn := calls[0].(map[string]any)["function"].(map[string]any)
	assert.Equal(t, "stock_quote", fn["name"])
	assert.Equal(t, "AAPL", fn["arguments"].(map[string]any)["symbol"])

	tool := messages[2].(map[string]any)
	assert.Equal(t, "tool", tool["role"])
}

func TestComplete_PassesOptions(t *testing.T) {
	var captured map[string]any

	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{"content": "ok"},
			"done":    true,
		})
	})

	_, err := svc.Complete(context.Background(), []driven.ChatMessage{
		{Role: "user", Content: "hi"},
	}, nil, driven.ChatOptions{MaxTokens: 256, Temperature: 0.2})
	require.NoError(t, err)

	opts := captured["options"].(map[string]any)
	assert.Equal(t, float64(256), opts["num_predict"])
	assert.InDelta(t, 0.2, opts["temperature"], 0.0001)
}

func TestComplete_ServerError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("model not found"))
	})

	_, err := svc.Complete(context.Background(), []driven.ChatMessage{
		{Role: "user", Content: "hi"},
	}, nil, driven.ChatOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestComplete_ErrorField(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"error": "model requires more memory"})
	})

	_, err := svc.Complete(context.Background(), []driven.ChatMessage{
		{Role: "user", Content: "hi"},
	}, nil, driven.ChatOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model requires more memory")
}

func TestPing(t *testing.T) {
	var path string

	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(`{"models":[]}`))
	})

	require.NoError(t, svc.Ping(context.Background()))
	assert.Equal(t, "/api/tags", path)
}
