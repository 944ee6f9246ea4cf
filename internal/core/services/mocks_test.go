package services

import (
	"context"
	"fmt"
	"syscall"

	"github.com/paperchat-ai/paperchat/internal/core/domain"
	"github.com/paperchat-ai/paperchat/internal/core/ports/driven"
)

// --- Mock implementations shared by the service tests ---

// mockEmbedder implements driven.EmbeddingService for testing.
type mockEmbedder struct {
	embedding []float32
	embedErr  error
	pingErr   error
	failures  int // fail this many calls before succeeding
	calls     int
	dims      int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	m.calls++
	if m.failures > 0 {
		m.failures--
		return nil, syscall.ECONNREFUSED
	}
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.embedding, nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.calls++
	if m.failures > 0 {
		m.failures--
		return nil, syscall.ECONNREFUSED
	}
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = m.embedding
	}
	return result, nil
}

func (m *mockEmbedder) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 3
}

func (m *mockEmbedder) ModelName() string { return "mock-embed" }

func (m *mockEmbedder) Ping(_ context.Context) error { return m.pingErr }

func (m *mockEmbedder) Close() error { return nil }

// mockVectorIndex implements driven.VectorIndex for testing. Query
// returns the configured hits regardless of the query vector.
type mockVectorIndex struct {
	hits      []driven.VectorHit
	queryErr  error
	upsertErr error
	deleteErr error
	upserted  []driven.VectorRecord
	deleted   []string
	count     int
}

func (m *mockVectorIndex) Upsert(_ context.Context, records []driven.VectorRecord) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = append(m.upserted, records...)
	return nil
}

func (m *mockVectorIndex) Query(_ context.Context, _ []float32, k int, _ *driven.VectorFilter) ([]driven.VectorHit, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if k > 0 && k < len(m.hits) {
		return m.hits[:k], nil
	}
	return m.hits, nil
}

func (m *mockVectorIndex) DeleteBySource(_ context.Context, sourceName string) (int, error) {
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	m.deleted = append(m.deleted, sourceName)
	return 0, nil
}

func (m *mockVectorIndex) Count(_ context.Context) (int, error) { return m.count, nil }

func (m *mockVectorIndex) Close() error { return nil }

// llmCall records one Complete invocation.
type llmCall struct {
	messages []driven.ChatMessage
	tools    []domain.ToolSchema
}

// mockLLM implements driven.LLMService, replaying scripted completions
// in order and recording every call.
type mockLLM struct {
	completions []*driven.Completion
	completeErr error
	pingErr     error
	calls       []llmCall
}

func (m *mockLLM) Complete(_ context.Context, messages []driven.ChatMessage, tools []domain.ToolSchema, _ driven.ChatOptions) (*driven.Completion, error) {
	m.calls = append(m.calls, llmCall{messages: messages, tools: tools})
	if m.completeErr != nil {
		return nil, m.completeErr
	}
	if len(m.completions) == 0 {
		return &driven.Completion{Content: "ok"}, nil
	}
	next := m.completions[0]
	m.completions = m.completions[1:]
	return next, nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }

func (m *mockLLM) Ping(_ context.Context) error { return m.pingErr }

func (m *mockLLM) Close() error { return nil }

// mockTool implements driven.Tool.
type mockTool struct {
	schema    domain.ToolSchema
	result    *domain.ToolResult
	invokeErr error
	pingErr   error
	block     bool // wait for ctx cancellation instead of returning
	calls     int
}

func (m *mockTool) Schema() domain.ToolSchema { return m.schema }

func (m *mockTool) Invoke(ctx context.Context, _ map[string]any) (*domain.ToolResult, error) {
	m.calls++
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.invokeErr != nil {
		return nil, m.invokeErr
	}
	if m.result != nil {
		return m.result, nil
	}
	return &domain.ToolResult{Content: `{"price":"189.84"}`}, nil
}

func (m *mockTool) Ping(_ context.Context) error { return m.pingErr }

// mockSessionStore implements driven.SessionStore with injectable
// failures.
type mockSessionStore struct {
	sessions map[string]*domain.Session
	getErr   error
	saveErr  error
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: make(map[string]*domain.Session)}
}

func (m *mockSessionStore) GetSession(_ context.Context, sessionID string) (*domain.Session, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *session
	copied.Turns = append([]domain.Turn(nil), session.Turns...)
	return &copied, nil
}

func (m *mockSessionStore) SaveSession(_ context.Context, session *domain.Session) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	stored := *session
	stored.Turns = append([]domain.Turn(nil), session.Turns...)
	m.sessions[session.ID] = &stored
	return nil
}

func (m *mockSessionStore) DeleteSession(_ context.Context, sessionID string) error {
	delete(m.sessions, sessionID)
	return nil
}

// quoteToolSchema builds the schema used across the tool tests.
func quoteToolSchema() domain.ToolSchema {
	return domain.ToolSchema{
		Name:        "stock_quote",
		Description: "Fetch the latest quote for a ticker symbol.",
		Params: []domain.ToolParam{
			{Name: "symbol", Type: domain.ParamString, Description: "Ticker symbol", Required: true},
		},
	}
}

// fakeVector builds a small deterministic embedding.
func fakeVector(seed float32) []float32 {
	return []float32{seed, seed + 0.1, seed + 0.2}
}

// chunkFixture creates an indexed chunk with matching docstore rows.
func chunkFixture(docID, sourceName string, seq int) domain.Chunk {
	return domain.Chunk{
		ID:         fmt.Sprintf("chunk-%s-%d", docID, seq),
		DocumentID: docID,
		SourceName: sourceName,
		Sequence:   seq,
		Content:    fmt.Sprintf("Content of %s chunk %d.", docID, seq),
	}
}
