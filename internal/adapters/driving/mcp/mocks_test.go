package mcp

import (
	"context"

	"github.com/paperchat-ai/paperchat/internal/core/ports/driving"
)

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	answer  *driving.Answer
	turns   []driving.Turn
	err     error
	queries []string
}

func (m *mockChatService) Query(_ context.Context, _, text string) (*driving.Answer, error) {
	m.queries = append(m.queries, text)
	return m.answer, m.err
}

func (m *mockChatService) History(_ context.Context, _ string) ([]driving.Turn, error) {
	return m.turns, m.err
}

func (m *mockChatService) ClearSession(_ context.Context, _ string) error {
	return m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	result    *driving.IngestResult
	removed   int
	sources   []string
	err       error
	requests  []driving.IngestRequest
	deletions []string
}

func (m *mockIngestService) Ingest(_ context.Context, req driving.IngestRequest) (*driving.IngestResult, error) {
	m.requests = append(m.requests, req)
	return m.result, m.err
}

func (m *mockIngestService) DeleteSource(_ context.Context, sourceName string) (int, error) {
	m.deletions = append(m.deletions, sourceName)
	return m.removed, m.err
}

func (m *mockIngestService) ListSources(_ context.Context) ([]string, error) {
	return m.sources, m.err
}

// mockStatusService is a mock implementation of driving.StatusService.
type mockStatusService struct {
	status *driving.Status
	err    error
}

func (m *mockStatusService) Status(_ context.Context) (*driving.Status, error) {
	return m.status, m.err
}
