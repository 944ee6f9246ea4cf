package cli

import (
	"context"

	"github.com/paperchat-ai/paperchat/internal/adapters/driven/config/file"
	"github.com/paperchat-ai/paperchat/internal/core/ports/driving"
)

// --- Mock implementations ---

type mockChatService struct {
	answer  *driving.Answer
	turns   []driving.Turn
	err     error
	queries []string
	cleared []string
}

func (m *mockChatService) Query(_ context.Context, _, text string) (*driving.Answer, error) {
	m.queries = append(m.queries, text)
	return m.answer, m.err
}

func (m *mockChatService) History(_ context.Context, _ string) ([]driving.Turn, error) {
	return m.turns, m.err
}

func (m *mockChatService) ClearSession(_ context.Context, sessionID string) error {
	m.cleared = append(m.cleared, sessionID)
	return m.err
}

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

type mockStatusService struct {
	status *driving.Status
	err    error
}

func (m *mockStatusService) Status(_ context.Context) (*driving.Status, error) {
	return m.status, m.err
}

// testServices is what setupTestServices wires in.
type testServices struct {
	chat   *mockChatService
	ingest *mockIngestService
	status *mockStatusService
}

// setupTestServices replaces the package services with mocks so
// commands run without real providers. The returned cleanup restores
// the previous wiring.
func setupTestServices() (*testServices, func()) {
	prevChat, prevIngest, prevStatus, prevCfg := chatService, ingestService, statusService, cfg

	svcs := &testServices{
		chat:   &mockChatService{answer: &driving.Answer{Text: "ok"}},
		ingest: &mockIngestService{result: &driving.IngestResult{ChunksIndexed: 1}},
		status: &mockStatusService{status: &driving.Status{}},
	}
	chatService = svcs.chat
	ingestService = svcs.ingest
	statusService = svcs.status
	cfg = &file.Config{}

	return svcs, func() {
		chatService, ingestService, statusService, cfg = prevChat, prevIngest, prevStatus, prevCfg
	}
}
