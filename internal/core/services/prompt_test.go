package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperchat-ai/paperchat/internal/core/domain"
)

// stubPromptStore implements driven.PromptStore over a map.
type stubPromptStore struct {
	prompts map[string]string
}

func (s *stubPromptStore) Load(name string) (string, error) {
	prompt, ok := s.prompts[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return prompt, nil
}

func (s *stubPromptStore) Reload() {}

func retrievalFixture(scores ...float64) domain.RetrievalResult {
	result := domain.RetrievalResult{}
	for i, score := range scores {
		chunk := chunkFixture("doc-1", "guide.md", i)
		result.Chunks = append(result.Chunks, domain.RetrievedChunk{Chunk: chunk, Score: score})
	}
	return result
}

func TestPromptAssembler_Build_Shape(t *testing.T) {
	assembler := NewPromptAssembler(nil)
	history := []domain.Turn{
		{Role: domain.RoleUser, Content: "earlier question"},
		{Role: domain.RoleAssistant, Content: "earlier answer"},
	}

	messages := assembler.Build(history, retrievalFixture(0.9), "current question")

	require.Len(t, messages, 4)
	assert.Equal(t, "system", messages[0].Role)
	assert.Contains(t, messages[0].Content, "[source: guide.md]")
	assert.Equal(t, "user", messages[1].Role)
	assert.Equal(t, "earlier question", messages[1].Content)
	assert.Equal(t, "assistant", messages[2].Role)
	assert.Equal(t, "user", messages[3].Role)
	assert.Equal(t, "current question", messages[3].Content)
}

func TestPromptAssembler_Build_EmptyRetrievalUsesNoContextPrompt(t *testing.T) {
	assembler := NewPromptAssembler(nil)

	messages := assembler.Build(nil, domain.RetrievalResult{}, "anything")

	require.NotEmpty(t, messages)
	assert.Contains(t, messages[0].Content, "No relevant documents were found")
	assert.NotContains(t, messages[0].Content, "[source:")
}

func TestPromptAssembler_Build_CustomPrompts(t *testing.T) {
	store := &stubPromptStore{prompts: map[string]string{
		"system": "Custom system instructions.",
	}}
	assembler := NewPromptAssembler(store)

	messages := assembler.Build(nil, retrievalFixture(0.9), "question")

	assert.Contains(t, messages[0].Content, "Custom system instructions.")
}

func TestPromptAssembler_Build_FallsBackWhenPromptMissing(t *testing.T) {
	store := &stubPromptStore{prompts: map[string]string{}}
	assembler := NewPromptAssembler(store)

	messages := assembler.Build(nil, domain.RetrievalResult{}, "question")

	assert.Contains(t, messages[0].Content, "No relevant documents were found")
}

func TestPromptAssembler_Build_TrimsLowestScoringContextFirst(t *testing.T) {
	assembler := NewPromptAssembler(nil, WithPromptBudget(120))

	// Three chunks cannot all fit; the lowest scores go first.
	retrieval := domain.RetrievalResult{Chunks: []domain.RetrievedChunk{
		{Chunk: domain.Chunk{ID: "best", SourceName: "a.md", Content: strings.Repeat("alpha ", 20)}, Score: 0.9},
		{Chunk: domain.Chunk{ID: "mid", SourceName: "b.md", Content: strings.Repeat("beta ", 20)}, Score: 0.7},
		{Chunk: domain.Chunk{ID: "worst", SourceName: "c.md", Content: strings.Repeat("gamma ", 20)}, Score: 0.5},
	}}

	messages := assembler.Build(nil, retrieval, "question")

	system := messages[0].Content
	assert.Contains(t, system, "alpha")
	assert.NotContains(t, system, "gamma")
}

func TestPromptAssembler_Build_KeepsBestChunkHoweverTight(t *testing.T) {
	assembler := NewPromptAssembler(nil, WithPromptBudget(1))

	messages := assembler.Build(nil, retrievalFixture(0.9), "question")

	assert.Contains(t, messages[0].Content, "[source: guide.md]")
}

func TestPromptAssembler_Build_TrimsOldestHistoryFirst(t *testing.T) {
	assembler := NewPromptAssembler(nil, WithPromptBudget(220))

	big := strings.Repeat("padding ", 40)
	history := []domain.Turn{
		{Role: domain.RoleUser, Content: "old question " + big},
		{Role: domain.RoleAssistant, Content: "old answer " + big},
		{Role: domain.RoleUser, Content: "recent question"},
		{Role: domain.RoleAssistant, Content: "recent answer"},
	}

	messages := assembler.Build(history, domain.RetrievalResult{}, "current")

	var contents []string
	for _, m := range messages {
		contents = append(contents, m.Content)
	}
	joined := strings.Join(contents, "\n")
	assert.Contains(t, joined, "recent question")
	assert.NotContains(t, joined, "old question")
}

func TestPromptAssembler_Build_NeverTrimsCurrentUserTurn(t *testing.T) {
	assembler := NewPromptAssembler(nil, WithPromptBudget(1))

	messages := assembler.Build(nil, domain.RetrievalResult{}, "the question")

	last := messages[len(messages)-1]
	assert.Equal(t, "user", last.Role)
	assert.Equal(t, "the question", last.Content)
}
