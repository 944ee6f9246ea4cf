package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDocumentID_Deterministic(t *testing.T) {
	a := NewDocumentID("a.txt")
	b := NewDocumentID("a.txt")
	c := NewDocumentID("b.txt")

	assert.Equal(t, a, b, "same source name must yield the same document ID")
	assert.NotEqual(t, a, c)
}

func TestNewChunkID_Deterministic(t *testing.T) {
	docID := NewDocumentID("a.txt")

	assert.Equal(t, NewChunkID(docID, 0), NewChunkID(docID, 0))
	assert.NotEqual(t, NewChunkID(docID, 0), NewChunkID(docID, 1))
	assert.NotEqual(t, NewChunkID(docID, 0), NewChunkID(NewDocumentID("b.txt"), 0))
}

func TestRetrievalResult_Sources(t *testing.T) {
	r := RetrievalResult{Chunks: []RetrievedChunk{
		{Chunk: Chunk{SourceName: "a.txt"}, Score: 0.9},
		{Chunk: Chunk{SourceName: "b.txt"}, Score: 0.8},
		{Chunk: Chunk{SourceName: "a.txt"}, Score: 0.7},
	}}

	assert.Equal(t, []string{"a.txt", "b.txt"}, r.Sources())
	assert.False(t, r.Empty())
	assert.True(t, RetrievalResult{}.Empty())
}

func TestSession_ApproxTokens(t *testing.T) {
	s := Session{Turns: []Turn{
		{Role: RoleUser, Content: "What are cats?"},
		{Role: RoleAssistant, Content: "Cats are mammals."},
	}}

	total := 0
	for _, turn := range s.Turns {
		total += turn.ApproxTokens()
	}
	assert.Equal(t, total, s.ApproxTokens())
	assert.Positive(t, s.ApproxTokens())
}
