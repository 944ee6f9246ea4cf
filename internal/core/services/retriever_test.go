package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperchat-ai/paperchat/internal/adapters/driven/storage/memory"
	"github.com/paperchat-ai/paperchat/internal/core/domain"
	"github.com/paperchat-ai/paperchat/internal/core/ports/driven"
)

// setupRetrieverStore seeds a docstore with three documents of two
// chunks each.
func setupRetrieverStore(t *testing.T) *memory.DocumentStore {
	t.Helper()
	store := memory.NewDocumentStore()
	ctx := context.Background()

	for _, docID := range []string{"doc-1", "doc-2", "doc-3"} {
		doc := &domain.Document{ID: docID, SourceName: docID + ".md", Title: docID}
		require.NoError(t, store.SaveDocument(ctx, doc))
		chunks := []domain.Chunk{
			chunkFixture(docID, doc.SourceName, 0),
			chunkFixture(docID, doc.SourceName, 1),
		}
		require.NoError(t, store.SaveChunks(ctx, chunks))
	}
	return store
}

func TestRetriever_Retrieve_RanksAndHydrates(t *testing.T) {
	store := setupRetrieverStore(t)
	index := &mockVectorIndex{hits: []driven.VectorHit{
		{ChunkID: "chunk-doc-1-0", Similarity: 0.92},
		{ChunkID: "chunk-doc-2-0", Similarity: 0.81},
		{ChunkID: "chunk-doc-3-0", Similarity: 0.64},
	}}
	retriever := NewRetriever(&mockEmbedder{embedding: fakeVector(0.1)}, index, store)

	result, err := retriever.Retrieve(context.Background(), "what are cats", domain.RetrieveOptions{})

	require.NoError(t, err)
	require.Len(t, result.Chunks, 3)
	assert.Equal(t, "chunk-doc-1-0", result.Chunks[0].Chunk.ID)
	assert.InDelta(t, 0.92, result.Chunks[0].Score, 0.001)
	assert.Equal(t, []string{"doc-1.md", "doc-2.md", "doc-3.md"}, result.Sources())
	for i := 1; i < len(result.Chunks); i++ {
		assert.GreaterOrEqual(t, result.Chunks[i-1].Score, result.Chunks[i].Score)
	}
}

func TestRetriever_Retrieve_FiltersBelowMinScore(t *testing.T) {
	store := setupRetrieverStore(t)
	index := &mockVectorIndex{hits: []driven.VectorHit{
		{ChunkID: "chunk-doc-1-0", Similarity: 0.90},
		{ChunkID: "chunk-doc-2-0", Similarity: 0.20},
	}}
	retriever := NewRetriever(&mockEmbedder{embedding: fakeVector(0.1)}, index, store)

	result, err := retriever.Retrieve(context.Background(), "query", domain.RetrieveOptions{MinScore: 0.5})

	require.NoError(t, err)
	require.Len(t, result.Chunks, 1)
	assert.Equal(t, "chunk-doc-1-0", result.Chunks[0].Chunk.ID)
}

func TestRetriever_Retrieve_EmptyWhenNothingQualifies(t *testing.T) {
	store := setupRetrieverStore(t)
	index := &mockVectorIndex{hits: []driven.VectorHit{
		{ChunkID: "chunk-doc-1-0", Similarity: 0.10},
	}}
	retriever := NewRetriever(&mockEmbedder{embedding: fakeVector(0.1)}, index, store)

	result, err := retriever.Retrieve(context.Background(), "unrelated", domain.RetrieveOptions{})

	require.NoError(t, err)
	assert.True(t, result.Empty())
	assert.Empty(t, result.Sources())
}

func TestRetriever_Retrieve_DiversifiesAcrossDocuments(t *testing.T) {
	store := setupRetrieverStore(t)
	// doc-1 dominates the raw hits; diversity should prefer one chunk
	// per document before filling with doc-1's extras.
	index := &mockVectorIndex{hits: []driven.VectorHit{
		{ChunkID: "chunk-doc-1-0", Similarity: 0.95},
		{ChunkID: "chunk-doc-1-1", Similarity: 0.94},
		{ChunkID: "chunk-doc-2-0", Similarity: 0.80},
		{ChunkID: "chunk-doc-3-0", Similarity: 0.70},
	}}
	retriever := NewRetriever(&mockEmbedder{embedding: fakeVector(0.1)}, index, store)

	result, err := retriever.Retrieve(context.Background(), "query", domain.RetrieveOptions{TopK: 3})

	require.NoError(t, err)
	require.Len(t, result.Chunks, 3)
	docs := map[string]int{}
	for _, rc := range result.Chunks {
		docs[rc.Chunk.DocumentID]++
	}
	assert.Len(t, docs, 3, "expected one chunk from each document")
}

func TestRetriever_Retrieve_RelaxesDiversityToFillTopK(t *testing.T) {
	store := setupRetrieverStore(t)
	// Only one document matches; TopK must still fill from it.
	index := &mockVectorIndex{hits: []driven.VectorHit{
		{ChunkID: "chunk-doc-1-0", Similarity: 0.95},
		{ChunkID: "chunk-doc-1-1", Similarity: 0.90},
	}}
	retriever := NewRetriever(&mockEmbedder{embedding: fakeVector(0.1)}, index, store)

	result, err := retriever.Retrieve(context.Background(), "query", domain.RetrieveOptions{TopK: 2})

	require.NoError(t, err)
	require.Len(t, result.Chunks, 2)
	assert.Equal(t, "chunk-doc-1-0", result.Chunks[0].Chunk.ID)
	assert.Equal(t, "chunk-doc-1-1", result.Chunks[1].Chunk.ID)
}

func TestRetriever_Retrieve_SkipsStaleHits(t *testing.T) {
	store := setupRetrieverStore(t)
	index := &mockVectorIndex{hits: []driven.VectorHit{
		{ChunkID: "chunk-gone-0", Similarity: 0.95},
		{ChunkID: "chunk-doc-2-0", Similarity: 0.80},
	}}
	retriever := NewRetriever(&mockEmbedder{embedding: fakeVector(0.1)}, index, store)

	result, err := retriever.Retrieve(context.Background(), "query", domain.RetrieveOptions{})

	require.NoError(t, err)
	require.Len(t, result.Chunks, 1)
	assert.Equal(t, "chunk-doc-2-0", result.Chunks[0].Chunk.ID)
}

func TestRetriever_Retrieve_EmbedderRetriedThenSucceeds(t *testing.T) {
	store := setupRetrieverStore(t)
	index := &mockVectorIndex{hits: []driven.VectorHit{
		{ChunkID: "chunk-doc-1-0", Similarity: 0.90},
	}}
	embedder := &mockEmbedder{embedding: fakeVector(0.1), failures: 1}
	retriever := NewRetriever(embedder, index, store)
	retriever.retry = RetryPolicy{Attempts: 3, BaseDelay: 1}

	result, err := retriever.Retrieve(context.Background(), "query", domain.RetrieveOptions{})

	require.NoError(t, err)
	assert.Len(t, result.Chunks, 1)
	assert.Equal(t, 2, embedder.calls)
}

func TestRetriever_Retrieve_EmbedderDown(t *testing.T) {
	store := setupRetrieverStore(t)
	embedder := &mockEmbedder{embedErr: errors.New("model not loaded")}
	retriever := NewRetriever(embedder, &mockVectorIndex{}, store)
	retriever.retry = RetryPolicy{Attempts: 2, BaseDelay: 1}

	_, err := retriever.Retrieve(context.Background(), "query", domain.RetrieveOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestRetriever_Retrieve_IndexDown(t *testing.T) {
	store := setupRetrieverStore(t)
	index := &mockVectorIndex{queryErr: errors.New("index closed")}
	retriever := NewRetriever(&mockEmbedder{embedding: fakeVector(0.1)}, index, store)
	retriever.retry = RetryPolicy{Attempts: 2, BaseDelay: 1}

	_, err := retriever.Retrieve(context.Background(), "query", domain.RetrieveOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)
}
