package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/paperchat-ai/paperchat/internal/core/domain"
	"github.com/paperchat-ai/paperchat/internal/core/ports/driven"
	"github.com/paperchat-ai/paperchat/internal/logger"
)

// DefaultTopK is the default number of chunks retrieved per query.
const DefaultTopK = 5

// DefaultMinScore is the default similarity threshold.
const DefaultMinScore = 0.35

// queryOversample asks the index for more hits than requested so the
// per-document diversity pass has candidates to choose from.
const queryOversample = 4

// Retriever answers similarity queries over the indexed corpus.
type Retriever struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	docStore driven.DocumentStore
	retry    RetryPolicy
}

// NewRetriever creates a retriever over the given collaborators.
func NewRetriever(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	docStore driven.DocumentStore,
) *Retriever {
	return &Retriever{
		embedder: embedder,
		index:    index,
		docStore: docStore,
	}
}

// Retrieve embeds the query, searches the vector index and returns the
// best chunks above opts.MinScore, best first, deduplicated by
// document. An empty result is returned (not an error) when nothing
// clears the threshold.
func (r *Retriever) Retrieve(
	ctx context.Context, query string, opts domain.RetrieveOptions,
) (domain.RetrievalResult, error) {
	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	minScore := opts.MinScore
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	perDoc := opts.MaxPerDocument
	if perDoc <= 0 {
		perDoc = 1
	}

	logger.Debug("Retrieve: query=%q topK=%d minScore=%.2f", query, topK, minScore)

	// Embed the query, retrying transient failures.
	var embedding []float32
	err := r.retry.Do(ctx, func(ctx context.Context) error {
		var embedErr error
		embedding, embedErr = r.embedder.Embed(ctx, query)
		return embedErr
	})
	if err != nil {
		return domain.RetrievalResult{}, fmt.Errorf("%w: embed query: %w", domain.ErrEmbeddingUnavailable, err)
	}
	logger.Debug("Retrieve: query embedding has %d dimensions", len(embedding))

	var hits []driven.VectorHit
	err = r.retry.Do(ctx, func(ctx context.Context) error {
		var queryErr error
		hits, queryErr = r.index.Query(ctx, embedding, topK*queryOversample, nil)
		return queryErr
	})
	if err != nil {
		return domain.RetrievalResult{}, fmt.Errorf("%w: vector query: %w", domain.ErrVectorIndexUnavailable, err)
	}
	logger.Debug("Retrieve: %d raw hits", len(hits))

	// Hydrate hits above the threshold into scored chunks.
	candidates := make([]domain.RetrievedChunk, 0, len(hits))
	for _, hit := range hits {
		if hit.Similarity < minScore {
			continue
		}
		chunk, err := r.docStore.GetChunk(ctx, hit.ChunkID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Chunk was deleted between query and hydration.
				continue
			}
			return domain.RetrievalResult{}, fmt.Errorf("get chunk %s: %w", hit.ChunkID, err)
		}
		candidates = append(candidates, domain.RetrievedChunk{Chunk: *chunk, Score: hit.Similarity})
	}

	result := domain.RetrievalResult{Chunks: diversify(candidates, topK, perDoc)}
	logger.Info("Retrieve: %d results from %d sources", len(result.Chunks), len(result.Sources()))
	return result, nil
}

// diversify keeps the best chunks per document up to perDoc each until
// topK is reached, then relaxes the constraint and fills with the
// next-best remaining candidates. Candidates must already be sorted by
// score descending (the index returns them that way).
func diversify(candidates []domain.RetrievedChunk, topK, perDoc int) []domain.RetrievedChunk {
	if len(candidates) == 0 {
		return nil
	}

	picked := make([]domain.RetrievedChunk, 0, topK)
	perDocCount := make(map[string]int)
	used := make(map[string]bool)

	for _, c := range candidates {
		if len(picked) >= topK {
			break
		}
		if perDocCount[c.Chunk.DocumentID] >= perDoc {
			continue
		}
		picked = append(picked, c)
		perDocCount[c.Chunk.DocumentID]++
		used[c.Chunk.ID] = true
	}

	// Under topK with diversity exhausted: relax and fill in score order.
	for _, c := range candidates {
		if len(picked) >= topK {
			break
		}
		if used[c.Chunk.ID] {
			continue
		}
		picked = append(picked, c)
		used[c.Chunk.ID] = true
	}

	// Filling may have appended out of order; restore descending scores.
	sort.SliceStable(picked, func(i, j int) bool {
		return picked[i].Score > picked[j].Score
	})
	return picked
}
