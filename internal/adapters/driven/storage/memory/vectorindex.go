package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/paperchat-ai/paperchat/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is an in-memory implementation of driven.VectorIndex
// using brute-force cosine similarity.
type VectorIndex struct {
	mu      sync.RWMutex
	records map[string]driven.VectorRecord
}

// NewVectorIndex creates a new in-memory vector index.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{
		records: make(map[string]driven.VectorRecord),
	}
}

// Upsert inserts or replaces records by chunk ID.
func (v *VectorIndex) Upsert(_ context.Context, records []driven.VectorRecord) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, r := range records {
		stored := r
		stored.Embedding = make([]float32, len(r.Embedding))
		copy(stored.Embedding, r.Embedding)
		v.records[r.ChunkID] = stored
	}
	return nil
}

// Query finds the k nearest neighbours to the query vector.
func (v *VectorIndex) Query(_ context.Context, query []float32, k int, filter *driven.VectorFilter) ([]driven.VectorHit, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	var hits []driven.VectorHit
	for _, r := range v.records {
		if filter != nil && len(filter.SourceNames) > 0 && !containsString(filter.SourceNames, r.SourceName) {
			continue
		}
		hits = append(hits, driven.VectorHit{
			ChunkID:    r.ChunkID,
			Similarity: cosineSimilarity(query, r.Embedding),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// DeleteBySource removes all records for a source name.
func (v *VectorIndex) DeleteBySource(_ context.Context, sourceName string) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	removed := 0
	for id, r := range v.records {
		if r.SourceName == sourceName {
			delete(v.records, id)
			removed++
		}
	}
	return removed, nil
}

// Count returns the number of live records.
func (v *VectorIndex) Count(_ context.Context) (int, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.records), nil
}

// Close releases resources.
func (v *VectorIndex) Close() error {
	return nil
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// cosineSimilarity returns the cosine of the angle between two vectors,
// or 0 when either has zero magnitude or the lengths differ.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
