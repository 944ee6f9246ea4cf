package driven

import "context"

// VectorRecord is one stored entry in the vector index.
type VectorRecord struct {
	// ChunkID identifies the chunk the vector belongs to.
	ChunkID string

	// SourceName groups records for delete-by-source.
	SourceName string

	// Embedding is the chunk vector.
	Embedding []float32
}

// VectorHit is a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Similarity is the cosine similarity score (0-1).
	Similarity float64
}

// VectorFilter restricts a query to a subset of records.
// Zero value means no filtering.
type VectorFilter struct {
	// SourceNames limits hits to these sources when non-empty.
	SourceNames []string
}

// VectorIndex provides nearest-neighbour search over chunk vectors.
// Exactly one live record exists per live chunk; re-ingestion of a
// source must call DeleteBySource before Upsert so no duplicates or
// orphans remain.
type VectorIndex interface {
	// Upsert inserts or replaces records by chunk ID.
	Upsert(ctx context.Context, records []VectorRecord) error

	// Query finds the k nearest neighbours to the query vector,
	// best first, optionally restricted by filter.
	Query(ctx context.Context, query []float32, k int, filter *VectorFilter) ([]VectorHit, error)

	// DeleteBySource removes all records for a source name and
	// returns how many were removed.
	DeleteBySource(ctx context.Context, sourceName string) (int, error)

	// Count returns the number of live records.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
