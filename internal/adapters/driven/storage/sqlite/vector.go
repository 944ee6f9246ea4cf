package sqlite

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/paperchat-ai/paperchat/internal/core/ports/driven"
)

// vectorIndex implements driven.VectorIndex with brute-force cosine
// similarity over the vectors table. Fine for corpora up to tens of
// thousands of chunks; the interface leaves room for an ANN-backed
// implementation without touching callers.
type vectorIndex struct {
	store *Store
}

var _ driven.VectorIndex = (*vectorIndex)(nil)

// Upsert inserts or replaces records by chunk ID.
func (v *vectorIndex) Upsert(ctx context.Context, records []driven.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := v.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO vectors (chunk_id, source_name, embedding)
		VALUES (?, ?, ?)
		ON CONFLICT(chunk_id) DO UPDATE SET
			source_name = excluded.source_name,
			embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.ChunkID, r.SourceName,
			float32SliceToBytes(r.Embedding)); err != nil {
			return fmt.Errorf("upserting vector: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Query finds the k nearest neighbours to the query vector.
func (v *vectorIndex) Query(ctx context.Context, query []float32, k int, filter *driven.VectorFilter) ([]driven.VectorHit, error) {
	sqlQuery := "SELECT chunk_id, embedding FROM vectors"
	var args []any
	if filter != nil && len(filter.SourceNames) > 0 {
		placeholders := strings.Repeat("?,", len(filter.SourceNames))
		sqlQuery += " WHERE source_name IN (" + placeholders[:len(placeholders)-1] + ")"
		for _, name := range filter.SourceNames {
			args = append(args, name)
		}
	}

	rows, err := v.store.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	var hits []driven.VectorHit //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunkID string
		var embeddingBlob []byte
		if err := rows.Scan(&chunkID, &embeddingBlob); err != nil {
			return nil, fmt.Errorf("scanning vector: %w", err)
		}
		hits = append(hits, driven.VectorHit{
			ChunkID:    chunkID,
			Similarity: cosineSimilarity(query, bytesToFloat32Slice(embeddingBlob)),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vectors: %w", err)
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
func (v *vectorIndex) DeleteBySource(ctx context.Context, sourceName string) (int, error) {
	result, err := v.store.db.ExecContext(ctx,
		"DELETE FROM vectors WHERE source_name = ?", sourceName)
	if err != nil {
		return 0, fmt.Errorf("deleting vectors: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted vectors: %w", err)
	}
	return int(removed), nil
}

// Count returns the number of live records.
func (v *vectorIndex) Count(ctx context.Context) (int, error) {
	var count int
	err := v.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM vectors").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting vectors: %w", err)
	}
	return count, nil
}

// Close is a no-op; the connection is owned by the parent Store.
func (v *vectorIndex) Close() error {
	return nil
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
