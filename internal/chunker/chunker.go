// Package chunker provides deterministic fixed-size text chunking.
package chunker

import (
	"fmt"

	"github.com/paperchat-ai/paperchat/internal/core/domain"
)

// DefaultChunkSize is the default number of runes per chunk.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of overlapping runes.
const DefaultOverlap = 200

// Chunker splits document content into fixed-size overlapping chunks.
// Splitting is deterministic: the same content and configuration
// always yield byte-identical chunk boundaries, which lets ingestion
// detect no-op updates.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in runes.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between adjacent chunks in runes.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker. It fails with domain.ErrInvalidConfig when
// the overlap is not smaller than the chunk size.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.overlap >= c.chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d",
			domain.ErrInvalidConfig, c.overlap, c.chunkSize)
	}

	return c, nil
}

// ChunkSize returns the configured chunk size in runes.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Overlap returns the configured overlap in runes.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Split chunks the document's content. Documents shorter than the
// chunk size produce exactly one chunk; empty content produces none.
// Chunk IDs derive from the document ID and sequence, so re-chunking
// identical content yields identical chunks.
func (c *Chunker) Split(doc *domain.Document) []domain.Chunk {
	if doc.Content == "" {
		return nil
	}

	runes := []rune(doc.Content)
	total := len(runes)
	step := c.chunkSize - c.overlap

	chunks := make([]domain.Chunk, 0, total/step+1)

	for start := 0; start < total; start += step {
		end := start + c.chunkSize
		if end > total {
			end = total
		}

		seq := len(chunks)
		chunks = append(chunks, domain.Chunk{
			ID:         domain.NewChunkID(doc.ID, seq),
			DocumentID: doc.ID,
			SourceName: doc.SourceName,
			Sequence:   seq,
			Content:    string(runes[start:end]),
			CharStart:  start,
			CharEnd:    end,
		})

		if end == total {
			break
		}
	}

	return chunks
}
