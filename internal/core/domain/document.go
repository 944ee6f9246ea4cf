package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Document represents an ingested document. A document is identified by
// its SourceName for re-ingestion and deletion: submitting the same
// source name again replaces all previously indexed content.
type Document struct {
	// ID is the unique identifier for the document.
	// It is derived from SourceName, so re-ingestion keeps the same ID.
	ID string

	// SourceName is the caller-supplied identifier (file name, URI).
	SourceName string

	// Title is the human-readable title.
	Title string

	// Content is the full text after parsing.
	// Immutable once the document has been chunked.
	Content string

	// Metadata contains arbitrary key-value pairs supplied at ingestion.
	Metadata map[string]string

	// CreatedAt is when the document was first ingested.
	CreatedAt time.Time

	// UpdatedAt is when the document was last re-ingested.
	UpdatedAt time.Time
}

// Chunk is a bounded passage of a document, the unit of indexing and
// retrieval. Chunks of one document are contiguous and ordered by
// Sequence; adjacent chunks overlap by at most the configured overlap.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	// Derived from the document ID and Sequence, so re-chunking
	// identical content yields identical IDs.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// SourceName is denormalised from the parent document so retrieval
	// results can cite their source without a second lookup.
	SourceName string

	// Sequence is the ordinal position within the document.
	Sequence int

	// Content is the text of this chunk.
	Content string

	// CharStart and CharEnd are the rune offsets of this chunk within
	// the document content, start inclusive, end exclusive.
	CharStart int
	CharEnd   int

	// Embedding is the vector representation, populated during ingestion.
	Embedding []float32
}

// chunkNamespace is the UUID namespace for deterministic IDs.
var chunkNamespace = uuid.MustParse("8f0d7e6a-2b1c-4c3d-9e5f-6a7b8c9d0e1f")

// NewDocumentID derives a stable document ID from a source name.
func NewDocumentID(sourceName string) string {
	return uuid.NewSHA1(chunkNamespace, []byte("doc:"+sourceName)).String()
}

// NewChunkID derives a stable chunk ID from a document ID and sequence.
func NewChunkID(documentID string, sequence int) string {
	return uuid.NewSHA1(chunkNamespace, fmt.Appendf(nil, "chunk:%s:%d", documentID, sequence)).String()
}
