package driven

import (
	"context"

	"github.com/paperchat-ai/paperchat/internal/core/domain"
)

// DocumentStore persists documents and chunks.
// Backed by SQLite; an in-memory implementation exists for tests.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks stores chunks for a document, replacing any previous
	// chunks with the same IDs.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetDocumentBySource retrieves a document by source name.
	GetDocumentBySource(ctx context.Context, sourceName string) (*domain.Document, error)

	// GetChunk retrieves a specific chunk by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// GetChunks retrieves all chunks for a document ordered by sequence.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// DeleteBySource removes the document for a source name together
	// with its chunks and returns how many chunks were removed.
	DeleteBySource(ctx context.Context, sourceName string) (int, error)

	// ListDocuments returns all documents.
	ListDocuments(ctx context.Context) ([]domain.Document, error)
}
