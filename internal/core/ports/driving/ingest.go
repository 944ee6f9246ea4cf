package driving

import "context"

// IngestRequest describes one document to ingest. Exactly one of
// Text and FileBytes is set; FileBytes goes through the parser
// registry, Text is indexed as-is.
type IngestRequest struct {
	// SourceName identifies the document for later re-ingestion and
	// deletion. Re-submitting a source name replaces its content.
	SourceName string

	// Text is pre-extracted document text.
	Text string

	// FileBytes is the raw file content to parse.
	FileBytes []byte

	// Metadata carries arbitrary key-value pairs stored with the
	// document.
	Metadata map[string]string
}

// IngestResult reports what a completed ingestion indexed.
type IngestResult struct {
	// ChunksIndexed is the number of chunks written to the index.
	ChunksIndexed int

	// Unchanged is true when re-ingestion detected identical content
	// and left the index untouched.
	Unchanged bool
}

// IngestService manages the document corpus.
type IngestService interface {
	// Ingest parses, chunks, embeds and indexes one document.
	// Idempotent per source name: identical content is a no-op,
	// different content atomically replaces the previous version.
	Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error)

	// DeleteSource removes a source's document, chunks and vectors,
	// returning the number of chunks removed.
	DeleteSource(ctx context.Context, sourceName string) (int, error)

	// ListSources returns the indexed source names.
	ListSources(ctx context.Context) ([]string, error)
}
