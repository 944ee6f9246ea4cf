package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/paperchat-ai/paperchat/internal/chunker"
	"github.com/paperchat-ai/paperchat/internal/core/domain"
	"github.com/paperchat-ai/paperchat/internal/core/ports/driven"
	"github.com/paperchat-ai/paperchat/internal/core/ports/driving"
	"github.com/paperchat-ai/paperchat/internal/logger"
)

// Ensure Ingestor implements the interface.
var _ driving.IngestService = (*Ingestor)(nil)

// embedBatchSize bounds how many chunks are embedded per request.
const embedBatchSize = 32

// Ingestor runs the ingestion pipeline: parse, chunk, embed, index.
// Ingestion is idempotent per source name - identical content is a
// no-op, changed content atomically replaces the previous version.
// Concurrent ingestions of the same source are serialised.
type Ingestor struct {
	parsers  driven.ParserRegistry
	chunker  *chunker.Chunker
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	docStore driven.DocumentStore
	retry    RetryPolicy

	mu      sync.Mutex
	sources map[string]*sync.Mutex
}

// NewIngestor creates the ingestion service. The parser registry is
// optional; without it only pre-extracted text can be ingested.
func NewIngestor(
	parsers driven.ParserRegistry,
	ch *chunker.Chunker,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	docStore driven.DocumentStore,
) *Ingestor {
	return &Ingestor{
		parsers:  parsers,
		chunker:  ch,
		embedder: embedder,
		index:    index,
		docStore: docStore,
		sources:  make(map[string]*sync.Mutex),
	}
}

// Ingest processes one document through the pipeline.
func (ing *Ingestor) Ingest(ctx context.Context, req driving.IngestRequest) (*driving.IngestResult, error) {
	if req.SourceName == "" {
		return nil, fmt.Errorf("%w: source name is required", domain.ErrInvalidInput)
	}
	if req.Text == "" && len(req.FileBytes) == 0 {
		return nil, fmt.Errorf("%w: no content for source %q", domain.ErrInvalidInput, req.SourceName)
	}

	unlock := ing.lockSource(req.SourceName)
	defer unlock()

	logger.Section("Ingestion")
	logger.Info("Ingesting source %q", req.SourceName)

	// 1. PARSE
	content := req.Text
	if content == "" {
		if ing.parsers == nil {
			return nil, fmt.Errorf("%w: no parser configured for file ingestion", domain.ErrInvalidConfig)
		}
		segments, err := ing.parsers.Parse(ctx, req.SourceName, req.FileBytes)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", req.SourceName, err)
		}
		content = joinSegments(segments)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: source %q contains no text", domain.ErrInvalidInput, req.SourceName)
	}

	// 2. CHUNK - deterministic, so identical content means identical
	// chunk boundaries and a detectable no-op.
	now := time.Now().UTC()
	doc := &domain.Document{
		ID:         domain.NewDocumentID(req.SourceName),
		SourceName: req.SourceName,
		Title:      req.SourceName,
		Content:    content,
		Metadata:   req.Metadata,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if existing, err := ing.docStore.GetDocumentBySource(ctx, req.SourceName); err == nil {
		if existing.Content == content {
			chunks, chunksErr := ing.docStore.GetChunks(ctx, existing.ID)
			if chunksErr == nil {
				logger.Info("Source %q unchanged, skipping re-index", req.SourceName)
				return &driving.IngestResult{ChunksIndexed: len(chunks), Unchanged: true}, nil
			}
		}
		doc.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("lookup source %q: %w", req.SourceName, err)
	}

	chunks := ing.chunker.Split(doc)
	logger.Debug("Chunked %q into %d chunks", req.SourceName, len(chunks))

	// 3. EMBED - batched, order-preserving, retried on transient
	// failures.
	if err := ing.embedChunks(ctx, chunks); err != nil {
		return nil, err
	}

	// 4. INDEX - replace protocol: delete old records, then upsert
	// the new ones. If the upsert fails after the delete, retry the
	// upsert only; re-deleting would be pointless and the source must
	// not be left with stale records.
	if err := ing.replaceVectors(ctx, req.SourceName, chunks); err != nil {
		return nil, err
	}

	// 5. PERSIST metadata after the index is consistent.
	if err := ing.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document %q: %w", req.SourceName, err)
	}
	if err := ing.docStore.SaveChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("save chunks for %q: %w", req.SourceName, err)
	}

	logger.Info("Indexed %d chunks for source %q", len(chunks), req.SourceName)
	return &driving.IngestResult{ChunksIndexed: len(chunks)}, nil
}

// DeleteSource removes a source's document, chunks and vectors.
func (ing *Ingestor) DeleteSource(ctx context.Context, sourceName string) (int, error) {
	unlock := ing.lockSource(sourceName)
	defer unlock()

	if _, err := ing.index.DeleteBySource(ctx, sourceName); err != nil {
		return 0, fmt.Errorf("delete vectors for %q: %w", sourceName, err)
	}
	removed, err := ing.docStore.DeleteBySource(ctx, sourceName)
	if err != nil {
		return 0, fmt.Errorf("delete document %q: %w", sourceName, err)
	}

	logger.Info("Removed source %q (%d chunks)", sourceName, removed)
	return removed, nil
}

// ListSources returns the indexed source names.
func (ing *Ingestor) ListSources(ctx context.Context) ([]string, error) {
	docs, err := ing.docStore.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	sources := make([]string, len(docs))
	for i, doc := range docs {
		sources[i] = doc.SourceName
	}
	return sources, nil
}

// embedChunks fills in chunk embeddings batch by batch.
func (ing *Ingestor) embedChunks(ctx context.Context, chunks []domain.Chunk) error {
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i := range batch {
			texts[i] = batch[i].Content
		}

		var vectors [][]float32
		err := ing.retry.Do(ctx, func(ctx context.Context) error {
			var embedErr error
			vectors, embedErr = ing.embedder.EmbedBatch(ctx, texts)
			return embedErr
		})
		if err != nil {
			return fmt.Errorf("%w: embed batch: %w", domain.ErrEmbeddingUnavailable, err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("%w: embedder returned %d vectors for %d texts",
				domain.ErrEmbeddingUnavailable, len(vectors), len(batch))
		}

		for i := range batch {
			batch[i].Embedding = vectors[i]
		}
	}
	return nil
}

// replaceVectors implements the logically atomic replace: the old
// records go first, then the new ones are upserted with retries. When
// the retries exhaust, the source is absent from the index and the
// caller gets ErrReindexFailed - no stale answers are preferable to
// wrong ones.
func (ing *Ingestor) replaceVectors(ctx context.Context, sourceName string, chunks []domain.Chunk) error {
	if _, err := ing.index.DeleteBySource(ctx, sourceName); err != nil {
		return fmt.Errorf("%w: delete old records for %q: %w", domain.ErrVectorIndexUnavailable, sourceName, err)
	}

	records := make([]driven.VectorRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = driven.VectorRecord{
			ChunkID:    chunk.ID,
			SourceName: sourceName,
			Embedding:  chunk.Embedding,
		}
	}

	err := ing.retry.Do(ctx, func(ctx context.Context) error {
		return ing.index.Upsert(ctx, records)
	})
	if err != nil {
		// The delete already happened; the source is now absent from
		// the index. Drop its metadata too so the corpus stays
		// consistent with what is searchable.
		if _, cleanupErr := ing.docStore.DeleteBySource(ctx, sourceName); cleanupErr != nil {
			logger.Warn("Cleanup after failed reindex of %q: %v", sourceName, cleanupErr)
		}
		return fmt.Errorf("%w: source %q: %w", domain.ErrReindexFailed, sourceName, err)
	}
	return nil
}

// lockSource serialises ingestion per source name.
func (ing *Ingestor) lockSource(sourceName string) func() {
	ing.mu.Lock()
	lock, ok := ing.sources[sourceName]
	if !ok {
		lock = &sync.Mutex{}
		ing.sources[sourceName] = lock
	}
	ing.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// joinSegments concatenates parsed segments in reading order.
func joinSegments(segments []driven.Segment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if strings.TrimSpace(s.Text) != "" {
			parts = append(parts, s.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}
