package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig indicates an invalid configuration value,
	// for example a chunk overlap that is not smaller than the chunk
	// size. Fatal at startup.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmbeddingUnavailable indicates the embedding service could
	// not be reached after retries. Retrieval and ingestion are
	// impossible without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM service could not be reached
	// after retries.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index could not
	// be reached after retries.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrServiceUnavailable is the caller-facing wrapper for any
	// transient provider failure that survived retries.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrInvalidToolArguments indicates a tool call whose arguments
	// failed schema validation. Recoverable within a turn: the error
	// is fed back to the model as a tool-error turn.
	ErrInvalidToolArguments = errors.New("invalid tool arguments")

	// ErrUnknownTool indicates a tool call naming an unregistered tool.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrReindexFailed indicates re-ingestion removed the old records
	// but could not index the replacements. The source is left absent
	// from the index rather than stale.
	ErrReindexFailed = errors.New("reindex failed")

	// ErrConsistencyViolation indicates a broken internal invariant,
	// for example a tool turn without its paired assistant turn. The
	// offending turn is discarded and the session continues.
	ErrConsistencyViolation = errors.New("consistency violation")

	// ErrIngestInProgress indicates a concurrent ingestion for the
	// same source name.
	ErrIngestInProgress = errors.New("ingestion in progress")
)
