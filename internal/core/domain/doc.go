// Package domain contains the core entities of the retrieval-augmented
// generation engine: documents and their chunks, retrieval results,
// conversation sessions and tool calls. It has no dependencies on
// adapters or external services.
package domain
