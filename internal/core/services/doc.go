// Package services implements the core orchestration logic: retrieval,
// conversation memory, tool dispatch, prompt assembly, ingestion and
// the per-query state machine. Services depend only on the driven
// ports; all I/O goes through injected adapters.
package services
