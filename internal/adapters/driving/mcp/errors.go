// Package mcp provides an MCP (Model Context Protocol) server adapter
// so AI assistants can ask questions over the corpus and manage it.
package mcp

import "errors"

// Errors returned when required services are not provided.
var (
	ErrMissingChatService   = errors.New("mcp: chat service is required")
	ErrMissingIngestService = errors.New("mcp: ingest service is required")
)
