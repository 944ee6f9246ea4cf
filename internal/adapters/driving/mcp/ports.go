package mcp

import (
	"github.com/paperchat-ai/paperchat/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP
// server. This provides a single injection point.
type Ports struct {
	// Chat answers questions over the indexed corpus.
	Chat driving.ChatService

	// Ingest manages the document corpus.
	Ingest driving.IngestService

	// Status reports engine health. Optional; the status tool is not
	// registered without it.
	Status driving.StatusService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Ingest == nil {
		return ErrMissingIngestService
	}
	return nil
}
