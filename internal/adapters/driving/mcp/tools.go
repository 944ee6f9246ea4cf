package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/paperchat-ai/paperchat/internal/core/ports/driving"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question  string `json:"question" jsonschema:"the question to answer from the indexed documents"`
	SessionID string `json:"session_id,omitempty" jsonschema:"conversation session identifier (default: default)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer        string   `json:"answer"`
	CitedSources  []string `json:"cited_sources,omitempty"`
	ToolCallsMade []string `json:"tool_calls_made,omitempty"`
}

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	SourceName string `json:"source_name" jsonschema:"unique name identifying the document"`
	Text       string `json:"text" jsonschema:"the document text to index"`
}

// IngestOutput is the output schema for the ingest tool.
type IngestOutput struct {
	ChunksIndexed int  `json:"chunks_indexed"`
	Unchanged     bool `json:"unchanged"`
}

// DeleteSourceInput is the input schema for the delete_source tool.
type DeleteSourceInput struct {
	SourceName string `json:"source_name" jsonschema:"name of the source to remove from the index"`
}

// DeleteSourceOutput is the output schema for the delete_source tool.
type DeleteSourceOutput struct {
	ChunksRemoved int `json:"chunks_removed"`
}

// ListSourcesOutput is the output schema for the list_sources tool.
type ListSourcesOutput struct {
	Sources []string `json:"sources"`
	Count   int      `json:"count"`
}

// StatusOutput is the output schema for the status tool.
type StatusOutput struct {
	IndexSize       int             `json:"index_size"`
	EmbedderHealthy bool            `json:"embedder_healthy"`
	LLMHealthy      bool            `json:"llm_healthy"`
	ToolHealth      map[string]bool `json:"tool_health,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask a question answered from the indexed documents, with cited sources",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest",
		Description: "Index a document so future questions can draw on it",
	}, s.handleIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_source",
		Description: "Remove a document and its chunks from the index",
	}, s.handleDeleteSource)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_sources",
		Description: "List the names of all indexed documents",
	}, s.handleListSources)

	if s.ports.Status != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "status",
			Description: "Report index size and the health of backing services",
		}, s.handleStatus)
	}
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Chat.Query(ctx, input.SessionID, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Answer:        answer.Text,
		CitedSources:  answer.CitedSources,
		ToolCallsMade: answer.ToolCallsMade,
	}, nil
}

// handleIngest handles the ingest tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	result, err := s.ports.Ingest.Ingest(ctx, driving.IngestRequest{
		SourceName: input.SourceName,
		Text:       input.Text,
	})
	if err != nil {
		return nil, IngestOutput{}, err
	}

	return nil, IngestOutput{
		ChunksIndexed: result.ChunksIndexed,
		Unchanged:     result.Unchanged,
	}, nil
}

// handleDeleteSource handles the delete_source tool invocation.
func (s *Server) handleDeleteSource(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteSourceInput,
) (*mcp.CallToolResult, DeleteSourceOutput, error) {
	removed, err := s.ports.Ingest.DeleteSource(ctx, input.SourceName)
	if err != nil {
		return nil, DeleteSourceOutput{}, err
	}

	return nil, DeleteSourceOutput{ChunksRemoved: removed}, nil
}

// handleListSources handles the list_sources tool invocation.
func (s *Server) handleListSources(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ListSourcesOutput, error) {
	sources, err := s.ports.Ingest.ListSources(ctx)
	if err != nil {
		return nil, ListSourcesOutput{}, err
	}

	return nil, ListSourcesOutput{Sources: sources, Count: len(sources)}, nil
}

// handleStatus handles the status tool invocation.
func (s *Server) handleStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, StatusOutput, error) {
	status, err := s.ports.Status.Status(ctx)
	if err != nil {
		return nil, StatusOutput{}, err
	}

	return nil, StatusOutput{
		IndexSize:       status.IndexSize,
		EmbedderHealthy: status.EmbedderHealthy,
		LLMHealthy:      status.LLMHealthy,
		ToolHealth:      status.ToolHealth,
	}, nil
}
