package alphavantage

import (
	"context"
	"fmt"
	"strings"

	"github.com/paperchat-ai/paperchat/internal/core/domain"
	"github.com/paperchat-ai/paperchat/internal/core/ports/driven"
)

// Ensure SymbolSearchTool implements the interface.
var _ driven.Tool = (*SymbolSearchTool)(nil)

// SymbolSearchTool resolves company names to ticker symbols via the
// remote SYMBOL_SEARCH tool.
type SymbolSearchTool struct {
	client *Client
}

// NewSymbolSearchTool creates a symbol search tool on a shared client.
func NewSymbolSearchTool(client *Client) *SymbolSearchTool {
	return &SymbolSearchTool{client: client}
}

// Schema declares the tool's name, description and parameters.
func (t *SymbolSearchTool) Schema() domain.ToolSchema {
	return domain.ToolSchema{
		Name:        "symbol_search",
		Description: "Find stock ticker symbols matching a company name or keywords, e.g. 'Apple' resolves to AAPL.",
		Params: []domain.ToolParam{
			{Name: "keywords", Type: domain.ParamString, Description: "Company name or search keywords", Required: true},
		},
	}
}

// Invoke searches for matching symbols.
func (t *SymbolSearchTool) Invoke(ctx context.Context, args map[string]any) (*domain.ToolResult, error) {
	raw, _ := args["keywords"].(string)
	keywords := strings.TrimSpace(raw)
	if keywords == "" {
		return &domain.ToolResult{Content: "no keywords provided", IsError: true}, nil
	}

	text, err := t.client.CallTool(ctx, "SYMBOL_SEARCH", map[string]any{"keywords": keywords})
	if err != nil {
		return nil, err
	}
	return &domain.ToolResult{Content: fmt.Sprintf("Search results for %q: %s", keywords, text)}, nil
}

// Ping validates the backing service is reachable.
func (t *SymbolSearchTool) Ping(ctx context.Context) error {
	return t.client.Ping(ctx)
}
