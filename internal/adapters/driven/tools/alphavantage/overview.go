package alphavantage

import (
	"context"
	"fmt"
	"strings"

	"github.com/paperchat-ai/paperchat/internal/core/domain"
	"github.com/paperchat-ai/paperchat/internal/core/ports/driven"
)

// Ensure CompanyOverviewTool implements the interface.
var _ driven.Tool = (*CompanyOverviewTool)(nil)

// CompanyOverviewTool fetches fundamentals via the remote
// COMPANY_OVERVIEW tool.
type CompanyOverviewTool struct {
	client *Client
}

// NewCompanyOverviewTool creates a company overview tool on a shared
// client.
func NewCompanyOverviewTool(client *Client) *CompanyOverviewTool {
	return &CompanyOverviewTool{client: client}
}

// Schema declares the tool's name, description and parameters.
func (t *CompanyOverviewTool) Schema() domain.ToolSchema {
	return domain.ToolSchema{
		Name:        "company_overview",
		Description: "Get company fundamentals (sector, market cap, description) for a stock ticker symbol.",
		Params: []domain.ToolParam{
			{Name: "symbol", Type: domain.ParamString, Description: "Stock ticker symbol", Required: true},
		},
	}
}

// Invoke fetches the overview text.
func (t *CompanyOverviewTool) Invoke(ctx context.Context, args map[string]any) (*domain.ToolResult, error) {
	raw, _ := args["symbol"].(string)
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	if symbol == "" {
		return &domain.ToolResult{Content: "no symbol provided", IsError: true}, nil
	}

	text, err := t.client.CallTool(ctx, "COMPANY_OVERVIEW", map[string]any{"symbol": symbol})
	if err != nil {
		return nil, err
	}
	return &domain.ToolResult{Content: fmt.Sprintf("Company information for %s: %s", symbol, text)}, nil
}

// Ping validates the backing service is reachable.
func (t *CompanyOverviewTool) Ping(ctx context.Context) error {
	return t.client.Ping(ctx)
}
