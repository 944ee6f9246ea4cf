package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paperchat-ai/paperchat/internal/core/domain"
	"github.com/paperchat-ai/paperchat/internal/core/ports/driven"
)

// Ensure StockQuoteTool implements the interface.
var _ driven.Tool = (*StockQuoteTool)(nil)

// StockQuoteTool answers current-price questions via the remote
// GLOBAL_QUOTE tool.
type StockQuoteTool struct {
	client *Client
}

// NewStockQuoteTool creates a stock quote tool on a shared client.
func NewStockQuoteTool(client *Client) *StockQuoteTool {
	return &StockQuoteTool{client: client}
}

// Schema declares the tool's name, description and parameters.
func (t *StockQuoteTool) Schema() domain.ToolSchema {
	return domain.ToolSchema{
		Name:        "stock_quote",
		Description: "Get the current trading price, change and volume for a stock ticker symbol, e.g. AAPL or TSLA.",
		Params: []domain.ToolParam{
			{Name: "symbol", Type: domain.ParamString, Description: "Stock ticker symbol", Required: true},
		},
	}
}

// Invoke fetches a quote and renders it as a readable sentence the
// model can cite directly.
func (t *StockQuoteTool) Invoke(ctx context.Context, args map[string]any) (*domain.ToolResult, error) {
	raw, _ := args["symbol"].(string)
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	if symbol == "" {
		return &domain.ToolResult{Content: "no symbol provided", IsError: true}, nil
	}

	text, err := t.client.CallTool(ctx, "GLOBAL_QUOTE", map[string]any{"symbol": symbol})
	if err != nil {
		return nil, err
	}

	quote, ok := parseQuote(text)
	if !ok {
		// Unrecognised payload shape; pass it through untouched.
		return &domain.ToolResult{Content: fmt.Sprintf("Stock data for %s: %s", symbol, text)}, nil
	}
	return &domain.ToolResult{Content: formatQuote(symbol, quote)}, nil
}

// Ping validates the backing service is reachable.
func (t *StockQuoteTool) Ping(ctx context.Context) error {
	return t.client.Ping(ctx)
}

// quote holds the fields of a GLOBAL_QUOTE payload.
type quote struct {
	Symbol        string
	Price         float64
	Change        float64
	ChangePercent string
	Volume        int64
	TradingDay    string
	Open          float64
	High          float64
	Low           float64
	hasRange      bool
}

// parseQuote decodes the JSON or CSV form the endpoint is known to
// return.
func parseQuote(text string) (quote, bool) {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") {
		return parseQuoteJSON(trimmed)
	}
	if strings.HasPrefix(trimmed, "symbol,open,high,low,price,volume") {
		return parseQuoteCSV(trimmed)
	}
	return quote{}, false
}

func parseQuoteJSON(text string) (quote, bool) {
	var payload struct {
		GlobalQuote map[string]string `json:"Global Quote"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil || len(payload.GlobalQuote) == 0 {
		return quote{}, false
	}

	g := payload.GlobalQuote
	q := quote{
		Symbol:        g["01. symbol"],
		Price:         parseFloat(g["05. price"]),
		Change:        parseFloat(g["09. change"]),
		ChangePercent: g["10. change percent"],
		Volume:        parseInt(g["06. volume"]),
		TradingDay:    g["07. latest trading day"],
	}
	return q, q.Price > 0
}

func parseQuoteCSV(text string) (quote, bool) {
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return quote{}, false
	}
	values := strings.Split(strings.TrimSpace(lines[1]), ",")
	if len(values) < 10 {
		return quote{}, false
	}

	q := quote{
		Symbol:        values[0],
		Open:          parseFloat(values[1]),
		High:          parseFloat(values[2]),
		Low:           parseFloat(values[3]),
		Price:         parseFloat(values[4]),
		Volume:        parseInt(values[5]),
		TradingDay:    values[6],
		Change:        parseFloat(values[8]),
		ChangePercent: values[9],
		hasRange:      true,
	}
	return q, q.Price > 0
}

func formatQuote(symbol string, q quote) string {
	if q.Symbol != "" {
		symbol = q.Symbol
	}

	direction := "up"
	if q.Change < 0 {
		direction = "down"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s is currently trading at $%.2f, %s $%.2f (%s) from previous close.",
		symbol, q.Price, direction, math.Abs(q.Change), q.ChangePercent)
	if q.Volume > 0 {
		fmt.Fprintf(&b, " Trading volume: %d shares.", q.Volume)
	}
	if q.TradingDay != "" {
		fmt.Fprintf(&b, " Last updated: %s.", q.TradingDay)
	}
	if q.hasRange {
		fmt.Fprintf(&b, " Day's range: $%.2f - $%.2f. Opened at $%.2f.", q.Low, q.High, q.Open)
	}
	return b.String()
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInt(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
