// Package alphavantage provides market data tools backed by the Alpha
// Vantage hosted MCP server, spoken over JSON-RPC 2.0.
package alphavantage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"
)

// Default configuration values.
const (
	DefaultEndpoint = "https://mcp.alphavantage.co/mcp"
	DefaultTimeout  = 30 * time.Second
)

// Config holds configuration for the Alpha Vantage MCP client.
type Config struct {
	// APIKey is the Alpha Vantage API key (required).
	APIKey string

	// Endpoint is the MCP server URL without the apikey query
	// parameter (default: https://mcp.alphavantage.co/mcp).
	Endpoint string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Client speaks JSON-RPC 2.0 to the hosted MCP server. One client is
// shared by all tools built on it.
type Client struct {
	client *http.Client
	url    string
	nextID atomic.Int64
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// callParams is the tools/call parameter shape.
type callParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// callResult is the tools/call result shape: a list of content blocks.
type callResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	IsError bool `json:"isError"`
}

// NewClient creates a client for the hosted MCP server.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("alphavantage: API key is required")
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		url: cfg.Endpoint + "?apikey=" + cfg.APIKey,
	}, nil
}

// call performs one JSON-RPC request and returns the raw result.
func (c *Client) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	payload := rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("alphavantage error (status %d): failed to read response", resp.StatusCode)
		}
		return nil, fmt.Errorf("alphavantage error (status %d): %s", resp.StatusCode, string(body))
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("alphavantage rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}
	return rpcResp.Result, nil
}

// CallTool invokes a remote tool and returns the text of its first
// content block.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	raw, err := c.call(ctx, "tools/call", callParams{Name: name, Arguments: args})
	if err != nil {
		return "", err
	}

	var result callResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("decode tool result: %w", err)
	}
	if len(result.Content) == 0 {
		return "", fmt.Errorf("alphavantage: tool %s returned no content", name)
	}
	text := result.Content[0].Text
	if result.IsError {
		return "", fmt.Errorf("alphavantage: tool %s failed: %s", name, text)
	}
	return text, nil
}

// Ping validates the server is reachable by listing its tools.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.call(ctx, "tools/list", map[string]any{}); err != nil {
		return fmt.Errorf("alphavantage: ping failed: %w", err)
	}
	return nil
}
