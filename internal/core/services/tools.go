package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/paperchat-ai/paperchat/internal/core/domain"
	"github.com/paperchat-ai/paperchat/internal/core/ports/driven"
	"github.com/paperchat-ai/paperchat/internal/logger"
)

// DefaultToolTimeout bounds a single tool invocation.
const DefaultToolTimeout = 15 * time.Second

// ToolRegistry holds the tools the model may call. Registration is
// explicit; there is no reflective discovery.
type ToolRegistry struct {
	mu    sync.RWMutex
	tools map[string]driven.Tool
}

// NewToolRegistry creates an empty registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: make(map[string]driven.Tool)}
}

// Register adds a tool. Registering a duplicate name is a
// configuration error.
func (r *ToolRegistry) Register(tool driven.Tool) error {
	name := tool.Schema().Name
	if name == "" {
		return fmt.Errorf("%w: tool has empty name", domain.ErrInvalidConfig)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("%w: tool %q already registered", domain.ErrInvalidConfig, name)
	}
	r.tools[name] = tool
	return nil
}

// Get returns a registered tool.
func (r *ToolRegistry) Get(name string) (driven.Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTool, name)
	}
	return tool, nil
}

// Schemas returns the schemas of all registered tools, sorted by name
// for deterministic advertisement.
func (r *ToolRegistry) Schemas() []domain.ToolSchema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schemas := make([]domain.ToolSchema, 0, len(r.tools))
	for _, tool := range r.tools {
		schemas = append(schemas, tool.Schema())
	}
	sort.Slice(schemas, func(i, j int) bool { return schemas[i].Name < schemas[j].Name })
	return schemas
}

// Names returns the registered tool names, sorted.
func (r *ToolRegistry) Names() []string {
	schemas := r.Schemas()
	names := make([]string, len(schemas))
	for i, s := range schemas {
		names[i] = s.Name
	}
	return names
}

// Dispatcher executes tool calls requested by the model. A dispatch
// never fails the session: every outcome, including validation errors
// and timeouts, becomes a tool turn the model can react to. Results
// are never fabricated - a failed invocation produces an error
// payload, nothing else.
type Dispatcher struct {
	registry *ToolRegistry
	timeout  time.Duration
	retry    RetryPolicy
}

// NewDispatcher creates a dispatcher over a registry.
func NewDispatcher(registry *ToolRegistry, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultToolTimeout
	}
	return &Dispatcher{registry: registry, timeout: timeout}
}

// Dispatch validates and executes one tool call, returning the tool
// turn to feed back to the model.
func (d *Dispatcher) Dispatch(ctx context.Context, call *domain.ToolCall) domain.Turn {
	logger.Section("Tool Dispatch")
	logger.Debug("Tool call: %s(%v)", call.Name, call.Arguments)

	tool, err := d.registry.Get(call.Name)
	if err != nil {
		// An unregistered name is treated like invalid arguments: the
		// model is told and may correct itself on the next generation.
		logger.Warn("Tool dispatch: %v", err)
		return errorTurn(call, fmt.Errorf("%w: no tool named %q is available", domain.ErrInvalidToolArguments, call.Name))
	}

	if err := tool.Schema().Validate(call.Arguments); err != nil {
		logger.Warn("Tool dispatch: %v", err)
		return errorTurn(call, err)
	}

	invokeCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var result *domain.ToolResult
	err = d.retry.Do(invokeCtx, func(ctx context.Context) error {
		var invokeErr error
		result, invokeErr = tool.Invoke(ctx, call.Arguments)
		if invokeErr != nil && !PreExecution(invokeErr) {
			// Tool side effects may already have happened; do not
			// blindly retry after an ambiguous failure.
			return Permanent(invokeErr)
		}
		return invokeErr
	})
	if err != nil {
		logger.Warn("Tool %s failed: %v", call.Name, err)
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("tool %q timed out after %s", call.Name, d.timeout)
		}
		return errorTurn(call, err)
	}

	logger.Info("Tool %s succeeded (%d bytes)", call.Name, len(result.Content))
	return domain.Turn{
		Role:     domain.RoleTool,
		Content:  result.Content,
		ToolName: call.Name,
		IsError:  result.IsError,
	}
}

// errorTurn wraps a dispatch failure as a tool turn carrying an error
// payload.
func errorTurn(call *domain.ToolCall, err error) domain.Turn {
	payload, marshalErr := json.Marshal(map[string]string{"error": err.Error()})
	if marshalErr != nil {
		payload = []byte(`{"error":"tool dispatch failed"}`)
	}
	return domain.Turn{
		Role:     domain.RoleTool,
		Content:  string(payload),
		ToolName: call.Name,
		IsError:  true,
	}
}
