package domain

import "fmt"

// ParamType is the JSON type of a tool parameter.
type ParamType string

// Supported parameter types.
const (
	ParamString  ParamType = "string"
	ParamNumber  ParamType = "number"
	ParamBoolean ParamType = "boolean"
)

// ToolParam describes one parameter of a tool schema.
type ToolParam struct {
	// Name is the argument key.
	Name string

	// Type is the expected JSON type.
	Type ParamType

	// Description is shown to the model when tools are advertised.
	Description string

	// Required marks parameters that must be present.
	Required bool
}

// ToolSchema declares a callable tool: its name, purpose and typed
// parameters. Schemas are fixed at registration, not discovered by
// reflection.
type ToolSchema struct {
	// Name is the unique tool name.
	Name string

	// Description tells the model when to use the tool.
	Description string

	// Params are the accepted arguments.
	Params []ToolParam
}

// Validate checks arguments against the schema. It returns an error
// wrapping ErrInvalidToolArguments on a missing required parameter,
// an unknown parameter or a type mismatch.
func (s ToolSchema) Validate(args map[string]any) error {
	known := make(map[string]ToolParam, len(s.Params))
	for _, p := range s.Params {
		known[p.Name] = p
	}

	for name := range args {
		if _, ok := known[name]; !ok {
			return fmt.Errorf("%w: unknown parameter %q for tool %q", ErrInvalidToolArguments, name, s.Name)
		}
	}

	for _, p := range s.Params {
		val, present := args[p.Name]
		if !present {
			if p.Required {
				return fmt.Errorf("%w: missing required parameter %q for tool %q", ErrInvalidToolArguments, p.Name, s.Name)
			}
			continue
		}
		if !matchesType(val, p.Type) {
			return fmt.Errorf("%w: parameter %q of tool %q must be %s", ErrInvalidToolArguments, p.Name, s.Name, p.Type)
		}
	}

	return nil
}

// matchesType checks a decoded JSON value against a parameter type.
func matchesType(val any, pt ParamType) bool {
	switch pt {
	case ParamString:
		_, ok := val.(string)
		return ok
	case ParamNumber:
		switch val.(type) {
		case float64, float32, int, int64:
			return true
		}
		return false
	case ParamBoolean:
		_, ok := val.(bool)
		return ok
	}
	return false
}

// ToolResult is the outcome of one tool invocation.
type ToolResult struct {
	// Content is the result payload, or the error description when
	// IsError is set.
	Content string

	// IsError marks failed invocations. The content then describes
	// the failure; a result is never fabricated.
	IsError bool
}
