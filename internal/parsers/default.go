package parsers

import (
	"github.com/paperchat-ai/paperchat/internal/parsers/markdown"
	"github.com/paperchat-ai/paperchat/internal/parsers/plaintext"
)

// Default returns a registry with all built-in parsers registered.
func Default() *Registry {
	registry := NewRegistry()
	registry.Register(plaintext.New())
	registry.Register(markdown.New())
	return registry
}
