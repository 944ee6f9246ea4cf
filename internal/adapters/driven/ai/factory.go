// Package ai constructs embedding and chat model adapters from provider
// configuration. It keeps provider selection out of the composition root.
package ai

import (
	"fmt"

	"github.com/paperchat-ai/paperchat/internal/adapters/driven/config/file"
	ollamaembed "github.com/paperchat-ai/paperchat/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/paperchat-ai/paperchat/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/paperchat-ai/paperchat/internal/adapters/driven/llm/ollama"
	openaillm "github.com/paperchat-ai/paperchat/internal/adapters/driven/llm/openai"
	"github.com/paperchat-ai/paperchat/internal/core/ports/driven"
)

// NewEmbeddingService creates the embedding adapter for the configured
// provider. An empty provider selects Ollama so a fresh install works
// without any configuration.
func NewEmbeddingService(cfg file.EmbeddingConfig) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case file.ProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		})

	case file.ProviderOllama, "":
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}

// NewLLMService creates the chat model adapter for the configured provider.
// An empty provider selects Ollama.
func NewLLMService(cfg file.LLMConfig) (driven.LLMService, error) {
	switch cfg.Provider {
	case file.ProviderOpenAI:
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})

	case file.ProviderOllama, "":
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
