package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Provider names accepted in the embedding and llm sections.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Config is the full application configuration, loaded from a TOML
// file. Zero values fall back to adapter defaults.
type Config struct {
	// DataDir is where the SQLite database lives.
	// Defaults to ~/.paperchat/data.
	DataDir string `toml:"data_dir"`

	// PromptDir holds user-editable prompt templates.
	// Defaults to ~/.paperchat/prompts.
	PromptDir string `toml:"prompt_dir"`

	Embedding EmbeddingConfig `toml:"embedding"`
	LLM       LLMConfig       `toml:"llm"`
	Tools     ToolsConfig     `toml:"tools"`
	Ingest    IngestConfig    `toml:"ingest"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Chat      ChatConfig      `toml:"chat"`
	Serve     ServeConfig     `toml:"serve"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	// Provider is "openai" or "ollama" (default: ollama).
	Provider string `toml:"provider"`

	// Model is the embedding model name.
	Model string `toml:"model"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `toml:"base_url"`

	// APIKey authenticates hosted providers. The PAPERCHAT_EMBEDDING_API_KEY
	// environment variable takes precedence.
	APIKey string `toml:"api_key"`

	// Dimensions overrides the embedding vector size.
	Dimensions int `toml:"dimensions"`
}

// LLMConfig selects and configures the chat model provider.
type LLMConfig struct {
	// Provider is "openai" or "ollama" (default: ollama). Groq and
	// other compatible APIs use "openai" with a custom base_url.
	Provider string `toml:"provider"`

	// Model is the chat model name.
	Model string `toml:"model"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `toml:"base_url"`

	// APIKey authenticates hosted providers. The PAPERCHAT_LLM_API_KEY
	// environment variable takes precedence.
	APIKey string `toml:"api_key"`
}

// ToolsConfig configures external tools available to the model.
type ToolsConfig struct {
	// AlphaVantageAPIKey enables the market data tools when set. The
	// ALPHA_VANTAGE_API_KEY environment variable takes precedence.
	AlphaVantageAPIKey string `toml:"alpha_vantage_api_key"`
}

// IngestConfig tunes document chunking.
type IngestConfig struct {
	// ChunkSize is the chunk length in runes (default: 1000).
	ChunkSize int `toml:"chunk_size"`

	// Overlap is the overlap between adjacent chunks in runes
	// (default: 200).
	Overlap int `toml:"overlap"`
}

// RetrievalConfig tunes similarity search.
type RetrievalConfig struct {
	// TopK is the maximum number of chunks to retrieve.
	TopK int `toml:"top_k"`

	// MinScore filters out chunks below this cosine similarity (0-1).
	MinScore float64 `toml:"min_score"`

	// MaxPerDocument limits chunks taken from one document.
	MaxPerDocument int `toml:"max_per_document"`
}

// ChatConfig tunes conversation behaviour.
type ChatConfig struct {
	// MaxTurns bounds session history length.
	MaxTurns int `toml:"max_turns"`

	// MaxTokens caps tokens generated per completion.
	MaxTokens int `toml:"max_tokens"`

	// Temperature controls sampling randomness.
	Temperature float64 `toml:"temperature"`

	// MaxToolHops bounds tool round trips per query.
	MaxToolHops int `toml:"max_tool_hops"`
}

// ServeConfig configures the MCP server.
type ServeConfig struct {
	// HTTPAddr enables streamable HTTP transport when set,
	// e.g. "localhost:8080". Empty means stdio only.
	HTTPAddr string `toml:"http_addr"`

	// WatchDir auto-ingests files dropped into this directory.
	WatchDir string `toml:"watch_dir"`
}

// DefaultConfigPath returns ~/.paperchat/config.toml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".paperchat", "config.toml"), nil
}

// LoadConfig reads a TOML config file. A missing file is not an
// error; the zero config is returned and adapter defaults apply.
// Environment variables override file values for secrets.
func LoadConfig(path string) (*Config, error) {
	var err error
	if path == "" {
		path, err = DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// No file; environment overrides still apply below.
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides lets secrets come from the environment instead of
// the config file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PAPERCHAT_EMBEDDING_API_KEY"); v != "" {
		cfg.Embedding.APIKey = v
	}
	if v := os.Getenv("PAPERCHAT_LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("ALPHA_VANTAGE_API_KEY"); v != "" {
		cfg.Tools.AlphaVantageAPIKey = v
	}
}

// Save writes the configuration as TOML, creating parent directories
// as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
