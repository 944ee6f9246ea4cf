// Package cli provides the paperchat command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paperchat-ai/paperchat/internal/adapters/driven/ai"
	"github.com/paperchat-ai/paperchat/internal/adapters/driven/config/file"
	"github.com/paperchat-ai/paperchat/internal/adapters/driven/storage/sqlite"
	"github.com/paperchat-ai/paperchat/internal/adapters/driven/tools/alphavantage"
	"github.com/paperchat-ai/paperchat/internal/chunker"
	"github.com/paperchat-ai/paperchat/internal/core/domain"
	"github.com/paperchat-ai/paperchat/internal/core/ports/driven"
	"github.com/paperchat-ai/paperchat/internal/core/ports/driving"
	"github.com/paperchat-ai/paperchat/internal/core/services"
	"github.com/paperchat-ai/paperchat/internal/logger"
	"github.com/paperchat-ai/paperchat/internal/parsers"
)

// version is set by Execute.
var version = "dev"

// Flags shared across commands.
var (
	configPath string
	verbose    bool
)

// Services wired by initServices and used by the commands.
var (
	cfg           *file.Config
	store         *sqlite.Store
	chatService   driving.ChatService
	ingestService driving.IngestService
	statusService driving.StatusService
	toolRegistry  *services.ToolRegistry
)

var rootCmd = &cobra.Command{
	Use:   "paperchat",
	Short: "Chat with your documents",
	Long: `Paperchat indexes local documents and answers questions about them,
grounding every answer in retrieved context with cited sources.

Configuration lives in ~/.paperchat/config.toml. Local models via
Ollama work out of the box; hosted providers need an API key.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		if chatService != nil {
			// Already wired (tests inject their own services).
			return nil
		}
		return initServices()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if store != nil {
			store.Close() //nolint:errcheck
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.paperchat/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
}

// Execute runs the CLI with the given build version.
func Execute(v string) error {
	version = v
	return rootCmd.Execute()
}

// initServices builds the full service graph from configuration.
func initServices() error {
	var err error
	cfg, err = file.LoadConfig(configPath)
	if err != nil {
		return err
	}

	store, err = sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	embedder, err := ai.NewEmbeddingService(cfg.Embedding)
	if err != nil {
		return err
	}
	llm, err := ai.NewLLMService(cfg.LLM)
	if err != nil {
		return err
	}

	chunkOpts := []chunker.Option{}
	if cfg.Ingest.ChunkSize > 0 {
		chunkOpts = append(chunkOpts, chunker.WithChunkSize(cfg.Ingest.ChunkSize))
	}
	if cfg.Ingest.Overlap > 0 {
		chunkOpts = append(chunkOpts, chunker.WithOverlap(cfg.Ingest.Overlap))
	}
	ch, err := chunker.New(chunkOpts...)
	if err != nil {
		return fmt.Errorf("configure chunker: %w", err)
	}

	toolRegistry = services.NewToolRegistry()
	if key := cfg.Tools.AlphaVantageAPIKey; key != "" {
		client, err := alphavantage.NewClient(alphavantage.Config{APIKey: key})
		if err != nil {
			return fmt.Errorf("configure market data tools: %w", err)
		}
		for _, tool := range []driven.Tool{
			alphavantage.NewStockQuoteTool(client),
			alphavantage.NewSymbolSearchTool(client),
			alphavantage.NewCompanyOverviewTool(client),
		} {
			if err := toolRegistry.Register(tool); err != nil {
				return fmt.Errorf("register tool: %w", err)
			}
		}
	}

	prompts, err := file.NewPromptStore(cfg.PromptDir)
	if err != nil {
		return err
	}

	ingestService = services.NewIngestor(
		parsers.Default(),
		ch,
		embedder,
		store.VectorIndex(),
		store.DocumentStore(),
	)

	retriever := services.NewRetriever(embedder, store.VectorIndex(), store.DocumentStore())

	var memOpts []services.MemoryOption
	if cfg.Chat.MaxTurns > 0 {
		memOpts = append(memOpts, services.WithMaxTurns(cfg.Chat.MaxTurns))
	}
	memory := services.NewMemory(store.SessionStore(), memOpts...)

	dispatcher := services.NewDispatcher(toolRegistry, 0)
	assembler := services.NewPromptAssembler(prompts)

	var orchOpts []services.OrchestratorOption
	if cfg.Chat.MaxToolHops > 0 {
		orchOpts = append(orchOpts, services.WithMaxToolHops(cfg.Chat.MaxToolHops))
	}
	if cfg.Retrieval.TopK > 0 || cfg.Retrieval.MinScore > 0 || cfg.Retrieval.MaxPerDocument > 0 {
		orchOpts = append(orchOpts, services.WithRetrieveOptions(domainRetrieveOptions(cfg)))
	}
	if cfg.Chat.MaxTokens > 0 || cfg.Chat.Temperature > 0 {
		orchOpts = append(orchOpts, services.WithChatOptions(driven.ChatOptions{
			MaxTokens:   cfg.Chat.MaxTokens,
			Temperature: cfg.Chat.Temperature,
		}))
	}
	chatService = services.NewOrchestrator(retriever, memory, assembler, llm, dispatcher, toolRegistry, orchOpts...)

	statusService = services.NewStatusReporter(store.VectorIndex(), embedder, llm, toolRegistry)

	return nil
}

func domainRetrieveOptions(cfg *file.Config) domain.RetrieveOptions {
	return domain.RetrieveOptions{
		TopK:           cfg.Retrieval.TopK,
		MinScore:       cfg.Retrieval.MinScore,
		MaxPerDocument: cfg.Retrieval.MaxPerDocument,
	}
}
