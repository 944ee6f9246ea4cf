package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paperchat-ai/paperchat/internal/adapters/driving/mcp"
	"github.com/paperchat-ai/paperchat/internal/adapters/driving/watcher"
	"github.com/paperchat-ai/paperchat/internal/logger"
)

var (
	servePort  int
	serveWatch string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC and can
be used with Claude Desktop and other MCP-compatible AI assistants.

Use --port to serve over HTTP instead, and --watch to keep the index
in sync with a directory on disk.

Examples:
  # Stdio mode (default, for Claude Desktop)
  paperchat serve

  # HTTP mode with a watched papers directory
  paperchat serve --port 8080 --watch ~/papers

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "paperchat": {
        "command": "/path/to/paperchat",
        "args": ["serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "HTTP port (0 = use stdio)")
	serveCmd.Flags().StringVar(&serveWatch, "watch", "", "directory to auto-ingest")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	server, err := mcp.NewServer(&mcp.Ports{
		Chat:   chatService,
		Ingest: ingestService,
		Status: statusService,
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	watchDir := serveWatch
	if watchDir == "" {
		watchDir = cfg.Serve.WatchDir
	}
	if watchDir != "" {
		w, err := watcher.New(ingestService, watchDir)
		if err != nil {
			return err
		}
		go func() {
			if err := w.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("Watcher stopped: %v", err)
			}
		}()
	}

	if servePort > 0 {
		addr := fmt.Sprintf(":%d", servePort)
		cmd.PrintErrf("MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}
	if cfg.Serve.HTTPAddr != "" {
		cmd.PrintErrf("MCP server listening on http://%s\n", cfg.Serve.HTTPAddr)
		return server.RunHTTP(ctx, cfg.Serve.HTTPAddr)
	}
	return server.Run(ctx)
}
