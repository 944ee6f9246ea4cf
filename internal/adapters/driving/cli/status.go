package cli

import (
	"sort"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report engine health",
	Long: `Pings the embedding service, the language model and every
registered tool, and reports the size of the vector index.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	status, err := statusService.Status(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("Index:    %d vectors\n", status.IndexSize)
	cmd.Printf("Embedder: %s\n", healthLabel(status.EmbedderHealthy))
	cmd.Printf("LLM:      %s\n", healthLabel(status.LLMHealthy))

	if len(status.ToolHealth) > 0 {
		names := make([]string, 0, len(status.ToolHealth))
		for name := range status.ToolHealth {
			names = append(names, name)
		}
		sort.Strings(names)

		cmd.Println("Tools:")
		for _, name := range names {
			cmd.Printf("  %-20s %s\n", name, healthLabel(status.ToolHealth[name]))
		}
	}
	return nil
}

func healthLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "unreachable"
}
