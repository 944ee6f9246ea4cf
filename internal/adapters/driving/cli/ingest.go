package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/paperchat-ai/paperchat/internal/core/ports/driving"
)

var ingestName string

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>...",
	Short: "Index documents for retrieval",
	Long: `Parses, chunks, embeds and indexes the given files. Re-ingesting a
file whose content has not changed is a no-op; changed content
replaces the previous version atomically.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestName, "name", "", "source name override (single file only)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestName != "" && len(args) > 1 {
		return fmt.Errorf("--name applies to a single file, got %d", len(args))
	}

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		name := ingestName
		if name == "" {
			name = filepath.Base(path)
		}

		result, err := ingestService.Ingest(cmd.Context(), driving.IngestRequest{
			SourceName: name,
			FileBytes:  data,
		})
		if err != nil {
			return fmt.Errorf("ingest %s: %w", name, err)
		}

		if result.Unchanged {
			cmd.Printf("%s: unchanged\n", name)
		} else {
			cmd.Printf("%s: indexed %d chunks\n", name, result.ChunksIndexed)
		}
	}
	return nil
}
