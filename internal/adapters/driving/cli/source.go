package cli

import (
	"github.com/spf13/cobra"
)

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage indexed sources",
}

var sourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed sources",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		sources, err := ingestService.ListSources(cmd.Context())
		if err != nil {
			return err
		}
		if len(sources) == 0 {
			cmd.Println("No sources indexed.")
			return nil
		}
		for _, name := range sources {
			cmd.Println(name)
		}
		return nil
	},
}

var sourceDeleteCmd = &cobra.Command{
	Use:   "delete <name>...",
	Short: "Remove sources from the index",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range args {
			removed, err := ingestService.DeleteSource(cmd.Context(), name)
			if err != nil {
				return err
			}
			cmd.Printf("%s: removed %d chunks\n", name, removed)
		}
		return nil
	},
}

func init() {
	sourceCmd.AddCommand(sourceListCmd)
	sourceCmd.AddCommand(sourceDeleteCmd)
	rootCmd.AddCommand(sourceCmd)
}
