package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var chatSession string

var chatCmd = &cobra.Command{
	Use:   "chat [question]",
	Short: "Ask questions about your documents",
	Long: `Ask a question answered from the indexed documents.

With a question argument, answers once and exits. Without arguments,
starts an interactive session; type /clear to forget the conversation
and /quit to leave.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatSession, "session", "s", "default", "conversation session name")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return askOnce(cmd, args[0])
	}
	return chatLoop(cmd)
}

// askOnce answers a single question and prints citations.
func askOnce(cmd *cobra.Command, question string) error {
	answer, err := chatService.Query(cmd.Context(), chatSession, question)
	if err != nil {
		return err
	}

	cmd.Println(answer.Text)
	if len(answer.CitedSources) > 0 {
		cmd.Println()
		cmd.Printf("Sources: %s\n", strings.Join(answer.CitedSources, ", "))
	}
	if len(answer.ToolCallsMade) > 0 {
		cmd.Printf("Tools used: %s\n", strings.Join(answer.ToolCallsMade, ", "))
	}
	return nil
}

// chatLoop reads questions from stdin until EOF or /quit.
func chatLoop(cmd *cobra.Command) error {
	cmd.Printf("paperchat %s (session %q). /clear resets, /quit exits.\n", version, chatSession)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			cmd.Println()
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "/quit" || line == "/exit":
			return nil
		case line == "/clear":
			if err := chatService.ClearSession(cmd.Context(), chatSession); err != nil {
				return err
			}
			cmd.Println("Session cleared.")
			continue
		}

		answer, err := chatService.Query(cmd.Context(), chatSession, line)
		if err != nil {
			// Keep the session alive through transient failures.
			cmd.PrintErrf("error: %v\n", err)
			continue
		}

		cmd.Println(answer.Text)
		if len(answer.CitedSources) > 0 {
			cmd.Printf("  [sources: %s]\n", strings.Join(answer.CitedSources, ", "))
		}
		cmd.Println()
	}
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show a session's conversation history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		turns, err := chatService.History(cmd.Context(), chatSession)
		if err != nil {
			return err
		}
		if len(turns) == 0 {
			cmd.Println("No history.")
			return nil
		}
		for _, turn := range turns {
			label := turn.Role
			if turn.ToolName != "" {
				label = fmt.Sprintf("%s(%s)", turn.Role, turn.ToolName)
			}
			cmd.Printf("%-20s %s\n", label+":", turn.Content)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVarP(&chatSession, "session", "s", "default", "conversation session name")
	rootCmd.AddCommand(historyCmd)
}
