package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/willa/internal/core/domain"
)

var threadsCmd = &cobra.Command{
	Use:   "threads",
	Short: "List saved chat threads",
	Args:  cobra.NoArgs,
	RunE:  runThreadsList,
}

var threadsShowCmd = &cobra.Command{
	Use:   "show [thread-id]",
	Short: "Print the history of a thread",
	Args:  cobra.ExactArgs(1),
	RunE:  runThreadsShow,
}

func init() {
	threadsCmd.AddCommand(threadsShowCmd)
	rootCmd.AddCommand(threadsCmd)
}

func runThreadsList(cmd *cobra.Command, _ []string) error {
	svc, err := chatService(cmd.Context())
	if err != nil {
		return err
	}

	ids, err := svc.Threads(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list threads: %w", err)
	}
	if len(ids) == 0 {
		cmd.Println("No saved threads.")
		return nil
	}
	for _, id := range ids {
		cmd.Println(id)
	}
	return nil
}

func runThreadsShow(cmd *cobra.Command, args []string) error {
	svc, err := chatService(cmd.Context())
	if err != nil {
		return err
	}

	history, err := svc.History(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to load thread: %w", err)
	}
	if len(history) == 0 {
		cmd.Printf("Thread %s has no messages.\n", args[0])
		return nil
	}

	for _, m := range history {
		switch m.Role {
		case domain.RoleHuman:
			cmd.Printf("You: %s\n", m.Content)
		case domain.RoleAssistant:
			cmd.Printf("Willa: %s\n", m.Content)
		case domain.RoleAttribution:
			cmd.Printf("%s\n", m.Content)
		default:
			continue
		}
		cmd.Println()
	}
	return nil
}
