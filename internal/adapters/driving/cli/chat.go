package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/willa/internal/core/domain"
	"github.com/custodia-labs/willa/internal/logger"
)

const quitCommand = "quit"

var chatThreadID string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions in the terminal",
	Long: `Start a question and answer session against the indexed collection.

Each line is one question. Answers cite the records they draw on.
Type 'quit' or send end of input to leave. The whole session shares
one thread, so follow-up questions see earlier turns. Pass --thread to
continue a saved thread.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatThreadID, "thread", "t", "", "continue a saved thread")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	svc, err := chatService(cmd.Context())
	if err != nil {
		return err
	}

	threadID := chatThreadID
	if threadID == "" {
		threadID = svc.NewThread()
	}
	logger.Debug("chat thread %s", threadID)

	in := cmd.InOrStdin()
	interactive := isTerminal(in)
	if interactive {
		cmd.Println("Willa is ready to answer your question. Type `quit` to exit.")
	}

	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			cmd.Print("> ")
		}
		if !scanner.Scan() {
			break
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if strings.EqualFold(question, quitCommand) {
			return nil
		}

		if interactive {
			cmd.Println("Thinking...")
		}
		answer, err := svc.Ask(cmd.Context(), threadID, question)
		if err != nil {
			if !interactive {
				return fmt.Errorf("chat failed: %w", err)
			}
			cmd.PrintErrf("Error: %v\n", err)
			continue
		}
		printAnswer(cmd, answer)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

func printAnswer(cmd *cobra.Command, answer *domain.Answer) {
	if answer == nil {
		return
	}
	if answer.NoResult != "" {
		cmd.Println(answer.NoResult)
		return
	}
	if answer.AI != "" {
		cmd.Println(answer.AI)
	}
	if answer.Attribution != "" {
		cmd.Println()
		cmd.Println(answer.Attribution)
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

