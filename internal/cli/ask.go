package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askShowContext bool

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a single question from the command line",
	Long: `Answer one question against the local index without starting the server.

Examples:
  docqa ask "how is the cache invalidated?"
  docqa ask --show-context "what ports does the service use?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().BoolVar(&askShowContext, "show-context", false, "print the retrieved context before the answer")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return errors.New("question is empty")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ans, err := a.answers.Answer(cmd.Context(), question)
	if err != nil {
		return fmt.Errorf("failed to answer: %w", err)
	}

	if askShowContext {
		fmt.Println("--- Context ---")
		for _, c := range ans.Chunks {
			fmt.Printf("[%.3f] %s\n%s\n\n", c.Distance, c.Metadata["source"], c.Text)
		}
		fmt.Println("--- Answer ---")
	}
	fmt.Println(ans.Text)
	return nil
}
