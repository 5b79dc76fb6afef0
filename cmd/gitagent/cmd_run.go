package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	gittools "gitagent/internal/tools/git"
)

var assumeYes bool

// runCmd executes a single instruction without the chat interface.
var runCmd = &cobra.Command{
	Use:   "run [instruction]",
	Short: "Answer a single instruction and exit",
	Long: `Processes one natural-language instruction through the agent loop and
prints the final answer. Destructive git operations prompt for
confirmation unless --yes is given.

Example:
  gitagent run "write a commit message for my staged changes"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		instruction := strings.Join(args, " ")

		var confirm gittools.Confirmer = terminalConfirmer{}
		if assumeYes {
			confirm = gittools.AutoConfirm{}
		}

		a, client := newBackend(cfg, confirm, logger)

		ctx := cmd.Context()
		if err := client.HealthCheck(ctx); err != nil {
			return fmt.Errorf("ollama is not reachable at %s: %w", cfg.OllamaBaseURL, err)
		}

		answer, err := a.Process(ctx, instruction)
		if err != nil {
			logger.Error("instruction failed", zap.Error(err))
			return err
		}

		fmt.Println(answer)
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "approve destructive operations without prompting")
}
