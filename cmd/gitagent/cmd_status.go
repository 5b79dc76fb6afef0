package main

import (
	"fmt"

	"github.com/spf13/cobra"

	gitx "gitagent/internal/git"
	"gitagent/internal/ollama"
)

// statusCmd reports the agent's environment: configuration paths, the
// Ollama connection and repository detection.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show gitagent status and connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Config directory:  %s\n", cfg.ConfigDir)
		fmt.Printf("Ollama URL:        %s\n", cfg.OllamaBaseURL)
		fmt.Printf("Model:             %s\n", cfg.OllamaModel)

		if root := gitx.Root(); root != "" {
			fmt.Printf("Git repository:    %s\n", root)
		} else {
			fmt.Println("Git repository:    not in a repository")
		}

		client := ollama.New(ollama.Config{
			BaseURL: cfg.OllamaBaseURL,
			Model:   cfg.OllamaModel,
			Timeout: cfg.Timeout(),
		})

		models, err := client.ListModels(cmd.Context())
		if err != nil {
			fmt.Printf("Ollama:            unreachable (%v)\n", err)
			return nil
		}

		fmt.Printf("Ollama:            connected, %d models available\n", len(models))
		for _, m := range models {
			fmt.Printf("  - %s\n", m.Name)
		}
		return nil
	},
}
