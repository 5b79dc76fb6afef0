package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"gitagent/cmd/gitagent/ui"
)

// configCmd renders the effective configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		styles := ui.DefaultStyles()

		rows := [][2]string{
			{"Ollama URL", cfg.OllamaBaseURL},
			{"Model", cfg.OllamaModel},
			{"Timeout", cfg.OllamaTimeout},
			{"Temperature", fmt.Sprintf("%g", cfg.Temperature)},
			{"Max iterations", fmt.Sprintf("%d", cfg.MaxIterations)},
			{"Log level", cfg.LogLevel},
			{"Config dir", cfg.ConfigDir},
			{"Theme", cfg.Theme},
			{"Require confirmation", fmt.Sprintf("%t", cfg.RequireConfirmation)},
			{"Allowed git commands", strings.Join(cfg.AllowedGitCommands, ", ")},
		}

		key := lipgloss.NewStyle().Foreground(styles.Theme.Primary).Width(22)
		val := lipgloss.NewStyle().Foreground(styles.Theme.Foreground)

		var b strings.Builder
		b.WriteString(styles.Title.Render("gitagent configuration") + "\n\n")
		for _, row := range rows {
			b.WriteString(key.Render(row[0]) + " " + val.Render(row[1]) + "\n")
		}

		fmt.Print(styles.Border.Padding(0, 1).Render(b.String()) + "\n")
		return nil
	},
}
