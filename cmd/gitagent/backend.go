package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"gitagent/internal/agent"
	"gitagent/internal/config"
	gitx "gitagent/internal/git"
	"gitagent/internal/ollama"
	"gitagent/internal/tools"
	gittools "gitagent/internal/tools/git"
)

// newBackend wires the Ollama client, git toolset and agent loop from
// configuration. confirm decides how mutating tools ask for approval.
func newBackend(cfg config.Config, confirm gittools.Confirmer, logger *zap.Logger) (*agent.Agent, *ollama.Client) {
	client := ollama.New(ollama.Config{
		BaseURL:     cfg.OllamaBaseURL,
		Model:       cfg.OllamaModel,
		Temperature: cfg.Temperature,
		Timeout:     cfg.Timeout(),
	})

	runner := gitx.NewRunner(cfg.AllowedGitCommands, "")

	registry := tools.NewRegistry()
	gittools.Register(registry, gittools.Deps{
		Runner:              runner,
		LLM:                 client,
		Confirm:             confirm,
		RequireConfirmation: cfg.RequireConfirmation,
	})

	a := agent.New(client, registry, agent.Options{
		MaxIterations: cfg.MaxIterations,
		RepoCheck:     gitx.IsRepo,
		Logger:        logger,
	})
	return a, client
}

// terminalConfirmer prompts on the controlling terminal. Used by the
// one-shot run command; the chat interface asks inside the tea event
// loop instead.
type terminalConfirmer struct{}

func (terminalConfirmer) Confirm(prompt string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
