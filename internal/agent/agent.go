// Package agent implements the ReAct loop that drives gitagent: the model
// proposes tool invocations, observations are fed back, and the loop ends
// on a final answer or the iteration cap.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"gitagent/internal/tools"
)

// Loop errors.
var (
	// ErrNotInitialized is returned when the agent is missing its LLM
	// or tool registry.
	ErrNotInitialized = errors.New("agent not initialized")

	// ErrMaxIterations is returned when the loop hits the iteration cap
	// without producing a final answer.
	ErrMaxIterations = errors.New("agent exceeded max iterations")
)

// LLM is the completion surface the loop drives.
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Options tune the loop.
type Options struct {
	// MaxIterations caps tool invocations per request. Zero means 10.
	MaxIterations int

	// RepoCheck reports whether the working directory is a git
	// repository. Nil skips the guard. Requests mentioning git concepts
	// outside a repository are answered without touching the model.
	RepoCheck func() bool

	Logger *zap.Logger
}

// Agent runs the ReAct loop over a tool registry.
type Agent struct {
	llm      LLM
	registry *tools.Registry
	opts     Options
	logger   *zap.Logger
}

// New creates an Agent. Both llm and registry are required.
func New(llm LLM, registry *tools.Registry, opts Options) *Agent {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = 10
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{
		llm:      llm,
		registry: registry,
		opts:     opts,
		logger:   logger,
	}
}

var gitKeywords = []string{"git", "commit", "push", "pull", "branch", "status", "diff", "stash"}

// mentionsGit reports whether the request is about git at all.
func mentionsGit(input string) bool {
	lower := strings.ToLower(input)
	for _, kw := range gitKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Process answers one user request, running tools as the model directs.
func (a *Agent) Process(ctx context.Context, input string) (string, error) {
	if a.llm == nil || a.registry == nil {
		return "", ErrNotInitialized
	}

	if a.opts.RepoCheck != nil && !a.opts.RepoCheck() && mentionsGit(input) {
		return "You're not in a Git repository. Please navigate to a Git repository first.", nil
	}

	var scratchpad strings.Builder

	for i := 0; i < a.opts.MaxIterations; i++ {
		prompt := buildPrompt(a.registry, input, scratchpad.String())

		raw, err := a.llm.Generate(ctx, prompt)
		if err != nil {
			return "", fmt.Errorf("llm call failed: %w", err)
		}

		s, ok := parseStep(raw)
		if !ok {
			// Malformed step: nudge the model back on format instead of
			// aborting the whole request.
			a.logger.Debug("unparseable agent step", zap.Int("iteration", i), zap.String("raw", raw))
			scratchpad.WriteString("\nObservation: Invalid response format. Use 'Action: <tool>' with 'Action Input: <input>', or 'Final Answer: <answer>'.\nThought: ")
			continue
		}

		if s.isFinal {
			a.logger.Debug("final answer", zap.Int("iterations", i+1))
			return s.finalAnswer, nil
		}

		observation, err := a.registry.Execute(ctx, s.action, s.actionInput)
		if err != nil {
			if errors.Is(err, tools.ErrToolNotFound) {
				observation = fmt.Sprintf("Unknown tool %q. Available tools: %s",
					s.action, strings.Join(a.registry.Names(), ", "))
			} else if ctx.Err() != nil {
				return "", ctx.Err()
			} else {
				return "", fmt.Errorf("tool %s failed: %w", s.action, err)
			}
		}

		a.logger.Debug("agent step",
			zap.Int("iteration", i),
			zap.String("action", s.action),
			zap.String("input", s.actionInput))

		fmt.Fprintf(&scratchpad, "%s\nAction: %s\nAction Input: %s\nObservation: %s\nThought: ",
			s.thought, s.action, s.actionInput, observation)
	}

	return "", fmt.Errorf("%w (%d)", ErrMaxIterations, a.opts.MaxIterations)
}
