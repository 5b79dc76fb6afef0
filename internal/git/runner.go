// Package git provides safe git subprocess execution for the agent's tools.
// Every command is checked against the configured allowlist before it runs,
// so the model can never be tricked into destructive operations like
// reset --hard or push --force to arbitrary remotes.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single git invocation.
const DefaultTimeout = 30 * time.Second

// Result holds the outcome of a git command.
type Result struct {
	Command  string
	Stdout   string
	Stderr   string
	ExitCode int
}

// Success reports whether the command exited zero.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Runner executes git commands. Implementations other than CommandRunner
// exist only in tests.
type Runner interface {
	Run(ctx context.Context, args ...string) (Result, error)
}

// CommandRunner is the real git runner backed by os/exec.
type CommandRunner struct {
	// Allowed lists permitted git subcommands. Empty means everything is
	// rejected; the zero value is deliberately useless.
	Allowed []string

	// Dir is the working directory for commands. Empty means process cwd.
	Dir string

	// Timeout per command. Zero means DefaultTimeout.
	Timeout time.Duration
}

// NewRunner creates a CommandRunner with the given subcommand allowlist.
func NewRunner(allowed []string, dir string) *CommandRunner {
	return &CommandRunner{
		Allowed: allowed,
		Dir:     dir,
		Timeout: DefaultTimeout,
	}
}

// Run executes a git subcommand after validating it against the allowlist.
// args must not include the leading "git".
func (r *CommandRunner) Run(ctx context.Context, args ...string) (Result, error) {
	if len(args) == 0 {
		return Result{}, fmt.Errorf("git: empty command")
	}

	sub := args[0]
	if !r.allowed(sub) {
		return Result{}, &UnsafeOperationError{Subcommand: sub}
	}

	timeout := r.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, "git", args...)
	if r.Dir != "" {
		cmd.Dir = r.Dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	display := "git " + strings.Join(args, " ")

	result := Result{
		Command: display,
		Stdout:  strings.TrimSpace(stdout.String()),
		Stderr:  strings.TrimSpace(stderr.String()),
	}

	if err != nil {
		if execCtx.Err() == context.DeadlineExceeded {
			return result, &CommandError{Command: display, ExitCode: -1, Stderr: "command timed out"}
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
			// Non-zero exit is reported through Result, not as an error;
			// tools relay stderr to the model as an observation.
			return result, nil
		}
		return result, &CommandError{Command: display, ExitCode: -1, Stderr: err.Error()}
	}

	return result, nil
}

func (r *CommandRunner) allowed(sub string) bool {
	for _, a := range r.Allowed {
		if a == sub {
			return true
		}
	}
	return false
}
