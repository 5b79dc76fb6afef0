// Package git exposes the git toolset to the agent: status, diff, staging,
// commits, remotes, history and LLM-assisted commit message drafting.
//
// Tool failures that the model can react to (dirty state, rejected pushes,
// disallowed commands) are returned as observation text, not Go errors, so
// the ReAct loop can feed them back as observations. Go errors are reserved
// for infrastructure faults like a cancelled context.
package git

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	gitx "gitagent/internal/git"
	"gitagent/internal/tools"
)

// LLM is the completion surface commit-message tools need.
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Confirmer asks the user to approve a mutating operation.
type Confirmer interface {
	Confirm(prompt string) bool
}

// AutoConfirm approves everything. Used when require_confirmation is off
// and in non-interactive runs.
type AutoConfirm struct{}

// Confirm always returns true.
func (AutoConfirm) Confirm(string) bool { return true }

// Deps wires the toolset's collaborators.
type Deps struct {
	Runner gitx.Runner
	LLM    LLM

	// Confirm is consulted before destructive operations when
	// RequireConfirmation is set. Nil behaves like AutoConfirm.
	Confirm             Confirmer
	RequireConfirmation bool

	// EditMsgPath locates .git/COMMIT_EDITMSG. Nil uses the enclosing
	// repository. Tests override it.
	EditMsgPath func() string
}

func (d *Deps) confirm(prompt string) bool {
	if !d.RequireConfirmation || d.Confirm == nil {
		return true
	}
	return d.Confirm.Confirm(prompt)
}

func (d *Deps) editMsgPath() string {
	if d.EditMsgPath != nil {
		return d.EditMsgPath()
	}
	return gitx.CommitEditMsgPath()
}

// Register adds the full git toolset to the registry.
func Register(reg *tools.Registry, d Deps) {
	reg.MustRegister(statusTool(d))
	reg.MustRegister(diffTool(d))
	reg.MustRegister(addTool(d))
	reg.MustRegister(commitTool(d))
	reg.MustRegister(pushTool(d))
	reg.MustRegister(pullTool(d))
	reg.MustRegister(logTool(d))
	reg.MustRegister(stashTool(d))
	reg.MustRegister(generateCommitMessageTool(d))
	reg.MustRegister(readCommitEditMsgTool(d))
	reg.MustRegister(improveCommitMessageTool(d))
}

// run executes a git subcommand and renders the outcome as observation
// text the model can act on.
func run(ctx context.Context, d Deps, args ...string) (gitx.Result, string, error) {
	res, err := d.Runner.Run(ctx, args...)
	if err != nil {
		var unsafe *gitx.UnsafeOperationError
		if errors.As(err, &unsafe) {
			return res, fmt.Sprintf("Error: %s", unsafe.Error()), nil
		}
		if ctx.Err() != nil {
			return res, "", ctx.Err()
		}
		return res, fmt.Sprintf("Error: %s", err.Error()), nil
	}
	return res, "", nil
}

func statusTool(d Deps) *tools.Tool {
	return &tools.Tool{
		Name:        "get_git_status",
		Description: "Get the current git repository status. No input required.",
		Category:    tools.CategoryRead,
		Execute: func(ctx context.Context, _ string) (string, error) {
			res, obs, err := run(ctx, d, "status", "--porcelain", "-b")
			if err != nil || obs != "" {
				return obs, err
			}
			if !res.Success() {
				return fmt.Sprintf("Error getting git status: %s", res.Stderr), nil
			}
			if res.Stdout == "" {
				return "Working directory is clean", nil
			}
			return fmt.Sprintf("Git status:\n%s", res.Stdout), nil
		},
	}
}

func diffTool(d Deps) *tools.Tool {
	return &tools.Tool{
		Name:        "get_git_diff",
		Description: "Show changes in the working directory. Input 'staged' shows only staged changes, empty input shows unstaged changes.",
		Category:    tools.CategoryRead,
		Execute: func(ctx context.Context, input string) (string, error) {
			args := []string{"diff"}
			if strings.TrimSpace(input) == "staged" {
				args = append(args, "--cached")
			}
			res, obs, err := run(ctx, d, args...)
			if err != nil || obs != "" {
				return obs, err
			}
			if !res.Success() {
				return fmt.Sprintf("Error getting diff: %s", res.Stderr), nil
			}
			if res.Stdout == "" {
				return "No changes found", nil
			}
			return res.Stdout, nil
		},
	}
}

func addTool(d Deps) *tools.Tool {
	return &tools.Tool{
		Name:        "git_add_files",
		Description: "Add files to the git staging area. Input is a path, or '.' for all files.",
		Category:    tools.CategoryWrite,
		Execute: func(ctx context.Context, input string) (string, error) {
			files := strings.TrimSpace(input)
			if files == "" {
				return "Error: no files given. Pass a path or '.' for all files.", nil
			}
			if files == "." && !d.confirm("Add all files to staging area?") {
				return "Operation cancelled by user", nil
			}
			res, obs, err := run(ctx, d, "add", files)
			if err != nil || obs != "" {
				return obs, err
			}
			if !res.Success() {
				return fmt.Sprintf("Error adding files: %s", res.Stderr), nil
			}
			return fmt.Sprintf("Successfully added %s to staging area", files), nil
		},
	}
}

func commitTool(d Deps) *tools.Tool {
	return &tools.Tool{
		Name:        "git_commit",
		Description: "Commit staged changes. Input is the commit message.",
		Category:    tools.CategoryWrite,
		Execute: func(ctx context.Context, input string) (string, error) {
			message := strings.TrimSpace(input)
			if message == "" {
				return "Error: commit message cannot be empty", nil
			}
			res, obs, err := run(ctx, d, "commit", "-m", message)
			if err != nil || obs != "" {
				return obs, err
			}
			if !res.Success() {
				return fmt.Sprintf("Error committing: %s", res.Stderr), nil
			}
			return fmt.Sprintf("Successfully committed with message: %q", message), nil
		},
	}
}

func pushTool(d Deps) *tools.Tool {
	return &tools.Tool{
		Name:        "git_push",
		Description: "Push changes to a remote. Input is 'remote [branch]', defaulting to 'origin'.",
		Category:    tools.CategoryWrite,
		Execute: func(ctx context.Context, input string) (string, error) {
			remote, branch := parseRemoteBranch(input)
			target := remote
			if branch != "" {
				target += "/" + branch
			}
			if !d.confirm(fmt.Sprintf("Push to %s?", target)) {
				return "Push cancelled by user", nil
			}

			args := []string{"push", remote}
			if branch != "" {
				args = append(args, branch)
			}
			res, obs, err := run(ctx, d, args...)
			if err != nil || obs != "" {
				return obs, err
			}
			if !res.Success() {
				return fmt.Sprintf("Error pushing: %s", res.Stderr), nil
			}
			return fmt.Sprintf("Successfully pushed to %s", remote), nil
		},
	}
}

func pullTool(d Deps) *tools.Tool {
	return &tools.Tool{
		Name:        "git_pull",
		Description: "Pull changes from a remote. Input is 'remote [branch]', defaulting to 'origin'.",
		Category:    tools.CategoryWrite,
		Execute: func(ctx context.Context, input string) (string, error) {
			remote, branch := parseRemoteBranch(input)
			args := []string{"pull", remote}
			if branch != "" {
				args = append(args, branch)
			}
			res, obs, err := run(ctx, d, args...)
			if err != nil || obs != "" {
				return obs, err
			}
			if !res.Success() {
				return fmt.Sprintf("Error pulling: %s", res.Stderr), nil
			}
			return fmt.Sprintf("Successfully pulled from %s: %s", remote, res.Stdout), nil
		},
	}
}

func logTool(d Deps) *tools.Tool {
	return &tools.Tool{
		Name:        "git_log",
		Description: "Show recent commit history. Input is the number of commits (default 10).",
		Category:    tools.CategoryRead,
		Execute: func(ctx context.Context, input string) (string, error) {
			num := 10
			if s := strings.TrimSpace(input); s != "" {
				if n, err := strconv.Atoi(s); err == nil && n > 0 {
					num = n
				}
			}
			res, obs, err := run(ctx, d, "log", fmt.Sprintf("-%d", num), "--oneline")
			if err != nil || obs != "" {
				return obs, err
			}
			if !res.Success() {
				return fmt.Sprintf("Error getting git log: %s", res.Stderr), nil
			}
			if res.Stdout == "" {
				return "No commits found", nil
			}
			return fmt.Sprintf("Recent commits:\n%s", res.Stdout), nil
		},
	}
}

func stashTool(d Deps) *tools.Tool {
	return &tools.Tool{
		Name:        "git_stash",
		Description: "Stash operations. Input is 'push', 'pop' or 'list' (default 'list').",
		Category:    tools.CategoryWrite,
		Execute: func(ctx context.Context, input string) (string, error) {
			op := strings.TrimSpace(input)
			switch op {
			case "":
				op = "list"
			case "push", "pop", "list":
			default:
				return fmt.Sprintf("Error: unknown stash operation %q, use push, pop or list", op), nil
			}
			res, obs, err := run(ctx, d, "stash", op)
			if err != nil || obs != "" {
				return obs, err
			}
			if !res.Success() {
				return fmt.Sprintf("Error running stash %s: %s", op, res.Stderr), nil
			}
			if res.Stdout == "" {
				return fmt.Sprintf("stash %s completed", op), nil
			}
			return res.Stdout, nil
		},
	}
}

func parseRemoteBranch(input string) (remote, branch string) {
	fields := strings.Fields(input)
	remote = "origin"
	if len(fields) > 0 {
		remote = fields[0]
	}
	if len(fields) > 1 {
		branch = fields[1]
	}
	return remote, branch
}
