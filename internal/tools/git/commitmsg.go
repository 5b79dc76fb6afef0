package git

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gitagent/internal/tools"
)

const generatePromptTemplate = `Based on the following git diff of staged changes, generate a concise and informative commit message.

Follow these guidelines:
- Start with a verb in imperative mood (Add, Fix, Update, Remove, etc.)
- Keep the first line under 50 characters
- Be specific about what was changed
- Use conventional commit format if applicable

Staged changes:
%s

Current status:
%s

Generate only the commit message, no quotes or extra text:`

const improvePromptTemplate = `Improve the following draft commit message so it is concise, imperative and specific. Keep the first line under 50 characters.

Draft message:
%s

Staged changes for context:
%s

Generate only the improved commit message, no quotes or extra text:`

func generateCommitMessageTool(d Deps) *tools.Tool {
	return &tools.Tool{
		Name:        "generate_commit_message",
		Description: "Generate an AI-powered commit message from staged changes and save it to .git/COMMIT_EDITMSG. No input required.",
		Category:    tools.CategoryCompose,
		Execute: func(ctx context.Context, _ string) (string, error) {
			path := d.editMsgPath()
			if path == "" {
				return "Error: not in a git repository", nil
			}

			diff, obs, err := run(ctx, d, "diff", "--cached")
			if err != nil || obs != "" {
				return obs, err
			}
			if !diff.Success() {
				return fmt.Sprintf("Error getting staged changes: %s", diff.Stderr), nil
			}
			if diff.Stdout == "" {
				return "No staged changes found. Please stage your changes first with 'git add'.", nil
			}

			status, _, _ := run(ctx, d, "status", "--porcelain")

			prompt := fmt.Sprintf(generatePromptTemplate, diff.Stdout, status.Stdout)
			message, err := d.LLM.Generate(ctx, prompt)
			if err != nil {
				return fmt.Sprintf("Error generating commit message: %s", err.Error()), nil
			}
			message = strings.TrimSpace(message)

			if err := os.WriteFile(path, []byte(message), 0o644); err != nil {
				return fmt.Sprintf("Error writing COMMIT_EDITMSG: %s", err.Error()), nil
			}

			return fmt.Sprintf("Generated commit message and saved to .git/COMMIT_EDITMSG:\n\n%s", message), nil
		},
	}
}

func readCommitEditMsgTool(d Deps) *tools.Tool {
	return &tools.Tool{
		Name:        "read_commit_editmsg",
		Description: "Read the current content of .git/COMMIT_EDITMSG. No input required.",
		Category:    tools.CategoryRead,
		Execute: func(_ context.Context, _ string) (string, error) {
			path := d.editMsgPath()
			if path == "" {
				return "Error: not in a git repository", nil
			}

			data, err := os.ReadFile(path)
			if os.IsNotExist(err) {
				return "No COMMIT_EDITMSG file found. Generate a commit message first.", nil
			}
			if err != nil {
				return fmt.Sprintf("Error reading COMMIT_EDITMSG: %s", err.Error()), nil
			}

			content := strings.TrimSpace(string(data))
			if content == "" {
				return "COMMIT_EDITMSG is empty", nil
			}
			return fmt.Sprintf("Current COMMIT_EDITMSG:\n\n%s", content), nil
		},
	}
}

func improveCommitMessageTool(d Deps) *tools.Tool {
	return &tools.Tool{
		Name:        "improve_commit_message",
		Description: "Improve the draft commit message in .git/COMMIT_EDITMSG and save the result back. No input required.",
		Category:    tools.CategoryCompose,
		Execute: func(ctx context.Context, _ string) (string, error) {
			path := d.editMsgPath()
			if path == "" {
				return "Error: not in a git repository", nil
			}

			data, err := os.ReadFile(path)
			if os.IsNotExist(err) {
				return "No COMMIT_EDITMSG file found. Generate a commit message first.", nil
			}
			if err != nil {
				return fmt.Sprintf("Error reading COMMIT_EDITMSG: %s", err.Error()), nil
			}
			draft := strings.TrimSpace(string(data))
			if draft == "" {
				return "COMMIT_EDITMSG is empty. Generate a commit message first.", nil
			}

			diff, _, _ := run(ctx, d, "diff", "--cached")

			prompt := fmt.Sprintf(improvePromptTemplate, draft, diff.Stdout)
			improved, err := d.LLM.Generate(ctx, prompt)
			if err != nil {
				return fmt.Sprintf("Error improving commit message: %s", err.Error()), nil
			}
			improved = strings.TrimSpace(improved)

			if err := os.WriteFile(path, []byte(improved), 0o644); err != nil {
				return fmt.Sprintf("Error writing COMMIT_EDITMSG: %s", err.Error()), nil
			}

			return fmt.Sprintf("Improved commit message saved to .git/COMMIT_EDITMSG:\n\n%s", improved), nil
		},
	}
}
