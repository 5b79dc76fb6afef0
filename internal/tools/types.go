// Package tools provides the tool abstraction the agent loop dispatches on.
// Tools are registered in a Registry and invoked by name with a free-form
// string argument, matching the Action / Action Input convention of the
// ReAct prompt.
package tools

import (
	"context"
	"fmt"
)

// Category classifies tools for listing and filtering.
type Category string

const (
	// CategoryRead covers inspection tools that never mutate the repository.
	CategoryRead Category = "read"

	// CategoryWrite covers tools that mutate the repository or its remotes.
	CategoryWrite Category = "write"

	// CategoryCompose covers tools that draft content (commit messages).
	CategoryCompose Category = "compose"
)

// ExecuteFunc runs a tool. input is the raw Action Input string from the
// model; tools parse it themselves.
type ExecuteFunc func(ctx context.Context, input string) (string, error)

// Tool is a single capability exposed to the agent.
type Tool struct {
	// Name is the unique identifier the model uses in Action lines.
	Name string

	// Description tells the model what the tool does and what input it
	// expects. It is rendered verbatim into the ReAct prompt.
	Description string

	// Category classifies the tool.
	Category Category

	// Execute runs the tool.
	Execute ExecuteFunc
}

// Validate checks the tool definition.
func (t *Tool) Validate() error {
	if t.Name == "" {
		return ErrToolNameEmpty
	}
	if t.Execute == nil {
		return fmt.Errorf("%w: %s", ErrToolExecuteNil, t.Name)
	}
	return nil
}
