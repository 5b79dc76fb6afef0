package git

import "fmt"

// UnsafeOperationError is returned when a git subcommand is not on the
// configured allowlist.
type UnsafeOperationError struct {
	Subcommand string
}

func (e *UnsafeOperationError) Error() string {
	return fmt.Sprintf("git subcommand %q is not allowed", e.Subcommand)
}

// CommandError is returned when git itself could not run to completion
// (missing binary, timeout). Ordinary non-zero exits are reported via
// Result instead.
type CommandError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s failed with exit code %d: %s", e.Command, e.ExitCode, e.Stderr)
}
