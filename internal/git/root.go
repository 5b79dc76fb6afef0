package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Root returns the top-level directory of the enclosing git repository,
// or "" if the current directory is not inside one.
func Root() string {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, "git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// IsRepo reports whether the current directory is inside a git repository.
func IsRepo() bool {
	return Root() != ""
}

// CommitEditMsgPath returns the path to .git/COMMIT_EDITMSG for the
// enclosing repository, or "" outside a repository.
func CommitEditMsgPath() string {
	root := Root()
	if root == "" {
		return ""
	}
	return filepath.Join(root, ".git", "COMMIT_EDITMSG")
}

// ConfigDir returns the directory gitagent uses for its own state:
// <repo root>/.gitagent inside a repository, ~/.gitagent otherwise.
func ConfigDir() string {
	if root := Root(); root != "" {
		return filepath.Join(root, ".gitagent")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gitagent"
	}
	return filepath.Join(home, ".gitagent")
}
