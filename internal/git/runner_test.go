package git

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

func TestRunnerAllowlist(t *testing.T) {
	r := NewRunner([]string{"status", "log"}, "")

	t.Run("disallowed subcommand", func(t *testing.T) {
		_, err := r.Run(context.Background(), "push", "origin")
		var unsafe *UnsafeOperationError
		require.ErrorAs(t, err, &unsafe)
		assert.Equal(t, "push", unsafe.Subcommand)
	})

	t.Run("empty command", func(t *testing.T) {
		_, err := r.Run(context.Background())
		assert.Error(t, err)
	})

	t.Run("empty allowlist rejects everything", func(t *testing.T) {
		r := NewRunner(nil, "")
		_, err := r.Run(context.Background(), "status")
		var unsafe *UnsafeOperationError
		assert.ErrorAs(t, err, &unsafe)
	})
}

func TestRunnerExecutesInRepo(t *testing.T) {
	requireGit(t)

	dir := t.TempDir()
	r := NewRunner([]string{"init", "status"}, dir)

	res, err := r.Run(context.Background(), "init")
	require.NoError(t, err)
	require.True(t, res.Success(), "stderr: %s", res.Stderr)

	res, err = r.Run(context.Background(), "status", "--porcelain", "-b")
	require.NoError(t, err)
	assert.True(t, res.Success())
	assert.Contains(t, res.Command, "git status")
}

func TestRunnerNonZeroExit(t *testing.T) {
	requireGit(t)

	// status outside any repository exits non-zero but is not a Go error.
	dir := t.TempDir()
	r := NewRunner([]string{"status"}, dir)

	res, err := r.Run(context.Background(), "status", "--porcelain")
	require.NoError(t, err)
	assert.False(t, res.Success())
	assert.NotEmpty(t, res.Stderr)
}

func TestRunnerTimeout(t *testing.T) {
	requireGit(t)

	dir := t.TempDir()
	r := NewRunner([]string{"status"}, dir)
	r.Timeout = time.Nanosecond

	_, err := r.Run(context.Background(), "status")
	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Contains(t, cmdErr.Stderr, "timed out")
}
