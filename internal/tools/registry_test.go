package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoTool(name string) *Tool {
	return &Tool{
		Name:        name,
		Description: "echoes its input",
		Category:    CategoryRead,
		Execute: func(_ context.Context, input string) (string, error) {
			return input, nil
		},
	}
}

func TestRegisterAndExecute(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoTool("echo")))

	assert.True(t, r.Has("echo"))

	out, err := r.Execute(context.Background(), "echo", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoTool("echo")))

	err := r.Register(echoTool("echo"))
	assert.ErrorIs(t, err, ErrToolAlreadyRegistered)
}

func TestRegisterInvalid(t *testing.T) {
	r := NewRegistry()

	t.Run("empty name", func(t *testing.T) {
		err := r.Register(&Tool{Execute: func(context.Context, string) (string, error) { return "", nil }})
		assert.ErrorIs(t, err, ErrToolNameEmpty)
	})

	t.Run("nil execute", func(t *testing.T) {
		err := r.Register(&Tool{Name: "broken"})
		assert.ErrorIs(t, err, ErrToolExecuteNil)
	})
}

func TestExecuteUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Execute(context.Background(), "nope", "")
	assert.ErrorIs(t, err, ErrToolNotFound)
}

func TestNamesSorted(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, r.Register(echoTool(name)))
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.Names())
	assert.Len(t, r.List(), 3)
}
