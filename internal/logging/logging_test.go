package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}

	for _, tc := range cases {
		got, err := parseLevel(tc.in)
		if tc.wantErr {
			assert.Error(t, err, "level %q", tc.in)
			continue
		}
		require.NoError(t, err, "level %q", tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestNewWritesFileSink(t *testing.T) {
	dir := t.TempDir()

	logger, err := New(dir, "debug")
	require.NoError(t, err)

	logger.Debug("hello from test")
	_ = logger.Sync() // stderr sync can fail on some platforms; file sink still flushes

	data, err := os.ReadFile(filepath.Join(dir, "logs", "gitagent.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
}

func TestNewWithoutConfigDir(t *testing.T) {
	logger, err := New("", "info")
	require.NoError(t, err)
	logger.Info("console only")
}
