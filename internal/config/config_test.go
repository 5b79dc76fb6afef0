package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "http://localhost:11434", cfg.OllamaBaseURL)
	assert.Equal(t, "qwen3", cfg.OllamaModel)
	assert.Equal(t, 10, cfg.MaxIterations)
	assert.InDelta(t, 0.1, cfg.Temperature, 1e-9)
	assert.True(t, cfg.RequireConfirmation)
	assert.Contains(t, cfg.AllowedGitCommands, "status")
	assert.NotContains(t, cfg.AllowedGitCommands, "rebase")
	assert.NoError(t, cfg.Validate())
}

func TestEnvOverrides(t *testing.T) {
	t.Run("base URL and model", func(t *testing.T) {
		t.Setenv("GITAGENT_OLLAMA_BASE_URL", "http://ollama.local:9999")
		t.Setenv("GITAGENT_OLLAMA_MODEL", "llama3")

		cfg := Default()
		cfg.applyEnvOverrides()

		assert.Equal(t, "http://ollama.local:9999", cfg.OllamaBaseURL)
		assert.Equal(t, "llama3", cfg.OllamaModel)
	})

	t.Run("timeout accepts duration string", func(t *testing.T) {
		t.Setenv("GITAGENT_OLLAMA_TIMEOUT", "2m")

		cfg := Default()
		cfg.applyEnvOverrides()

		assert.Equal(t, 2*time.Minute, cfg.Timeout())
	})

	t.Run("timeout accepts bare seconds", func(t *testing.T) {
		t.Setenv("GITAGENT_OLLAMA_TIMEOUT", "45")

		cfg := Default()
		cfg.applyEnvOverrides()

		assert.Equal(t, 45*time.Second, cfg.Timeout())
	})

	t.Run("malformed numeric override is ignored", func(t *testing.T) {
		t.Setenv("GITAGENT_MAX_ITERATIONS", "lots")

		cfg := Default()
		cfg.applyEnvOverrides()

		assert.Equal(t, 10, cfg.MaxIterations)
	})

	t.Run("allowed commands split on commas", func(t *testing.T) {
		t.Setenv("GITAGENT_ALLOWED_GIT_COMMANDS", "status, diff ,log")

		cfg := Default()
		cfg.applyEnvOverrides()

		assert.Equal(t, []string{"status", "diff", "log"}, cfg.AllowedGitCommands)
	})
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GITAGENT_CONFIG_DIR", dir)

	content := []byte("ollama_model: mistral\nmax_iterations: 5\ntheme: dark\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.ConfigDir)
	assert.Equal(t, "mistral", cfg.OllamaModel)
	assert.Equal(t, 5, cfg.MaxIterations)
	assert.Equal(t, "dark", cfg.Theme)
	// Untouched fields keep their defaults.
	assert.Equal(t, "http://localhost:11434", cfg.OllamaBaseURL)
}

func TestLoadUppercaseLogLevel(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GITAGENT_CONFIG_DIR", dir)

	content := []byte("log_level: INFO\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GITAGENT_CONFIG_DIR", dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{not yaml"), 0o644))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"empty model", func(c *Config) { c.OllamaModel = "" }, true},
		{"zero iterations", func(c *Config) { c.MaxIterations = 0 }, true},
		{"negative temperature", func(c *Config) { c.Temperature = -1 }, true},
		{"unknown log level", func(c *Config) { c.LogLevel = "trace" }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTimeoutFallback(t *testing.T) {
	cfg := Config{OllamaTimeout: "not-a-duration"}
	assert.Equal(t, 30*time.Second, cfg.Timeout())
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := Default()
	cfg.ConfigDir = dir
	cfg.OllamaModel = "phi3"

	require.NoError(t, Save(cfg))

	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "phi3")
}
