// Package config holds gitagent runtime configuration.
// Configuration is read from config.yaml in the gitagent state directory,
// then overridden by GITAGENT_* environment variables. A missing file means
// defaults; a malformed file is an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"gitagent/internal/git"
)

// Config holds all gitagent settings.
type Config struct {
	// Ollama connection
	OllamaBaseURL string `yaml:"ollama_base_url"`
	OllamaModel   string `yaml:"ollama_model"`
	OllamaTimeout string `yaml:"ollama_timeout"` // Go duration string, e.g. "30s"

	// Agent behaviour
	MaxIterations int     `yaml:"max_iterations"`
	Temperature   float64 `yaml:"temperature"`

	// Application
	LogLevel  string `yaml:"log_level"`
	ConfigDir string `yaml:"config_dir"`
	Theme     string `yaml:"theme"` // "light" or "dark"

	// Safety
	RequireConfirmation bool     `yaml:"require_confirmation"`
	AllowedGitCommands  []string `yaml:"allowed_git_commands"`
}

// Default returns the default configuration. The config directory is the
// git root's .gitagent when inside a repository, ~/.gitagent otherwise.
func Default() Config {
	return Config{
		OllamaBaseURL:       "http://localhost:11434",
		OllamaModel:         "qwen3",
		OllamaTimeout:       "30s",
		MaxIterations:       10,
		Temperature:         0.1,
		LogLevel:            "info",
		ConfigDir:           git.ConfigDir(),
		Theme:               "light",
		RequireConfirmation: true,
		AllowedGitCommands: []string{
			"status", "add", "commit", "push", "pull",
			"log", "diff", "stash",
		},
	}
}

// Load reads configuration from disk, applies environment overrides and
// validates the result. A missing config file is not an error.
func Load() (Config, error) {
	cfg := Default()

	// The config dir override has to apply before the file read, or the
	// file would be read from the directory it relocates.
	if v := os.Getenv("GITAGENT_CONFIG_DIR"); v != "" {
		cfg.ConfigDir = v
	}

	path := filepath.Join(cfg.ConfigDir, "config.yaml")
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		// Case-insensitive like the env override path.
		cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the configuration to config.yaml, creating the config
// directory if needed.
func Save(cfg Config) error {
	if err := os.MkdirAll(cfg.ConfigDir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	path := filepath.Join(cfg.ConfigDir, "config.yaml")
	return os.WriteFile(path, data, 0o644)
}

// applyEnvOverrides applies GITAGENT_* environment variables on top of the
// loaded configuration. Unset or malformed values leave the field alone.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GITAGENT_OLLAMA_BASE_URL"); v != "" {
		c.OllamaBaseURL = v
	}
	if v := os.Getenv("GITAGENT_OLLAMA_MODEL"); v != "" {
		c.OllamaModel = v
	}
	if v := os.Getenv("GITAGENT_OLLAMA_TIMEOUT"); v != "" {
		if _, err := time.ParseDuration(v); err == nil {
			c.OllamaTimeout = v
		} else if secs, err := strconv.Atoi(v); err == nil {
			c.OllamaTimeout = fmt.Sprintf("%ds", secs)
		}
	}
	if v := os.Getenv("GITAGENT_MAX_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxIterations = n
		}
	}
	if v := os.Getenv("GITAGENT_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Temperature = f
		}
	}
	if v := os.Getenv("GITAGENT_LOG_LEVEL"); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("GITAGENT_CONFIG_DIR"); v != "" {
		c.ConfigDir = v
	}
	if v := os.Getenv("GITAGENT_THEME"); v != "" {
		c.Theme = v
	}
	if v := os.Getenv("GITAGENT_REQUIRE_CONFIRMATION"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.RequireConfirmation = b
		}
	}
	if v := os.Getenv("GITAGENT_ALLOWED_GIT_COMMANDS"); v != "" {
		var allowed []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				allowed = append(allowed, s)
			}
		}
		if len(allowed) > 0 {
			c.AllowedGitCommands = allowed
		}
	}
}

// Timeout returns the parsed Ollama request timeout, falling back to 30s
// when the configured value is empty or malformed.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.OllamaTimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.OllamaBaseURL == "" {
		return fmt.Errorf("ollama_base_url cannot be empty")
	}
	if c.OllamaModel == "" {
		return fmt.Errorf("ollama_model cannot be empty")
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive, got %d", c.MaxIterations)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be in [0, 2], got %g", c.Temperature)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}
