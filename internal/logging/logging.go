// Package logging builds the zap logger used across gitagent.
// Console output goes to stderr at the configured level; a debug-level
// JSON file sink is written under <config dir>/logs/gitagent.log so TUI
// sessions stay debuggable after the fact.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New constructs the application logger. configDir may be empty, in which
// case only the console core is installed.
func New(configDir, level string) (*zap.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	consoleEnc := zapcore.NewConsoleEncoder(consoleEncoderConfig())
	cores := []zapcore.Core{
		zapcore.NewCore(consoleEnc, zapcore.Lock(os.Stderr), lvl),
	}

	if configDir != "" {
		if fileCore, err := newFileCore(configDir); err == nil {
			cores = append(cores, fileCore)
		}
		// A failed file sink never blocks startup; the console core is
		// enough to run with.
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}

// Nop returns a disabled logger for tests and one-shot helpers.
func Nop() *zap.Logger {
	return zap.NewNop()
}

func newFileCore(configDir string) (zapcore.Core, error) {
	logsDir := filepath.Join(configDir, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(filepath.Join(logsDir, "gitagent.log"),
		os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zapcore.NewCore(enc, zapcore.AddSync(f), zapcore.DebugLevel), nil
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg
}

func parseLevel(level string) (zapcore.Level, error) {
	switch level {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}
