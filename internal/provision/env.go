package provision

import (
	"path/filepath"
	"runtime"
	"strings"
)

// EnvState is the two-state outcome of the existence check: a missing
// environment is created, an existing one is reused. Nothing here ever
// deletes or resets an environment.
type EnvState int

const (
	// EnvCreated means the environment directory was absent and has been
	// freshly created.
	EnvCreated EnvState = iota

	// EnvReused means the environment directory already existed.
	EnvReused
)

// String returns the state name.
func (s EnvState) String() string {
	switch s {
	case EnvCreated:
		return "created"
	case EnvReused:
		return "reused"
	default:
		return "unknown"
	}
}

// Env describes an activated isolated runtime environment. Activation is
// modelled as explicit data, an environ slice handed to every subsequent
// subprocess, rather than mutation of this process's environment.
type Env struct {
	// Root is the absolute path of the environment directory.
	Root string

	// State records whether this invocation created the directory.
	State EnvState

	environ []string
}

// binDir returns the directory holding the environment's executables.
func (e *Env) binDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(e.Root, "Scripts")
	}
	return filepath.Join(e.Root, "bin")
}

// Python returns the environment's interpreter path.
func (e *Env) Python() string {
	return filepath.Join(e.binDir(), "python")
}

// Pip returns the environment's package installer path.
func (e *Env) Pip() string {
	return filepath.Join(e.binDir(), "pip")
}

// Environ returns the activated process environment.
func (e *Env) Environ() []string {
	return e.environ
}

// activate computes the environment's environ from a base environment:
// VIRTUAL_ENV is set and the env's bin directory is prepended to PATH.
func (e *Env) activate(base []string) {
	env := setEnvKey(base, "VIRTUAL_ENV", e.Root)

	sep := ":"
	if runtime.GOOS == "windows" {
		sep = ";"
	}
	path := lookupEnvKey(env, "PATH")
	if path == "" {
		path = e.binDir()
	} else {
		path = e.binDir() + sep + path
	}
	e.environ = setEnvKey(env, "PATH", path)
}

// setEnvKey sets or updates an environment variable in KEY=VALUE form.
func setEnvKey(env []string, key, value string) []string {
	out := make([]string, len(env))
	copy(out, env)

	prefix := key + "="
	for i, kv := range out {
		if strings.HasPrefix(kv, prefix) {
			out[i] = prefix + value
			return out
		}
	}
	return append(out, prefix+value)
}

// lookupEnvKey returns the value of key in env, or "".
func lookupEnvKey(env []string, key string) string {
	prefix := key + "="
	for _, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			return kv[len(prefix):]
		}
	}
	return ""
}
