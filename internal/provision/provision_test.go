package provision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifestFixture = `
[project]
name = "gitagent"
version = "0.1.0"
description = "AI-powered Git assistant"
license = "MIT"
requires-python = ">=3.11"
authors = [{ name = "Sam", email = "sam@example.com" }]
dependencies = [
    "langchain>=0.2",
    "langchain-ollama>=0.1",
    "pydantic-settings>=2.0",
    "rich",
    "textual>=0.60",
]

[project.optional-dependencies]
dev = ["ruff>=0.4", "black", "pytest>=8.0"]

[build-system]
requires = ["setuptools>=68"]
build-backend = "setuptools.build_meta"

[tool.setuptools]
packages = ["config", "core", "tools", "utils"]

[tool.setuptools.package-data]
gitagent = ["py.typed"]
`

// call records one runner invocation.
type call struct {
	name    string
	args    []string
	environ []string
}

// fakeRunner simulates the python/pip toolchain. Creating a venv makes
// the target directory so the existence check behaves like the real tool.
type fakeRunner struct {
	calls    []call
	failOn   string // substring of "name args..." that should fail
	failErr  error
	listJSON string
}

func (f *fakeRunner) Run(_ context.Context, dir string, environ []string, name string, args ...string) (string, error) {
	f.calls = append(f.calls, call{name: name, args: args, environ: environ})

	display := name + " " + strings.Join(args, " ")
	if f.failOn != "" && strings.Contains(display, f.failOn) {
		err := f.failErr
		if err == nil {
			err = fmt.Errorf("%s: exit status 1", display)
		}
		return "", err
	}

	if len(args) >= 2 && args[0] == "-m" && args[1] == "venv" {
		if err := os.MkdirAll(args[2], 0o755); err != nil {
			return "", err
		}
	}
	if len(args) >= 1 && args[0] == "list" {
		return f.listJSON, nil
	}
	return "", nil
}

func (f *fakeRunner) commandLines() []string {
	lines := make([]string, len(f.calls))
	for i, c := range f.calls {
		lines[i] = c.name + " " + strings.Join(c.args, " ")
	}
	return lines
}

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFile), []byte(content), 0o644))
}

func listingFor(names ...string) string {
	pkgs := make([]Package, len(names))
	for i, n := range names {
		pkgs[i] = Package{Name: n, Version: "1.0.0"}
	}
	data, _ := json.Marshal(pkgs)
	return string(data)
}

func newTestProvisioner(dir string, runner Runner, out *bytes.Buffer) *Provisioner {
	p := New(dir)
	p.Runner = runner
	p.Out = out
	p.BaseEnviron = []string{"PATH=/usr/bin", "HOME=/home/sam"}
	return p
}

func TestProvisionFreshEnvironment(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, manifestFixture)

	runner := &fakeRunner{listJSON: listingFor(
		"langchain", "langchain-ollama", "pydantic-settings", "rich", "textual",
		"ruff", "black", "pytest", "pip",
	)}
	var out bytes.Buffer

	report, err := newTestProvisioner(dir, runner, &out).Provision(context.Background())
	require.NoError(t, err)

	assert.Equal(t, EnvCreated, report.Env.State)
	assert.Contains(t, out.String(), "Created virtual environment at")

	lines := runner.commandLines()
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "python3 -m venv")
	assert.Contains(t, lines[1], "install --upgrade pip")
	assert.Contains(t, lines[2], "install -e .[dev]")
	assert.Contains(t, lines[3], "list --format=json")

	// Determinism of the required set: every manifest dependency name
	// appears in the installed package set.
	installed := make(map[string]bool)
	for _, pkg := range report.Packages {
		installed[pkg.Name] = true
	}
	for _, name := range report.Manifest.RequiredNames() {
		assert.True(t, installed[name], "required dependency %s missing from listing", name)
	}
	for _, name := range report.Manifest.GroupNames("dev") {
		assert.True(t, installed[name], "dev dependency %s missing from listing", name)
	}
}

func TestProvisionIdempotence(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, manifestFixture)

	runner := &fakeRunner{listJSON: listingFor("rich")}

	var first bytes.Buffer
	report, err := newTestProvisioner(dir, runner, &first).Provision(context.Background())
	require.NoError(t, err)
	assert.Equal(t, EnvCreated, report.Env.State)
	assert.Contains(t, first.String(), "Created")

	var second bytes.Buffer
	report, err = newTestProvisioner(dir, runner, &second).Provision(context.Background())
	require.NoError(t, err)
	assert.Equal(t, EnvReused, report.Env.State)
	assert.NotContains(t, second.String(), "Created", "creation notice must be emitted at most once")

	// The environment directory still exists and was never re-created.
	info, err := os.Stat(filepath.Join(dir, DefaultEnvDir))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	for _, line := range runner.commandLines()[4:] {
		assert.NotContains(t, line, "-m venv")
	}
}

func TestProvisionActivation(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, manifestFixture)

	runner := &fakeRunner{listJSON: listingFor("rich")}
	_, err := newTestProvisioner(dir, runner, &bytes.Buffer{}).Provision(context.Background())
	require.NoError(t, err)

	// The pip upgrade runs under the activated environ: VIRTUAL_ENV set,
	// env bin dir prepended to PATH. The venv creation itself does not.
	require.GreaterOrEqual(t, len(runner.calls), 2)
	assert.Nil(t, runner.calls[0].environ)

	envRoot := filepath.Join(dir, DefaultEnvDir)
	environ := runner.calls[1].environ
	assert.Contains(t, environ, "VIRTUAL_ENV="+envRoot)

	path := lookupEnvKey(environ, "PATH")
	assert.True(t, strings.HasPrefix(path, filepath.Join(envRoot, "bin")),
		"PATH %q must start with the env bin dir", path)
	assert.Contains(t, path, "/usr/bin")
}

func TestProvisionFailurePropagation(t *testing.T) {
	cases := []struct {
		name    string
		failOn  string
		wantErr error
	}{
		{"creation failure", "-m venv", ErrCreate},
		{"installer upgrade failure", "install --upgrade pip", ErrUpgrade},
		{"resolution failure", "install -e", ErrResolve},
		{"listing failure", "list --format=json", ErrList},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeManifest(t, dir, manifestFixture)

			runner := &fakeRunner{failOn: tc.failOn, listJSON: listingFor("rich")}
			var out bytes.Buffer

			_, err := newTestProvisioner(dir, runner, &out).Provision(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)

			// No listing is produced on any failure.
			assert.NotContains(t, out.String(), "Installed packages")
		})
	}
}

func TestProvisionMalformedManifest(t *testing.T) {
	t.Run("unparseable", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, "[project\nname=")

		runner := &fakeRunner{}
		_, err := newTestProvisioner(dir, runner, &bytes.Buffer{}).Provision(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrResolve)
	})

	t.Run("missing name", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, "[project]\nversion = \"1.0\"\n")

		runner := &fakeRunner{}
		_, err := newTestProvisioner(dir, runner, &bytes.Buffer{}).Provision(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrResolve)
	})

	t.Run("missing file", func(t *testing.T) {
		dir := t.TempDir()

		runner := &fakeRunner{}
		_, err := newTestProvisioner(dir, runner, &bytes.Buffer{}).Provision(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrResolve)
	})
}

func TestProvisionWithoutGroups(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, manifestFixture)

	runner := &fakeRunner{listJSON: listingFor("rich")}
	p := newTestProvisioner(dir, runner, &bytes.Buffer{})
	p.Groups = nil

	_, err := p.Provision(context.Background())
	require.NoError(t, err)

	assert.Contains(t, runner.commandLines()[2], "install -e .")
	assert.NotContains(t, runner.commandLines()[2], "[")
}

func TestProvisionListingOutput(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, manifestFixture)

	runner := &fakeRunner{listJSON: listingFor("rich", "textual")}
	var out bytes.Buffer

	_, err := newTestProvisioner(dir, runner, &out).Provision(context.Background())
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Installed packages (2)")
	assert.Contains(t, out.String(), "rich")
	assert.Contains(t, out.String(), "textual")
}

func TestEnvDirConflict(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, manifestFixture)

	// A file occupies the environment path.
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultEnvDir), []byte("x"), 0o644))

	_, err := newTestProvisioner(dir, &fakeRunner{}, &bytes.Buffer{}).Provision(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCreate)
}
