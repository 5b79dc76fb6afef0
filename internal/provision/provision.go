// Package provision bootstraps the isolated runtime environment declared
// by the project's dependency manifest: create the environment if absent,
// activate it, bring the package installer up to date, install the project
// in editable mode with the requested optional groups, and report the
// installed package set.
//
// The operation is strictly sequential and fail-fast: each step's failure
// aborts the remainder, nothing is retried, and an existing environment is
// never deleted or reset.
package provision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Step failure classes, one per provisioning step. Each wraps the
// underlying tool error.
var (
	// ErrCreate means the isolated environment could not be created.
	ErrCreate = errors.New("environment creation failed")

	// ErrUpgrade means the package installer upgrade failed.
	ErrUpgrade = errors.New("installer upgrade failed")

	// ErrResolve means dependency resolution or installation failed.
	ErrResolve = errors.New("dependency resolution failed")

	// ErrList means the installed-package listing failed.
	ErrList = errors.New("installed package listing failed")
)

// DefaultEnvDir is the conventional environment directory name.
const DefaultEnvDir = ".venv"

// Package is one entry of the installed package set.
type Package struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Report is the observable result of a successful provisioning run.
type Report struct {
	Env      Env
	Manifest *Manifest
	Packages []Package
}

// Provisioner performs one idempotent provisioning pass. The zero value
// is not usable; use New.
type Provisioner struct {
	// Dir is the project directory holding the dependency manifest.
	Dir string

	// EnvDir is the environment directory, relative to Dir unless
	// absolute. Defaults to DefaultEnvDir.
	EnvDir string

	// Python is the interpreter used to create the environment.
	Python string

	// Groups are the optional dependency groups to install alongside the
	// required set.
	Groups []string

	// Runner executes external commands.
	Runner Runner

	// Out receives the creation notice and the package listing.
	Out io.Writer

	// BaseEnviron seeds activation. Nil means os.Environ().
	BaseEnviron []string

	Logger *zap.Logger
}

// New returns a Provisioner for the project directory with defaults:
// .venv environment, python3 interpreter, the dev group, exec-backed
// runner, stdout reporting.
func New(dir string) *Provisioner {
	return &Provisioner{
		Dir:    dir,
		EnvDir: DefaultEnvDir,
		Python: "python3",
		Groups: []string{"dev"},
		Runner: ExecRunner{},
		Out:    os.Stdout,
		Logger: zap.NewNop(),
	}
}

// Provision runs the full sequence. On success the environment contains a
// working editable install of the project plus the requested groups, and
// the installed package set has been written to Out.
func (p *Provisioner) Provision(ctx context.Context) (*Report, error) {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	env, err := p.ensureEnv(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("environment ready", zap.String("root", env.Root), zap.Stringer("state", env.State))

	base := p.BaseEnviron
	if base == nil {
		base = os.Environ()
	}
	env.activate(base)

	if _, err := p.Runner.Run(ctx, p.Dir, env.Environ(), env.Pip(), "install", "--upgrade", "pip"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpgrade, err)
	}
	logger.Info("package installer upgraded")

	manifest, err := LoadManifest(filepath.Join(p.Dir, ManifestFile))
	if err != nil {
		// A malformed manifest is a resolution failure: there is nothing
		// valid to resolve against.
		return nil, fmt.Errorf("%w: %w", ErrResolve, err)
	}

	if _, err := p.Runner.Run(ctx, p.Dir, env.Environ(), env.Pip(), "install", "-e", p.installTarget()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResolve, err)
	}
	logger.Info("project installed",
		zap.String("project", manifest.Project.Name),
		zap.Strings("groups", p.Groups))

	packages, err := p.listInstalled(ctx, env)
	if err != nil {
		return nil, err
	}

	p.printPackages(packages)

	return &Report{Env: *env, Manifest: manifest, Packages: packages}, nil
}

// ensureEnv performs the single existence check: Absent -> Created or
// Present -> Reused. The creation notice is emitted at most once per
// environment lifetime.
func (p *Provisioner) ensureEnv(ctx context.Context) (*Env, error) {
	root := p.EnvDir
	if root == "" {
		root = DefaultEnvDir
	}
	if !filepath.IsAbs(root) {
		root = filepath.Join(p.Dir, root)
	}

	if info, err := os.Stat(root); err == nil {
		if !info.IsDir() {
			return nil, fmt.Errorf("%w: %s exists and is not a directory", ErrCreate, root)
		}
		return &Env{Root: root, State: EnvReused}, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %v", ErrCreate, err)
	}

	if _, err := p.Runner.Run(ctx, p.Dir, nil, p.Python, "-m", "venv", root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreate, err)
	}
	if p.Out != nil {
		fmt.Fprintf(p.Out, "Created virtual environment at %s\n", root)
	}
	return &Env{Root: root, State: EnvCreated}, nil
}

// installTarget renders the editable install argument, e.g. ".[dev]".
func (p *Provisioner) installTarget() string {
	if len(p.Groups) == 0 {
		return "."
	}
	target := ".["
	for i, g := range p.Groups {
		if i > 0 {
			target += ","
		}
		target += g
	}
	return target + "]"
}

// listInstalled enumerates the environment's installed packages.
func (p *Provisioner) listInstalled(ctx context.Context, env *Env) ([]Package, error) {
	out, err := p.Runner.Run(ctx, p.Dir, env.Environ(), env.Pip(), "list", "--format=json")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrList, err)
	}

	var packages []Package
	if err := json.Unmarshal([]byte(out), &packages); err != nil {
		return nil, fmt.Errorf("%w: unparseable listing: %v", ErrList, err)
	}
	return packages, nil
}

func (p *Provisioner) printPackages(packages []Package) {
	if p.Out == nil {
		return
	}
	fmt.Fprintf(p.Out, "Installed packages (%d):\n", len(packages))
	for _, pkg := range packages {
		fmt.Fprintf(p.Out, "  %-40s %s\n", pkg.Name, pkg.Version)
	}
}
