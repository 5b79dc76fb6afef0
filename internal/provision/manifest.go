package provision

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrManifest indicates the dependency manifest is missing, unreadable or
// structurally invalid. It is a dependency-resolution failure: the install
// step cannot proceed without a valid manifest.
var ErrManifest = errors.New("invalid dependency manifest")

// ManifestFile is the conventional manifest name in the project root.
const ManifestFile = "pyproject.toml"

// Manifest is the declarative project manifest the provisioner consumes.
// It is never written by this package.
type Manifest struct {
	Project     Project     `toml:"project"`
	BuildSystem BuildSystem `toml:"build-system"`
	Tool        ToolSection `toml:"tool"`
}

// Project declares identity and dependency groups.
type Project struct {
	Name           string   `toml:"name"`
	Version        string   `toml:"version"`
	Description    string   `toml:"description"`
	Authors        []Author `toml:"authors"`
	License        string   `toml:"license"`
	RequiresPython string   `toml:"requires-python"`

	// Dependencies are always installed.
	Dependencies []string `toml:"dependencies"`

	// OptionalDependencies are named groups installed only on request.
	OptionalDependencies map[string][]string `toml:"optional-dependencies"`
}

// Author identifies a project author.
type Author struct {
	Name  string `toml:"name"`
	Email string `toml:"email"`
}

// BuildSystem declares the builder tool.
type BuildSystem struct {
	Requires     []string `toml:"requires"`
	BuildBackend string   `toml:"build-backend"`
}

// ToolSection carries package-inclusion rules.
type ToolSection struct {
	Setuptools Setuptools `toml:"setuptools"`
}

// Setuptools maps source directories to installable packages and lists
// non-code data files to bundle.
type Setuptools struct {
	Packages    []string            `toml:"packages"`
	PackageData map[string][]string `toml:"package-data"`
}

// LoadManifest reads and validates the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifest, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifest, err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the manifest's required fields.
func (m *Manifest) Validate() error {
	if m.Project.Name == "" {
		return fmt.Errorf("%w: project.name is required", ErrManifest)
	}
	if m.Project.Version == "" {
		return fmt.Errorf("%w: project.version is required", ErrManifest)
	}
	for i, dep := range m.Project.Dependencies {
		if strings.TrimSpace(dep) == "" {
			return fmt.Errorf("%w: empty dependency at index %d", ErrManifest, i)
		}
	}
	for group, deps := range m.Project.OptionalDependencies {
		for i, dep := range deps {
			if strings.TrimSpace(dep) == "" {
				return fmt.Errorf("%w: empty dependency at index %d of group %q", ErrManifest, i, group)
			}
		}
	}
	return nil
}

// HasGroup reports whether the named optional dependency group exists.
func (m *Manifest) HasGroup(name string) bool {
	_, ok := m.Project.OptionalDependencies[name]
	return ok
}

// depNameRe matches the leading distribution name of a PEP 508 requirement
// string, e.g. "rich" in "rich>=13.0" or "foo-bar[extra]==1.2".
var depNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*`)

// DependencyName extracts the bare package name from a requirement string.
func DependencyName(requirement string) string {
	return depNameRe.FindString(strings.TrimSpace(requirement))
}

// RequiredNames returns the bare names of all required dependencies.
func (m *Manifest) RequiredNames() []string {
	names := make([]string, 0, len(m.Project.Dependencies))
	for _, dep := range m.Project.Dependencies {
		if n := DependencyName(dep); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// GroupNames returns the bare names of the dependencies in a group.
func (m *Manifest) GroupNames(group string) []string {
	deps := m.Project.OptionalDependencies[group]
	names := make([]string, 0, len(deps))
	for _, dep := range deps {
		if n := DependencyName(dep); n != "" {
			names = append(names, n)
		}
	}
	return names
}
