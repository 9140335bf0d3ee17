package project

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest is the parsed resolve.toml.
type Manifest struct {
	Path           string
	Root           string
	Name           string
	ModulesDir     string // absolute
	MaxDiagnostics int
	Search         SearchDefaults
}

// SearchDefaults seeds the query command's flags.
type SearchDefaults struct {
	Imports       string
	Facilities    string
	LocalPriority bool
}

var (
	// ErrProjectSectionMissing indicates that [project] is missing in resolve.toml.
	ErrProjectSectionMissing = errors.New("missing [project]")
	// ErrProjectNameMissing indicates that [project].name is missing in resolve.toml.
	ErrProjectNameMissing = errors.New("missing [project].name")
)

type manifestFile struct {
	Project struct {
		Name           string `toml:"name"`
		Modules        string `toml:"modules"`
		MaxDiagnostics int    `toml:"max_diagnostics"`
	} `toml:"project"`
	Search struct {
		Imports       string `toml:"imports"`
		Facilities    string `toml:"facilities"`
		LocalPriority bool   `toml:"local_priority"`
	} `toml:"search"`
}

// LoadManifest parses resolve.toml at path.
func LoadManifest(path string) (*Manifest, error) {
	var raw manifestFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("project") {
		return nil, fmt.Errorf("%s: %w", path, ErrProjectSectionMissing)
	}
	if raw.Project.Name == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrProjectNameMissing)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	root := filepath.Dir(path)
	modules := raw.Project.Modules
	if modules == "" {
		modules = "."
	}
	if !filepath.IsAbs(modules) {
		modules = filepath.Join(root, modules)
	}
	maxDiags := raw.Project.MaxDiagnostics
	if maxDiags == 0 {
		maxDiags = 100
	}
	return &Manifest{
		Path:           path,
		Root:           root,
		Name:           raw.Project.Name,
		ModulesDir:     filepath.Clean(modules),
		MaxDiagnostics: maxDiags,
		Search: SearchDefaults{
			Imports:       raw.Search.Imports,
			Facilities:    raw.Search.Facilities,
			LocalPriority: raw.Search.LocalPriority,
		},
	}, nil
}
