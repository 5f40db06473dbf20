// Package config holds the document types read from disk: namespace
// manifests and the CLI configuration file.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Manifest describes a namespace to build.
type Manifest struct {
	Name    string       `yaml:"name" json:"name" toml:"name"`
	Version string       `yaml:"version" json:"version" toml:"version"`
	Types   []TypeDecl   `yaml:"types" json:"types" toml:"types"`
	Objects []ObjectDecl `yaml:"objects" json:"objects" toml:"objects"`
	Paths   []string     `yaml:"paths" json:"paths" toml:"paths"`
}

// TypeDecl declares an object type to register before objects are placed.
type TypeDecl struct {
	Name     string `yaml:"name" json:"name" toml:"name"`
	Parent   string `yaml:"parent,omitempty" json:"parent,omitempty" toml:"parent,omitempty"`
	Abstract bool   `yaml:"abstract,omitempty" json:"abstract,omitempty" toml:"abstract,omitempty"`
}

// ObjectDecl places an object of Type at Path. Missing parents become containers.
type ObjectDecl struct {
	Path string `yaml:"path" json:"path" toml:"path"`
	Type string `yaml:"type" json:"type" toml:"type"`
}

// Validate reports every structural problem in the manifest at once.
// It does not check type names against a registry.
func (m *Manifest) Validate() error {
	var errs []error
	seenTypes := make(map[string]bool, len(m.Types))
	for i, td := range m.Types {
		switch {
		case strings.TrimSpace(td.Name) == "":
			errs = append(errs, fmt.Errorf("types[%d]: name is required", i))
		case strings.Contains(td.Name, "/"):
			errs = append(errs, fmt.Errorf("types[%d]: name %q must not contain '/'", i, td.Name))
		case seenTypes[td.Name]:
			errs = append(errs, fmt.Errorf("types[%d]: duplicate type %q", i, td.Name))
		}
		seenTypes[td.Name] = true
	}

	seenObjects := make(map[string]bool, len(m.Objects))
	for i, od := range m.Objects {
		if err := checkPath(od.Path); err != nil {
			errs = append(errs, fmt.Errorf("objects[%d]: %w", i, err))
			continue
		}
		if strings.Trim(od.Path, "/") == "" {
			errs = append(errs, fmt.Errorf("objects[%d]: cannot place an object at the root", i))
		}
		if od.Type == "" {
			errs = append(errs, fmt.Errorf("objects[%d]: type is required", i))
		}
		key := strings.TrimRight(od.Path, "/")
		if seenObjects[key] {
			errs = append(errs, fmt.Errorf("objects[%d]: duplicate path %q", i, od.Path))
		}
		seenObjects[key] = true
	}

	for i, p := range m.Paths {
		if err := checkPath(p); err != nil {
			errs = append(errs, fmt.Errorf("paths[%d]: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func checkPath(p string) error {
	if !strings.HasPrefix(p, "/") {
		return fmt.Errorf("path %q must begin with '/'", p)
	}
	for _, part := range strings.Split(p, "/") {
		if part == "." || part == ".." {
			return fmt.Errorf("path %q must not contain '.' or '..'", p)
		}
	}
	return nil
}

// CLIConfig is the optional objtree configuration file.
type CLIConfig struct {
	Output  string        `yaml:"output"`
	Sort    string        `yaml:"sort"`
	NoColor bool          `yaml:"no_color"`
	Tree    TreeConfig    `yaml:"tree"`
	Mermaid MermaidConfig `yaml:"mermaid"`
}

// TreeConfig holds tree output defaults.
type TreeConfig struct {
	Depth     int  `yaml:"depth"`
	ShowRefs  bool `yaml:"show_refs"`
	HideTypes bool `yaml:"hide_types"`
}

// MermaidConfig holds mermaid output defaults.
type MermaidConfig struct {
	Direction string `yaml:"direction"`
}
