package schema

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// Project is a scaffolding request: a named directory under Path holding
// one subdirectory per component.
type Project struct {
	Name       string      `yaml:"name"`
	Path       string      `yaml:"path,omitempty"`
	Components []Component `yaml:"components,omitempty"`
}

// Component is one directory inside a project, tagged with a technology.
// Tech is free-form and matched case-insensitively; it is kept verbatim
// for reporting.
type Component struct {
	Name string `yaml:"name"`
	Tech string `yaml:"tech"`
}

// BaseDir returns the directory the project is created in. An empty path
// means the current directory.
func (p Project) BaseDir() string {
	base := strings.TrimSpace(p.Path)
	if base == "" {
		return "."
	}
	return base
}

// Dir returns <base>/<name>.
func (p Project) Dir() string {
	return filepath.Join(p.BaseDir(), p.Name)
}

// Techs returns the component technologies in input order.
func (p Project) Techs() []string {
	out := make([]string, 0, len(p.Components))
	for _, c := range p.Components {
		out = append(out, c.Tech)
	}
	return out
}

// Validate rejects requests the scaffolder must never see: empty names,
// names that are not a single path segment, empty technologies and
// duplicate component names.
func (p Project) Validate() error {
	if err := validateSegment("project", p.Name); err != nil {
		return err
	}
	seen := make(map[string]bool, len(p.Components))
	for _, c := range p.Components {
		if err := validateSegment("component", c.Name); err != nil {
			return err
		}
		if strings.TrimSpace(c.Tech) == "" {
			return fmt.Errorf("component %q: technology cannot be empty", c.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate component name: %s", c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

func validateSegment(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%s name cannot be empty", kind)
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid %s name %q: must be a single directory name", kind, name)
	}
	return nil
}

// ParseComponent parses "name=tech" (or "name:tech").
func ParseComponent(s string) (Component, error) {
	s = strings.TrimSpace(s)
	idx := strings.IndexAny(s, "=:")
	if idx <= 0 || idx == len(s)-1 {
		return Component{}, fmt.Errorf("invalid component %q (expected name=tech)", s)
	}
	return Component{
		Name: strings.TrimSpace(s[:idx]),
		Tech: strings.TrimSpace(s[idx+1:]),
	}, nil
}

// ZipComponents pairs component names with technologies by position.
// When techs is empty every name must carry its own "=tech" suffix.
func ZipComponents(names, techs []string) ([]Component, error) {
	if len(techs) == 0 {
		out := make([]Component, 0, len(names))
		for _, n := range names {
			c, err := ParseComponent(n)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
		return out, nil
	}
	if len(names) != len(techs) {
		return nil, fmt.Errorf("got %d components but %d technologies", len(names), len(techs))
	}
	out := make([]Component, 0, len(names))
	for i := range names {
		out = append(out, Component{
			Name: strings.TrimSpace(names[i]),
			Tech: strings.TrimSpace(techs[i]),
		})
	}
	return out, nil
}

// ParseProjectFile parses a YAML project description.
func ParseProjectFile(content []byte) (*Project, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, errors.New("empty content")
	}
	p := &Project{}
	if err := yaml.Unmarshal(content, p); err != nil {
		return nil, fmt.Errorf("parse project file: %w", err)
	}
	return p, nil
}
