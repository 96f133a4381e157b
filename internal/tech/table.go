// Package tech classifies free-form technology strings into scaffolding
// strategies.
package tech

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	yaml "gopkg.in/yaml.v3"
)

//go:embed techs.yaml
var defaultTableYAML []byte

// Ecosystem names a family of technologies sharing one toolchain.
type Ecosystem string

const (
	Python Ecosystem = "python"
	Node   Ecosystem = "node"
	Rust   Ecosystem = "rust"
)

// VariantGeneric is the strategy used for heuristic matches.
const VariantGeneric = "generic"

// EcosystemSpec is one entry of the technology table.
type EcosystemSpec struct {
	Name Ecosystem `yaml:"name"`
	// Executables are probed in order; the first one found is used.
	Executables []string `yaml:"executables"`
	// Variants maps a strategy name to its accepted spellings.
	Variants map[string][]string `yaml:"variants"`
	// Packages are well-known package names for the substring heuristic.
	Packages []string `yaml:"packages,omitempty"`
	// NotebookPackages get a notebook next to the generic stub.
	NotebookPackages []string `yaml:"notebook_packages,omitempty"`
}

type tableEntry struct {
	ecosystem Ecosystem
	variant   string
}

// Table is the static classification data. Build it with LoadTable or
// DefaultTable; the zero value classifies everything as Unknown.
type Table struct {
	Ecosystems []EcosystemSpec `yaml:"ecosystems"`

	index map[string]tableEntry
}

// LoadTable parses a YAML technology table.
func LoadTable(data []byte) (*Table, error) {
	t := &Table{}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("parse tech table: %w", err)
	}
	if err := t.reindex(); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadTableFile reads a YAML technology table from disk.
func LoadTableFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tech table: %w", err)
	}
	return LoadTable(data)
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// DefaultTable returns the embedded table. Callers must not mutate it;
// use Clone before Merge.
func DefaultTable() *Table {
	defaultOnce.Do(func() {
		t, err := LoadTable(defaultTableYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded tech table: %v", err))
		}
		defaultTable = t
	})
	return defaultTable
}

func (t *Table) reindex() error {
	idx := make(map[string]tableEntry)
	for _, eco := range t.Ecosystems {
		if eco.Name == "" {
			return fmt.Errorf("tech table: ecosystem without a name")
		}
		for variant, aliases := range eco.Variants {
			for _, alias := range aliases {
				key := normalize(alias)
				if prev, ok := idx[key]; ok && (prev.ecosystem != eco.Name || prev.variant != variant) {
					return fmt.Errorf("tech table: %q is listed under both %s/%s and %s/%s",
						alias, prev.ecosystem, prev.variant, eco.Name, variant)
				}
				idx[key] = tableEntry{ecosystem: eco.Name, variant: variant}
			}
		}
	}
	t.index = idx
	return nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{}
	for _, eco := range t.Ecosystems {
		cp := EcosystemSpec{
			Name:             eco.Name,
			Executables:      append([]string(nil), eco.Executables...),
			Packages:         append([]string(nil), eco.Packages...),
			NotebookPackages: append([]string(nil), eco.NotebookPackages...),
			Variants:         make(map[string][]string, len(eco.Variants)),
		}
		for k, v := range eco.Variants {
			cp.Variants[k] = append([]string(nil), v...)
		}
		out.Ecosystems = append(out.Ecosystems, cp)
	}
	_ = out.reindex()
	return out
}

// Merge folds other into t. Executables from other replace t's list when
// set; variants, packages and notebook packages are added.
func (t *Table) Merge(other *Table) error {
	for _, eco := range other.Ecosystems {
		dst := t.ecosystem(eco.Name)
		if dst == nil {
			t.Ecosystems = append(t.Ecosystems, EcosystemSpec{Name: eco.Name, Variants: map[string][]string{}})
			dst = &t.Ecosystems[len(t.Ecosystems)-1]
		}
		if len(eco.Executables) > 0 {
			dst.Executables = append([]string(nil), eco.Executables...)
		}
		if dst.Variants == nil {
			dst.Variants = map[string][]string{}
		}
		for variant, aliases := range eco.Variants {
			dst.Variants[variant] = appendUnique(dst.Variants[variant], aliases...)
		}
		dst.Packages = appendUnique(dst.Packages, eco.Packages...)
		dst.NotebookPackages = appendUnique(dst.NotebookPackages, eco.NotebookPackages...)
	}
	return t.reindex()
}

func (t *Table) ecosystem(name Ecosystem) *EcosystemSpec {
	for i := range t.Ecosystems {
		if t.Ecosystems[i].Name == name {
			return &t.Ecosystems[i]
		}
	}
	return nil
}

// Executables returns the probe candidates for an ecosystem.
func (t *Table) Executables(eco Ecosystem) []string {
	if spec := t.ecosystem(eco); spec != nil {
		return spec.Executables
	}
	return nil
}

// IsNotebookPackage reports whether pkg should get a notebook stub.
func (t *Table) IsNotebookPackage(eco Ecosystem, pkg string) bool {
	spec := t.ecosystem(eco)
	if spec == nil {
		return false
	}
	pkg = normalize(pkg)
	for _, p := range spec.NotebookPackages {
		if normalize(p) == pkg {
			return true
		}
	}
	return false
}

// LikelyPackage reports whether tech contains one of the ecosystem's
// well-known package names.
func (t *Table) LikelyPackage(eco Ecosystem, tech string) bool {
	spec := t.ecosystem(eco)
	if spec == nil {
		return false
	}
	_, ok := matchPackage(spec.Packages, normalize(tech))
	return ok
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func appendUnique(dst []string, items ...string) []string {
	seen := make(map[string]bool, len(dst))
	for _, d := range dst {
		seen[normalize(d)] = true
	}
	for _, it := range items {
		if !seen[normalize(it)] {
			dst = append(dst, it)
			seen[normalize(it)] = true
		}
	}
	return dst
}
