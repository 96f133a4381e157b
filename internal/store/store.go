// Package store remembers the projects gardnr has created so they can be
// addressed by ID later.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	yaml "gopkg.in/yaml.v3"

	"github.com/chaz8081/gardnr/pkg/schema"
)

// ErrNotFound is returned when no record matches an ID.
var ErrNotFound = errors.New("project not found")

const (
	idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	idLength   = 8
)

// Record is one created project.
type Record struct {
	ID         string             `yaml:"id"`
	Name       string             `yaml:"name"`
	Path       string             `yaml:"path"`
	Components []schema.Component `yaml:"components,omitempty"`
	CreatedAt  time.Time          `yaml:"created_at"`
}

// Dir returns the project directory.
func (r Record) Dir() string { return filepath.Join(r.Path, r.Name) }

// Project converts the record back to a request.
func (r Record) Project() schema.Project {
	return schema.Project{Name: r.Name, Path: r.Path, Components: r.Components}
}

type file struct {
	Projects []Record `yaml:"projects"`
}

// Store is the YAML-backed project list. Mutating methods persist
// immediately.
type Store struct {
	path     string
	projects []Record
}

// Load reads the store at path. A missing file yields an empty store.
func Load(path string) (*Store, error) {
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read project store: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse project store %s: %w", path, err)
	}
	s.projects = f.Projects
	return s, nil
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// List returns all records in creation order.
func (s *Store) List() []Record {
	out := make([]Record, len(s.projects))
	copy(out, s.projects)
	return out
}

// Save writes the store through a temp file and rename.
func (s *Store) Save() error {
	data, err := yaml.Marshal(file{Projects: s.projects})
	if err != nil {
		return fmt.Errorf("marshal project store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write project store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write project store: %w", err)
	}
	return nil
}

// Add records a newly created project. The base path is stored absolute
// so the record stays valid from any working directory.
func (s *Store) Add(p schema.Project) (Record, error) {
	base, err := filepath.Abs(p.BaseDir())
	if err != nil {
		return Record{}, fmt.Errorf("resolve project path: %w", err)
	}
	id, err := s.newID()
	if err != nil {
		return Record{}, err
	}
	rec := Record{
		ID:         id,
		Name:       p.Name,
		Path:       base,
		Components: append([]schema.Component(nil), p.Components...),
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
	s.projects = append(s.projects, rec)
	if err := s.Save(); err != nil {
		s.projects = s.projects[:len(s.projects)-1]
		return Record{}, err
	}
	return rec, nil
}

func (s *Store) newID() (string, error) {
	for range 5 {
		id, err := gonanoid.Generate(idAlphabet, idLength)
		if err != nil {
			return "", fmt.Errorf("generate project id: %w", err)
		}
		if _, err := s.index(id); errors.Is(err, ErrNotFound) {
			return id, nil
		}
	}
	return "", errors.New("generate project id: too many collisions")
}

// Get returns the record with the given ID. A unique ID prefix is
// accepted as well.
func (s *Store) Get(id string) (Record, error) {
	i, err := s.index(id)
	if err != nil {
		return Record{}, err
	}
	return s.projects[i], nil
}

func (s *Store) index(id string) (int, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return -1, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	match := -1
	for i, r := range s.projects {
		if r.ID == id {
			return i, nil
		}
		if strings.HasPrefix(r.ID, id) {
			if match >= 0 {
				return -1, fmt.Errorf("id prefix %q is ambiguous", id)
			}
			match = i
		}
	}
	if match < 0 {
		return -1, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return match, nil
}

// Remove deletes a record and returns it.
func (s *Store) Remove(id string) (Record, error) {
	i, err := s.index(id)
	if err != nil {
		return Record{}, err
	}
	rec := s.projects[i]
	prev := s.projects
	s.projects = append(append([]Record(nil), prev[:i]...), prev[i+1:]...)
	if err := s.Save(); err != nil {
		s.projects = prev
		return Record{}, err
	}
	return rec, nil
}

// Rename changes a record's name and base path.
func (s *Store) Rename(id, name, path string) (Record, error) {
	i, err := s.index(id)
	if err != nil {
		return Record{}, err
	}
	prev := s.projects[i]
	s.projects[i].Name = name
	if path != "" {
		s.projects[i].Path = path
	}
	if err := s.Save(); err != nil {
		s.projects[i] = prev
		return Record{}, err
	}
	return s.projects[i], nil
}

// FindByDir returns the record whose project directory is dir.
func (s *Store) FindByDir(dir string) (Record, bool) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Record{}, false
	}
	for _, r := range s.projects {
		if filepath.Clean(r.Dir()) == abs {
			return r, true
		}
	}
	return Record{}, false
}
