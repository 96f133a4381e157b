package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chaz8081/gardnr/internal/layout"
	"github.com/chaz8081/gardnr/internal/store"
	"github.com/chaz8081/gardnr/internal/tech"
	"github.com/chaz8081/gardnr/pkg/schema"
)

// ErrPartialID is returned when a destructive operation is given an ID
// prefix instead of the full project ID.
var ErrPartialID = errors.New("full project ID required")

// ComponentStatus pairs a recorded component with what is on disk.
type ComponentStatus struct {
	Component schema.Component
	Class     tech.Classification
	Disk      ScanResult
}

// ProjectStatus is the report behind the status mode.
type ProjectStatus struct {
	Record     store.Record
	Exists     bool
	Components []ComponentStatus
}

// Manager implements the status, update and delete modes on top of the
// project store.
type Manager struct {
	Store *store.Store
	Table *tech.Table
}

func NewManager(s *store.Store, t *tech.Table) *Manager {
	if t == nil {
		t = tech.DefaultTable()
	}
	return &Manager{Store: s, Table: t}
}

// Status reports a recorded project and the state of its components.
func (m *Manager) Status(id string) (*ProjectStatus, error) {
	rec, err := m.Store.Get(id)
	if err != nil {
		return nil, err
	}
	st := &ProjectStatus{Record: rec}
	if st.Exists, err = layout.Exists(rec.Dir()); err != nil {
		return nil, fmt.Errorf("checking %s: %w", rec.Dir(), err)
	}
	for _, c := range rec.Components {
		cs := ComponentStatus{Component: c, Class: m.Table.Classify(c.Tech)}
		if st.Exists {
			scan, err := ScanComponent(filepath.Join(rec.Dir(), c.Name))
			if err != nil {
				return nil, fmt.Errorf("scanning %s: %w", c.Name, err)
			}
			cs.Disk = *scan
		}
		st.Components = append(st.Components, cs)
	}
	return st, nil
}

// Update renames a project directory and its record. Renaming onto an
// existing directory fails and leaves both untouched.
func (m *Manager) Update(id, newName string) (store.Record, error) {
	rec, err := m.Store.Get(id)
	if err != nil {
		return store.Record{}, err
	}
	next := schema.Project{Name: newName, Path: rec.Path}
	if err := next.Validate(); err != nil {
		return store.Record{}, err
	}
	if newName == rec.Name {
		return rec, nil
	}

	if _, err := layout.Reconcile(next.Dir(), rec.Dir()); err != nil {
		return store.Record{}, err
	}
	updated, err := m.Store.Rename(rec.ID, newName, "")
	if err != nil {
		return store.Record{}, fmt.Errorf("directory renamed but record not updated: %w", err)
	}
	return updated, nil
}

// Delete removes a project directory tree and forgets it. A directory
// that is already gone only drops the record. Unlike the other operations
// it does not accept an ID prefix.
func (m *Manager) Delete(id string) (store.Record, error) {
	rec, err := m.Store.Get(id)
	if err != nil {
		return store.Record{}, err
	}
	if rec.ID != strings.TrimSpace(id) {
		return store.Record{}, fmt.Errorf("%w: %q only prefixes %s", ErrPartialID, id, rec.ID)
	}
	if err := os.RemoveAll(rec.Dir()); err != nil {
		return store.Record{}, fmt.Errorf("removing %s: %w", rec.Dir(), err)
	}
	return m.Store.Remove(rec.ID)
}
