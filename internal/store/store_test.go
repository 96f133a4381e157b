package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaz8081/gardnr/pkg/schema"
)

func sampleProject(base string) schema.Project {
	return schema.Project{
		Name: "shop",
		Path: base,
		Components: []schema.Component{
			{Name: "api", Tech: "FastAPI"},
			{Name: "web", Tech: "react"},
		},
	}
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "projects.yaml"))
	require.NoError(t, err)
	assert.Empty(t, s.List())
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.yaml")
	require.NoError(t, os.WriteFile(path, []byte("projects: [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestAdd_PersistsRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "projects.yaml")
	base := t.TempDir()
	s, err := Load(path)
	require.NoError(t, err)

	rec, err := s.Add(sampleProject(base))
	require.NoError(t, err)
	assert.Len(t, rec.ID, idLength)
	assert.Equal(t, filepath.Join(base, "shop"), rec.Dir())
	assert.False(t, rec.CreatedAt.IsZero())

	reloaded, err := Load(path)
	require.NoError(t, err)
	got, err := reloaded.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, "FastAPI", got.Components[0].Tech)
	assert.Equal(t, sampleProject(base), got.Project())
}

func TestAdd_RelativePathStoredAbsolute(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "projects.yaml"))
	require.NoError(t, err)

	rec, err := s.Add(schema.Project{Name: "demo"})
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(rec.Path))
}

func TestGet_ByPrefixAndMissing(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "projects.yaml"))
	require.NoError(t, err)
	s.projects = []Record{{ID: "abc12345", Name: "one"}, {ID: "abd99999", Name: "two"}}

	got, err := s.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, "one", got.Name)

	_, err = s.Get("ab")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")

	_, err = s.Get("zzz")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get("")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.yaml")
	s, err := Load(path)
	require.NoError(t, err)
	a, err := s.Add(sampleProject(t.TempDir()))
	require.NoError(t, err)
	b, err := s.Add(schema.Project{Name: "blog", Path: t.TempDir()})
	require.NoError(t, err)

	removed, err := s.Remove(a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, removed.ID)

	reloaded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, reloaded.List(), 1)
	assert.Equal(t, b.ID, reloaded.List()[0].ID)

	_, err = s.Remove(a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRename(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.yaml")
	s, err := Load(path)
	require.NoError(t, err)
	base := t.TempDir()
	rec, err := s.Add(sampleProject(base))
	require.NoError(t, err)

	renamed, err := s.Rename(rec.ID, "store", "")
	require.NoError(t, err)
	assert.Equal(t, "store", renamed.Name)
	assert.Equal(t, base, renamed.Path)

	reloaded, err := Load(path)
	require.NoError(t, err)
	got, err := reloaded.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "store", got.Name)

	_, err = s.Rename("missing", "x", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindByDir(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "projects.yaml"))
	require.NoError(t, err)
	base := t.TempDir()
	rec, err := s.Add(sampleProject(base))
	require.NoError(t, err)

	got, ok := s.FindByDir(filepath.Join(base, "shop"))
	require.True(t, ok)
	assert.Equal(t, rec.ID, got.ID)

	_, ok = s.FindByDir(filepath.Join(base, "other"))
	assert.False(t, ok)
}
