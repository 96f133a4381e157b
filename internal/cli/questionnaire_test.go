package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/chaz8081/gardnr/internal/extras"
	"github.com/chaz8081/gardnr/internal/repo"
	"github.com/chaz8081/gardnr/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedAsker replays canned answers and fails on unexpected questions.
type scriptedAsker struct {
	inputs   []string
	confirms []bool
	selects  []string
	asked    []string
}

func (s *scriptedAsker) Input(title, _ string) (string, error) {
	s.asked = append(s.asked, title)
	if len(s.inputs) == 0 {
		return "", fmt.Errorf("unexpected input %q", title)
	}
	v := s.inputs[0]
	s.inputs = s.inputs[1:]
	return v, nil
}

func (s *scriptedAsker) Confirm(title string, _ bool) (bool, error) {
	s.asked = append(s.asked, title)
	if len(s.confirms) == 0 {
		return false, fmt.Errorf("unexpected confirm %q", title)
	}
	v := s.confirms[0]
	s.confirms = s.confirms[1:]
	return v, nil
}

func (s *scriptedAsker) Select(title string, options []string) (string, error) {
	s.asked = append(s.asked, title)
	if len(s.selects) == 0 {
		return "", fmt.Errorf("unexpected select %q", title)
	}
	v := s.selects[0]
	s.selects = s.selects[1:]
	for _, o := range options {
		if o == v {
			return v, nil
		}
	}
	return "", fmt.Errorf("%q is not an option of %q", v, title)
}

func TestAskPlan_EmptyComponentNameEndsLoop(t *testing.T) {
	q := &scriptedAsker{
		inputs:   []string{"shop", "/tmp/x", "api", "fastapi", "web", "react", ""},
		selects:  []string{startScaffold, "postgres"},
		confirms: []bool{true},
	}

	pl, err := askPlan(q, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, schema.Project{
		Name: "shop",
		Path: "/tmp/x",
		Components: []schema.Component{
			{Name: "api", Tech: "fastapi"},
			{Name: "web", Tech: "react"},
		},
	}, pl.Project)
	assert.Equal(t, createOptions{Git: true, DB: extras.DBPostgres}, pl.Options)
	assert.Nil(t, pl.Clone)
}

func TestAskPlan_EmptyTechIsAskedAgain(t *testing.T) {
	q := &scriptedAsker{
		inputs:   []string{"shop", "", "api", "", "", "fastapi", ""},
		selects:  []string{startScaffold, dbSkip},
		confirms: []bool{false},
	}
	var out bytes.Buffer

	pl, err := askPlan(q, &out)
	require.NoError(t, err)
	assert.Equal(t, []schema.Component{{Name: "api", Tech: "fastapi"}}, pl.Project.Components)
	assert.Equal(t, 2, bytes.Count(out.Bytes(), []byte("technology cannot be empty")))
	assert.Equal(t, createOptions{}, pl.Options)
}

func TestAskPlan_EmptyProjectName(t *testing.T) {
	_, err := askPlan(&scriptedAsker{inputs: []string{""}}, &bytes.Buffer{})
	require.ErrorIs(t, err, errEmptyProjectName)
}

func TestAskPlan_DuplicateComponentRejected(t *testing.T) {
	q := &scriptedAsker{
		inputs:  []string{"shop", "", "api", "rust", "api", "go", ""},
		selects: []string{startScaffold},
	}
	_, err := askPlan(q, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate component name")
}

func TestAskPlan_Clone(t *testing.T) {
	q := &scriptedAsker{
		inputs:  []string{"shop", "", "https://example.com/shop.git", "v1.0.0"},
		selects: []string{startClone},
	}
	pl, err := askPlan(q, &bytes.Buffer{})
	require.NoError(t, err)
	require.NotNil(t, pl.Clone)
	assert.Equal(t, repo.CloneOptions{URL: "https://example.com/shop.git", Ref: "v1.0.0"}, *pl.Clone)
}

func TestRunQuestionnaire_CreatesProject(t *testing.T) {
	env := newTestEnv(t, "")
	q := &scriptedAsker{
		inputs:   []string{"notes", env.dir, "pages", "cobol", ""},
		selects:  []string{startScaffold, "sqlite"},
		confirms: []bool{false},
	}

	require.NoError(t, runQuestionnaire(context.Background(), q, env.out))
	assert.DirExists(t, filepath.Join(env.dir, "notes", "pages"))
	assert.FileExists(t, filepath.Join(env.dir, "notes", "db.sqlite3"))
	assert.Len(t, env.app(t).store.List(), 1)
}

func TestRunQuestionnaire_ClonesLocalRepository(t *testing.T) {
	env := newTestEnv(t, "")
	src := filepath.Join(env.dir, "upstream")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "README.md"), []byte("# upstream\n"), 0o644))
	_, err := repo.Init(src, repo.Author{Name: "Test", Email: "test@example.com"})
	require.NoError(t, err)

	q := &scriptedAsker{
		inputs:  []string{"fork", env.dir, src, ""},
		selects: []string{startClone},
	}
	require.NoError(t, runQuestionnaire(context.Background(), q, env.out))

	assert.FileExists(t, filepath.Join(env.dir, "fork", "README.md"))
	records := env.app(t).store.List()
	require.Len(t, records, 1)
	assert.Equal(t, "fork", records[0].Name)
	assert.Empty(t, records[0].Components)
}
