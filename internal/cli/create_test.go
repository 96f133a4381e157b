package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/chaz8081/gardnr/internal/extras"
	"github.com/chaz8081/gardnr/internal/repo"
	"github.com/chaz8081/gardnr/internal/toolchain"
	"github.com/chaz8081/gardnr/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectFromFlags_NameEqualsTech(t *testing.T) {
	newTestEnv(t, "")
	flagName = " shop "
	flagComponents = []string{"api=fastapi", "web=react"}
	flagDB = "pg"
	flagGit = true

	p, opts, err := projectFromFlags()
	require.NoError(t, err)
	assert.Equal(t, "shop", p.Name)
	assert.Equal(t, []schema.Component{{Name: "api", Tech: "fastapi"}, {Name: "web", Tech: "react"}}, p.Components)
	assert.Equal(t, createOptions{Git: true, DB: extras.DBPostgres}, opts)
}

func TestProjectFromFlags_ZipsPositionalTechs(t *testing.T) {
	newTestEnv(t, "")
	flagName = "shop"
	flagComponents = []string{"api", "web"}
	flagTechs = []string{"fastapi", "react"}

	p, _, err := projectFromFlags()
	require.NoError(t, err)
	assert.Equal(t, "react", p.Components[1].Tech)
}

func TestProjectFromFlags_ReadsProjectFile(t *testing.T) {
	env := newTestEnv(t, "")
	flagFile = filepath.Join(env.dir, "project.yaml")
	require.NoError(t, os.WriteFile(flagFile, []byte(`name: shop
path: /srv/old
components:
  - name: api
    tech: fastapi
`), 0o644))
	flagPath = env.dir
	flagComponents = []string{"web=react"}

	p, _, err := projectFromFlags()
	require.NoError(t, err)
	assert.Equal(t, "shop", p.Name)
	assert.Equal(t, env.dir, p.Path)
	assert.Equal(t, []schema.Component{{Name: "api", Tech: "fastapi"}, {Name: "web", Tech: "react"}}, p.Components)

	flagFile = filepath.Join(env.dir, "missing.yaml")
	_, _, err = projectFromFlags()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading project file")
}

func TestProjectFromFlags_Rejects(t *testing.T) {
	tests := map[string]func(){
		"count mismatch": func() {
			flagComponents = []string{"api", "web"}
			flagTechs = []string{"fastapi"}
		},
		"missing name": func() {
			flagName = ""
		},
		"bad database": func() {
			flagDB = "oracle"
		},
		"nested component": func() {
			flagComponents = []string{"a/b=rust"}
		},
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			newTestEnv(t, "")
			flagName = "shop"
			mutate()
			_, _, err := projectFromFlags()
			assert.Error(t, err)
		})
	}
}

func TestCreateProject_UnknownTechRecordsProject(t *testing.T) {
	env := newTestEnv(t, "")
	a := env.app(t)
	p := schema.Project{Name: "site", Path: env.dir, Components: []schema.Component{{Name: "docs", Tech: "COBOL"}}}

	require.NoError(t, createProject(context.Background(), a, p, createOptions{}))

	entries, err := os.ReadDir(filepath.Join(env.dir, "site", "docs"))
	require.NoError(t, err)
	assert.Empty(t, entries)

	records := a.store.List()
	require.Len(t, records, 1)
	assert.Equal(t, "site", records[0].Name)
	assert.Contains(t, env.out.String(), "recorded as "+records[0].ID)
	assert.Contains(t, env.out.String(), "docs: plain directory (COBOL)")
}

func TestCreateProject_ComponentFailureStillRecords(t *testing.T) {
	env := newTestEnv(t, "")
	a := env.app(t)
	p := schema.Project{Name: "shop", Path: env.dir, Components: []schema.Component{
		{Name: "engine", Tech: "rust"},
		{Name: "docs", Tech: "cobol"},
	}}

	require.NoError(t, createProject(context.Background(), a, p, createOptions{}))
	assert.Contains(t, env.out.String(), "1 of 2 components failed")

	assert.DirExists(t, filepath.Join(env.dir, "shop", "docs"))
	assert.Len(t, a.store.List(), 1)
	assert.Contains(t, env.out.String(), "cargo not found")
}

func TestCreateProject_InterruptedProjectIsRecorded(t *testing.T) {
	env := newTestEnv(t, "")
	a := env.app(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := schema.Project{Name: "shop", Path: env.dir, Components: []schema.Component{{Name: "docs", Tech: "cobol"}}}
	err := createProject(ctx, a, p, createOptions{})
	require.ErrorIs(t, err, context.Canceled)

	assert.DirExists(t, filepath.Join(env.dir, "shop"))
	rec, ok := a.store.FindByDir(filepath.Join(env.dir, "shop"))
	require.True(t, ok)
	assert.Contains(t, env.out.String(), "recorded as "+rec.ID)
}

func TestCreateProject_ExistingDirectoryIsNoop(t *testing.T) {
	env := newTestEnv(t, "")
	a := env.app(t)
	require.NoError(t, os.Mkdir(filepath.Join(env.dir, "shop"), 0o755))

	p := schema.Project{Name: "shop", Path: env.dir, Components: []schema.Component{{Name: "api", Tech: "cobol"}}}
	require.NoError(t, createProject(context.Background(), a, p, createOptions{}))

	assert.NoDirExists(t, filepath.Join(env.dir, "shop", "api"))
	assert.Empty(t, a.store.List())
}

func TestCreateProject_ExistingRecordedProjectNamesItsID(t *testing.T) {
	env := newTestEnv(t, "")
	rec := seedProject(t, env, "shop")
	env.out.Reset()

	a := env.app(t)
	p := schema.Project{Name: "shop", Path: env.dir, Components: []schema.Component{{Name: "api", Tech: "cobol"}}}
	require.NoError(t, createProject(context.Background(), a, p, createOptions{}))

	assert.Contains(t, env.out.String(), "shop is recorded as "+rec.ID)
	assert.Len(t, a.store.List(), 1)
}

func TestCreateProject_GitAndDatabaseExtras(t *testing.T) {
	env := newTestEnv(t, "git:\n  author_name: Test Author\n  author_email: test@example.com\n")
	a := env.app(t)
	p := schema.Project{Name: "shop", Path: env.dir, Components: []schema.Component{{Name: "docs", Tech: "cobol"}}}

	require.NoError(t, createProject(context.Background(), a, p, createOptions{Git: true, DB: extras.DBSQLite}))

	dir := filepath.Join(env.dir, "shop")
	for _, f := range []string{".gitignore", "README.md", "db.sqlite3", ".env"} {
		assert.FileExists(t, filepath.Join(dir, f))
	}
	assert.True(t, repo.IsRepository(dir))
	assert.Contains(t, env.out.String(), "initialized git repository")
}

func TestCreateProject_ScaffoldsWithFakeToolchain(t *testing.T) {
	env := newTestEnv(t, "")
	env.runner.Install("cargo")
	env.runner.On("cargo", func(cmd toolchain.Command) (*toolchain.Result, error) {
		if len(cmd.Args) > 0 && cmd.Args[0] == "new" {
			dir := filepath.Join(cmd.Dir, cmd.Args[1])
			if err := os.MkdirAll(filepath.Join(dir, "src"), 0o755); err != nil {
				return nil, err
			}
			return &toolchain.Result{}, os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte("[package]\n"), 0o644)
		}
		return &toolchain.Result{Stdout: "cargo 1.79.0 (ffa9cf99a 2024-06-03)\n"}, nil
	})
	a := env.app(t)
	p := schema.Project{Name: "shop", Path: env.dir, Components: []schema.Component{{Name: "engine", Tech: "Rust"}}}

	require.NoError(t, createProject(context.Background(), a, p, createOptions{}))
	assert.FileExists(t, filepath.Join(env.dir, "shop", "engine", "Cargo.toml"))
	assert.Contains(t, env.out.String(), "engine: Rust via cargo")
}

func TestRootCommand_CreatesFromFlags(t *testing.T) {
	env := newTestEnv(t, "")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--config", configPath, "-n", "blog", "-p", env.dir, "-c", "notes=cobol"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, Execute())
	assert.DirExists(t, filepath.Join(env.dir, "blog", "notes"))
	assert.Contains(t, out.String(), "recorded as")
}
