package scaffold

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaz8081/gardnr/internal/config"
	"github.com/chaz8081/gardnr/internal/notify"
	"github.com/chaz8081/gardnr/internal/tech"
	"github.com/chaz8081/gardnr/internal/toolchain"
	"github.com/chaz8081/gardnr/pkg/schema"
)

func TestMain(m *testing.M) {
	notify.DisableColor()
	os.Exit(m.Run())
}

func newTestEnv(runner *toolchain.FakeRunner, policy string) (*Env, *bytes.Buffer) {
	var out bytes.Buffer
	return &Env{
		Runner:        runner,
		Table:         tech.DefaultTable(),
		Out:           &out,
		InstallPolicy: policy,
	}, &out
}

// newRequest creates <tmp>/shop and returns a request for one component.
func newRequest(t *testing.T, component, techName string) Request {
	t.Helper()
	projectDir := filepath.Join(t.TempDir(), "shop")
	require.NoError(t, os.Mkdir(projectDir, 0o755))
	return Request{
		ProjectDir: projectDir,
		Component:  schema.Component{Name: component, Tech: techName},
		Class:      tech.Classify(techName),
	}
}

// generate is a handler that mimics a generator writing <dir>/<name>/<file>.
func generate(name, file, content string) toolchain.Handler {
	return func(cmd toolchain.Command) (*toolchain.Result, error) {
		dir := filepath.Join(cmd.Dir, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		return &toolchain.Result{}, os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644)
	}
}

func TestRegistry_BuiltIns(t *testing.T) {
	env, _ := newTestEnv(toolchain.NewFakeRunner(), config.InstallNo)
	reg := NewRegistry(env)

	for _, eco := range []tech.Ecosystem{tech.Python, tech.Node, tech.Rust} {
		s, ok := reg.For(eco)
		require.True(t, ok, eco)
		assert.Equal(t, eco, s.Ecosystem())
	}
	_, ok := reg.For(tech.Ecosystem("java"))
	assert.False(t, ok)
}

func TestManagesOwnDir(t *testing.T) {
	env, _ := newTestEnv(toolchain.NewFakeRunner(), config.InstallNo)
	reg := NewRegistry(env)
	py, _ := reg.For(tech.Python)
	node, _ := reg.For(tech.Node)
	rust, _ := reg.For(tech.Rust)

	assert.True(t, py.ManagesOwnDir("django"))
	assert.False(t, py.ManagesOwnDir("flask"))
	assert.True(t, node.ManagesOwnDir("react"))
	assert.True(t, node.ManagesOwnDir("next"))
	assert.False(t, node.ManagesOwnDir("express"))
	assert.True(t, rust.ManagesOwnDir("cargo"))
}

func TestInstallPolicy(t *testing.T) {
	var asked []string
	env := &Env{InstallPolicy: config.InstallAsk, Confirm: func(p string) (bool, error) {
		asked = append(asked, p)
		return true, nil
	}}
	assert.True(t, env.allowInstall("Install Django?"))
	assert.Equal(t, []string{"Install Django?"}, asked)

	env.Confirm = nil
	assert.False(t, env.allowInstall("Install Django?"), "ask without a prompt answers no")

	assert.True(t, (&Env{InstallPolicy: config.InstallYes}).allowInstall("x"))
	assert.False(t, (&Env{InstallPolicy: config.InstallNo}).allowInstall("x"))
}

func TestMissingToolError(t *testing.T) {
	err := &MissingToolError{Tool: "cargo"}
	assert.Equal(t, "cargo not found: install it first", err.Error())
	assert.ErrorIs(t, err, ErrToolchainNotFound)
}

func TestRender_Templates(t *testing.T) {
	req := Request{ProjectDir: "/tmp/shop", Component: schema.Component{Name: "api", Tech: "FastAPI"}}

	out, err := render("fastapi_main.py", newStubData(req, []string{"fastapi", "uvicorn"}))
	require.NoError(t, err)
	assert.Contains(t, out, `FastAPI(title="Shop api")`)

	out, err = render("requirements.txt", newStubData(req, []string{"fastapi", "uvicorn"}))
	require.NoError(t, err)
	assert.Equal(t, "fastapi\nuvicorn", trimLines(out))

	out, err = render("requirements.txt", newStubData(req, nil))
	require.NoError(t, err)
	assert.Equal(t, "# api has no third-party dependencies yet", trimLines(out))

	out, err = render("node_index.js", newStubData(req, []string{"socket.io"}))
	require.NoError(t, err)
	assert.Contains(t, out, `const socketIo = require("socket.io");`)
}

func trimLines(s string) string {
	return string(bytes.TrimSpace([]byte(s)))
}
