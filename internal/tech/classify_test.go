package tech

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_ExactTable(t *testing.T) {
	cases := map[string]struct {
		eco     Ecosystem
		variant string
	}{
		"django":  {Python, "django"},
		"Flask":   {Python, "flask"},
		"FastAPI": {Python, "fastapi"},
		"pyramid": {Python, "pyramid"},
		"python":  {Python, VariantGeneric},
		"React":   {Node, "react"},
		"vue":     {Node, "vue"},
		"svelte":  {Node, "svelte"},
		"node":    {Node, "express"},
		"nodejs":  {Node, "express"},
		"express": {Node, "express"},
		"nextjs":  {Node, "next"},
		"next":    {Node, "next"},
		"NUXT":    {Node, "nuxt"},
		"rust":    {Rust, "cargo"},
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			c := Classify(in)
			assert.Equal(t, Known, c.Kind)
			assert.Equal(t, want.eco, c.Ecosystem)
			assert.Equal(t, want.variant, c.Variant)
			assert.Equal(t, in, c.Tech, "original spelling is preserved")
		})
	}
}

func TestClassify_AliasesShareStrategy(t *testing.T) {
	assert.Equal(t, Classify("node").Variant, Classify("nodejs").Variant)
	assert.Equal(t, Classify("next").Variant, Classify("nextjs").Variant)
}

func TestClassify_Heuristic(t *testing.T) {
	c := Classify("numpy-stack")
	assert.Equal(t, Heuristic, c.Kind)
	assert.Equal(t, Python, c.Ecosystem)
	assert.Equal(t, VariantGeneric, c.Variant)
	assert.Equal(t, "numpy", c.Package)

	c = Classify("Webpack")
	assert.Equal(t, Heuristic, c.Kind)
	assert.Equal(t, Node, c.Ecosystem)
	assert.Equal(t, "webpack", c.Package)
}

func TestClassify_Unknown(t *testing.T) {
	for _, in := range []string{"cobol", "html", "", "  "} {
		c := Classify(in)
		assert.Equal(t, Unknown, c.Kind, in)
		assert.Equal(t, "no specific scaffolding", c.String())
	}
}

func TestClassify_IsPure(t *testing.T) {
	first := Classify("TensorFlow")
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, Classify("TensorFlow"))
	}
}

func TestDefaultTable_Executables(t *testing.T) {
	tbl := DefaultTable()
	assert.Equal(t, []string{"python3", "python"}, tbl.Executables(Python))
	assert.Equal(t, []string{"npm", "yarn", "pnpm"}, tbl.Executables(Node))
	assert.Equal(t, []string{"cargo"}, tbl.Executables(Rust))
	assert.Nil(t, tbl.Executables("cobol"))
}

func TestTable_NotebookAndLikelyPackage(t *testing.T) {
	tbl := DefaultTable()
	assert.True(t, tbl.IsNotebookPackage(Python, "TensorFlow"))
	assert.False(t, tbl.IsNotebookPackage(Python, "numpy"))
	assert.True(t, tbl.LikelyPackage(Node, "lodash-es"))
	assert.False(t, tbl.LikelyPackage(Node, "left-pad"))
}

func TestLoadTable_RejectsConflictingAliases(t *testing.T) {
	_, err := LoadTable([]byte(`
ecosystems:
  - name: python
    variants:
      generic: [py]
  - name: node
    variants:
      express: [py]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listed under both")
}

func TestTable_MergeExtendsWithoutTouchingDefault(t *testing.T) {
	extra, err := LoadTable([]byte(`
ecosystems:
  - name: python
    packages: [polars]
  - name: node
    executables: [pnpm, npm]
    variants:
      react: [preact]
`))
	require.NoError(t, err)

	tbl := DefaultTable().Clone()
	require.NoError(t, tbl.Merge(extra))

	c := tbl.Classify("polars")
	assert.Equal(t, Heuristic, c.Kind)
	assert.Equal(t, Python, c.Ecosystem)

	c = tbl.Classify("Preact")
	assert.Equal(t, Known, c.Kind)
	assert.Equal(t, "react", c.Variant)
	assert.Equal(t, []string{"pnpm", "npm"}, tbl.Executables(Node))

	assert.Equal(t, Unknown, DefaultTable().Classify("polars").Kind)
	assert.Equal(t, []string{"npm", "yarn", "pnpm"}, DefaultTable().Executables(Node))
}

func TestLoadTableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "techs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ecosystems:\n  - name: go\n    executables: [go]\n    variants:\n      module: [go, golang]\n"), 0o644))

	tbl, err := LoadTableFile(path)
	require.NoError(t, err)
	c := tbl.Classify("Golang")
	assert.Equal(t, Known, c.Kind)
	assert.Equal(t, Ecosystem("go"), c.Ecosystem)

	_, err = LoadTableFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
