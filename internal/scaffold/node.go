package scaffold

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/chaz8081/gardnr/internal/layout"
	"github.com/chaz8081/gardnr/internal/tech"
	"github.com/chaz8081/gardnr/internal/toolchain"
)

const npx = "npx"

var viteTemplates = map[string]string{
	"react":  "react-ts",
	"vue":    "vue-ts",
	"svelte": "svelte-ts",
}

var (
	expressDeps    = []string{"express", "cors", "helmet", "dotenv"}
	expressDevDeps = []string{"nodemon", "@types/node", "@types/express"}
)

// Node scaffolds Vite, Next.js, Nuxt and Express components with
// whichever of npm, yarn or pnpm is installed first.
type Node struct {
	env *Env
}

func (n *Node) Ecosystem() tech.Ecosystem { return tech.Node }

func (n *Node) ManagesOwnDir(variant string) bool {
	switch variant {
	case "react", "vue", "svelte", "next", "nuxt":
		return true
	}
	return false
}

func (n *Node) Scaffold(ctx context.Context, req Request) (Outcome, error) {
	j := newJob(n.env, req)
	pm, ok := toolchain.Probe(n.env.Runner, n.env.table().Executables(tech.Node)...)
	if !ok {
		return j.degrade("no Node.js package manager found (npm, yarn or pnpm)")
	}
	j.outcome.Tool = pm
	m := packageManager(pm)

	switch v := req.Class.Variant; v {
	case "react", "vue", "svelte":
		return n.vite(ctx, j, m, viteTemplates[v])
	case "next":
		return n.next(ctx, j, m)
	case "nuxt":
		return n.nuxt(ctx, j, m)
	case "express":
		return n.express(ctx, j, m)
	default:
		return n.generic(ctx, j, m)
	}
}

func (n *Node) vite(ctx context.Context, j *job, m packageManager, template string) (Outcome, error) {
	if err := j.claimGeneratorDir(); err != nil {
		return j.outcome, err
	}
	if _, err := n.env.run(ctx, m.create(j.req.ProjectDir, "vite", j.req.ProjectName(), "--template", template)); err != nil {
		return j.outcome, err
	}
	if err := j.reconcile(); err != nil {
		return j.outcome, err
	}
	j.install(ctx, "dependencies", m.installAll(j.req.Dir()))
	if err := setPackageName(j.req.Dir(), j.req.Component.Name); err != nil {
		j.warnf("updating package.json: %v", err)
	}
	return j.outcome, nil
}

func (n *Node) next(ctx context.Context, j *job, m packageManager) (Outcome, error) {
	if err := j.claimGeneratorDir(); err != nil {
		return j.outcome, err
	}
	if !toolchain.Available(n.env.Runner, npx) {
		return j.outcome, &MissingToolError{Tool: npx}
	}
	j.outcome.Tool = npx
	args := []string{
		"create-next-app@latest", j.req.ProjectName(),
		"--typescript", "--tailwind", "--eslint", "--app", "--src-dir",
		"--import-alias", "@/*", "--use-" + string(m),
	}
	if _, err := n.env.run(ctx, toolchain.Command{Name: npx, Args: args, Dir: j.req.ProjectDir}); err != nil {
		return j.outcome, err
	}
	if err := j.reconcile(); err != nil {
		return j.outcome, err
	}
	if err := setPackageName(j.req.Dir(), j.req.Component.Name); err != nil {
		j.warnf("updating package.json: %v", err)
	}
	return j.outcome, nil
}

func (n *Node) nuxt(ctx context.Context, j *job, m packageManager) (Outcome, error) {
	if err := j.claimGeneratorDir(); err != nil {
		return j.outcome, err
	}
	if !toolchain.Available(n.env.Runner, npx) {
		return j.outcome, &MissingToolError{Tool: npx}
	}
	j.outcome.Tool = npx
	args := []string{"nuxi@latest", "init", j.req.ProjectName(), "--packageManager", string(m), "--no-install", "--gitInit=false"}
	if _, err := n.env.run(ctx, toolchain.Command{Name: npx, Args: args, Dir: j.req.ProjectDir}); err != nil {
		return j.outcome, err
	}
	if err := j.reconcile(); err != nil {
		return j.outcome, err
	}
	j.install(ctx, "dependencies", m.installAll(j.req.Dir()))
	return j.outcome, nil
}

func (n *Node) express(ctx context.Context, j *job, m packageManager) (Outcome, error) {
	dir := j.req.Dir()
	if err := layout.EnsureDir(dir); err != nil {
		return j.outcome, err
	}
	if _, err := n.env.run(ctx, m.init(dir)); err != nil {
		return j.outcome, err
	}
	if j.install(ctx, strings.Join(expressDeps, ", "), m.add(dir, false, expressDeps...)) {
		j.install(ctx, strings.Join(expressDevDeps, ", "), m.add(dir, true, expressDevDeps...))
	}

	server, err := render("express_server.js", newStubData(j.req, expressDeps))
	if err != nil {
		return j.outcome, err
	}
	if err := j.writeFile("server.js", server); err != nil {
		return j.outcome, err
	}
	if err := godotenv.Write(map[string]string{"NODE_ENV": "development", "PORT": "3000"}, filepath.Join(dir, ".env")); err != nil {
		return j.outcome, fmt.Errorf("writing .env: %w", err)
	}
	err = editPackageJSON(dir, j.req.Component.Name, map[string]string{
		"main":          "server.js",
		"scripts.start": "node server.js",
		"scripts.dev":   "nodemon server.js",
	})
	if err != nil {
		return j.outcome, err
	}
	return j.outcome, nil
}

func (n *Node) generic(ctx context.Context, j *job, m packageManager) (Outcome, error) {
	dir := j.req.Dir()
	if err := layout.EnsureDir(dir); err != nil {
		return j.outcome, err
	}
	if _, err := n.env.run(ctx, m.init(dir)); err != nil {
		return j.outcome, err
	}

	var packages []string
	if pkg := j.req.Class.Package; pkg != "" {
		packages = append(packages, pkg)
	} else if key := j.req.Class.Key(); n.env.table().LikelyPackage(tech.Node, key) {
		packages = append(packages, key)
	}
	if len(packages) > 0 {
		j.install(ctx, strings.Join(packages, ", "), m.add(dir, false, packages...))
	}

	index, err := render("node_index.js", newStubData(j.req, packages))
	if err != nil {
		return j.outcome, err
	}
	if err := j.writeFile("index.js", strings.TrimLeft(index, "\n")); err != nil {
		return j.outcome, err
	}
	if err := editPackageJSON(dir, j.req.Component.Name, map[string]string{
		"main":          "index.js",
		"scripts.start": "node index.js",
	}); err != nil {
		return j.outcome, err
	}
	return j.outcome, nil
}

// packageManager builds the per-manager spelling of common commands.
type packageManager string

func (m packageManager) create(dir, starter string, args ...string) toolchain.Command {
	var full []string
	if m == "npm" {
		// npm forwards flags to the starter only after "--".
		full = append([]string{"create", starter + "@latest"}, args[:1]...)
		if len(args) > 1 {
			full = append(append(full, "--"), args[1:]...)
		}
	} else {
		full = append([]string{"create", starter}, args...)
	}
	return toolchain.Command{Name: string(m), Args: full, Dir: dir}
}

func (m packageManager) init(dir string) toolchain.Command {
	args := []string{"init", "-y"}
	if m == "pnpm" {
		args = []string{"init"}
	}
	return toolchain.Command{Name: string(m), Args: args, Dir: dir}
}

func (m packageManager) installAll(dir string) toolchain.Command {
	return toolchain.Command{Name: string(m), Args: []string{"install"}, Dir: dir}
}

func (m packageManager) add(dir string, dev bool, pkgs ...string) toolchain.Command {
	verb := "add"
	if m == "npm" {
		verb = "install"
	}
	args := []string{verb}
	if dev {
		args = append(args, "-D")
	}
	return toolchain.Command{Name: string(m), Args: append(args, pkgs...), Dir: dir}
}

func setPackageName(dir, name string) error {
	return editPackageJSON(dir, name, nil)
}

// editPackageJSON sets "name" and the given dotted paths in
// <dir>/package.json, creating a minimal file when none exists.
func editPackageJSON(dir, name string, values map[string]string) error {
	path := filepath.Join(dir, "package.json")
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		data = []byte("{}")
	} else if err != nil {
		return fmt.Errorf("reading package.json: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("package.json in %s is not valid JSON", dir)
	}

	doc := string(data)
	if gjson.Get(doc, "name").String() != name {
		if doc, err = sjson.Set(doc, "name", name); err != nil {
			return err
		}
	}
	for _, key := range sortedKeys(values) {
		if doc, err = sjson.Set(doc, key, values[key]); err != nil {
			return fmt.Errorf("setting %s: %w", key, err)
		}
	}
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("writing package.json: %w", err)
	}
	return nil
}
