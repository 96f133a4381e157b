package scaffold

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/chaz8081/gardnr/internal/layout"
	"github.com/chaz8081/gardnr/internal/notify"
	"github.com/chaz8081/gardnr/internal/tech"
	"github.com/chaz8081/gardnr/internal/toolchain"
)

const djangoAdmin = "django-admin"

// pythonApps describes the web frameworks that get a virtualenv and a stub.
var pythonApps = map[string]struct {
	packages []string
	stub     string
	file     string
}{
	"flask":             {[]string{"flask"}, "flask_app.py", "app.py"},
	"fastapi":           {[]string{"fastapi", "uvicorn"}, "fastapi_main.py", "main.py"},
	"pyramid":           {[]string{"pyramid"}, "pyramid_app.py", "app.py"},
	tech.VariantGeneric: {nil, "python_main.py", "main.py"},
}

// Python scaffolds Django projects, Flask/FastAPI/Pyramid apps and plain
// Python components.
type Python struct {
	env *Env
}

func (p *Python) Ecosystem() tech.Ecosystem { return tech.Python }

// ManagesOwnDir is true for Django, whose startproject names its own
// directory.
func (p *Python) ManagesOwnDir(variant string) bool { return variant == "django" }

func (p *Python) Scaffold(ctx context.Context, req Request) (Outcome, error) {
	j := newJob(p.env, req)
	py, ok := toolchain.Probe(p.env.Runner, p.env.table().Executables(tech.Python)...)
	if !ok {
		return j.degrade("Python not found")
	}
	j.outcome.Tool = py

	if req.Class.Variant == "django" {
		return p.django(ctx, j, py)
	}
	return p.app(ctx, j, py)
}

func (p *Python) django(ctx context.Context, j *job, py string) (Outcome, error) {
	if err := j.claimGeneratorDir(); err != nil {
		return j.outcome, err
	}
	if !toolchain.Available(p.env.Runner, djangoAdmin) {
		j.install(ctx, "Django", toolchain.Command{
			Name: py,
			Args: []string{"-m", "pip", "install", "django"},
			Dir:  j.req.ProjectDir,
		})
		if !toolchain.Available(p.env.Runner, djangoAdmin) {
			return j.degrade("django-admin not found")
		}
	}
	j.outcome.Tool = djangoAdmin

	if _, err := p.env.run(ctx, toolchain.Command{
		Name: djangoAdmin,
		Args: []string{"startproject", j.req.ProjectName()},
		Dir:  j.req.ProjectDir,
	}); err != nil {
		return j.outcome, err
	}
	if err := j.reconcile(); err != nil {
		return j.outcome, err
	}
	return j.outcome, nil
}

func (p *Python) app(ctx context.Context, j *job, py string) (Outcome, error) {
	dir := j.req.Dir()
	if err := layout.EnsureDir(dir); err != nil {
		return j.outcome, err
	}

	spec, ok := pythonApps[j.req.Class.Variant]
	if !ok {
		spec = pythonApps[tech.VariantGeneric]
	}
	packages := append([]string(nil), spec.packages...)
	if pkg := j.req.Class.Package; pkg != "" {
		packages = append(packages, pkg)
	}

	pip := py
	if _, err := p.env.run(ctx, toolchain.Command{Name: py, Args: []string{"-m", "venv", "venv"}, Dir: dir}); err != nil {
		j.warnf("creating virtualenv failed: %v", err)
	} else {
		pip = venvPython(dir)
	}
	if len(packages) > 0 {
		args := append([]string{"-m", "pip", "install"}, packages...)
		j.install(ctx, strings.Join(packages, ", "), toolchain.Command{Name: pip, Args: args, Dir: dir})
	}

	data := newStubData(j.req, packages)
	stub, err := render(spec.stub, data)
	if err != nil {
		return j.outcome, err
	}
	if err := j.writeFile(spec.file, stub); err != nil {
		return j.outcome, err
	}
	reqs, err := render("requirements.txt", data)
	if err != nil {
		return j.outcome, err
	}
	if err := j.writeFile("requirements.txt", strings.TrimSpace(reqs)+"\n"); err != nil {
		return j.outcome, err
	}
	if p.env.table().IsNotebookPackage(tech.Python, j.req.Class.Package) {
		nb, err := render("notebook.ipynb", data)
		if err != nil {
			return j.outcome, err
		}
		if err := j.writeFile("notebook.ipynb", nb); err != nil {
			return j.outcome, err
		}
	}
	notify.Infof(p.env.out(), "activate with: %s", activateHint(j.req.Component.Name))
	return j.outcome, nil
}

// venvPython is the interpreter inside <dir>/venv.
func venvPython(dir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(dir, "venv", "Scripts", "python.exe")
	}
	return filepath.Join(dir, "venv", "bin", "python")
}

func activateHint(component string) string {
	if runtime.GOOS == "windows" {
		return fmt.Sprintf(`%s\venv\Scripts\activate`, component)
	}
	return fmt.Sprintf("source %s/venv/bin/activate", component)
}
