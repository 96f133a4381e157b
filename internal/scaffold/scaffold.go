// Package scaffold populates component directories by driving each
// ecosystem's native generators and package managers.
package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/chaz8081/gardnr/internal/config"
	"github.com/chaz8081/gardnr/internal/layout"
	"github.com/chaz8081/gardnr/internal/notify"
	"github.com/chaz8081/gardnr/internal/tech"
	"github.com/chaz8081/gardnr/internal/toolchain"
	"github.com/chaz8081/gardnr/pkg/schema"
)

// ErrToolchainNotFound marks a component that cannot be built at all
// because its required toolchain is missing.
var ErrToolchainNotFound = errors.New("toolchain not found")

// MissingToolError names the missing executable.
type MissingToolError struct {
	Tool string
}

func (e *MissingToolError) Error() string {
	return e.Tool + " not found: install it first"
}

func (e *MissingToolError) Is(target error) bool { return target == ErrToolchainNotFound }

// Request is one component to scaffold inside an existing project directory.
type Request struct {
	ProjectDir string
	Component  schema.Component
	Class      tech.Classification
}

// ProjectName is the project directory's base name, which generators use
// for the directory they create.
func (r Request) ProjectName() string { return filepath.Base(r.ProjectDir) }

// Dir is the final component directory.
func (r Request) Dir() string { return filepath.Join(r.ProjectDir, r.Component.Name) }

// Outcome describes a finished component.
type Outcome struct {
	// Degraded is set when the toolchain was missing and only a bare
	// directory was created.
	Degraded bool
	// Tool is the executable that did the work, if any.
	Tool     string
	Warnings []string
}

// Scaffolder populates components of one ecosystem.
type Scaffolder interface {
	Ecosystem() tech.Ecosystem
	// ManagesOwnDir reports whether the variant's generator creates the
	// component directory itself, in which case the caller must not create
	// it up front.
	ManagesOwnDir(variant string) bool
	Scaffold(ctx context.Context, req Request) (Outcome, error)
}

// ConfirmFunc asks a yes/no question.
type ConfirmFunc func(prompt string) (bool, error)

// Env carries what every scaffolder needs from the outside world.
type Env struct {
	Runner toolchain.Runner
	Table  *tech.Table
	// Out receives status lines. Defaults to os.Stdout.
	Out io.Writer
	// InstallPolicy is one of config.InstallYes, InstallNo, InstallAsk.
	InstallPolicy string
	// Confirm is consulted when InstallPolicy is ask. A nil Confirm
	// answers no.
	Confirm ConfirmFunc
	Debugf  func(format string, args ...any)
}

func (e *Env) out() io.Writer {
	if e.Out == nil {
		return os.Stdout
	}
	return e.Out
}

func (e *Env) table() *tech.Table {
	if e.Table == nil {
		return tech.DefaultTable()
	}
	return e.Table
}

func (e *Env) debugf(format string, args ...any) {
	if e.Debugf != nil {
		e.Debugf(format, args...)
	}
}

// allowInstall applies the install policy to one install step.
func (e *Env) allowInstall(prompt string) bool {
	switch e.InstallPolicy {
	case config.InstallYes:
		return true
	case config.InstallAsk:
		if e.Confirm == nil {
			e.debugf("install skipped (non-interactive): %s", prompt)
			return false
		}
		ok, err := e.Confirm(prompt)
		if err != nil {
			e.debugf("install prompt failed: %v", err)
			return false
		}
		return ok
	default:
		return false
	}
}

// run executes a command and echoes it as activity.
func (e *Env) run(ctx context.Context, cmd toolchain.Command) (*toolchain.Result, error) {
	notify.Activityf(e.out(), "%s", cmd)
	return toolchain.RunChecked(ctx, e.Runner, cmd)
}

// job accumulates the outcome of one Scaffold call.
type job struct {
	env     *Env
	req     Request
	outcome Outcome
}

func newJob(env *Env, req Request) *job {
	return &job{env: env, req: req}
}

func (j *job) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	j.outcome.Warnings = append(j.outcome.Warnings, msg)
	notify.Warningf(j.env.out(), "%s", msg)
}

// degrade leaves a bare component directory behind.
func (j *job) degrade(reason string) (Outcome, error) {
	j.warnf("%s; created an empty %s directory", reason, j.req.Component.Name)
	if err := layout.EnsureDir(j.req.Dir()); err != nil {
		return j.outcome, err
	}
	j.outcome.Degraded = true
	return j.outcome, nil
}

// install runs an install step that is allowed to fail.
func (j *job) install(ctx context.Context, what string, cmd toolchain.Command) bool {
	if !j.env.allowInstall(fmt.Sprintf("Install %s for %s?", what, j.req.Component.Name)) {
		notify.Infof(j.env.out(), "skipped installing %s; run `%s` in %s later", what, cmd, cmd.Dir)
		return false
	}
	if _, err := j.env.run(ctx, cmd); err != nil {
		j.warnf("installing %s failed: %v", what, err)
		return false
	}
	return true
}

// claimGeneratorDir refuses to run a generator that names its output after
// the project when an earlier component already owns that directory.
func (j *job) claimGeneratorDir() error {
	if j.req.Component.Name == j.req.ProjectName() {
		return nil
	}
	generated := filepath.Join(j.req.ProjectDir, j.req.ProjectName())
	taken, err := layout.Exists(generated)
	if err != nil {
		return fmt.Errorf("checking %s: %w", generated, err)
	}
	if taken {
		return fmt.Errorf("generator output %s is another component: %w", generated, layout.ErrNameCollision)
	}
	return nil
}

// reconcile moves a generator's <project>/<project> output to the
// component directory.
func (j *job) reconcile() error {
	generated := filepath.Join(j.req.ProjectDir, j.req.ProjectName())
	renamed, err := layout.Reconcile(j.req.Dir(), generated)
	if err != nil {
		return err
	}
	if renamed {
		j.env.debugf("renamed %s to %s", generated, j.req.Dir())
	}
	return layout.EnsureDir(j.req.Dir())
}

func (j *job) writeFile(name, content string) error {
	path := filepath.Join(j.req.Dir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	notify.Generatef(j.env.out(), "%s", filepath.Join(j.req.Component.Name, name))
	return nil
}

// Registry maps ecosystems to scaffolders.
type Registry struct {
	byEcosystem map[tech.Ecosystem]Scaffolder
}

// NewRegistry returns a registry with the built-in Python, Node and Rust
// scaffolders sharing env.
func NewRegistry(env *Env) *Registry {
	r := &Registry{byEcosystem: make(map[tech.Ecosystem]Scaffolder)}
	r.Register(&Python{env: env})
	r.Register(&Node{env: env})
	r.Register(&Rust{env: env})
	return r
}

// Register adds or replaces the scaffolder for s.Ecosystem().
func (r *Registry) Register(s Scaffolder) {
	r.byEcosystem[s.Ecosystem()] = s
}

// For returns the scaffolder for an ecosystem.
func (r *Registry) For(eco tech.Ecosystem) (Scaffolder, bool) {
	s, ok := r.byEcosystem[eco]
	return s, ok
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
