package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chaz8081/gardnr/internal/layout"
	"github.com/chaz8081/gardnr/internal/notify"
	"github.com/chaz8081/gardnr/internal/scaffold"
	"github.com/chaz8081/gardnr/internal/tech"
	"github.com/chaz8081/gardnr/pkg/schema"
)

// OpStatus is the outcome of one component.
type OpStatus string

const (
	OpScaffolded OpStatus = "scaffolded"
	OpDegraded   OpStatus = "degraded"
	OpPlain      OpStatus = "plain"
	OpFailed     OpStatus = "failed"
)

// ComponentOp records what happened to one component.
type ComponentOp struct {
	Component string
	Tech      string
	Class     tech.Classification
	Status    OpStatus
	Tool      string
	Warnings  []string
	Error     string
}

// CreateResult summarizes a create run.
type CreateResult struct {
	ProjectDir string
	// Existed is set when the project directory was already there and
	// nothing was touched.
	Existed bool
	Ops     []ComponentOp
}

// Failed returns the failed component operations.
func (r *CreateResult) Failed() []ComponentOp {
	var out []ComponentOp
	for _, op := range r.Ops {
		if op.Status == OpFailed {
			out = append(out, op)
		}
	}
	return out
}

// Count returns how many components ended with status.
func (r *CreateResult) Count(status OpStatus) int {
	n := 0
	for _, op := range r.Ops {
		if op.Status == status {
			n++
		}
	}
	return n
}

// Creator builds a project directory and dispatches each component to
// its ecosystem scaffolder.
type Creator struct {
	Table       *tech.Table
	Scaffolders *scaffold.Registry
	Out         io.Writer
}

// NewCreator wires the built-in scaffolders to env.
func NewCreator(env *scaffold.Env) *Creator {
	return &Creator{
		Table:       env.Table,
		Scaffolders: scaffold.NewRegistry(env),
		Out:         env.Out,
	}
}

func (c *Creator) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Creator) table() *tech.Table {
	if c.Table == nil {
		return tech.DefaultTable()
	}
	return c.Table
}

// Create makes <path>/<name> and populates each component in order. A
// pre-existing project directory turns the call into a no-op. Component
// failures are recorded and processing continues; only failing to probe
// or create the project directory aborts. Nothing is rolled back.
func (c *Creator) Create(ctx context.Context, p schema.Project) (*CreateResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	res := &CreateResult{ProjectDir: p.Dir()}

	exists, err := layout.Exists(res.ProjectDir)
	if err != nil {
		return nil, fmt.Errorf("checking project directory: %w", err)
	}
	if exists {
		res.Existed = true
		notify.Warningf(c.out(), "%s already exists; nothing to do", res.ProjectDir)
		return res, nil
	}
	if err := os.Mkdir(res.ProjectDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating project directory: %w", err)
	}
	notify.Successf(c.out(), "created %s", res.ProjectDir)

	for _, comp := range p.Components {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Ops = append(res.Ops, c.createComponent(ctx, res.ProjectDir, comp))
	}
	return res, nil
}

func (c *Creator) createComponent(ctx context.Context, projectDir string, comp schema.Component) ComponentOp {
	class := c.table().Classify(comp.Tech)
	op := ComponentOp{Component: comp.Name, Tech: comp.Tech, Class: class}
	req := scaffold.Request{ProjectDir: projectDir, Component: comp, Class: class}

	s, ok := c.Scaffolders.For(class.Ecosystem)
	if class.Kind == tech.Unknown || !ok {
		if err := layout.EnsureDir(req.Dir()); err != nil {
			return c.fail(op, err)
		}
		op.Status = OpPlain
		notify.Infof(c.out(), "%s: no specific scaffolding for %s, created an empty directory", comp.Name, comp.Tech)
		return op
	}

	notify.Activityf(c.out(), "%s: %s", comp.Name, class)
	if !s.ManagesOwnDir(class.Variant) {
		if err := layout.EnsureDir(req.Dir()); err != nil {
			return c.fail(op, err)
		}
	}

	outcome, err := s.Scaffold(ctx, req)
	op.Tool = outcome.Tool
	op.Warnings = outcome.Warnings
	if err != nil {
		return c.fail(op, err)
	}
	if outcome.Degraded {
		op.Status = OpDegraded
		return op
	}
	op.Status = OpScaffolded
	notify.Successf(c.out(), "%s ready", comp.Name)
	return op
}

func (c *Creator) fail(op ComponentOp, err error) ComponentOp {
	op.Status = OpFailed
	op.Error = err.Error()
	msg := fmt.Sprintf("failed to scaffold %s (%s): %v", op.Component, op.Tech, err)
	if errors.Is(err, scaffold.ErrToolchainNotFound) || errors.Is(err, layout.ErrNameCollision) {
		msg = fmt.Sprintf("skipped %s (%s): %v", op.Component, op.Tech, err)
	}
	notify.Warningf(c.out(), "%s", msg)
	return op
}
