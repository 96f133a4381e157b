package scaffold

import (
	"context"

	"github.com/chaz8081/gardnr/internal/layout"
	"github.com/chaz8081/gardnr/internal/tech"
	"github.com/chaz8081/gardnr/internal/toolchain"
)

// Rust scaffolds crates with cargo. Unlike the interpreted ecosystems a
// missing toolchain is a hard error.
type Rust struct {
	env *Env
}

func (r *Rust) Ecosystem() tech.Ecosystem { return tech.Rust }

func (r *Rust) ManagesOwnDir(string) bool { return true }

func (r *Rust) Scaffold(ctx context.Context, req Request) (Outcome, error) {
	j := newJob(r.env, req)
	cargo, ok := toolchain.Probe(r.env.Runner, r.env.table().Executables(tech.Rust)...)
	if !ok {
		return j.outcome, &MissingToolError{Tool: "cargo"}
	}
	j.outcome.Tool = cargo
	if v, err := toolchain.Version(ctx, r.env.Runner, cargo); err == nil {
		r.env.debugf("using %s %s", cargo, v)
	}

	if _, err := r.env.run(ctx, toolchain.Command{
		Name: cargo,
		Args: []string{"new", req.Component.Name},
		Dir:  req.ProjectDir,
	}); err != nil {
		return j.outcome, err
	}
	return j.outcome, layout.EnsureDir(req.Dir())
}
