package toolchain

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
)

// Handler scripts the outcome of one fake invocation. It may touch the
// filesystem to mimic what a real generator would leave behind.
type Handler func(cmd Command) (*Result, error)

// FakeRunner is an in-memory Runner for tests.
type FakeRunner struct {
	mu        sync.Mutex
	installed map[string]bool
	handlers  map[string]Handler
	calls     []Command
}

// NewFakeRunner returns a runner where only the named executables resolve.
func NewFakeRunner(installed ...string) *FakeRunner {
	f := &FakeRunner{
		installed: make(map[string]bool),
		handlers:  make(map[string]Handler),
	}
	for _, name := range installed {
		f.installed[name] = true
	}
	return f
}

// Install marks executables as resolvable.
func (f *FakeRunner) Install(names ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range names {
		f.installed[n] = true
	}
}

// Uninstall removes executables from PATH.
func (f *FakeRunner) Uninstall(names ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range names {
		delete(f.installed, n)
	}
}

// On registers a handler for every invocation of the named executable.
func (f *FakeRunner) On(name string, h Handler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[name] = h
}

// Calls returns the invocations seen so far.
func (f *FakeRunner) Calls() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Command, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsTo returns the invocations of one executable.
func (f *FakeRunner) CallsTo(name string) []Command {
	var out []Command
	for _, c := range f.Calls() {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

func (f *FakeRunner) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.installed[name] {
		return "/usr/bin/" + name, nil
	}
	return "", fmt.Errorf("exec: %q: %w", name, exec.ErrNotFound)
}

func (f *FakeRunner) Run(_ context.Context, cmd Command) (*Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	installed := f.installed[cmd.Name]
	h := f.handlers[cmd.Name]
	f.mu.Unlock()

	if !installed {
		return nil, fmt.Errorf("run %s: %w", cmd.Name, exec.ErrNotFound)
	}
	if h == nil {
		return &Result{}, nil
	}
	return h(cmd)
}

// Exit is a Handler that always exits with the given status.
func Exit(code int, stderr string) Handler {
	return func(Command) (*Result, error) {
		return &Result{ExitCode: code, Stderr: stderr}, nil
	}
}
