// Package toolchain runs external developer tools (package managers,
// project generators, compilers) and reports which of them are installed.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Command describes one child-process invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
	// Env entries are appended to the current process environment.
	Env []string
}

// String renders the command line for log output.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result captures the outcome of a finished process.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports whether the process exited with status zero.
func (r *Result) Success() bool { return r != nil && r.ExitCode == 0 }

// Runner abstracts process execution so dispatch logic can be tested
// without real toolchains.
type Runner interface {
	// Run blocks until the process exits. A non-zero exit status is reported
	// through Result.ExitCode; the error is reserved for processes that could
	// not be started at all.
	Run(ctx context.Context, cmd Command) (*Result, error)
	// LookPath resolves an executable name against PATH.
	LookPath(name string) (string, error)
}

// OSRunner executes commands with os/exec.
type OSRunner struct {
	// Stdout and Stderr receive the live process output; defaults to
	// os.Stdout/os.Stderr. Output is captured into Result as well.
	Stdout io.Writer
	Stderr io.Writer
	// Stdin is handed to the child, so generators that ask questions stay
	// interactive. Defaults to os.Stdin.
	Stdin io.Reader
}

// NewOSRunner returns a runner wired to the process stdio.
func NewOSRunner() *OSRunner {
	return &OSRunner{}
}

func (r *OSRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (r *OSRunner) Run(ctx context.Context, c Command) (*Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	stdout := r.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := r.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	stdin := r.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = io.MultiWriter(stdout, &stdoutBuf)
	cmd.Stderr = io.MultiWriter(stderr, &stderrBuf)
	cmd.Stdin = stdin

	err := cmd.Run()
	res := &Result{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("run %s: %w", c.Name, err)
	}
	return res, nil
}

// Probe returns the first candidate that resolves on PATH. Candidates are
// tried in the given order and the first hit wins.
func Probe(r Runner, candidates ...string) (string, bool) {
	for _, c := range candidates {
		if _, err := r.LookPath(c); err == nil {
			return c, true
		}
	}
	return "", false
}

// Available reports whether name resolves on PATH.
func Available(r Runner, name string) bool {
	_, ok := Probe(r, name)
	return ok
}

// RunChecked runs cmd and turns a non-zero exit into an error carrying the
// tail of stderr.
func RunChecked(ctx context.Context, r Runner, cmd Command) (*Result, error) {
	res, err := r.Run(ctx, cmd)
	if err != nil {
		return res, err
	}
	if !res.Success() {
		msg := strings.TrimSpace(res.Stderr)
		if msg != "" {
			return res, fmt.Errorf("%s exited with status %d: %s", cmd, res.ExitCode, lastLine(msg))
		}
		return res, fmt.Errorf("%s exited with status %d", cmd, res.ExitCode)
	}
	return res, nil
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
