// Package repo initializes and clones git repositories for new projects.
package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	gitssh "github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

const (
	fallbackName  = "gardnr"
	fallbackEmail = "gardnr@localhost"

	// InitialCommitMessage is used for the first commit of a new project.
	InitialCommitMessage = "Initial commit"
)

// Author overrides the commit identity. Empty fields fall back to the
// global git config and then to a gardnr identity.
type Author struct {
	Name  string
	Email string
}

// InitResult describes a freshly initialized repository.
type InitResult struct {
	Dir    string
	Commit plumbing.Hash
	// Empty is set when there was nothing to commit.
	Empty bool
}

// Init creates a repository in dir, stages everything and records an
// initial commit. A directory that is already a repository is an error.
func Init(dir string, author Author) (*InitResult, error) {
	r, err := git.PlainInit(dir, false)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryAlreadyExists) {
			return nil, fmt.Errorf("%s is already a git repository", dir)
		}
		return nil, fmt.Errorf("git init: %w", err)
	}
	res := &InitResult{Dir: dir}

	wt, err := r.Worktree()
	if err != nil {
		return nil, fmt.Errorf("worktree: %w", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return nil, fmt.Errorf("git add: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("git status: %w", err)
	}
	if status.IsClean() {
		res.Empty = true
		return res, nil
	}

	hash, err := wt.Commit(InitialCommitMessage, &git.CommitOptions{
		Author: signature(r, author),
	})
	if err != nil {
		return nil, fmt.Errorf("git commit: %w", err)
	}
	res.Commit = hash
	return res, nil
}

// signature resolves the commit identity.
func signature(r *git.Repository, a Author) *object.Signature {
	name, email := a.Name, a.Email
	if name == "" || email == "" {
		if cfg, err := r.ConfigScoped(config.GlobalScope); err == nil {
			if name == "" {
				name = cfg.User.Name
			}
			if email == "" {
				email = cfg.User.Email
			}
		}
	}
	if name == "" {
		name = fallbackName
	}
	if email == "" {
		email = fallbackEmail
	}
	return &object.Signature{Name: name, Email: email, When: time.Now()}
}

// CloneOptions selects what to clone.
type CloneOptions struct {
	URL string
	// Ref is a branch or tag name; empty clones the default branch.
	Ref string
}

// Clone copies a remote (or local) repository into dir, which must not
// exist yet or be empty. Refs are tried as a branch first, then as a tag.
func Clone(dir string, opts CloneOptions) error {
	if strings.TrimSpace(opts.URL) == "" {
		return errors.New("clone: empty repository URL")
	}
	if entries, err := os.ReadDir(dir); err == nil && len(entries) > 0 {
		return fmt.Errorf("clone: %s is not empty", dir)
	}

	cloneOpts := &git.CloneOptions{
		URL:  opts.URL,
		Auth: authMethod(opts.URL),
	}
	if opts.Ref != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(opts.Ref)
		cloneOpts.SingleBranch = true
	}

	_, err := git.PlainClone(dir, false, cloneOpts)
	if err != nil && opts.Ref != "" {
		_ = os.RemoveAll(dir)
		cloneOpts.ReferenceName = plumbing.NewTagReferenceName(opts.Ref)
		_, err = git.PlainClone(dir, false, cloneOpts)
		if err != nil {
			_ = os.RemoveAll(dir)
			return fmt.Errorf("clone %s: ref %q not found as branch or tag", opts.URL, opts.Ref)
		}
	}
	if err != nil {
		return fmt.Errorf("git clone %s: %w", opts.URL, err)
	}
	return nil
}

// authMethod uses the SSH agent for SSH URLs; other transports need none.
func authMethod(url string) transport.AuthMethod {
	if isSSHURL(url) {
		auth, err := gitssh.NewSSHAgentAuth("git")
		if err == nil {
			return auth
		}
	}
	return nil
}

func isSSHURL(url string) bool {
	return strings.HasPrefix(url, "git@") || strings.HasPrefix(url, "ssh://")
}

// IsRepository reports whether dir holds a .git directory.
func IsRepository(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}
