// Package vcs exposes the version-control capability the assembly engine
// relies on. Git via the installed binary is the only adapter.
package vcs

import (
	"context"

	"github.com/skaphos/tlbuild/internal/gitx"
)

// Adapter defines the VCS operations tlbuild relies on. Any failure from an
// Adapter method is fatal for the whole run.
type Adapter interface {
	Name() string
	Clone(ctx context.Context, url, dir string) error
	RemoteBranches(ctx context.Context, dir string) ([]string, error)
	Tags(ctx context.Context, dir string) ([]string, error)
	Checkout(ctx context.Context, dir, ref string) error
	AddRemote(ctx context.Context, dir, name, url string) error
	Pull(ctx context.Context, dir, remote, branch string) error
	CleanUntracked(ctx context.Context, dir string) error
}

// GitAdapter implements Adapter using the git CLI via gitx.
type GitAdapter struct {
	Runner gitx.Runner
}

func NewGitAdapter(runner gitx.Runner) *GitAdapter {
	if runner == nil {
		runner = &gitx.GitRunner{}
	}
	return &GitAdapter{Runner: runner}
}

func (g *GitAdapter) Name() string { return "git" }

func (g *GitAdapter) Clone(ctx context.Context, url, dir string) error {
	return gitx.Clone(ctx, g.Runner, url, dir)
}

func (g *GitAdapter) RemoteBranches(ctx context.Context, dir string) ([]string, error) {
	return gitx.RemoteBranches(ctx, g.Runner, dir)
}

func (g *GitAdapter) Tags(ctx context.Context, dir string) ([]string, error) {
	return gitx.Tags(ctx, g.Runner, dir)
}

func (g *GitAdapter) Checkout(ctx context.Context, dir, ref string) error {
	return gitx.Checkout(ctx, g.Runner, dir, ref)
}

func (g *GitAdapter) AddRemote(ctx context.Context, dir, name, url string) error {
	return gitx.AddRemote(ctx, g.Runner, dir, name, url)
}

func (g *GitAdapter) Pull(ctx context.Context, dir, remote, branch string) error {
	return gitx.Pull(ctx, g.Runner, dir, remote, branch)
}

func (g *GitAdapter) CleanUntracked(ctx context.Context, dir string) error {
	return gitx.CleanUntracked(ctx, g.Runner, dir)
}
