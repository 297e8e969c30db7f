// Package gitx provides helpers for executing git commands and parsing
// their output. It shells out to the installed git binary.
package gitx

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes git commands in a given repo directory.
// This interface allows mocking in tests.
type Runner interface {
	// Run executes a git command in the given directory and returns
	// combined stdout/stderr output.
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// GitRunner is the default Runner implementation that shells out to git.
type GitRunner struct {
	// GitBin is the path to the git binary. Defaults to "git".
	GitBin string
}

// Run executes a git command.
func (g *GitRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	bin := g.GitBin
	if bin == "" {
		bin = "git"
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// Clone clones the repository at url into dir.
func Clone(ctx context.Context, r Runner, url, dir string) error {
	out, err := r.Run(ctx, "", "clone", url, dir)
	if err != nil {
		return fmt.Errorf("git clone %s: %s: %w", url, out, err)
	}
	return nil
}

// RemoteBranches lists the remote branch names of the clone at dir, with the
// remote prefix stripped. The symbolic HEAD entry is reported as a plain
// "HEAD" ref; the ignore rules drop it downstream.
func RemoteBranches(ctx context.Context, r Runner, dir string) ([]string, error) {
	out, err := r.Run(ctx, dir, "branch", "-r")
	if err != nil {
		return nil, fmt.Errorf("git branch -r: %s: %w", out, err)
	}
	return ParseRemoteBranches(out), nil
}

// Tags lists the tag names of the clone at dir.
func Tags(ctx context.Context, r Runner, dir string) ([]string, error) {
	out, err := r.Run(ctx, dir, "tag")
	if err != nil {
		return nil, fmt.Errorf("git tag: %s: %w", out, err)
	}
	return splitLines(out), nil
}

// Checkout checks out the given branch or tag in the clone at dir.
func Checkout(ctx context.Context, r Runner, dir, ref string) error {
	out, err := r.Run(ctx, dir, "checkout", ref)
	if err != nil {
		return fmt.Errorf("git checkout %s: %s: %w", ref, out, err)
	}
	return nil
}

// AddRemote adds a named remote pointing at url to the clone at dir.
func AddRemote(ctx context.Context, r Runner, dir, name, url string) error {
	out, err := r.Run(ctx, dir, "remote", "add", name, url)
	if err != nil {
		return fmt.Errorf("git remote add %s: %s: %w", name, out, err)
	}
	return nil
}

// Pull integrates the given branch from the named remote into the currently
// checked-out ref.
func Pull(ctx context.Context, r Runner, dir, remote, branch string) error {
	out, err := r.Run(ctx, dir, "pull", remote, branch)
	if err != nil {
		return fmt.Errorf("git pull %s %s: %s: %w", remote, branch, out, err)
	}
	return nil
}

// CleanUntracked discards untracked files and directories left over from a
// checkout, so the next ref can be checked out in the same clone.
func CleanUntracked(ctx context.Context, r Runner, dir string) error {
	out, err := r.Run(ctx, dir, "clean", "-fd")
	if err != nil {
		return fmt.Errorf("git clean: %s: %w", out, err)
	}
	return nil
}

// ParseRemoteBranches parses `git branch -r` output into bare branch names.
// Lines like "origin/HEAD -> origin/master" contribute their left-hand side.
func ParseRemoteBranches(out string) []string {
	var names []string
	for _, line := range splitLines(out) {
		if idx := strings.Index(line, " -> "); idx >= 0 {
			line = line[:idx]
		}
		if idx := strings.Index(line, "/"); idx >= 0 {
			line = line[idx+1:]
		}
		if line != "" {
			names = append(names, line)
		}
	}
	return names
}

func splitLines(out string) []string {
	if strings.TrimSpace(out) == "" {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
