// Package engine orchestrates the assembly run: cloning each registered
// repository, resolving and filtering its refs, applying the optional
// pull-request overlay, and materializing contents into the destination
// tree. It coordinates between registry, refs, overlay, vcs, and fstree.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/skaphos/tlbuild/internal/config"
	"github.com/skaphos/tlbuild/internal/fstree"
	"github.com/skaphos/tlbuild/internal/model"
	"github.com/skaphos/tlbuild/internal/overlay"
	"github.com/skaphos/tlbuild/internal/refs"
	"github.com/skaphos/tlbuild/internal/registry"
	"github.com/skaphos/tlbuild/internal/vcs"
)

// Engine is the orchestrator for one assembly run. Repositories are
// processed strictly sequentially in registry order, and refs within a
// repository in discovery order.
type Engine struct {
	cfg     *config.RunConfig
	adapter vcs.Adapter

	// workRoot is the parent directory for temporary clones. Created on
	// demand and removed after the run unless clone retention is requested.
	workRoot string

	infof  func(format string, args ...any)
	debugf func(format string, args ...any)
}

// New creates an Engine for the given run configuration.
func New(cfg *config.RunConfig, adapter vcs.Adapter) *Engine {
	if adapter == nil {
		adapter = vcs.NewGitAdapter(nil)
	}
	nop := func(string, ...any) {}
	return &Engine{cfg: cfg, adapter: adapter, infof: nop, debugf: nop}
}

// SetLogger installs progress sinks. Nil funcs keep the current sink.
func (e *Engine) SetLogger(infof, debugf func(format string, args ...any)) {
	if infof != nil {
		e.infof = infof
	}
	if debugf != nil {
		e.debugf = debugf
	}
}

// SetWorkRoot overrides the parent directory used for temporary clones.
func (e *Engine) SetWorkRoot(dir string) { e.workRoot = dir }

// Assemble runs the full pipeline and returns the run report. The returned
// error is non-nil only for fatal failures (*vcs.FatalError for VCS
// operations); a repository resolving zero surviving refs is recorded in the
// report and does not abort the run. Partial destination output written
// before a fatal failure is deliberately left in place.
func (e *Engine) Assemble(ctx context.Context) (*model.RunReport, error) {
	cfg := e.cfg

	workRoot := e.workRoot
	if workRoot == "" {
		tmp, err := os.MkdirTemp("", "tlbuild-")
		if err != nil {
			return nil, fmt.Errorf("create work directory: %w", err)
		}
		workRoot = tmp
		if !cfg.KeepClones {
			defer func() { _ = fstree.RemoveTree(tmp) }()
		}
	}

	if !cfg.ListOnly {
		if err := fstree.MakeDirectories(cfg.Destination); err != nil {
			return nil, fmt.Errorf("create destination %s: %w", cfg.Destination, err)
		}
	}

	report := &model.RunReport{
		GeneratedAt: time.Now(),
		Version:     cfg.Version,
		Destination: cfg.Destination,
		ListOnly:    cfg.ListOnly,
	}
	for _, d := range cfg.Registry.Repos {
		result, err := e.processRepo(ctx, d, workRoot)
		if err != nil {
			return nil, err
		}
		if result.Outcome == model.OutcomeNoMatch {
			e.infof("%s: no ref matched version %s", d.Name, cfg.Version)
		}
		report.Repos = append(report.Repos, result)
	}
	return report, nil
}

func (e *Engine) processRepo(ctx context.Context, d registry.Descriptor, workRoot string) (model.RepoResult, error) {
	cfg := e.cfg
	res := model.RepoResult{Name: d.Name, Outcome: model.OutcomeNoMatch}

	useTags := refs.UseTags(d, cfg.Version)
	pattern, err := refs.SelectionPattern(d, cfg.Version)
	if err != nil {
		return res, fmt.Errorf("repository %s: %w", d.Name, err)
	}

	dir := filepath.Join(workRoot, d.Name)
	url := d.URL(cfg.Registry.RootURL)
	e.debugf("cloning %s into %s", url, dir)
	if err := e.adapter.Clone(ctx, url, dir); err != nil {
		return res, &vcs.FatalError{Op: "clone", Repo: d.Name, Err: err}
	}
	defer func() {
		if cfg.KeepClones {
			e.debugf("keeping clone %s", dir)
			return
		}
		if err := fstree.RemoveTree(dir); err != nil {
			e.debugf("discarding clone %s: %v", dir, err)
		}
	}()

	var names []string
	if useTags {
		names, err = e.adapter.Tags(ctx, dir)
	} else {
		names, err = e.adapter.RemoteBranches(ctx, dir)
	}
	if err != nil {
		return res, &vcs.FatalError{Op: "list-refs", Repo: d.Name, Err: err}
	}

	remoteAdded := false
	for _, name := range names {
		if !pattern.MatchString(name) {
			continue
		}
		ref := refs.Classify(name, d, useTags)
		if cfg.Rules.Excluded(ref, cfg.Version) {
			e.debugf("%s: ignoring %s", d.Name, name)
			continue
		}
		res.Outcome = model.OutcomeOK

		mref := model.MaterializedRef{Ref: ref, Dest: DestinationPath(cfg.Destination, d, ref)}
		if !cfg.ListOnly {
			if err := e.materialize(ctx, d, dir, &mref, &remoteAdded); err != nil {
				return res, err
			}
			e.infof("%s: %s -> %s", d.Name, name, mref.Dest)
		}
		res.Refs = append(res.Refs, mref)
	}
	return res, nil
}

// materialize checks out one surviving ref, applies the pull-request overlay
// when it targets this repository/ref pair, and copies the working tree into
// the computed destination.
func (e *Engine) materialize(ctx context.Context, d registry.Descriptor, dir string, mref *model.MaterializedRef, remoteAdded *bool) error {
	cfg := e.cfg
	ref := mref.Ref

	if err := e.adapter.Checkout(ctx, dir, ref.Name); err != nil {
		return &vcs.FatalError{Op: "checkout", Repo: d.Name, Err: err}
	}

	if pr := cfg.PullRequest; pr != nil && overlay.AppliesTo(*pr, d.Name, ref.DisplayFamily) {
		if !*remoteAdded {
			forkURL := registry.ForkURL(cfg.Registry.RootURL, pr.User, d.Name)
			if err := e.adapter.AddRemote(ctx, dir, pr.User, forkURL); err != nil {
				return &vcs.FatalError{Op: "add-remote", Repo: d.Name, Err: err}
			}
			*remoteAdded = true
		}
		if err := e.adapter.Pull(ctx, dir, pr.User, pr.SourceBranch); err != nil {
			return &vcs.FatalError{Op: "merge", Repo: d.Name, Err: err}
		}
		mref.Overlay = true
		e.infof("%s: merged %s/%s into %s", d.Name, pr.User, pr.SourceBranch, ref.Name)
	}

	if err := fstree.MakeDirectories(mref.Dest); err != nil {
		return fmt.Errorf("create %s: %w", mref.Dest, err)
	}
	if err := fstree.CopyTreeInto(dir, mref.Dest, cfg.Excludes); err != nil {
		return fmt.Errorf("copy %s into %s: %w", ref.Name, mref.Dest, err)
	}
	// Leftover untracked files would break the next checkout in this clone.
	if err := e.adapter.CleanUntracked(ctx, dir); err != nil {
		return &vcs.FatalError{Op: "clean", Repo: d.Name, Err: err}
	}
	return nil
}

// DestinationPath computes where a resolved ref's contents land: the
// descriptor's template with %BRANCH% replaced by the raw family and %TAG%
// by the version, joined under the destination root. The rename-adjusted
// display family deliberately does not feed the template. An empty template
// resolves to the root itself.
func DestinationPath(root string, d registry.Descriptor, ref model.ResolvedRef) string {
	sub := strings.ReplaceAll(d.DestTemplate, "%BRANCH%", ref.Family)
	sub = strings.ReplaceAll(sub, "%TAG%", ref.Version)
	if d.PathStrip != "" {
		sub = strings.ReplaceAll(sub, d.PathStrip, "")
	}
	if sub == "" {
		return root
	}
	return filepath.Join(root, filepath.FromSlash(sub))
}
