// Package model defines the core data types used throughout tlbuild.
package model

import "time"

// VersionUndefined is the sentinel version recorded for a tag that carries no
// trailing version suffix, so downstream comparisons stay well-defined.
const VersionUndefined = "undefined"

// ResolvedRef is a concrete branch or tag selected for materialization,
// paired with its decomposition.
type ResolvedRef struct {
	// Name is the raw ref name as reported by the VCS.
	Name string `json:"name" yaml:"name"`
	// Family is the product line the ref belongs to. In branch mode it equals
	// the ref name itself; in tag mode it is the ref with the trailing version
	// suffix removed.
	Family string `json:"family" yaml:"family"`
	// Version is the extracted version suffix. Equals the ref name in branch
	// mode and VersionUndefined when a tag carries no suffix.
	Version string `json:"version" yaml:"version"`
	// DisplayFamily is the family name used for pull-request targeting and
	// human-facing comparisons, after repository-specific renaming.
	DisplayFamily string `json:"display_family" yaml:"display_family"`
}

// PullRequestSpec describes an in-flight change set to overlay onto a
// matching repository/branch pair before its contents are captured.
type PullRequestSpec struct {
	// Repo is the target repository name (registry descriptor name).
	Repo string `json:"repo" yaml:"repo"`
	// User is the contributing user whose fork hosts the source branch.
	User string `json:"user" yaml:"user"`
	// SourceBranch is the branch on the contributor's fork to merge in.
	SourceBranch string `json:"source_branch" yaml:"source_branch"`
	// TargetBranch is the branch/family the change set targets.
	TargetBranch string `json:"target_branch" yaml:"target_branch"`
}

// MaterializedRef records one ref that survived filtering, together with
// where its contents were (or would be) placed.
type MaterializedRef struct {
	Ref ResolvedRef `json:"ref" yaml:"ref"`
	// Dest is the destination path computed for this ref.
	Dest string `json:"dest" yaml:"dest"`
	// Overlay is true when a pull-request branch was merged before capture.
	Overlay bool `json:"overlay,omitempty" yaml:"overlay,omitempty"`
}

// RepoOutcome is the per-repository result classification.
type RepoOutcome string

const (
	OutcomeOK      RepoOutcome = "ok"
	OutcomeNoMatch RepoOutcome = "no-match"
)

// RepoResult is the outcome for a single source repository.
type RepoResult struct {
	// Name is the registry descriptor name.
	Name string `json:"name" yaml:"name"`
	// Refs lists the refs that survived filtering, in discovery order.
	Refs []MaterializedRef `json:"refs,omitempty" yaml:"refs,omitempty"`
	// Outcome is ok when at least one ref survived filtering.
	Outcome RepoOutcome `json:"outcome" yaml:"outcome"`
}

// RunReport is the top-level result of an assembly run.
type RunReport struct {
	// GeneratedAt is the timestamp when this report was produced.
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	// Version is the requested version identifier, or the HEAD sentinel.
	Version string `json:"version" yaml:"version"`
	// Destination is the configured destination root.
	Destination string `json:"destination" yaml:"destination"`
	// ListOnly is true when nothing was materialized.
	ListOnly bool `json:"list_only,omitempty" yaml:"list_only,omitempty"`
	// Repos holds per-repository results in registry order.
	Repos []RepoResult `json:"repos" yaml:"repos"`
}

// NoMatch reports whether at least one repository resolved zero surviving
// refs. The run still completes; the aggregate exit status reflects the gap.
func (r *RunReport) NoMatch() bool {
	for _, repo := range r.Repos {
		if repo.Outcome == OutcomeNoMatch {
			return true
		}
	}
	return false
}
