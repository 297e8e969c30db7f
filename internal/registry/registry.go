// SPDX-License-Identifier: MIT
// Package registry holds the declarative description of every source
// repository that contributes to the assembled template library: how its
// refs are named and selected, and where its contents land.
package registry

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"
)

const (
	// DefaultRootURL is the organization URL all repository URLs derive from.
	DefaultRootURL = "https://github.com/quattor"
	// DefaultBranch is the literal default branch name used for rename
	// substitution and pull-request target defaults.
	DefaultBranch = "master"
	// CoreTagPrefix is the generic tag prefix of the core repository. Tag
	// families starting with it represent the single production line of that
	// repository and normalize to DefaultBranch for display purposes.
	CoreTagPrefix = "template-library"
)

// Descriptor describes how one source repository's refs are selected and
// where its resolved contents are placed in the destination tree.
type Descriptor struct {
	// Name is the repository name under the root URL.
	Name string `json:"name" yaml:"name"`
	// BranchPattern is a regular expression matched against raw branch names.
	BranchPattern string `json:"branch_pattern" yaml:"branch_pattern"`
	// UseTags selects tag-based resolution instead of branches. The HEAD
	// sentinel version forces branch mode for the whole run regardless.
	UseTags bool `json:"use_tags,omitempty" yaml:"use_tags,omitempty"`
	// IgnoreRequestedVersion selects every ref matching BranchPattern
	// irrespective of the requested version.
	IgnoreRequestedVersion bool `json:"ignore_requested_version,omitempty" yaml:"ignore_requested_version,omitempty"`
	// TagsIgnorePattern matches the version suffix on its own instead of
	// appending it to BranchPattern.
	TagsIgnorePattern bool `json:"tags_ignore_pattern,omitempty" yaml:"tags_ignore_pattern,omitempty"`
	// DestTemplate is the destination subdirectory template. %BRANCH% is
	// replaced with the resolved family and %TAG% with the resolved version.
	// An empty template places contents directly in the destination root.
	DestTemplate string `json:"dest_template" yaml:"dest_template"`
	// RenameMaster, when set, substitutes the display family whenever the
	// resolved branch equals DefaultBranch.
	RenameMaster string `json:"rename_master,omitempty" yaml:"rename_master,omitempty"`
	// PathStrip is a literal substring removed from the computed destination
	// path. The OS templates repository uses it to fold the -spma variant
	// into the same destination as the base variant.
	PathStrip string `json:"path_strip,omitempty" yaml:"path_strip,omitempty"`
}

// URL returns the repository clone URL under the given root.
func (d Descriptor) URL(rootURL string) string {
	return strings.TrimRight(rootURL, "/") + "/" + d.Name
}

// ForkURL returns the clone URL of a contributor's fork: the same repository
// name under the user's namespace instead of the organization's.
func ForkURL(rootURL, user, name string) string {
	trimmed := strings.TrimRight(rootURL, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return trimmed + "/" + user + "/" + name
	}
	return trimmed[:idx+1] + user + "/" + name
}

// Registry is the ordered set of repository descriptors for a run.
// Repositories are processed in declaration order.
type Registry struct {
	RootURL string       `json:"root_url,omitempty" yaml:"root_url,omitempty"`
	Repos   []Descriptor `json:"repos" yaml:"repos"`
}

// Default returns the built-in registry for the standard template-library
// repositories.
func Default() *Registry {
	return &Registry{
		RootURL: DefaultRootURL,
		Repos: []Descriptor{
			{
				Name:              "template-library-core",
				BranchPattern:     DefaultBranch,
				UseTags:           true,
				TagsIgnorePattern: true,
				// Core contents land directly in the destination root.
				DestTemplate: "",
			},
			{
				Name:              "template-library-standard",
				BranchPattern:     DefaultBranch,
				UseTags:           true,
				TagsIgnorePattern: true,
				DestTemplate:      "quattor/%TAG%",
			},
			{
				Name:              "template-library-examples",
				BranchPattern:     DefaultBranch,
				UseTags:           true,
				TagsIgnorePattern: true,
				DestTemplate:      "examples",
			},
			{
				Name:              "template-library-monitoring",
				BranchPattern:     DefaultBranch,
				UseTags:           true,
				TagsIgnorePattern: true,
				DestTemplate:      "monitoring",
			},
			{
				Name:          "template-library-grid",
				BranchPattern: ".*",
				UseTags:       true,
				DestTemplate:  "grid/%BRANCH%",
			},
			{
				Name:          "template-library-os",
				BranchPattern: ".*",
				UseTags:       true,
				DestTemplate:  "os/%BRANCH%",
				PathStrip:     "-spma",
			},
			{
				Name:              "template-library-openstack",
				BranchPattern:     DefaultBranch,
				UseTags:           true,
				TagsIgnorePattern: true,
				DestTemplate:      "openstack",
			},
		},
	}
}

// Load reads a registry override file from the given path.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Merge applies overrides on top of the registry: descriptors replace
// same-named entries in place and new ones append, so declaration order
// stays stable. A non-empty override root URL wins.
func (r *Registry) Merge(overrides *Registry) {
	if overrides == nil {
		return
	}
	if overrides.RootURL != "" {
		r.RootURL = overrides.RootURL
	}
	for _, d := range overrides.Repos {
		replaced := false
		for i := range r.Repos {
			if r.Repos[i].Name == d.Name {
				r.Repos[i] = d
				replaced = true
				break
			}
		}
		if !replaced {
			r.Repos = append(r.Repos, d)
		}
	}
}

// FindByName returns the descriptor with the given name, or nil.
func (r *Registry) FindByName(name string) *Descriptor {
	for i := range r.Repos {
		if r.Repos[i].Name == name {
			return &r.Repos[i]
		}
	}
	return nil
}

// Validate checks every descriptor for a usable name and branch pattern.
// Patterns are compiled once here so later resolution cannot fail.
func (r *Registry) Validate() error {
	if len(r.Repos) == 0 {
		return errors.New("registry has no repositories")
	}
	seen := make(map[string]struct{}, len(r.Repos))
	for _, d := range r.Repos {
		if strings.TrimSpace(d.Name) == "" {
			return errors.New("registry entry with empty name")
		}
		if _, dup := seen[d.Name]; dup {
			return fmt.Errorf("duplicate registry entry %q", d.Name)
		}
		seen[d.Name] = struct{}{}
		if _, err := regexp.Compile(d.BranchPattern); err != nil {
			return fmt.Errorf("repository %s: invalid branch pattern %q: %w", d.Name, d.BranchPattern, err)
		}
	}
	return nil
}
