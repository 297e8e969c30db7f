// SPDX-License-Identifier: MIT
// Package config resolves the raw invocation inputs and the optional on-disk
// configuration file into one immutable RunConfig value. Components receive
// the RunConfig and never mutate shared state.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/skaphos/tlbuild/internal/model"
	"github.com/skaphos/tlbuild/internal/overlay"
	"github.com/skaphos/tlbuild/internal/refs"
	"github.com/skaphos/tlbuild/internal/registry"
)

// LocalConfigFilename is the per-directory tlbuild config file.
const LocalConfigFilename = "tlbuild.yaml"

// FileConfig is the optional on-disk configuration.
type FileConfig struct {
	// RootURL overrides the organization URL repositories are cloned from.
	RootURL string `yaml:"root_url,omitempty"`
	// Exclude lists glob patterns skipped when copying repository contents
	// into the destination tree.
	Exclude []string `yaml:"exclude,omitempty"`
	// Repos adds or replaces registry descriptors by name.
	Repos []registry.Descriptor `yaml:"repos,omitempty"`
}

// ResolveConfigPath returns the config file to use: the explicit override if
// given, otherwise a LocalConfigFilename in cwd when present, otherwise "".
func ResolveConfigPath(override, cwd string) string {
	if override != "" {
		return override
	}
	local := filepath.Join(cwd, LocalConfigFilename)
	if _, err := os.Stat(local); err == nil {
		return local
	}
	return ""
}

// LoadFile reads a FileConfig from path. An empty path yields an empty
// configuration.
func LoadFile(path string) (*FileConfig, error) {
	if path == "" {
		return &FileConfig{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Params collects the raw invocation inputs for a run.
type Params struct {
	Version       string
	Destination   string
	Force         bool
	ListOnly      bool
	KeepClones    bool
	IncludeLegacy bool
	IncludeRC     bool
	SPMA          bool
	// PullRequest is the raw repo:user:branch[:target] descriptor, or empty.
	PullRequest string
	// ConfigPath is the resolved config file path, or empty.
	ConfigPath string
	// ExtraExcludes are copy-exclude globs given on the command line, applied
	// in addition to the file configuration's.
	ExtraExcludes []string
}

// RunConfig is the immutable effective configuration of one assembly run.
type RunConfig struct {
	Version     string
	Destination string
	Force       bool
	ListOnly    bool
	KeepClones  bool
	// PullRequest is nil when no overlay was requested.
	PullRequest *model.PullRequestSpec
	Registry    *registry.Registry
	Rules       refs.Rules
	// Excludes are copy-exclude globs applied by the assembler.
	Excludes []string
}

// NewRunConfig validates params, merges the optional file configuration over
// the built-in registry, and assembles the active ignore rule sets. All
// errors here are configuration errors: they are reported before any VCS
// interaction.
func NewRunConfig(p Params) (*RunConfig, error) {
	if p.Version == "" {
		return nil, errors.New("requested version is required")
	}
	if p.Destination == "" && !p.ListOnly {
		return nil, errors.New("destination path is required")
	}

	fileCfg, err := LoadFile(p.ConfigPath)
	if err != nil {
		return nil, err
	}

	reg := registry.Default()
	reg.Merge(&registry.Registry{RootURL: fileCfg.RootURL, Repos: fileCfg.Repos})
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	cfg := &RunConfig{
		Version:     p.Version,
		Destination: p.Destination,
		Force:       p.Force,
		ListOnly:    p.ListOnly,
		KeepClones:  p.KeepClones,
		Registry:    reg,
		Rules: refs.DefaultRules(refs.RuleOptions{
			IncludeLegacy: p.IncludeLegacy,
			IncludeRC:     p.IncludeRC,
			IncludeSPMA:   p.SPMA,
		}),
		Excludes: append(fileCfg.Exclude, p.ExtraExcludes...),
	}

	if p.PullRequest != "" {
		spec, err := overlay.Parse(p.PullRequest)
		if err != nil {
			return nil, err
		}
		cfg.PullRequest = &spec
	}

	if !p.ListOnly {
		if _, err := os.Stat(p.Destination); err == nil && !p.Force {
			return nil, fmt.Errorf("destination %s already exists (use --force to reuse it)", p.Destination)
		}
	}
	return cfg, nil
}
