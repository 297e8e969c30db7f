// SPDX-License-Identifier: MIT
// Package refs implements the version resolution core: classifying raw ref
// names into family/version components, building the per-repository ref
// selection pattern, and applying the ordered ignore rules.
package refs

import (
	"regexp"
	"strings"

	"github.com/skaphos/tlbuild/internal/model"
	"github.com/skaphos/tlbuild/internal/registry"
)

// tagVersionPattern matches a trailing version suffix on a tag name: a run of
// dot/digit groups, optionally followed by a single trailing alphanumeric
// qualifier group (for example -14.2.1 or -14.2.1-rc2).
var tagVersionPattern = regexp.MustCompile(`-(\d[\d.]*(?:-[0-9A-Za-z]+)?)$`)

// Classify splits a raw ref name into its family, version, and display
// family according to the repository's naming convention.
//
// In branch mode both family and version equal the raw name; the display
// family applies the rename-master substitution when configured. In tag mode
// the trailing version suffix is stripped to obtain the family, and families
// carrying the core repository's generic tag prefix normalize to the default
// branch name.
func Classify(name string, d registry.Descriptor, useTags bool) model.ResolvedRef {
	if !useTags {
		display := name
		if name == registry.DefaultBranch && d.RenameMaster != "" {
			display = d.RenameMaster
		}
		return model.ResolvedRef{Name: name, Family: name, Version: name, DisplayFamily: display}
	}

	family := name
	version := model.VersionUndefined
	if m := tagVersionPattern.FindStringSubmatch(name); m != nil {
		family = name[:len(name)-len(m[0])]
		version = m[1]
	}
	display := family
	if strings.HasPrefix(family, registry.CoreTagPrefix) {
		display = registry.DefaultBranch
	}
	return model.ResolvedRef{Name: name, Family: family, Version: version, DisplayFamily: display}
}
