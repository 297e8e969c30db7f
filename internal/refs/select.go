// SPDX-License-Identifier: MIT
package refs

import (
	"regexp"

	"github.com/skaphos/tlbuild/internal/registry"
)

// MostRecent is the sentinel version requesting the tip of every matching
// branch instead of a tagged release. It forces branch mode for the whole
// run regardless of per-repository configuration.
const MostRecent = "HEAD"

// UseTags reports the effective ref-selection mode for a repository in a run
// resolving the given version.
func UseTags(d registry.Descriptor, version string) bool {
	return d.UseTags && version != MostRecent
}

// SelectionPattern builds the regular expression that raw ref names must
// match to become candidates for the given repository and requested version.
// It is pure: the same descriptor and version always produce the same
// pattern.
func SelectionPattern(d registry.Descriptor, version string) (*regexp.Regexp, error) {
	switch {
	case version == MostRecent:
		// Branch mode for the whole run: select by raw branch existence.
		return regexp.Compile(d.BranchPattern)
	case d.IgnoreRequestedVersion:
		return regexp.Compile(d.BranchPattern)
	case d.TagsIgnorePattern:
		// The version suffix is matched on its own; family is immaterial.
		return regexp.Compile("-" + regexp.QuoteMeta(version) + "$")
	default:
		return regexp.Compile(d.BranchPattern + "-" + regexp.QuoteMeta(version) + "$")
	}
}
