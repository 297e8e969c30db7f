// SPDX-License-Identifier: MIT
package refs

import (
	"regexp"

	"github.com/skaphos/tlbuild/internal/model"
)

var (
	ignoreObsolete = regexp.MustCompile(`\.obsolete$`)
	ignoreHead     = regexp.MustCompile(`^HEAD$`)
	ignoreLegacy   = regexp.MustCompile(`legacy$`)
	ignoreSPMA     = regexp.MustCompile(`-spma$`)
	ignoreRC       = regexp.MustCompile(`-rc\d+$`)
)

// Rules holds the ordered ignore rules applied to a candidate ref's family
// and, independently, to its version component.
type Rules struct {
	Family  []*regexp.Regexp
	Version []*regexp.Regexp
}

// RuleOptions selects which conditional rules are part of the active set.
// Enabling an inclusion toggle removes the corresponding rule entirely,
// which is distinct from the exact-match escape clause in Excluded.
type RuleOptions struct {
	IncludeLegacy bool
	IncludeRC     bool
	IncludeSPMA   bool
}

// DefaultRules assembles the active ignore rule sets for a run.
func DefaultRules(opts RuleOptions) Rules {
	family := []*regexp.Regexp{ignoreObsolete, ignoreHead}
	if !opts.IncludeLegacy {
		family = append(family, ignoreLegacy)
	}
	if !opts.IncludeSPMA {
		family = append(family, ignoreSPMA)
	}
	var version []*regexp.Regexp
	if !opts.IncludeRC {
		version = append(version, ignoreRC)
	}
	return Rules{Family: family, Version: version}
}

// Excluded reports whether a candidate ref must be dropped: its family
// matches a family rule, or its version matches a version rule. A component
// exactly equal to an explicitly requested release version always survives,
// so such a version escapes generic rules like the release-candidate filter.
// The most-recent sentinel is not an explicit version and never exempts a
// ref; a branch literally named HEAD stays excluded in branch mode.
func (r Rules) Excluded(ref model.ResolvedRef, requested string) bool {
	explicit := requested != MostRecent
	if !(explicit && ref.Family == requested) && matchAny(r.Family, ref.Family) {
		return true
	}
	if !(explicit && ref.Version == requested) && matchAny(r.Version, ref.Version) {
		return true
	}
	return false
}

func matchAny(rules []*regexp.Regexp, value string) bool {
	for _, rule := range rules {
		if rule.MatchString(value) {
			return true
		}
	}
	return false
}
