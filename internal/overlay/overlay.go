// SPDX-License-Identifier: MIT
// Package overlay decides whether a pending pull request must be merged on
// top of a resolved ref before its contents are captured.
package overlay

import (
	"fmt"
	"strings"

	"github.com/skaphos/tlbuild/internal/model"
	"github.com/skaphos/tlbuild/internal/registry"
)

// Parse parses a pull-request descriptor of the form
// "repo:user:branch[:target]". The target branch defaults to the default
// branch name when omitted.
func Parse(raw string) (model.PullRequestSpec, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return model.PullRequestSpec{}, fmt.Errorf("malformed pull-request descriptor %q: want repo:user:branch[:target]", raw)
	}
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			return model.PullRequestSpec{}, fmt.Errorf("malformed pull-request descriptor %q: empty field", raw)
		}
	}
	spec := model.PullRequestSpec{
		Repo:         parts[0],
		User:         parts[1],
		SourceBranch: parts[2],
		TargetBranch: registry.DefaultBranch,
	}
	if len(parts) == 4 {
		spec.TargetBranch = parts[3]
	}
	return spec, nil
}

// AppliesTo reports whether the pull request targets the given repository
// and resolved ref. The comparison uses the display family, so renamed and
// core-prefixed refs match the branch name contributors actually target.
func AppliesTo(pr model.PullRequestSpec, repoName, displayFamily string) bool {
	return pr.Repo == repoName && pr.TargetBranch == displayFamily
}
