// SPDX-License-Identifier: MIT
package vcs

import "fmt"

// FatalError marks a VCS operation failure that aborts the entire run.
// Partial output already written to the destination is left in place.
type FatalError struct {
	// Op names the failed operation (clone, list-refs, checkout, add-remote,
	// merge, clean).
	Op string
	// Repo is the repository being processed when the failure occurred.
	Repo string
	Err  error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s failed for %s: %v", e.Op, e.Repo, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }
