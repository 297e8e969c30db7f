// Package sortutil provides deterministic orderings for display output.
// Assembly itself processes repositories in registry order; only listings
// sort.
package sortutil

import (
	"sort"

	"github.com/skaphos/tlbuild/internal/registry"
)

// SortDescriptors orders registry descriptors by name.
func SortDescriptors(ds []registry.Descriptor) {
	sort.SliceStable(ds, func(i, j int) bool {
		return ds[i].Name < ds[j].Name
	})
}
