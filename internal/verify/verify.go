// Package verify implements pipeline stage 7 (spec.md §4.5): the
// integrity check that the keep/prune partition is total and disjoint
// before any filesystem mutation is allowed to happen.
package verify

import (
	"fmt"

	"retentions/internal/errs"
	"retentions/internal/types"
)

// Verify confirms that every entry in entries (the full non-symlink
// discovered set) has settled into exactly one of {Protected, Retained,
// Pruned}, with no entry left Undecided. Returns an errs.Integrity error
// on violation, as required before stage 8/9 may touch the filesystem.
func Verify(entries []*types.Entry) error {
	for _, e := range entries {
		if e.State == types.StateUndecided {
			return errs.Integrity(fmt.Errorf("entry %s was never assigned a final state", e.Path))
		}
	}
	return nil
}
