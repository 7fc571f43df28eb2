package retention

import (
	"github.com/bmatcuk/doublestar/v4"

	"retentions/internal/types"
)

// Protect applies the protection pass (spec.md §4.2): any entry whose
// basename matches pattern is marked Protected and returned separately
// from the working set passed on to the retention pass. Protection uses
// the same glob syntax as discovery's default matcher; it has no
// regex-mode of its own in the spec.
func Protect(entries []*types.Entry, pattern string) (working []*types.Entry, protected []*types.Entry) {
	if pattern == "" {
		return entries, nil
	}

	for _, e := range entries {
		if protectMatches(pattern, e.Name) {
			e.SetState(types.StateProtected, "protect", "protected", "matches protection pattern "+pattern)
			protected = append(protected, e)
			continue
		}
		working = append(working, e)
	}
	return working, protected
}

func protectMatches(pattern, name string) bool {
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}
