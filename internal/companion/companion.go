// Package companion implements pipeline stage 8 (spec.md §4.6): for each
// pruned entry, expand configured companion rules into sibling paths and
// add matching ones to the prune set, aborting if a candidate is
// Protected or already Retained.
package companion

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"retentions/internal/config"
	"retentions/internal/errs"
	"retentions/internal/types"
)

// Expand walks entries currently in the Pruned state and, for each
// configured companion rule whose TYPE/MATCH matches the entry's
// basename, resolves sibling candidate paths and adds the ones that
// exist, are regular files, and are not already tracked to the returned
// slice. protected and retained are the sets already decided, used for
// the fatal overlap check in spec.md §4.6.
func Expand(entries []*types.Entry, rules []config.CompanionRule, protected, retained []*types.Entry) ([]*types.Entry, error) {
	if len(rules) == 0 {
		return nil, nil
	}

	known := make(map[string]bool)
	for _, e := range entries {
		known[e.Path] = true
	}
	protectedPaths := pathSet(protected)
	retainedPaths := pathSet(retained)

	var added []*types.Entry

	for _, e := range entries {
		if e.State != types.StatePruned {
			continue
		}
		for _, rule := range rules {
			for _, candidatePath := range candidates(e, rule) {
				if known[candidatePath] {
					continue
				}

				fi, err := os.Lstat(candidatePath)
				if err != nil {
					continue // does not exist: skip
				}
				if fi.Mode()&os.ModeSymlink != 0 {
					continue
				}
				if !fi.Mode().IsRegular() {
					continue
				}

				if protectedPaths[candidatePath] {
					return nil, errs.Integrity(fmt.Errorf("companion %s of %s is protected", candidatePath, e.Path))
				}
				if retainedPaths[candidatePath] {
					return nil, errs.Integrity(fmt.Errorf("companion %s of %s is already retained", candidatePath, e.Path))
				}

				companion := &types.Entry{
					Path: candidatePath,
					Name: filepath.Base(candidatePath),
					Kind: types.KindFile,
					Size: fi.Size(),
				}
				companion.SetState(types.StatePruned, "companion", "companion", fmt.Sprintf("companion of %s via rule %s", e.Path, rule.Match))

				known[candidatePath] = true
				added = append(added, companion)
			}
		}
	}

	return added, nil
}

func pathSet(entries []*types.Entry) map[string]bool {
	s := make(map[string]bool, len(entries))
	for _, e := range entries {
		s[e.Path] = true
	}
	return s
}

// candidates returns the sibling paths rule produces for e, if rule's
// TYPE/MATCH applies to e's basename.
func candidates(e *types.Entry, rule config.CompanionRule) []string {
	var base string
	switch rule.Type {
	case config.CompanionPrefix:
		if !strings.HasPrefix(e.Name, rule.Match) {
			return nil
		}
		base = strings.TrimPrefix(e.Name, rule.Match)
	case config.CompanionSuffix:
		if !strings.HasSuffix(e.Name, rule.Match) {
			return nil
		}
		base = strings.TrimSuffix(e.Name, rule.Match)
	default:
		return nil
	}

	dir := filepath.Dir(e.Path)
	var out []string
	for _, c := range rule.Companions {
		var name string
		if rule.Type == config.CompanionPrefix {
			name = c + base
		} else {
			name = base + c
		}
		out = append(out, filepath.Join(dir, name))
	}
	return out
}
