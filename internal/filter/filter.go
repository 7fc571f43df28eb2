// Package filter implements pipeline stage 6 (spec.md §4.4): max-age,
// max-files, and max-size demotions applied to the Retained set, in that
// fixed order. Filters only ever demote Retained entries to Pruned; they
// never touch Protected entries and never promote.
package filter

import (
	"fmt"
	"sort"
	"time"

	"retentions/internal/config"
	"retentions/internal/types"
)

// Apply runs the three filter stages against entries (already decided by
// the retention pass) using now as the pipeline-start instant for the
// max-age cutoff.
func Apply(entries []*types.Entry, cfg *config.Config, now time.Time) {
	if cfg.MaxAge > 0 {
		applyMaxAge(entries, cfg.MaxAge, now)
	}
	if cfg.MaxFiles > 0 {
		applyMaxFiles(entries, cfg.MaxFiles)
	}
	if cfg.MaxSize > 0 {
		applyMaxSize(entries, cfg.MaxSize)
	}
}

func retainedEntries(entries []*types.Entry) []*types.Entry {
	var out []*types.Entry
	for _, e := range entries {
		if e.State == types.StateRetained {
			out = append(out, e)
		}
	}
	return out
}

func applyMaxAge(entries []*types.Entry, maxAge time.Duration, now time.Time) {
	cutoff := now.Add(-maxAge)
	for _, e := range retainedEntries(entries) {
		if e.AgeInstant.Before(cutoff) {
			e.SetState(types.StatePruned, "filter", "max-age", fmt.Sprintf("age_instant %s is before cutoff %s", e.AgeInstant.Format(time.RFC3339), cutoff.Format(time.RFC3339)))
		}
	}
}

func applyMaxFiles(entries []*types.Entry, maxFiles int) {
	retained := retainedEntries(entries)
	if len(retained) <= maxFiles {
		return
	}

	// Oldest first, byte-lexicographic tie-break, so the *oldest* excess
	// entries are the ones demoted (spec.md §4.4 item 2).
	sort.SliceStable(retained, func(i, j int) bool {
		ti, tj := retained[i].AgeInstant, retained[j].AgeInstant
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return retained[i].Path < retained[j].Path
	})

	excess := len(retained) - maxFiles
	for i := 0; i < excess; i++ {
		retained[i].SetState(types.StatePruned, "filter", "max-files", fmt.Sprintf("retained set exceeds max-files=%d", maxFiles))
	}
}

func applyMaxSize(entries []*types.Entry, maxSize uint64) {
	retained := retainedEntries(entries)
	// Newest first, matching discovery's ordering; entries are expected
	// to already be sorted that way, but re-sort defensively so the walk
	// does not depend on the order the caller passed them in.
	sort.SliceStable(retained, func(i, j int) bool {
		ti, tj := retained[i].AgeInstant, retained[j].AgeInstant
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return retained[i].Path < retained[j].Path
	})

	// "Once cumulative size strictly exceeds max-size, demote every
	// subsequent Retained entry" (spec.md §4.4 item 3) — the entry whose
	// addition tips the cumulative total over the limit is itself kept;
	// only entries walked after that point are demoted.
	var cumulative uint64
	exceeded := false
	for _, e := range retained {
		if exceeded {
			e.SetState(types.StatePruned, "filter", "max-size", fmt.Sprintf("cumulative size %s exceeds max-size=%s", config.FormatSize(cumulative), config.FormatSize(maxSize)))
			continue
		}
		cumulative += uint64(e.Size)
		if cumulative > maxSize {
			exceeded = true
		}
	}
}
