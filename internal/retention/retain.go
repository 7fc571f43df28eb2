package retention

import (
	"fmt"
	"time"

	"retentions/internal/config"
	"retentions/internal/types"
)

// order is the fixed finest-to-coarsest processing order (spec.md §4.3).
var order = []types.Granularity{
	types.GranMinutes,
	types.GranHours,
	types.GranDays,
	types.GranWeeks,
	types.GranWeek13,
	types.GranMonth,
	types.GranQuarter,
	types.GranYears,
}

type interval struct{ start, end time.Time }

func (iv interval) contains(t time.Time) bool {
	return !t.Before(iv.start) && t.Before(iv.end)
}

// Retain runs the hierarchical calendar retention pass and the
// orthogonal --last rule over entries, which must already have had
// protected entries removed (spec.md §4.3). It mutates each entry's
// State/Reason/Log in place; entries left Undecided afterward are
// assigned the terminal outside-retention reason.
//
// A coarser granularity must not pick a representative from any calendar
// slot it shares with an instant a finer granularity already claimed —
// not just the finer granularity's own (smaller) bucket. So the forbidden
// range fed to granularity G is computed by re-projecting every instant
// already retained by a finer pass through G's own bucketRange, not by
// reusing the finer pass's bucket width.
func Retain(entries []*types.Entry, rules []config.RetentionRule, last int) {
	countByGran := make(map[types.Granularity]int)
	for _, r := range rules {
		countByGran[r.Granularity] = r.Count
	}

	var claimed []time.Time // instants retained by granularities processed so far

	for _, g := range order {
		n, ok := countByGran[g]
		if !ok || n <= 0 {
			continue
		}
		claimed = append(claimed, applyGranularity(entries, g, n, claimed)...)
	}

	if last > 0 {
		applyLast(entries, last)
	}

	for _, e := range entries {
		if e.State == types.StateUndecided {
			e.SetState(types.StatePruned, "retention", "outside-retention", "outside all configured retention buckets")
		}
	}
}

// applyGranularity selects up to n bucket representatives under
// granularity g, skipping entries whose age falls within g's own bucket
// range around any already-claimed instant, and returns the newly
// retained instants for coarser passes to project through their own
// bucket ranges in turn.
func applyGranularity(entries []*types.Entry, g types.Granularity, n int, claimed []time.Time) []time.Time {
	forbidden := projectForbidden(g, claimed)

	seen := make(map[string]bool)
	var newlyClaimed []time.Time
	selected := 0

	for _, e := range entries {
		if selected >= n {
			break
		}
		if e.State != types.StateUndecided {
			continue
		}
		if inForbidden(e.AgeInstant, forbidden) {
			continue
		}

		key := bucketKey(g, e.AgeInstant)
		if seen[key] {
			continue
		}
		seen[key] = true
		selected++

		e.SetState(types.StateRetained, "retention", fmt.Sprintf("%s[%s]", g, bucketKeySuffix(key)), fmt.Sprintf("newest representative of %s bucket %s", g, bucketKeySuffix(key)))
		newlyClaimed = append(newlyClaimed, e.AgeInstant)
	}

	return newlyClaimed
}

// projectForbidden maps each already-claimed instant through g's own
// bucketRange, producing the calendar intervals g must treat as already
// spoken for.
func projectForbidden(g types.Granularity, claimed []time.Time) []interval {
	var out []interval
	for _, t := range claimed {
		start, end := bucketRange(g, t)
		out = append(out, interval{start: start, end: end})
	}
	return out
}

func inForbidden(t time.Time, ranges []interval) bool {
	for _, r := range ranges {
		if r.contains(t) {
			return true
		}
	}
	return false
}

// bucketKeySuffix strips the granularity-tag prefix bucketKey adds, so
// the reason token reads "days[2026-01-31]" rather than
// "days[day:2026-01-31]".
func bucketKeySuffix(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == ':' {
			return key[i+1:]
		}
	}
	return key
}

// applyLast marks the globally newest `last` non-protected entries as
// Retained with reason "last"; entries already Retained by the calendar
// pass keep their original reason (spec.md §4.3: last never demotes,
// only adds).
func applyLast(entries []*types.Entry, last int) {
	count := 0
	for _, e := range entries {
		if count >= last {
			break
		}
		count++
		if e.State == types.StateUndecided {
			e.SetState(types.StateRetained, "retention", "last", fmt.Sprintf("newest %d entries (--last)", last))
		}
	}
}
