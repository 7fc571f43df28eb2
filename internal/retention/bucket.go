// Package retention implements pipeline stages 4 and 5 (spec.md §4.2,
// §4.3): the protection pass and the hierarchical calendar retention
// pass, plus the orthogonal --last rule.
package retention

import (
	"fmt"
	"time"

	"retentions/internal/types"
)

// bucketKey identifies one calendar slot under a given granularity, in
// the host's local civil time zone (spec.md §3 "Bucket key").
func bucketKey(g types.Granularity, t time.Time) string {
	t = t.Local()
	switch g {
	case types.GranMinutes:
		return fmt.Sprintf("min:%04d-%02d-%02d %02d:%02d", t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute())
	case types.GranHours:
		return fmt.Sprintf("hr:%04d-%02d-%02d %02d", t.Year(), t.Month(), t.Day(), t.Hour())
	case types.GranDays:
		return fmt.Sprintf("day:%04d-%02d-%02d", t.Year(), t.Month(), t.Day())
	case types.GranWeeks:
		y, w := t.ISOWeek()
		return fmt.Sprintf("wk:%04d-W%02d", y, w)
	case types.GranWeek13:
		y, w := t.ISOWeek()
		return fmt.Sprintf("w13:%04d-%d", y, (w-1)/13)
	case types.GranMonth:
		return fmt.Sprintf("mo:%04d-%02d", t.Year(), t.Month())
	case types.GranQuarter:
		q := (int(t.Month())-1)/3 + 1
		return fmt.Sprintf("q:%04d-%d", t.Year(), q)
	case types.GranYears:
		return fmt.Sprintf("yr:%04d", t.Year())
	default:
		return ""
	}
}

// bucketRange returns the half-open [start, end) calendar interval the
// given instant's bucket occupies under granularity g, used to build the
// forbidden range a finer granularity hands to coarser ones.
func bucketRange(g types.Granularity, t time.Time) (time.Time, time.Time) {
	t = t.Local()
	loc := t.Location()
	switch g {
	case types.GranMinutes:
		start := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, loc)
		return start, start.Add(time.Minute)
	case types.GranHours:
		start := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, loc)
		return start, start.Add(time.Hour)
	case types.GranDays:
		start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 0, 1)
	case types.GranWeeks:
		start := startOfISOWeek(t)
		return start, start.AddDate(0, 0, 7)
	case types.GranWeek13:
		y, w := t.ISOWeek()
		blockStart := ((w - 1) / 13) * 13
		start := startOfISOWeekNum(y, blockStart+1)
		return start, start.AddDate(0, 0, 13*7)
	case types.GranMonth:
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0)
	case types.GranQuarter:
		q := (int(t.Month()) - 1) / 3
		start := time.Date(t.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 3, 0)
	case types.GranYears:
		start := time.Date(t.Year(), 1, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(1, 0, 0)
	default:
		return t, t
	}
}

func startOfISOWeek(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // ISO: Monday=1 ... Sunday=7
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return d.AddDate(0, 0, -(wd - 1))
}

// startOfISOWeekNum returns the Monday that begins ISO week `week` of
// `year`, per the approximation resolved in DESIGN.md: week13 blocks are
// anchored at ISO week 1 of the entry's year, not at a fixed fiscal
// calendar.
func startOfISOWeekNum(year, week int) time.Time {
	jan4 := time.Date(year, 1, 4, 0, 0, 0, 0, time.Local)
	week1Start := startOfISOWeek(jan4)
	return week1Start.AddDate(0, 0, (week-1)*7)
}
