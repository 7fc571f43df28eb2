package retention

import (
	"testing"
	"time"

	"retentions/internal/config"
	"retentions/internal/types"
)

func mkEntry(name string, age time.Time) *types.Entry {
	return &types.Entry{Path: "/base/" + name, Name: name, Kind: types.KindFile, AgeInstant: age}
}

// TestRetain_HierarchicalExample reproduces spec.md §8 scenario 1:
// days dated 2026-01-31, 2026-01-30, 2026-01-24, 2025-12-20 with
// --days 1 --weeks 1 --months 1.
func TestRetain_HierarchicalExample(t *testing.T) {
	d := func(y int, m time.Month, day int) time.Time { return time.Date(y, m, day, 12, 0, 0, 0, time.Local) }

	e1 := mkEntry("2026-01-31", d(2026, 1, 31))
	e2 := mkEntry("2026-01-30", d(2026, 1, 30))
	e3 := mkEntry("2026-01-24", d(2026, 1, 24))
	e4 := mkEntry("2025-12-20", d(2025, 12, 20))

	entries := []*types.Entry{e1, e2, e3, e4} // newest-first, as discovery would order them

	rules := []config.RetentionRule{
		{Granularity: types.GranDays, Count: 1},
		{Granularity: types.GranWeeks, Count: 1},
		{Granularity: types.GranMonth, Count: 1},
	}
	Retain(entries, rules, 0)

	want := map[string]types.State{
		"2026-01-31": types.StateRetained,
		"2026-01-30": types.StatePruned,
		"2026-01-24": types.StateRetained,
		"2025-12-20": types.StateRetained,
	}
	for _, e := range entries {
		if e.State != want[e.Name] {
			t.Errorf("%s: got %s, want %s", e.Name, e.State, want[e.Name])
		}
	}
}

// TestRetain_Last reproduces spec.md §8 scenario 2: twelve files spaced
// hourly, --last 3 retains the newest three.
func TestRetain_Last(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local)
	var entries []*types.Entry
	for i := 12; i >= 1; i-- {
		name := "f" + pad(i)
		age := base.Add(time.Duration(i) * time.Hour)
		entries = append(entries, mkEntry(name, age))
	}

	Retain(entries, nil, 3)

	retainedCount := 0
	for _, e := range entries {
		if e.State == types.StateRetained {
			retainedCount++
			if e.Name != "f12" && e.Name != "f11" && e.Name != "f10" {
				t.Errorf("unexpected retained entry %s", e.Name)
			}
		}
	}
	if retainedCount != 3 {
		t.Fatalf("got %d retained, want 3", retainedCount)
	}
}

func pad(i int) string {
	if i < 10 {
		return "0" + itoa(i)
	}
	return itoa(i)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := ""
	for i > 0 {
		digits = string(rune('0'+i%10)) + digits
		i /= 10
	}
	return digits
}

func TestRetain_DaysWeeksHierarchyNeverOverlaps(t *testing.T) {
	// Boundary: with --days 1 --weeks 1, the retained day must not also
	// be the week representative's bucket (spec.md §8 "Hierarchical edge").
	d := func(y int, m time.Month, day int) time.Time { return time.Date(y, m, day, 12, 0, 0, 0, time.Local) }
	newest := mkEntry("newest", d(2026, 1, 31)) // Saturday, ISO week 5
	older := mkEntry("older", d(2026, 1, 20))   // ISO week 4

	entries := []*types.Entry{newest, older}
	Retain(entries, []config.RetentionRule{
		{Granularity: types.GranDays, Count: 1},
		{Granularity: types.GranWeeks, Count: 1},
	}, 0)

	if newest.State != types.StateRetained {
		t.Fatalf("expected newest day-retained, got %s", newest.State)
	}
	if older.State != types.StateRetained {
		t.Fatalf("expected older week-retained, got %s", older.State)
	}
}
