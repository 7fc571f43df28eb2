package filter

import (
	"testing"
	"time"

	"retentions/internal/config"
	"retentions/internal/types"
)

func retainedEntry(name string, age time.Time, size int64) *types.Entry {
	e := &types.Entry{Path: "/base/" + name, Name: name, Kind: types.KindFile, AgeInstant: age, Size: size}
	e.SetState(types.StateRetained, "retention", "test", "seed")
	return e
}

func TestApplyMaxAge(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	fresh := retainedEntry("fresh", now.AddDate(0, 0, -1), 0)
	stale := retainedEntry("stale", now.AddDate(0, 0, -40), 0)

	cfg := &config.Config{MaxAge: 30 * 24 * time.Hour}
	Apply([]*types.Entry{fresh, stale}, cfg, now)

	if fresh.State != types.StateRetained {
		t.Errorf("fresh entry should remain retained, got %s", fresh.State)
	}
	if stale.State != types.StatePruned {
		t.Errorf("stale entry should be demoted, got %s", stale.State)
	}
}

func TestApplyMaxFiles_DemotesOldest(t *testing.T) {
	now := time.Now()
	a := retainedEntry("a", now.AddDate(0, 0, -1), 0)
	b := retainedEntry("b", now.AddDate(0, 0, -2), 0)
	c := retainedEntry("c", now.AddDate(0, 0, -3), 0)

	cfg := &config.Config{MaxFiles: 2}
	Apply([]*types.Entry{a, b, c}, cfg, now)

	if a.State != types.StateRetained || b.State != types.StateRetained {
		t.Errorf("newest two should remain retained: a=%s b=%s", a.State, b.State)
	}
	if c.State != types.StatePruned {
		t.Errorf("oldest should be demoted, got %s", c.State)
	}
}

func TestApplyMaxSize_ExactMatchNoDemotion(t *testing.T) {
	now := time.Now()
	a := retainedEntry("a", now.AddDate(0, 0, -1), 50)
	b := retainedEntry("b", now.AddDate(0, 0, -2), 50)

	cfg := &config.Config{MaxSize: 100}
	Apply([]*types.Entry{a, b}, cfg, now)

	if a.State != types.StateRetained || b.State != types.StateRetained {
		t.Errorf("cumulative size equal to max-size must not demote anything: a=%s b=%s", a.State, b.State)
	}
}

func TestApplyMaxSize_DemotesAfterExceeding(t *testing.T) {
	now := time.Now()
	a := retainedEntry("a", now.AddDate(0, 0, -1), 80)
	b := retainedEntry("b", now.AddDate(0, 0, -2), 80)
	c := retainedEntry("c", now.AddDate(0, 0, -3), 80)

	cfg := &config.Config{MaxSize: 100}
	Apply([]*types.Entry{a, b, c}, cfg, now)

	if a.State != types.StateRetained {
		t.Errorf("first entry under the cap must remain retained, got %s", a.State)
	}
	if b.State != types.StateRetained {
		t.Errorf("the entry whose addition tips cumulative size over the cap is itself kept, got %s", b.State)
	}
	if c.State != types.StatePruned {
		t.Errorf("entries after the tipping point must be demoted, got %s", c.State)
	}
}
