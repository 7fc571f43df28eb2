// Package pipeline wires stages 2-10 of the retention pipeline together:
// lock acquisition, discovery, protection, retention, filtering,
// integrity verification, companion expansion, execution, and lock
// release (spec.md §2, §4.8 "State machine").
package pipeline

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"retentions/internal/companion"
	"retentions/internal/config"
	"retentions/internal/discovery"
	"retentions/internal/errs"
	"retentions/internal/filter"
	"retentions/internal/lock"
	"retentions/internal/logging"
	"retentions/internal/retention"
	"retentions/internal/types"
	"retentions/internal/verify"
)

// State names the run lifecycle state machine (spec.md §4.8).
type State int

const (
	StateStart State = iota
	StateConfigValid
	StateLocked
	StateDiscovered
	StatePartitioned
	StateVerified
	StateExecuted
	StateUnlocked
	StateExit
)

// Result summarizes a completed run for cmd/retentions to report on.
type Result struct {
	Retained []*types.Entry
	Pruned   []*types.Entry
	Listed   []string // stdout lines, only set in list-only mode
	State    State    // lifecycle state the run reached
}

// Run executes the full pipeline against an already-validated cfg. now is
// captured once by the caller at process start, per spec.md §5
// "Ordering": every pass is a deterministic function of (sorted entry
// list, rule set, now).
func Run(cfg *config.Config, log *logging.Logger, now time.Time) (*Result, error) {
	state := StateConfigValid

	var heldLock *lock.Lock
	unlock := func() {
		if heldLock != nil {
			if err := heldLock.Release(); err != nil {
				log.Warn("release lock: %v", err)
			}
			state = StateUnlocked
		}
	}
	defer unlock()

	if !cfg.NoLockFile {
		l, err := lock.Acquire(cfg.BasePath)
		if err != nil {
			if err == lock.ErrHeld {
				return nil, errs.Concurrency(fmt.Errorf("lock file present at %s/%s", cfg.BasePath, lock.FileName))
			}
			return nil, errs.IO(err)
		}
		heldLock = l
		state = StateLocked
	}

	entries, err := discovery.Discover(cfg, func(name, message string) {
		log.Warn("%s: %s", name, message)
	})
	if err != nil {
		var cfgErr *config.Error
		if errors.As(err, &cfgErr) {
			return nil, errs.Config(err)
		}
		return nil, errs.IO(err)
	}
	state = StateDiscovered

	working, protected := retention.Protect(entries, cfg.ProtectPattern)
	retention.Retain(working, cfg.Retention, cfg.Last)
	filter.Apply(working, cfg, now)
	state = StatePartitioned

	all := append(append([]*types.Entry{}, working...), protected...)
	if err := verify.Verify(all); err != nil {
		return nil, err
	}
	state = StateVerified

	var pruned, retained []*types.Entry
	for _, e := range working {
		if e.State == types.StatePruned {
			pruned = append(pruned, e)
		} else {
			retained = append(retained, e)
		}
	}

	companions, err := companion.Expand(pruned, cfg.Companions, protected, retained)
	if err != nil {
		return nil, err
	}
	pruned = append(pruned, companions...)

	sort.SliceStable(pruned, func(i, j int) bool {
		ti, tj := pruned[i].AgeInstant, pruned[j].AgeInstant
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return pruned[i].Path < pruned[j].Path
	})

	res := &Result{Retained: retained, Pruned: pruned}

	switch {
	case cfg.ListOnly:
		for _, e := range pruned {
			res.Listed = append(res.Listed, e.Path)
		}
	case cfg.DryRun:
		log.RenderDecisionLog(append(append([]*types.Entry{}, retained...), pruned...))
	default:
		if err := execute(cfg, log, pruned); err != nil {
			return nil, err
		}
		log.RenderDecisionLog(append(append([]*types.Entry{}, retained...), pruned...))
	}
	state = StateExecuted

	unlock()
	state = StateExit
	res.State = state

	return res, nil
}

// execute deletes each pruned entry newest-first (spec.md §4.7). Folder
// entries are removed recursively; file entries with os.Remove.
func execute(cfg *config.Config, log *logging.Logger, pruned []*types.Entry) error {
	for _, e := range pruned {
		var err error
		if e.Kind == types.KindFolder {
			err = os.RemoveAll(e.Path)
		} else {
			err = os.Remove(e.Path)
		}
		if err != nil {
			if cfg.FailOnDeleteError {
				return errs.IO(fmt.Errorf("delete %s: %w", e.Path, err))
			}
			log.Warn("delete %s: %v", e.Path, err)
			continue
		}
	}
	return nil
}
