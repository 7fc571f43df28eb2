// Package types holds the data model shared across the retention pipeline:
// the Entry produced by discovery, its decision state, and the vocabulary
// of calendar granularities used by the retention pass.
//
// Entries are owned by the pipeline; no external package mutates one after
// discovery constructs it except to append to its Log and flip its State.
package types

import "time"

// Kind distinguishes a file entry from a folder entry (folder mode).
type Kind int

const (
	KindFile Kind = iota
	KindFolder
)

func (k Kind) String() string {
	if k == KindFolder {
		return "folder"
	}
	return "file"
}

// State is an entry's current position in the decision pipeline.
//
// Every entry starts Undecided. Protection moves it straight to Protected
// (a terminal state). The retention pass moves the rest to Retained or
// Pruned; the filter pass may move a Retained entry to Pruned (never the
// reverse). Once Pruned, companion expansion may add new entries directly
// in the Pruned state.
type State int

const (
	StateUndecided State = iota
	StateProtected
	StateRetained
	StatePruned
)

func (s State) String() string {
	switch s {
	case StateProtected:
		return "protected"
	case StateRetained:
		return "retained"
	case StatePruned:
		return "pruned"
	default:
		return "undecided"
	}
}

// Granularity is one of the calendar bucket sizes the retention pass
// groups entries into. Order matters: processing always runs finest to
// coarsest so a finer granularity can claim a calendar interval before a
// coarser one considers it.
type Granularity int

const (
	GranMinutes Granularity = iota
	GranHours
	GranDays
	GranWeeks
	GranWeek13
	GranMonth
	GranQuarter
	GranYears
)

func (g Granularity) String() string {
	switch g {
	case GranMinutes:
		return "minutes"
	case GranHours:
		return "hours"
	case GranDays:
		return "days"
	case GranWeeks:
		return "weeks"
	case GranWeek13:
		return "week13"
	case GranMonth:
		return "month"
	case GranQuarter:
		return "quarter"
	case GranYears:
		return "years"
	default:
		return "unknown"
	}
}

// Event is one entry in an Entry's decision log: which stage touched it,
// the machine-readable reason token, and a rendered human message.
//
// Modeled as a tagged struct rather than a free-form string so any
// verbosity level can re-render the message from the same data (DESIGN
// NOTES §9 of the spec).
type Event struct {
	Stage   string
	Reason  string
	Message string
}

// Entry is an immutable-after-discovery record of one direct child of the
// base directory (or, in folder mode, one direct child directory).
type Entry struct {
	Path       string // absolute, link-resolved
	Name       string // basename, used for pattern matching
	Kind       Kind
	Size       int64 // 0 for folders in folder mode
	AgeInstant time.Time

	State  State
	Reason string // reason token backing the current State, e.g. "days[2026-01-31]"
	Log    []Event
}

// Record appends a decision-log event and does not otherwise mutate the
// entry; callers that also change State/Reason do so explicitly alongside
// the call so the two always move together.
func (e *Entry) Record(stage, reason, message string) {
	e.Log = append(e.Log, Event{Stage: stage, Reason: reason, Message: message})
}

// SetState transitions the entry and records the event in one step.
func (e *Entry) SetState(state State, stage, reason, message string) {
	e.State = state
	e.Reason = reason
	e.Record(stage, reason, message)
}
