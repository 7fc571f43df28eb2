// Package config builds and validates the retention pipeline's Rule set
// (spec.md §3 "Rule set", §4 stage 1 "Config validation") from already
// -parsed flag values. It owns no flag-parsing library details itself —
// internal/cli is responsible for turning argv into the primitive Go
// values this package validates — so the pipeline core stays decoupled
// from the CLI framework, matching the teacher's separation between
// internal/config (pure parsing/validation) and cmd/main (flag wiring).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"retentions/internal/types"
)

// RegexMode selects how Pattern is interpreted (spec.md §3, §4.1).
type RegexMode int

const (
	RegexGlob RegexMode = iota
	RegexCaseSensitive
	RegexIgnoreCase
)

// AgeType selects which filesystem timestamp buckets an entry (spec.md §3).
type AgeType string

const (
	AgeMtime     AgeType = "mtime"
	AgeCtime     AgeType = "ctime"
	AgeAtime     AgeType = "atime"
	AgeBirthtime AgeType = "birthtime"
)

// FolderTimeMode selects how a folder's age is derived in folder mode
// (spec.md §3 "age_instant", §4.1).
type FolderTimeMode string

const (
	FolderTimeSelf         FolderTimeMode = "folder"
	FolderTimeYoungestFile FolderTimeMode = "youngest-file"
	FolderTimeOldestFile   FolderTimeMode = "oldest-file"
	FolderTimePath         FolderTimeMode = "path"
)

// FolderTime configures folder-mode age derivation.
type FolderTime struct {
	Mode FolderTimeMode
	Path string // only set when Mode == FolderTimePath; relative or absolute
}

// RetentionRule is one configured calendar granularity and its count
// (spec.md §3 "Rule set").
type RetentionRule struct {
	Granularity types.Granularity
	Count       int
}

// CompanionRule is one `--delete-companions` entry of shape
// TYPE:MATCH:COMPANIONS (spec.md §4.6).
type CompanionRule struct {
	Type       CompanionType
	Match      string
	Companions []string
}

// CompanionType is the TYPE half of a companion rule.
type CompanionType int

const (
	CompanionPrefix CompanionType = iota
	CompanionSuffix
)

// Config is the fully validated Rule set consumed by the pipeline. Treat
// it as read-only after Validate returns it successfully.
type Config struct {
	BasePath string // absolute, resolved
	Pattern  string
	Regex    RegexMode

	FolderMode bool
	FolderTime FolderTime
	AgeType    AgeType

	Retention []RetentionRule // in the fixed finest->coarsest processing order
	Last      int             // 0 means unset

	ProtectPattern string // empty means unset

	MaxAge   time.Duration // 0 means unset
	MaxFiles int           // 0 means unset
	MaxSize  uint64        // 0 means unset

	DryRun            bool
	ListOnly          bool
	ListSep           string
	Verbose           Verbosity
	NoLockFile        bool
	FailOnDeleteError bool

	Companions []CompanionRule
}

// Error is a configuration error: a single-line, trace-free message
// naming the offending flag, with an optional "did you mean" suggestion
// (spec.md §7).
type Error struct {
	Flag       string
	Message    string
	Suggestion string
}

func (e *Error) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s: %s (did you mean %q?)", e.Flag, e.Message, e.Suggestion)
	}
	return fmt.Sprintf("%s: %s", e.Flag, e.Message)
}

// Raw is the unvalidated set of flag values as parsed from argv, in the
// primitive shapes pflag hands back. internal/cli populates this; Validate
// turns it into a Config or an *Error.
type Raw struct {
	BasePath string
	Pattern  string

	RegexMode string // "", "casesensitive", "ignorecase"

	Minutes, Hours, Days, Weeks, Week13, Months, Quarters, Years int // 0 = not set
	Last                                                         int

	MaxAge   string
	MaxFiles int
	MaxSize  string

	AgeType    string // mtime|ctime|atime|birthtime
	Protect    string
	FolderMode string // "", "folder", "youngest-file", "oldest-file", "path=<p>"

	Companions []string

	DryRun            bool
	ListOnly          bool
	ListSep           string
	Verbose           string
	NoLockFile        bool
	FailOnDeleteError bool
}

// Validate normalizes and cross-checks Raw into a Config, per spec.md
// §4 stage 1. Every rejection returns *Error.
func Validate(r Raw) (*Config, error) {
	cfg := &Config{
		Last:              r.Last,
		MaxFiles:          r.MaxFiles,
		ProtectPattern:    r.Protect,
		DryRun:            r.DryRun,
		ListOnly:          r.ListOnly,
		NoLockFile:        r.NoLockFile,
		FailOnDeleteError: r.FailOnDeleteError,
		AgeType:           AgeType(orDefault(r.AgeType, string(AgeMtime))),
	}

	abs, err := filepath.Abs(r.BasePath)
	if err != nil {
		return nil, &Error{Flag: "path", Message: err.Error()}
	}

	// spec.md §4.1: a non-existent base path is a configuration error
	// (not an I/O error surfaced later by discovery), and a symlinked
	// base path must be resolved before entering the pipeline so every
	// entry path downstream is built from the resolved directory.
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &Error{Flag: "path", Message: fmt.Sprintf("%q does not exist", abs)}
		}
		return nil, &Error{Flag: "path", Message: err.Error()}
	}
	info, err := os.Stat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &Error{Flag: "path", Message: fmt.Sprintf("%q does not exist", resolved)}
		}
		return nil, &Error{Flag: "path", Message: err.Error()}
	}
	if !info.IsDir() {
		return nil, &Error{Flag: "path", Message: fmt.Sprintf("%q is not a directory", resolved)}
	}
	cfg.BasePath = resolved

	if r.Pattern == "" {
		return nil, &Error{Flag: "pattern", Message: "pattern is required"}
	}
	cfg.Pattern = r.Pattern

	switch r.RegexMode {
	case "", "glob":
		cfg.Regex = RegexGlob
	case "casesensitive":
		cfg.Regex = RegexCaseSensitive
	case "ignorecase":
		cfg.Regex = RegexIgnoreCase
	default:
		return nil, &Error{Flag: "--regex-mode", Message: fmt.Sprintf("unknown value %q", r.RegexMode)}
	}

	if !isSupportedAgeType(cfg.AgeType) {
		return nil, &Error{Flag: "--age-type", Message: fmt.Sprintf("%q is not supported on this platform", cfg.AgeType)}
	}

	if err := applyFolderMode(cfg, r.FolderMode); err != nil {
		return nil, err
	}

	rules, err := buildRetentionRules(r)
	if err != nil {
		return nil, err
	}
	cfg.Retention = rules

	if len(cfg.Retention) == 0 && r.Last <= 0 {
		return nil, &Error{Flag: "--days/--last", Message: "at least one retention granularity or --last is required"}
	}
	if r.Last < 0 {
		return nil, &Error{Flag: "--last", Message: "count must be > 0"}
	}

	if r.MaxAge != "" {
		d, err := ParseDuration(r.MaxAge)
		if err != nil {
			return nil, &Error{Flag: "--max-age", Message: err.Error()}
		}
		cfg.MaxAge = d
	}
	if r.MaxFiles < 0 {
		return nil, &Error{Flag: "--max-files", Message: "must be > 0"}
	}
	if r.MaxSize != "" {
		sz, err := ParseSize(r.MaxSize)
		if err != nil {
			return nil, &Error{Flag: "--max-size", Message: err.Error()}
		}
		cfg.MaxSize = sz
	}

	cfg.ListSep = r.ListSep
	if cfg.ListSep == "" {
		cfg.ListSep = "\n"
	}

	v, err := ParseVerbosity(orDefault(r.Verbose, "0"))
	if err != nil {
		return nil, &Error{Flag: "--verbose", Message: err.Error()}
	}
	cfg.Verbose = v

	if r.ListOnly && cfg.Verbose >= VerboseInfo {
		return nil, &Error{Flag: "--list-only", Message: "cannot be combined with --verbose >= INFO"}
	}

	companions, err := buildCompanionRules(r.Companions)
	if err != nil {
		return nil, err
	}
	cfg.Companions = companions

	return cfg, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func buildRetentionRules(r Raw) ([]RetentionRule, error) {
	// Fixed processing order, finest to coarsest (spec.md §4.3).
	ordered := []struct {
		gran  types.Granularity
		flag  string
		count int
	}{
		{types.GranMinutes, "--minutes", r.Minutes},
		{types.GranHours, "--hours", r.Hours},
		{types.GranDays, "--days", r.Days},
		{types.GranWeeks, "--weeks", r.Weeks},
		{types.GranWeek13, "--week13", r.Week13},
		{types.GranMonth, "--months", r.Months},
		{types.GranQuarter, "--quarters", r.Quarters},
		{types.GranYears, "--years", r.Years},
	}

	var rules []RetentionRule
	for _, o := range ordered {
		if o.count == 0 {
			continue
		}
		if o.count < 0 {
			return nil, &Error{Flag: o.flag, Message: "count must be > 0"}
		}
		rules = append(rules, RetentionRule{Granularity: o.gran, Count: o.count})
	}
	return rules, nil
}

func buildCompanionRules(raw []string) ([]CompanionRule, error) {
	var rules []CompanionRule
	for _, spec := range raw {
		rule, err := parseCompanionRule(spec)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}
