// Package cli builds the retentions root command: flag definitions,
// unknown-flag suggestions, and translation of parsed flags into
// config.Raw. Help/usage rendering, shell completion, and packaging are
// left entirely to cobra/pflag — spec.md §1 treats them as external
// collaborators this package wires up, not logic this repo owns.
package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"retentions/internal/config"
	"retentions/internal/errs"
)

// Version is set by the build (ldflags); "dev" is the fallback for local
// builds run straight from source.
var Version = "dev"

// suggestionThreshold bounds how different an unknown flag may be from a
// known one before "did you mean" stops offering it.
const suggestionThreshold = 3

// Build constructs the root command. run is called with the fully
// populated config.Raw once cobra has parsed argv successfully.
func Build(run func(raw config.Raw) error) *cobra.Command {
	var raw config.Raw

	root := &cobra.Command{
		Use:           "retentions <path> <pattern> [options]",
		Short:         "Apply backup-style retention policy to a directory's direct children",
		Version:       Version,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errs.Config(fmt.Errorf("expected <path> and <pattern>, got %d argument(s)", len(args)))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.Flags()
	flags.IntVar(&raw.Minutes, "minutes", 0, "retain the newest N minute buckets (hidden granularity)")
	flags.Lookup("minutes").Hidden = true
	flags.IntVar(&raw.Hours, "hours", 0, "retain the newest N hour buckets")
	flags.IntVar(&raw.Days, "days", 0, "retain the newest N day buckets")
	flags.IntVar(&raw.Weeks, "weeks", 0, "retain the newest N ISO week buckets")
	flags.IntVar(&raw.Week13, "week13", 0, "retain the newest N 13-week buckets")
	flags.IntVar(&raw.Months, "months", 0, "retain the newest N month buckets")
	flags.IntVar(&raw.Quarters, "quarters", 0, "retain the newest N quarter buckets")
	flags.IntVar(&raw.Years, "years", 0, "retain the newest N year buckets")
	flags.IntVar(&raw.Last, "last", 0, "retain the globally newest N entries regardless of bucket")

	flags.StringVar(&raw.MaxAge, "max-age", "", "demote retained entries older than this duration (e.g. 30d)")
	flags.IntVar(&raw.MaxFiles, "max-files", 0, "cap the retained set to this many entries")
	flags.StringVar(&raw.MaxSize, "max-size", "", "cap the retained set's cumulative size (e.g. 50G)")

	flags.StringVar(&raw.RegexMode, "regex-mode", "", "treat pattern as a regex: casesensitive or ignorecase")
	flags.StringVar(&raw.AgeType, "age-type", "mtime", "timestamp used for bucketing: mtime, ctime, atime, or birthtime")
	flags.StringVar(&raw.Protect, "protect", "", "glob pattern of entries to exclude from all decision logic")
	flags.StringVar(&raw.FolderMode, "folder-mode", "", "operate on direct subdirectories: folder, youngest-file, oldest-file, or path=<p>")
	flags.StringArrayVar(&raw.Companions, "delete-companions", nil, "TYPE:MATCH:COMPANIONS companion rule, repeatable")

	flags.BoolVar(&raw.DryRun, "dry-run", false, "compute the partition and render the decision log, delete nothing")
	flags.StringVar(&raw.ListSep, "list-only", "", "print pruned paths to stdout and exit, no deletion; optional separator, default newline")
	flags.Lookup("list-only").NoOptDefVal = "\n"
	flags.StringVar(&raw.Verbose, "verbose", "0", "log verbosity: 0-3 or ERROR/WARN/INFO/DEBUG")
	flags.BoolVar(&raw.NoLockFile, "no-lock-file", false, "skip advisory lock acquisition")
	flags.BoolVar(&raw.FailOnDeleteError, "fail-on-delete-error", false, "abort the run on the first failed deletion")

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return annotateUnknownFlag(flags, err)
	})

	root.RunE = func(cmd *cobra.Command, args []string) error {
		raw.ListOnly = flags.Changed("list-only")
		if raw.ListOnly && raw.ListSep == "" {
			raw.ListSep = "\n"
		}
		raw.BasePath = args[0]
		raw.Pattern = args[1]
		return run(raw)
	}

	return root
}

// annotateUnknownFlag appends a "did you mean" suggestion to pflag's
// "unknown flag" error by edit distance over every registered flag name,
// since cobra's built-in suggestion machinery only covers subcommands,
// not flags (spec.md §6 "Rejections").
func annotateUnknownFlag(flags *pflag.FlagSet, err error) error {
	const prefix = "unknown flag: --"
	msg := err.Error()
	if !strings.HasPrefix(msg, prefix) {
		return errs.Config(err)
	}
	bad := strings.TrimPrefix(msg, prefix)

	var names []string
	flags.VisitAll(func(f *pflag.Flag) { names = append(names, f.Name) })
	sort.Strings(names)

	best := ""
	bestDist := suggestionThreshold + 1
	for _, n := range names {
		d := levenshtein.ComputeDistance(bad, n)
		if d < bestDist {
			best, bestDist = n, d
		}
	}
	if best == "" {
		return errs.Config(err)
	}
	return errs.Config(fmt.Errorf("%s (did you mean --%s?)", msg, best))
}
