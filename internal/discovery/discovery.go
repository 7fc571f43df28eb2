// Package discovery implements pipeline stage 3 (spec.md §4.1): it
// enumerates the direct children of the base directory, matches them
// against the configured pattern, derives each one's age instant, and
// returns them sorted newest-first.
package discovery

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"retentions/internal/config"
	"retentions/internal/types"
)

// Discover enumerates cfg.BasePath's direct children and returns the
// matching entries sorted newest-first (age_instant descending, byte-
// lexicographic path tie-break), per spec.md §4.1. warn is called once
// per empty folder omitted in youngest-file/oldest-file mode; pass nil
// to ignore.
func Discover(cfg *config.Config, warn func(name, message string)) ([]*types.Entry, error) {
	if warn == nil {
		warn = func(string, string) {}
	}

	match, err := buildMatcher(cfg)
	if err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(cfg.BasePath)
	if err != nil {
		return nil, errors.Wrap(err, "read base directory")
	}

	var out []*types.Entry
	for _, de := range dirEntries {
		// Symlinks are never candidates, in either mode (spec.md §4.1,
		// Non-goals "symbolic-link deletion or traversal").
		if de.Type()&os.ModeSymlink != 0 {
			continue
		}

		if cfg.FolderMode {
			if !de.IsDir() {
				continue
			}
		} else if de.IsDir() {
			continue
		}

		if !match(de.Name()) {
			continue
		}

		full := filepath.Join(cfg.BasePath, de.Name())

		entry, ok, err := buildEntry(cfg, full, de)
		if err != nil {
			return nil, err
		}
		if !ok {
			if cfg.FolderMode && (cfg.FolderTime.Mode == config.FolderTimeYoungestFile || cfg.FolderTime.Mode == config.FolderTimeOldestFile) {
				warn(de.Name(), "empty folder omitted: no descendant file to derive age from")
			}
			continue
		}
		out = append(out, entry)
	}

	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := out[i].AgeInstant, out[j].AgeInstant
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return out[i].Path < out[j].Path
	})

	return out, nil
}

func buildEntry(cfg *config.Config, full string, de os.DirEntry) (*types.Entry, bool, error) {
	if cfg.FolderMode {
		return buildFolderEntry(cfg, full, de.Name())
	}

	fi, err := de.Info()
	if err != nil {
		return nil, false, errors.Wrapf(err, "stat %s", full)
	}
	if !fi.Mode().IsRegular() {
		return nil, false, nil
	}

	return &types.Entry{
		Path:       full,
		Name:       de.Name(),
		Kind:       types.KindFile,
		Size:       fi.Size(),
		AgeInstant: config.StatTime(fi, cfg.AgeType),
		State:      types.StateUndecided,
	}, true, nil
}

// buildMatcher returns a predicate over basenames implementing cfg's
// pattern and regex-mode (spec.md §4.1).
func buildMatcher(cfg *config.Config) (func(name string) bool, error) {
	ignoreCase := cfg.Regex == config.RegexIgnoreCase

	switch cfg.Regex {
	case config.RegexCaseSensitive, config.RegexIgnoreCase:
		pattern := cfg.Pattern
		if ignoreCase {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, &config.Error{Flag: "pattern", Message: err.Error()}
		}
		return func(name string) bool { return re.MatchString(name) }, nil

	default: // glob
		pattern := cfg.Pattern
		if ignoreCase {
			pattern = strings.ToLower(pattern)
		}
		return func(name string) bool {
			n := name
			if ignoreCase {
				n = strings.ToLower(n)
			}
			ok, err := doublestar.Match(pattern, n)
			return err == nil && ok
		}, nil
	}
}
