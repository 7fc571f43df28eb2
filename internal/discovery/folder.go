package discovery

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"retentions/internal/config"
	"retentions/internal/types"
)

// buildFolderEntry derives a folder's age_instant from cfg's configured
// time source (spec.md §3, §4.1) and returns the Entry. ok is false for
// an empty folder in youngest-file/oldest-file mode, which is omitted
// with a warning rather than erroring.
func buildFolderEntry(cfg *config.Config, full, name string) (*types.Entry, bool, error) {
	fi, err := os.Stat(full)
	if err != nil {
		return nil, false, errors.Wrapf(err, "stat %s", full)
	}

	var age time.Time
	switch cfg.FolderTime.Mode {
	case config.FolderTimeSelf:
		age = config.StatTime(fi, cfg.AgeType)

	case config.FolderTimeYoungestFile, config.FolderTimeOldestFile:
		wantYoungest := cfg.FolderTime.Mode == config.FolderTimeYoungestFile
		found, a, err := scanDescendants(cfg, full, wantYoungest)
		if err != nil {
			return nil, false, err
		}
		if !found {
			return nil, false, nil
		}
		age = a

	case config.FolderTimePath:
		resolved, ok, err := resolveNamedFile(full, cfg.FolderTime.Path)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, &config.Error{
				Flag:    "--folder-mode",
				Message: "path=" + cfg.FolderTime.Path + " does not resolve to a regular file strictly inside " + full,
			}
		}
		pfi, err := os.Stat(resolved)
		if err != nil {
			return nil, false, errors.Wrapf(err, "stat %s", resolved)
		}
		age = config.StatTime(pfi, cfg.AgeType)
	}

	return &types.Entry{
		Path:       full,
		Name:       name,
		Kind:       types.KindFolder,
		Size:       0,
		AgeInstant: age,
		State:      types.StateUndecided,
	}, true, nil
}

// scanDescendants recursively walks dir (never following symlinks, no
// side effects) looking for the youngest or oldest regular file's age.
func scanDescendants(cfg *config.Config, dir string, wantYoungest bool) (bool, time.Time, error) {
	var (
		found bool
		best  time.Time
	)

	var walk func(d string) error
	walk = func(d string) error {
		entries, err := os.ReadDir(d)
		if err != nil {
			return errors.Wrapf(err, "read %s", d)
		}
		for _, e := range entries {
			if e.Type()&os.ModeSymlink != 0 {
				continue
			}
			full := filepath.Join(d, e.Name())
			if e.IsDir() {
				if err := walk(full); err != nil {
					return err
				}
				continue
			}
			fi, err := e.Info()
			if err != nil {
				continue
			}
			if !fi.Mode().IsRegular() {
				continue
			}
			age := config.StatTime(fi, cfg.AgeType)
			if !found {
				best, found = age, true
				continue
			}
			if wantYoungest && age.After(best) {
				best = age
			}
			if !wantYoungest && age.Before(best) {
				best = age
			}
		}
		return nil
	}

	if err := walk(dir); err != nil {
		return false, time.Time{}, err
	}
	return found, best, nil
}

// resolveNamedFile validates that rel resolves to a regular file
// strictly inside dir after canonicalisation (spec.md §4.1).
func resolveNamedFile(dir, rel string) (string, bool, error) {
	candidate := rel
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(dir, rel)
	}

	resolved, err := filepath.EvalSymlinks(candidate)
	if err != nil {
		return "", false, nil
	}
	dirResolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return "", false, errors.Wrapf(err, "resolve %s", dir)
	}

	relPath, err := filepath.Rel(dirResolved, resolved)
	if err != nil || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return "", false, nil
	}
	if relPath == "." {
		return "", false, nil
	}

	fi, err := os.Stat(resolved)
	if err != nil || !fi.Mode().IsRegular() {
		return "", false, nil
	}

	return resolved, true, nil
}
