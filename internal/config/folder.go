package config

import (
	"strconv"
	"strings"
)

// applyFolderMode parses the --folder-mode flag value and fills cfg's
// FolderMode/FolderTime. An empty raw value means file mode (the default);
// any other value switches the pipeline to treat direct subdirectories as
// the candidate entries (spec.md §3, §4.1).
func applyFolderMode(cfg *Config, raw string) error {
	if raw == "" {
		return nil
	}
	cfg.FolderMode = true

	switch {
	case raw == string(FolderTimeSelf):
		cfg.FolderTime = FolderTime{Mode: FolderTimeSelf}
	case raw == string(FolderTimeYoungestFile):
		cfg.FolderTime = FolderTime{Mode: FolderTimeYoungestFile}
	case raw == string(FolderTimeOldestFile):
		cfg.FolderTime = FolderTime{Mode: FolderTimeOldestFile}
	case strings.HasPrefix(raw, "path="):
		p := strings.TrimPrefix(raw, "path=")
		if p == "" {
			return &Error{Flag: "--folder-mode", Message: "path= requires a non-empty relative path"}
		}
		cfg.FolderTime = FolderTime{Mode: FolderTimePath, Path: p}
	default:
		return &Error{
			Flag:       "--folder-mode",
			Message:    "unrecognized value " + strconv.Quote(raw),
			Suggestion: "folder, youngest-file, oldest-file, or path=<relative-path>",
		}
	}
	return nil
}
