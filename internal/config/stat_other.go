//go:build !linux

package config

import (
	"os"
	"time"
)

// StatTime outside Linux always returns mtime; see isSupportedAgeType in
// agecap_other.go for why ctime/atime are rejected during validation
// before execution ever reaches this function.
func StatTime(fi os.FileInfo, t AgeType) time.Time {
	return fi.ModTime()
}
