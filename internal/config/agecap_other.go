//go:build !linux

package config

// isSupportedAgeType outside Linux: ctime (Linux's metadata-change time,
// from syscall.Stat_t.Ctim) and atime both need a platform-specific stat
// layout this build doesn't special-case, so only the portable mtime is
// supported here.
func isSupportedAgeType(t AgeType) bool {
	return t == AgeMtime
}
