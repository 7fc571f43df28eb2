//go:build linux

package config

// isSupportedAgeType reports whether AgeType can be derived from os.Stat
// on this platform. mtime, ctime (metadata-change time, syscall.Stat_t's
// Ctim), and atime are all available via the Unix stat struct; birthtime
// (file creation time) is not reliably exposed without a platform-specific
// statx/getattrlist call, so it is rejected rather than silently degraded
// to mtime (spec.md Open Questions, resolved in DESIGN.md).
func isSupportedAgeType(t AgeType) bool {
	switch t {
	case AgeMtime, AgeCtime, AgeAtime:
		return true
	default:
		return false
	}
}
