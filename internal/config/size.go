package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// sizeUnits maps spec.md §4.4's byte-size suffix grammar to a base-1024
// multiplier. Deliberately narrower than humanize.ParseBytes, which also
// accepts SI ("kB") and a trailing "B" ("KiB", "MB") — the spec's grammar
// is exactly one letter from K/M/G/T/P/E, nothing else, so ParseBytes
// would silently accept strings the spec rejects.
var sizeUnits = map[byte]uint64{
	'K': 1 << 10,
	'M': 1 << 20,
	'G': 1 << 30,
	'T': 1 << 40,
	'P': 1 << 50,
	'E': 1 << 60,
}

// ParseSize parses a spec-grammar byte size: a non-negative, optionally
// fractional number, optionally followed by one of K/M/G/T/P/E. A bare
// number is bytes.
func ParseSize(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	last := s[len(s)-1]
	mult, hasUnit := sizeUnits[last]
	numPart := s
	if hasUnit {
		numPart = s[:len(s)-1]
	}
	if numPart == "" {
		return 0, fmt.Errorf("%q: missing numeric value", s)
	}

	val, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, fmt.Errorf("%q: invalid numeric value", s)
	}
	if val < 0 {
		return 0, fmt.Errorf("%q: size must be non-negative", s)
	}
	if !hasUnit {
		return uint64(val), nil
	}
	return uint64(val * float64(mult)), nil
}

// FormatSize renders a byte count for decision-log messages, using the
// same base-1024 convention as ParseSize (spec.md §4.6, §6).
func FormatSize(n uint64) string {
	return humanize.IBytes(n)
}
