package config

import (
	"fmt"
	"strings"
)

// parseCompanionRule parses one --delete-companions entry of shape
// TYPE:MATCH:COMPANIONS, where TYPE is "prefix" or "suffix", MATCH is the
// literal prefix/suffix a pruned entry's name must carry for the rule to
// apply, and COMPANIONS is a comma-separated list of additional
// suffixes/prefixes of sibling files to expand to (spec.md §4.6).
func parseCompanionRule(spec string) (CompanionRule, error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) != 3 {
		return CompanionRule{}, &Error{
			Flag:    "--delete-companions",
			Message: fmt.Sprintf("%q: want TYPE:MATCH:COMPANIONS", spec),
		}
	}

	var typ CompanionType
	switch parts[0] {
	case "prefix":
		typ = CompanionPrefix
	case "suffix":
		typ = CompanionSuffix
	default:
		return CompanionRule{}, &Error{
			Flag:       "--delete-companions",
			Message:    fmt.Sprintf("%q: unknown type %q", spec, parts[0]),
			Suggestion: "prefix or suffix",
		}
	}

	if parts[1] == "" {
		return CompanionRule{}, &Error{Flag: "--delete-companions", Message: fmt.Sprintf("%q: MATCH must not be empty", spec)}
	}

	var companions []string
	for _, c := range strings.Split(parts[2], ",") {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		companions = append(companions, c)
	}
	if len(companions) == 0 {
		return CompanionRule{}, &Error{Flag: "--delete-companions", Message: fmt.Sprintf("%q: COMPANIONS must list at least one suffix", spec)}
	}

	return CompanionRule{Type: typ, Match: parts[1], Companions: companions}, nil
}
