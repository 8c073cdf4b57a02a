// Package strings provides string list helpers shared by config parsing and
// contract recipients.
package strings

import (
	"strings"
)

// DedupeAndTrim trims each element and drops empty values and repeats,
// keeping first-seen order. A nil or empty input is returned as is.
func DedupeAndTrim(values []string) []string {
	return dedupe(values, strings.TrimSpace)
}

// DedupeAndTrimLower is DedupeAndTrim with case folding to lower case.
//
//	DedupeAndTrimLower([]string{" Office@Ferko.hr", "office@ferko.HR", ""})
//	// []string{"office@ferko.hr"}
func DedupeAndTrimLower(values []string) []string {
	return dedupe(values, func(s string) string {
		return strings.ToLower(strings.TrimSpace(s))
	})
}

// SplitAndTrim splits s on sep and applies DedupeAndTrim. An input with no
// values yields an empty, non-nil slice.
func SplitAndTrim(s, sep string) []string {
	out := DedupeAndTrim(strings.Split(s, sep))
	if out == nil {
		return []string{}
	}
	return out
}

func dedupe(values []string, norm func(string) string) []string {
	if len(values) == 0 {
		return values
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = norm(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
