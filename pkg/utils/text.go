// Package utils provides shared utilities for text and logging.
package utils

import "strings"

// Truncate returns s truncated to maxLen characters, with "..." appended if truncated.
// If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// TruncateRunes returns s cut to at most max characters, ending in "..."
// when text was removed. Limits too small to hold the ellipsis cut without
// it; max <= 0 yields the empty string.
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max > 3 {
		return string(runes[:max-3]) + "..."
	}
	return string(runes[:max])
}

// CollapseWhitespace trims s and collapses runs of whitespace (including
// newlines and tabs) into single spaces. HTML text nodes arrive with layout
// whitespace that must not survive into block text.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
