// Package merge reassembles an imported article's auxiliary records into its
// primary record and retires the auxiliaries.
package merge

import (
	"fmt"
	"strconv"
	"strings"
)

// partOpen and partClose delimit the part number in an auxiliary record's
// display name: "{title} (Part {n})".
const (
	partOpen  = " (Part "
	partClose = ")"
)

// PartName returns the display name of auxiliary part n of title. Part
// numbers start at 2; the primary record carries the bare title.
func PartName(title string, n int) string {
	return fmt.Sprintf("%s%s%d%s", title, partOpen, n, partClose)
}

// PartNumber parses the part number out of displayName for the given title.
// Reports false for the primary record, for other titles that merely contain
// title as a substring, and for malformed or out-of-range part suffixes.
// Display-name parsing is the least type-safe step of the pipeline, so all
// classification goes through here.
func PartNumber(displayName, title string) (int, bool) {
	rest, ok := strings.CutPrefix(displayName, title+partOpen)
	if !ok {
		return 0, false
	}
	digits, ok := strings.CutSuffix(rest, partClose)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 2 {
		return 0, false
	}
	return n, true
}
