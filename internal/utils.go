package internal

import (
	"strings"
)

// Abbreviate shortens s to at most max characters, appending "..." when
// anything was cut.
func Abbreviate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i] + "..."
		}
		n++
	}
	return s
}

// SingleLine folds line breaks and runs of whitespace into single spaces
// for list previews.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
