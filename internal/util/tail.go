package util

import "strings"

// TailLines returns the last max lines of s with surrounding whitespace
// trimmed. Tool output can run to megabytes; error details and journal
// entries only want the part that names the failure.
func TailLines(s string, max int) string {
	s = strings.TrimSpace(s)
	if s == "" || max <= 0 {
		return ""
	}

	lines := strings.Split(s, "\n")
	if len(lines) > max {
		lines = lines[len(lines)-max:]
	}
	return strings.Join(lines, "\n")
}
