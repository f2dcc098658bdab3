// Package ident normalizes and validates user-entered workspace identifiers.
// Project and build configuration names become directory names, so the rules
// here are deliberately stricter than what most filesystems would accept.
package ident

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const maxRunes = 64

// Normalize applies NFKC normalization and trims surrounding whitespace.
// Full-width digits and compatibility forms collapse to their ASCII
// equivalents so visually identical names cannot coexist.
func Normalize(raw string) string {
	return strings.TrimSpace(norm.NFKC.String(raw))
}

// Validate checks that name is usable as a workspace identifier and a
// filesystem entry. The name must already be normalized.
func Validate(name string) error {
	if name == "" {
		return fmt.Errorf("name must not be empty")
	}
	if len([]rune(name)) > maxRunes {
		return fmt.Errorf("name exceeds %d characters", maxRunes)
	}
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "-") {
		return fmt.Errorf("name must not start with %q", name[:1])
	}
	for _, r := range name {
		if !isIdentRune(r) {
			return fmt.Errorf("name contains invalid character %q (allowed: letters, digits, '.', '_', '-')", r)
		}
	}
	if isWindowsReserved(name) {
		return fmt.Errorf("name %q is reserved on Windows", name)
	}
	return nil
}

// NormalizeAndValidate is the common entry point for prompt input
func NormalizeAndValidate(raw string) (string, error) {
	name := Normalize(raw)
	if err := Validate(name); err != nil {
		return "", err
	}
	return name, nil
}

func isIdentRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '.' || r == '_' || r == '-':
		return true
	}
	return false
}

func isWindowsReserved(name string) bool {
	base := strings.ToLower(name)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	switch base {
	case "con", "prn", "aux", "nul":
		return true
	}
	if len(base) == 4 && (strings.HasPrefix(base, "com") || strings.HasPrefix(base, "lpt")) {
		return base[3] >= '1' && base[3] <= '9'
	}
	return false
}
