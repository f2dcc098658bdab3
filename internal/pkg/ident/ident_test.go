package ident

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"  blinky  ", "blinky"},
		{"app０１", "app01"}, // full-width digits collapse under NFKC
		{"ａpp", "app"},          // full-width letters too
		{"plain", "plain"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.raw); got != tt.want {
			t.Errorf("Normalize(%q) = %q, expected %q", tt.raw, got, tt.want)
		}
	}
}

func TestValidate_AcceptsGoodNames(t *testing.T) {
	valid := []string{
		"blinky",
		"my-app",
		"sensor_node",
		"app.v2",
		"Board2040",
		"test_build_1",
	}
	for _, name := range valid {
		if err := Validate(name); err != nil {
			t.Errorf("Validate(%q) failed: %v", name, err)
		}
	}
}

func TestValidate_RejectsBadNames(t *testing.T) {
	invalid := []string{
		"",
		".hidden",
		"-leading-dash",
		"has space",
		"slash/inside",
		"semi;colon",
		"tab\tname",
		strings.Repeat("a", 65),
	}
	for _, name := range invalid {
		if err := Validate(name); err == nil {
			t.Errorf("Expected Validate(%q) to fail", name)
		}
	}
}

func TestValidate_RejectsWindowsReservedNames(t *testing.T) {
	reserved := []string{"con", "CON", "prn", "aux", "nul", "com1", "COM9", "lpt3", "con.app"}
	for _, name := range reserved {
		if err := Validate(name); err == nil {
			t.Errorf("Expected Validate(%q) to fail", name)
		}
	}

	// Near misses stay valid
	allowed := []string{"console", "com10", "communicate", "lpt0"}
	for _, name := range allowed {
		if err := Validate(name); err != nil {
			t.Errorf("Validate(%q) failed: %v", name, err)
		}
	}
}

func TestNormalizeAndValidate(t *testing.T) {
	name, err := NormalizeAndValidate("  blinky  ")
	if err != nil {
		t.Fatalf("NormalizeAndValidate failed: %v", err)
	}
	if name != "blinky" {
		t.Errorf("Expected blinky, got %q", name)
	}

	if _, err := NormalizeAndValidate("   "); err == nil {
		t.Error("Expected whitespace-only input to fail")
	}
}
