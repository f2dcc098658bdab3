// Package board defines the hardware target value object discovered from
// board metadata files in the synced source tree.
package board

import "fmt"

// Board identifies a buildable hardware target.
// Dir points at the folder holding the board definition so builds can pass
// extra board roots through to the build system.
type Board struct {
	Name   string
	Vendor string
	Dir    string
}

// Label renders the board for selection lists
func (b Board) Label() string {
	if b.Vendor == "" {
		return b.Name
	}
	return fmt.Sprintf("%s (%s)", b.Name, b.Vendor)
}
