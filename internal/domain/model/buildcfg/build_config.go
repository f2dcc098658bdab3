// Package buildcfg defines named build configurations binding a project to a
// target board and an optimization profile.
package buildcfg

import (
	"fmt"
	"time"

	"github.com/westward-dev/westward/internal/pkg/ident"
)

// Profile selects the Kconfig optimization overlay applied to a build
type Profile string

const (
	ProfileDebug Profile = "debug"
	ProfileSpeed Profile = "speed"
	ProfileSize  Profile = "size"
)

// IsValid checks if the profile value is valid
func (p Profile) IsValid() bool {
	switch p {
	case ProfileDebug, ProfileSpeed, ProfileSize:
		return true
	}
	return false
}

// CMakeArgs returns the extra definitions passed through to the build system
func (p Profile) CMakeArgs() []string {
	switch p {
	case ProfileDebug:
		return []string{"-DCONFIG_DEBUG_OPTIMIZATIONS=y", "-DCONFIG_DEBUG_THREAD_INFO=y"}
	case ProfileSpeed:
		return []string{"-DCONFIG_SPEED_OPTIMIZATIONS=y"}
	case ProfileSize:
		return []string{"-DCONFIG_SIZE_OPTIMIZATIONS=y"}
	default:
		return nil
	}
}

// String returns the string representation of the profile
func (p Profile) String() string {
	return string(p)
}

// Profiles lists the selectable optimization profiles in display order
func Profiles() []Profile {
	return []Profile{ProfileDebug, ProfileSpeed, ProfileSize}
}

// BuildConfig represents a named, repeatable build of one project for one board
type BuildConfig struct {
	id        string
	projectID string
	board     string
	profile   Profile
	createdAt time.Time
}

// NewBuildConfig creates a build configuration with a validated identifier
func NewBuildConfig(id, projectID, board string, profile Profile) (*BuildConfig, error) {
	name, err := ident.NormalizeAndValidate(id)
	if err != nil {
		return nil, fmt.Errorf("invalid build configuration name: %w", err)
	}
	if projectID == "" {
		return nil, fmt.Errorf("build configuration requires a project")
	}
	if board == "" {
		return nil, fmt.Errorf("build configuration requires a board")
	}
	if !profile.IsValid() {
		return nil, fmt.Errorf("unknown optimization profile: %q", profile)
	}
	return &BuildConfig{
		id:        name,
		projectID: projectID,
		board:     board,
		profile:   profile,
		createdAt: time.Now(),
	}, nil
}

// ReconstructBuildConfig restores a build configuration from persistence without validation
func ReconstructBuildConfig(id, projectID, board string, profile Profile, createdAt time.Time) *BuildConfig {
	return &BuildConfig{
		id:        id,
		projectID: projectID,
		board:     board,
		profile:   profile,
		createdAt: createdAt,
	}
}

// Getters

func (c *BuildConfig) ID() string           { return c.id }
func (c *BuildConfig) ProjectID() string    { return c.projectID }
func (c *BuildConfig) Board() string        { return c.board }
func (c *BuildConfig) Profile() Profile     { return c.profile }
func (c *BuildConfig) CreatedAt() time.Time { return c.createdAt }
