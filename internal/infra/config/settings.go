package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/westward-dev/westward/internal/app/config"
)

// RawSettings represents the structure of the settings.json file.
// Pointer fields distinguish "absent" from zero values so defaults only
// fill what the user left out. The file may contain // and /* */ comments.
type RawSettings struct {
	// Core settings
	Home       *string `json:"home"`
	WestBin    *string `json:"west_bin"`
	PythonBin  *string `json:"python_bin"`
	GitBin     *string `json:"git_bin"`
	TimeoutSec *int    `json:"timeout_sec"`

	// Setup behavior
	DefaultManifestURL *string     `json:"default_manifest_url"`
	RetryAttempts      *int        `json:"retry_attempts"`
	RetryBackoffMS     *int        `json:"retry_backoff_ms"`
	SDKInstallDir      *string     `json:"sdk_install_dir"`
	BoardRoots         []string    `json:"board_roots"`
	Samples            []RawSample `json:"samples"`

	// Locking
	LockTTLSec *int `json:"lock_ttl_sec"`

	// Logging
	StderrLevel *string `json:"stderr_level"`
}

// RawSample references a remote sample repository in settings.json
type RawSample struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// LoadSettings loads configuration from settings.json only.
// Priority: settings.json > defaults
func LoadSettings(baseDir string) (*config.AppConfig, error) {
	settings := &RawSettings{}
	configSource := "default"
	settingPath := ""

	jsonPath := filepath.Join(baseDir, "settings.json")
	if data, err := os.ReadFile(jsonPath); err == nil {
		if err := json.Unmarshal(jsonc.ToJSON(data), settings); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", jsonPath, err)
		}
		configSource = "json"
		settingPath = jsonPath
	}

	applyDefaults(settings)

	return buildAppConfig(settings, configSource, settingPath), nil
}

// Defaults returns the built-in configuration used when no settings file
// is present
func Defaults() *config.AppConfig {
	settings := &RawSettings{}
	applyDefaults(settings)
	return buildAppConfig(settings, "default", "")
}

// applyDefaults fills in default values for any nil fields
func applyDefaults(settings *RawSettings) {
	// Core defaults
	if settings.Home == nil {
		v := ".westward"
		settings.Home = &v
	}
	if settings.WestBin == nil {
		v := "west"
		settings.WestBin = &v
	}
	if settings.PythonBin == nil {
		v := "python3"
		settings.PythonBin = &v
	}
	if settings.GitBin == nil {
		v := "git"
		settings.GitBin = &v
	}
	if settings.TimeoutSec == nil {
		v := 1800 // west update clones many repositories
		settings.TimeoutSec = &v
	}

	// Setup behavior
	if settings.DefaultManifestURL == nil {
		v := ""
		settings.DefaultManifestURL = &v
	}
	if settings.RetryAttempts == nil {
		v := 1
		settings.RetryAttempts = &v
	}
	if settings.RetryBackoffMS == nil {
		v := 0
		settings.RetryBackoffMS = &v
	}
	if settings.SDKInstallDir == nil {
		v := ""
		settings.SDKInstallDir = &v
	}

	// Locking
	if settings.LockTTLSec == nil {
		v := 600
		settings.LockTTLSec = &v
	}

	// Logging
	if settings.StderrLevel == nil {
		v := "warn"
		settings.StderrLevel = &v
	}
}

// buildAppConfig converts RawSettings to AppConfig
func buildAppConfig(settings *RawSettings, configSource, settingPath string) *config.AppConfig {
	samples := make([]config.SampleTemplate, 0, len(settings.Samples))
	for _, s := range settings.Samples {
		if s.ID == "" || s.URL == "" {
			continue
		}
		samples = append(samples, config.SampleTemplate{
			ID:          s.ID,
			URL:         s.URL,
			Description: s.Description,
		})
	}

	return config.NewAppConfig(
		*settings.Home,
		*settings.WestBin,
		*settings.PythonBin,
		*settings.GitBin,
		*settings.TimeoutSec,
		*settings.DefaultManifestURL,
		*settings.RetryAttempts,
		*settings.RetryBackoffMS,
		*settings.SDKInstallDir,
		settings.BoardRoots,
		samples,
		*settings.LockTTLSec,
		*settings.StderrLevel,
		configSource,
		settingPath,
	)
}

// CreateDefaultSettings returns the settings.json content written into a
// fresh workspace. Comments are allowed; the loader strips them.
func CreateDefaultSettings() []byte {
	return []byte(`{
  // External tools. Leave as bare names to resolve them on PATH.
  "west_bin": "west",
  "python_bin": "python3",
  "git_bin": "git",

  // Seconds before a single external command is aborted.
  "timeout_sec": 1800,

  // Where toolchains get installed; empty uses the SDK default.
  "sdk_install_dir": "",

  // Extra board definition roots searched after the synced tree.
  "board_roots": [],

  // Remote sample repositories offered by "westward project create".
  "samples": [],

  "stderr_level": "warn"
}
`)
}
