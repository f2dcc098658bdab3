package config

import "time"

// SampleTemplate references a remote sample repository offered as a
// project scaffold next to the builtin templates
type SampleTemplate struct {
	ID          string
	URL         string
	Description string
}

// Config provides read-only access to application configuration.
// This interface abstracts the configuration source (JSON file, defaults)
// and keeps the application layer free of infrastructure details.
type Config interface {
	// Core settings
	Home() string           // Workspace metadata directory, relative to the workspace root
	WestBin() string        // west binary path
	PythonBin() string      // Python interpreter used to create the environment
	GitBin() string         // git binary path
	TimeoutSec() int        // External command timeout in seconds
	Timeout() time.Duration // External command timeout as Duration

	// Setup behavior
	DefaultManifestURL() string  // Manifest URL offered by remote setup when none is given
	RetryAttempts() int          // Attempts per external setup command (>= 1)
	RetryBackoff() time.Duration // Pause between attempts
	SDKInstallDir() string       // Toolchain install directory; empty uses the tool default
	BoardRoots() []string        // Extra board definition roots searched after the synced tree
	Samples() []SampleTemplate   // Remote sample repositories offered as scaffolds

	// Locking
	LockTTL() time.Duration // How long a crashed command may block the workspace

	// Logging
	StderrLevel() string // Minimum level written to stderr (debug, info, warn, error)

	// Metadata
	ConfigSource() string // Source of configuration: "json" or "default"
	SettingPath() string  // Path to settings.json if loaded from file
}

// AppConfig is the concrete implementation of Config.
// It holds all configuration values resolved at startup.
type AppConfig struct {
	home       string
	westBin    string
	pythonBin  string
	gitBin     string
	timeoutSec int

	defaultManifestURL string
	retryAttempts      int
	retryBackoffMS     int
	sdkInstallDir      string
	boardRoots         []string
	samples            []SampleTemplate

	lockTTLSec int

	stderrLevel string

	configSource string
	settingPath  string
}

// Home returns the workspace metadata directory
func (c *AppConfig) Home() string {
	return c.home
}

// WestBin returns the west binary path
func (c *AppConfig) WestBin() string {
	return c.westBin
}

// PythonBin returns the Python interpreter path
func (c *AppConfig) PythonBin() string {
	return c.pythonBin
}

// GitBin returns the git binary path
func (c *AppConfig) GitBin() string {
	return c.gitBin
}

// TimeoutSec returns the command timeout in seconds
func (c *AppConfig) TimeoutSec() int {
	return c.timeoutSec
}

// Timeout returns the command timeout as a Duration
func (c *AppConfig) Timeout() time.Duration {
	return time.Duration(c.timeoutSec) * time.Second
}

// DefaultManifestURL returns the manifest URL offered by remote setup
func (c *AppConfig) DefaultManifestURL() string {
	return c.defaultManifestURL
}

// RetryAttempts returns how many times an external setup command is attempted
func (c *AppConfig) RetryAttempts() int {
	if c.retryAttempts < 1 {
		return 1
	}
	return c.retryAttempts
}

// RetryBackoff returns the pause between attempts
func (c *AppConfig) RetryBackoff() time.Duration {
	return time.Duration(c.retryBackoffMS) * time.Millisecond
}

// SDKInstallDir returns the toolchain install directory
func (c *AppConfig) SDKInstallDir() string {
	return c.sdkInstallDir
}

// BoardRoots returns the extra board definition roots
func (c *AppConfig) BoardRoots() []string {
	return c.boardRoots
}

// Samples returns the configured remote sample repositories
func (c *AppConfig) Samples() []SampleTemplate {
	return c.samples
}

// LockTTL returns the command lock time-to-live
func (c *AppConfig) LockTTL() time.Duration {
	return time.Duration(c.lockTTLSec) * time.Second
}

// StderrLevel returns the stderr log level
func (c *AppConfig) StderrLevel() string {
	return c.stderrLevel
}

// ConfigSource returns the source of configuration
func (c *AppConfig) ConfigSource() string {
	return c.configSource
}

// SettingPath returns the path to settings.json if loaded from file
func (c *AppConfig) SettingPath() string {
	return c.settingPath
}

// NewAppConfig creates a new AppConfig with the given values.
// This is typically called by the infrastructure layer after loading and
// merging configuration sources.
func NewAppConfig(
	home, westBin, pythonBin, gitBin string, timeoutSec int,
	defaultManifestURL string, retryAttempts, retryBackoffMS int,
	sdkInstallDir string, boardRoots []string, samples []SampleTemplate,
	lockTTLSec int,
	stderrLevel string,
	configSource, settingPath string,
) *AppConfig {
	return &AppConfig{
		home:               home,
		westBin:            westBin,
		pythonBin:          pythonBin,
		gitBin:             gitBin,
		timeoutSec:         timeoutSec,
		defaultManifestURL: defaultManifestURL,
		retryAttempts:      retryAttempts,
		retryBackoffMS:     retryBackoffMS,
		sdkInstallDir:      sdkInstallDir,
		boardRoots:         boardRoots,
		samples:            samples,
		lockTTLSec:         lockTTLSec,
		stderrLevel:        stderrLevel,
		configSource:       configSource,
		settingPath:        settingPath,
	}
}
