package dto

// BuildConfigOutput represents a registered build configuration
type BuildConfigOutput struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Board     string `json:"board"`
	Profile   string `json:"profile"`
}

// BuildConfigListItem represents one build configuration in a listing
type BuildConfigListItem struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Board     string `json:"board"`
	Profile   string `json:"profile"`
	Active    bool   `json:"active"` // True for the workspace's active build configuration
	CreatedAt string `json:"created_at"`
}

// BuildOutput represents the result of one build invocation
type BuildOutput struct {
	ID        string `json:"id"`         // Build configuration identifier
	Board     string `json:"board"`      // Target board
	BuildDir  string `json:"build_dir"`  // Out-of-tree build directory
	Success   bool   `json:"success"`    // True when the build tool exited zero
	ExitCode  int    `json:"exit_code"`  // Build tool exit code
	Output    string `json:"output"`     // Captured stdout
	Diagnosis string `json:"diagnosis"`  // Captured stderr, truncated
	ElapsedMs int64  `json:"elapsed_ms"` // Wall time of the build
}

// DoctorCheck represents the probe result for one required tool
type DoctorCheck struct {
	Name    string `json:"name"`              // Tool name (west, python3, ...)
	OK      bool   `json:"ok"`                // True when the tool resolved and responded
	Path    string `json:"path,omitempty"`    // Resolved binary path
	Version string `json:"version,omitempty"` // First line of --version output
	Detail  string `json:"detail,omitempty"`  // Failure description when not OK
}

// DoctorOutput represents the full environment diagnosis
type DoctorOutput struct {
	Checks    []DoctorCheck `json:"checks"`
	StateOK   bool          `json:"state_ok"`    // True when the workspace state file loads cleanly
	Stage     string        `json:"stage"`       // Setup stage reported by the loaded state
	Healthy   bool          `json:"healthy"`     // True when every check passed and state is readable
	ElapsedMs int64         `json:"elapsed_ms"`
}
