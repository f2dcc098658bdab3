package dto

// SDKInstallOutput represents the result of a toolchain installation
type SDKInstallOutput struct {
	Mode       string   `json:"mode"`                 // "automatic" or "selective"
	Toolchains []string `json:"toolchains,omitempty"` // Toolchain identifiers passed to the installer, empty for full installs
	ElapsedMs  int64    `json:"elapsed_ms"`
}

// SDKImportOutput represents the result of unpacking a local SDK bundle
type SDKImportOutput struct {
	Archive   string `json:"archive"`    // Source bundle path
	Dir       string `json:"dir"`        // Directory the bundle was unpacked into
	Files     int    `json:"files"`      // Regular files written
	ElapsedMs int64  `json:"elapsed_ms"`
}
