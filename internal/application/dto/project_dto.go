package dto

// ProjectOutput represents a scaffolded or imported project
type ProjectOutput struct {
	ID         string `json:"id"`
	SourcePath string `json:"source_path"`
	Template   string `json:"template,omitempty"` // Empty for projects imported from an existing folder
	Files      int    `json:"files,omitempty"`    // Files written by the scaffolder, zero for imports
}

// ProjectListItem represents one project in a listing
type ProjectListItem struct {
	ID         string `json:"id"`
	SourcePath string `json:"source_path"`
	Template   string `json:"template,omitempty"`
	Active     bool   `json:"active"` // True for the workspace's active project
	CreatedAt  string `json:"created_at"`
}
