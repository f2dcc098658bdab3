package output

import "context"

// Template source kinds
const (
	TemplateSourceBuiltin = "builtin"
	TemplateSourceGit     = "git"
)

// TemplateInfo describes one available project scaffold
type TemplateInfo struct {
	ID          string // Template identifier (minimal, blinky-stm32, ...)
	Description string // One-line summary shown in selection prompts
	Source      string // builtin | git
	Origin      string // Repository URL for git templates, empty for builtin
}

// TemplateStore lists and deploys project scaffolds.
// Builtin templates ship with the binary; git templates are sample
// repositories fetched at deploy time.
type TemplateStore interface {
	// List returns the available templates in display order
	List(ctx context.Context) ([]TemplateInfo, error)

	// Deploy materializes a template into destDir and returns the number
	// of files written. destDir must not already contain files.
	Deploy(ctx context.Context, templateID, destDir string) (int, error)
}
