package output

import "context"

// SelectOption is one entry in a selection prompt
type SelectOption struct {
	Value string // Stable identifier returned on selection
	Label string // Human-readable display text
	Hint  string // Optional secondary description
}

// SelectPrompt describes a choice among fixed options
type SelectPrompt struct {
	Title   string
	Options []SelectOption
}

// TextPrompt describes a free-form text question
type TextPrompt struct {
	Title       string
	Placeholder string
	Validate    func(string) error // nil accepts any input
}

// FolderPrompt describes a directory selection
type FolderPrompt struct {
	Title string
	Root  string // Directory the browser starts in
}

// UserPrompt collects interactive decisions from the user.
//
// Every method reports dismissal as the domain cancellation error; callers
// treat a cancelled prompt as an instruction to abort the whole operation
// without mutating anything.
type UserPrompt interface {
	// SelectOne asks the user to pick exactly one option
	SelectOne(ctx context.Context, p SelectPrompt) (string, error)

	// SelectMany asks the user to pick any subset of the options.
	// Confirming an empty subset counts as cancellation.
	SelectMany(ctx context.Context, p SelectPrompt) ([]string, error)

	// Text asks for a free-form value, re-asking until Validate accepts it
	Text(ctx context.Context, p TextPrompt) (string, error)

	// SelectFolder asks the user to choose a directory
	SelectFolder(ctx context.Context, p FolderPrompt) (string, error)
}
