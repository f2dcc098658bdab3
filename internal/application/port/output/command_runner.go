package output

import "context"

// Command describes one external tool invocation
type Command struct {
	Bin  string   // Executable name or path
	Args []string // Arguments, excluding the binary itself
	Dir  string   // Working directory; empty inherits the current one
	Env  []string // Extra environment entries appended to the parent environment
}

// Result carries the outcome of a completed invocation
type Result struct {
	ExitCode int    // Process exit code
	Stdout   string // Captured standard output
	Stderr   string // Captured standard error
}

// Succeeded reports whether the tool exited cleanly
func (r *Result) Succeeded() bool {
	return r != nil && r.ExitCode == 0
}

// CommandRunner runs external developer tools (west, python, pip) to
// completion and captures their output.
//
// Run returns a Result whenever the process actually ran, including
// non-zero exits; the error return is reserved for tools that could not be
// started and for context cancellation. Callers decide what a non-zero
// exit means for their operation.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)

	// LookPath reports where bin resolves on PATH, or an error when it
	// is not installed
	LookPath(bin string) (string, error)
}
