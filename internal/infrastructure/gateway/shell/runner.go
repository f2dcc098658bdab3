// Package shell runs external developer tools through os/exec.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/westward-dev/westward/internal/application/port/output"
	"github.com/westward-dev/westward/internal/domain/model"
)

// Runner implements output.CommandRunner with real processes
type Runner struct {
	Timeout time.Duration                            // Per-invocation ceiling; zero means no limit
	Logger  func(format string, args ...interface{}) // Optional debug logger
}

// NewRunner creates a runner with the given per-invocation timeout
func NewRunner(timeout time.Duration) *Runner {
	return &Runner{Timeout: timeout}
}

// Run executes the command to completion and captures its output.
// A non-zero exit is reported through Result, not the error return; the
// error return covers timeouts, cancellation and tools that never started.
func (r *Runner) Run(ctx context.Context, cmd output.Command) (*output.Result, error) {
	cctx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	if r.Logger != nil {
		r.Logger("exec: %s %s", cmd.Bin, strings.Join(cmd.Args, " "))
	}

	c := exec.CommandContext(cctx, cmd.Bin, cmd.Args...)
	if cmd.Dir != "" {
		c.Dir = cmd.Dir
	}
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()

	result := &output.Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		// The context expiring kills the child; surface that as the real cause
		if cctx.Err() != nil {
			if errors.Is(cctx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("%s timed out after %s: %w", cmd.Bin, r.Timeout, cctx.Err())
			}
			return nil, cctx.Err()
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}

		return nil, model.ErrToolNotStarted.
			WithDetails(map[string]interface{}{"bin": cmd.Bin}).
			WithCause(err)
	}

	result.ExitCode = 0
	return result, nil
}

// LookPath reports where bin resolves on PATH
func (r *Runner) LookPath(bin string) (string, error) {
	return exec.LookPath(bin)
}
