package cli

import (
	"fmt"
	"time"

	"github.com/westward-dev/westward/internal/domain/model"
)

// reportCancellable turns a user cancellation into a quiet no-op exit;
// every other error propagates to cobra
func reportCancellable(err error) error {
	if model.IsCancelled(err) {
		fmt.Println("Cancelled.")
		return nil
	}
	return err
}

// formatElapsed renders a millisecond wall time for humans
func formatElapsed(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	if d >= time.Minute {
		return d.Round(time.Second).String()
	}
	return d.Round(time.Millisecond).String()
}
