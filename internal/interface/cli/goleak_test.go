package cli

import (
	"testing"

	"go.uber.org/goleak"
)

// TestPackageLeaks runs goleak verification for the entire package
func TestPackageLeaks(t *testing.T) {
	defer goleak.VerifyNone(t,
		// The sql package keeps a pool opener goroutine per *sql.DB
		goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"),
	)

	// This test verifies that no goroutines are leaked
	// It will automatically run with other tests and detect any leaks
}
