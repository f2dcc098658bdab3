package repository

import "context"

// Journal outcome values
const (
	OutcomeOK        = "ok"
	OutcomeFailed    = "failed"
	OutcomeCancelled = "cancelled"
)

// JournalRecord represents a single journaled workspace operation
type JournalRecord struct {
	ID        string // ULID, assigned on append
	RunID     string // Shared by all records of one command invocation
	Operation string // Operation name (setup.sync, project.create, build.run, ...)
	Outcome   string // ok | failed | cancelled
	Detail    string // Free-form context: selected options, failing tool output tail
	ElapsedMs int64  // Execution time in milliseconds
	CreatedAt string // UTC RFC3339Nano
}

// JournalRepository manages the append-only operation journal
type JournalRepository interface {
	// Append adds a new record to the journal
	Append(ctx context.Context, record *JournalRecord) error

	// Recent retrieves the latest records, newest first
	Recent(ctx context.Context, limit int) ([]*JournalRecord, error)

	// FindByRun retrieves all records of one command invocation, oldest first
	FindByRun(ctx context.Context, runID string) ([]*JournalRecord, error)
}
