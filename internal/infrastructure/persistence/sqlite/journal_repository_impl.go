package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/westward-dev/westward/internal/domain/repository"
)

// JournalRepositoryImpl implements repository.JournalRepository with SQLite
type JournalRepositoryImpl struct {
	db *sql.DB
}

// NewJournalRepository creates a new SQLite-based journal repository
func NewJournalRepository(db *sql.DB) repository.JournalRepository {
	return &JournalRepositoryImpl{db: db}
}

// Append adds a new record to the journal.
// Record ID and timestamp are assigned here when missing so callers only
// describe what happened. ULIDs keep records sortable by insertion even
// within the same millisecond.
func (r *JournalRepositoryImpl) Append(ctx context.Context, record *repository.JournalRecord) error {
	if record.ID == "" {
		record.ID = ulid.Make().String()
	}
	if record.CreatedAt == "" {
		record.CreatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO journal_records (id, run_id, operation, outcome, detail, elapsed_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		record.ID,
		record.RunID,
		record.Operation,
		record.Outcome,
		record.Detail,
		record.ElapsedMs,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert journal record: %w", err)
	}
	return nil
}

// Recent retrieves the latest records, newest first
func (r *JournalRepositoryImpl) Recent(ctx context.Context, limit int) ([]*repository.JournalRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, run_id, operation, outcome, detail, elapsed_ms, created_at
		FROM journal_records
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query journal records: %w", err)
	}
	defer rows.Close()

	return scanJournalRecords(rows)
}

// FindByRun retrieves all records of one command invocation, oldest first
func (r *JournalRepositoryImpl) FindByRun(ctx context.Context, runID string) ([]*repository.JournalRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, run_id, operation, outcome, detail, elapsed_ms, created_at
		FROM journal_records
		WHERE run_id = ?
		ORDER BY id ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query journal records: %w", err)
	}
	defer rows.Close()

	return scanJournalRecords(rows)
}

func scanJournalRecords(rows *sql.Rows) ([]*repository.JournalRecord, error) {
	var records []*repository.JournalRecord
	for rows.Next() {
		var rec repository.JournalRecord
		var detail sql.NullString
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Operation, &rec.Outcome, &detail, &rec.ElapsedMs, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan journal record: %w", err)
		}
		rec.Detail = detail.String
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal records: %w", err)
	}
	return records, nil
}
