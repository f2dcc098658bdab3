package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/westward-dev/westward/internal/domain/model/lock"
	"github.com/westward-dev/westward/internal/domain/repository"
)

// CommandLockRepositoryImpl implements repository.CommandLockRepository with SQLite
type CommandLockRepositoryImpl struct {
	db *sql.DB
}

// NewCommandLockRepository creates a new SQLite-based command lock repository
func NewCommandLockRepository(db *sql.DB) repository.CommandLockRepository {
	return &CommandLockRepositoryImpl{db: db}
}

// Acquire attempts to acquire the workspace command lock with atomic stale
// lock takeover. A lock is stale when it expired or its owning process is
// no longer running.
func (r *CommandLockRepositoryImpl) Acquire(ctx context.Context, lockID, operation string, ttl time.Duration) (*lock.CommandLock, error) {
	now := time.Now().UTC()

	existing, err := r.Find(ctx, lockID)
	if err == nil {
		isStale := existing.IsExpired() || !isProcessRunning(existing.PID())
		if !isStale {
			// Lock is held by an active process
			return nil, nil
		}

		// Delete the stale lock; if another process deleted it first the
		// DELETE simply affects zero rows
		result, _ := r.db.ExecContext(ctx,
			`DELETE FROM command_locks WHERE lock_id = ? AND (expires_at < ? OR pid = ?)`,
			lockID,
			now.Format(time.RFC3339),
			existing.PID(),
		)
		if result != nil {
			rows, _ := result.RowsAffected()
			if rows == 0 {
				// Another process raced us; only proceed if the lock is really gone
				if stillExists, _ := r.Find(ctx, lockID); stillExists != nil {
					return nil, nil
				}
			}
		}
	}

	cmdLock, err := lock.NewCommandLock(lockID, operation, ttl)
	if err != nil {
		return nil, fmt.Errorf("create command lock: %w", err)
	}

	// If the UNIQUE constraint fires, another process acquired the lock first
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO command_locks (lock_id, operation, pid, hostname, acquired_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		cmdLock.LockID(),
		cmdLock.Operation(),
		cmdLock.PID(),
		cmdLock.Hostname(),
		cmdLock.AcquiredAt().Format(time.RFC3339),
		cmdLock.ExpiresAt().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("insert command lock: %w", err)
	}

	return cmdLock, nil
}

// Release releases the lock if the current process owns it
func (r *CommandLockRepositoryImpl) Release(ctx context.Context, lockID string) error {
	existing, err := r.Find(ctx, lockID)
	if err != nil {
		return lock.ErrLockNotFound
	}
	if !existing.OwnedByCurrentProcess() {
		return fmt.Errorf("lock %s is owned by pid %d on %s", lockID, existing.PID(), existing.Hostname())
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM command_locks WHERE lock_id = ?`, lockID)
	if err != nil {
		return fmt.Errorf("delete command lock: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return lock.ErrLockNotFound
	}
	return nil
}

// Find retrieves the lock by ID
func (r *CommandLockRepositoryImpl) Find(ctx context.Context, lockID string) (*lock.CommandLock, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT lock_id, operation, pid, hostname, acquired_at, expires_at
		FROM command_locks
		WHERE lock_id = ?
	`, lockID)

	var (
		lockIDStr  string
		operation  string
		pid        int
		hostname   string
		acquiredAt string
		expiresAt  string
	)
	err := row.Scan(&lockIDStr, &operation, &pid, &hostname, &acquiredAt, &expiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, lock.ErrLockNotFound
		}
		return nil, fmt.Errorf("scan command lock: %w", err)
	}

	acquiredAtTime, err := time.Parse(time.RFC3339, acquiredAt)
	if err != nil {
		return nil, fmt.Errorf("parse acquired_at: %w", err)
	}
	expiresAtTime, err := time.Parse(time.RFC3339, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("parse expires_at: %w", err)
	}

	return lock.ReconstructCommandLock(lockIDStr, operation, pid, hostname, acquiredAtTime, expiresAtTime), nil
}

// CleanupExpired removes expired locks
func (r *CommandLockRepositoryImpl) CleanupExpired(ctx context.Context) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM command_locks WHERE expires_at < ?`,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("cleanup expired locks: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return int(rows), nil
}

// isProcessRunning checks if a process with the given PID is running.
// Works on Unix-like systems (Linux, macOS).
func isProcessRunning(pid int) bool {
	cmd := exec.Command("ps", "-p", strconv.Itoa(pid))
	err := cmd.Run()
	return err == nil
}

// isUniqueConstraintError checks if the error is a UNIQUE constraint violation
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "constraint failed")
}
