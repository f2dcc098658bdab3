package repository

import (
	"context"
	"time"

	"github.com/westward-dev/westward/internal/domain/model/lock"
)

// WorkspaceLockID is the single lock every mutating command family
// acquires, so setup, SDK installs and builds never overlap across
// processes.
const WorkspaceLockID = "workspace"

// CommandLockRepository manages CommandLock persistence
type CommandLockRepository interface {
	// Acquire attempts to acquire the workspace command lock.
	// Returns the lock if successful, nil if it is held by another live process.
	// Expired locks and locks whose owning process is gone are taken over.
	Acquire(ctx context.Context, lockID, operation string, ttl time.Duration) (*lock.CommandLock, error)

	// Release releases the lock if the current process owns it
	Release(ctx context.Context, lockID string) error

	// Find retrieves the lock by ID
	Find(ctx context.Context, lockID string) (*lock.CommandLock, error)

	// CleanupExpired removes expired locks and returns how many were removed
	CleanupExpired(ctx context.Context) (int, error)
}
