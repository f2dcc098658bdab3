// Package lock defines the cross-process lock guarding mutating workspace
// commands. Only one setup, SDK, scaffold or build command may run against a
// workspace at a time; read-only commands never take the lock.
package lock

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Common lock errors
var (
	ErrLockNotFound = errors.New("lock not found")
)

// CommandLock represents exclusive ownership of the workspace by one
// mutating command invocation. The TTL bounds how long a crashed process
// can block the workspace before another invocation takes over.
type CommandLock struct {
	lockID     string
	operation  string
	pid        int
	hostname   string
	acquiredAt time.Time
	expiresAt  time.Time
}

// NewCommandLock creates a lock owned by the current process.
// operation names the command family holding the lock (setup, sdk, build)
// so a blocked invocation can tell the user what is running.
func NewCommandLock(lockID, operation string, ttl time.Duration) (*CommandLock, error) {
	if lockID == "" {
		return nil, fmt.Errorf("lock ID cannot be empty")
	}
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("get hostname: %w", err)
	}

	now := time.Now().UTC()

	return &CommandLock{
		lockID:     lockID,
		operation:  operation,
		pid:        os.Getpid(),
		hostname:   hostname,
		acquiredAt: now,
		expiresAt:  now.Add(ttl),
	}, nil
}

// ReconstructCommandLock restores a lock from persisted data.
// Used by the repository when loading from the database.
func ReconstructCommandLock(lockID, operation string, pid int, hostname string, acquiredAt, expiresAt time.Time) *CommandLock {
	return &CommandLock{
		lockID:     lockID,
		operation:  operation,
		pid:        pid,
		hostname:   hostname,
		acquiredAt: acquiredAt,
		expiresAt:  expiresAt,
	}
}

// IsExpired checks if the lock has outlived its TTL
func (l *CommandLock) IsExpired() bool {
	return time.Now().UTC().After(l.expiresAt)
}

// OwnedByCurrentProcess checks if this process holds the lock
func (l *CommandLock) OwnedByCurrentProcess() bool {
	hostname, err := os.Hostname()
	if err != nil {
		return false
	}
	return l.pid == os.Getpid() && l.hostname == hostname
}

// Getters
func (l *CommandLock) LockID() string               { return l.lockID }
func (l *CommandLock) Operation() string            { return l.operation }
func (l *CommandLock) PID() int                     { return l.pid }
func (l *CommandLock) Hostname() string             { return l.hostname }
func (l *CommandLock) AcquiredAt() time.Time        { return l.acquiredAt }
func (l *CommandLock) ExpiresAt() time.Time         { return l.expiresAt }
func (l *CommandLock) RemainingTime() time.Duration { return time.Until(l.expiresAt) }
