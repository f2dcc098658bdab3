package lock

import (
	"os"
	"testing"
	"time"
)

func TestNewCommandLock(t *testing.T) {
	l, err := NewCommandLock("workspace", "setup", 10*time.Minute)
	if err != nil {
		t.Fatalf("NewCommandLock failed: %v", err)
	}

	if l.LockID() != "workspace" {
		t.Errorf("Expected lock ID workspace, got %q", l.LockID())
	}
	if l.Operation() != "setup" {
		t.Errorf("Expected operation setup, got %q", l.Operation())
	}
	if l.PID() != os.Getpid() {
		t.Errorf("Expected current PID %d, got %d", os.Getpid(), l.PID())
	}
	if !l.ExpiresAt().After(l.AcquiredAt()) {
		t.Error("Expected expiry after acquisition")
	}
}

func TestNewCommandLock_RequiresID(t *testing.T) {
	if _, err := NewCommandLock("", "setup", time.Minute); err == nil {
		t.Error("Expected empty lock ID to be rejected")
	}
}

func TestCommandLock_IsExpired(t *testing.T) {
	fresh, err := NewCommandLock("workspace", "build", time.Hour)
	if err != nil {
		t.Fatalf("NewCommandLock failed: %v", err)
	}
	if fresh.IsExpired() {
		t.Error("Fresh lock must not be expired")
	}

	stale, err := NewCommandLock("workspace", "build", -time.Minute)
	if err != nil {
		t.Fatalf("NewCommandLock failed: %v", err)
	}
	if !stale.IsExpired() {
		t.Error("Lock with elapsed TTL must be expired")
	}
}

func TestCommandLock_OwnedByCurrentProcess(t *testing.T) {
	own, err := NewCommandLock("workspace", "sdk", time.Minute)
	if err != nil {
		t.Fatalf("NewCommandLock failed: %v", err)
	}
	if !own.OwnedByCurrentProcess() {
		t.Error("Expected lock created here to be owned by this process")
	}

	now := time.Now().UTC()
	foreign := ReconstructCommandLock("workspace", "sdk", os.Getpid()+1, "another-host", now, now.Add(time.Minute))
	if foreign.OwnedByCurrentProcess() {
		t.Error("Expected a foreign lock not to be owned by this process")
	}
}

func TestReconstructCommandLock(t *testing.T) {
	acquired := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	expires := acquired.Add(10 * time.Minute)

	l := ReconstructCommandLock("workspace", "build", 1234, "buildhost", acquired, expires)

	if l.PID() != 1234 {
		t.Errorf("Expected PID 1234, got %d", l.PID())
	}
	if l.Hostname() != "buildhost" {
		t.Errorf("Expected hostname buildhost, got %q", l.Hostname())
	}
	if !l.AcquiredAt().Equal(acquired) || !l.ExpiresAt().Equal(expires) {
		t.Error("Expected timestamps to round trip")
	}
}
