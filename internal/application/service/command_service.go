// Package service hosts application-level services shared by the use cases.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/westward-dev/westward/internal/domain/model"
	"github.com/westward-dev/westward/internal/domain/repository"
)

// CommandService bundles the mechanics every mutating command shares: the
// cross-process workspace lock and the operation journal.
type CommandService struct {
	lockRepo    repository.CommandLockRepository
	journalRepo repository.JournalRepository
	lockTTL     time.Duration
}

// NewCommandService creates a new CommandService
func NewCommandService(
	lockRepo repository.CommandLockRepository,
	journalRepo repository.JournalRepository,
	lockTTL time.Duration,
) *CommandService {
	if lockTTL == 0 {
		lockTTL = 10 * time.Minute
	}

	return &CommandService{
		lockRepo:    lockRepo,
		journalRepo: journalRepo,
		lockTTL:     lockTTL,
	}
}

// NewRunID mints the identifier tying one command invocation's journal
// records together
func (s *CommandService) NewRunID() string {
	return uuid.New().String()
}

// AcquireWorkspaceLock serializes mutating command families across
// processes. The returned release function is safe to defer.
func (s *CommandService) AcquireWorkspaceLock(ctx context.Context, operation string) (func(), error) {
	l, err := s.lockRepo.Acquire(ctx, repository.WorkspaceLockID, operation, s.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire workspace lock: %w", err)
	}
	if l == nil {
		if holder, ferr := s.lockRepo.Find(ctx, repository.WorkspaceLockID); ferr == nil && holder != nil {
			return nil, fmt.Errorf("another westward command is running (%s, pid %d)", holder.Operation(), holder.PID())
		}
		return nil, fmt.Errorf("another westward command is running")
	}

	return func() {
		_ = s.lockRepo.Release(ctx, repository.WorkspaceLockID)
	}, nil
}

// Record journals one operation outcome. Journaling is best effort and
// never fails the operation it records.
func (s *CommandService) Record(ctx context.Context, runID, op string, started time.Time, opErr error, detail string) {
	outcome := repository.OutcomeOK
	switch {
	case model.IsCancelled(opErr):
		outcome = repository.OutcomeCancelled
		detail = opErr.Error()
	case opErr != nil:
		outcome = repository.OutcomeFailed
		detail = opErr.Error()
	}

	_ = s.journalRepo.Append(ctx, &repository.JournalRecord{
		RunID:     runID,
		Operation: op,
		Outcome:   outcome,
		Detail:    detail,
		ElapsedMs: time.Since(started).Milliseconds(),
	})
}
