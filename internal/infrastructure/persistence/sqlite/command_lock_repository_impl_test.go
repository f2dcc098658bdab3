package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/westward-dev/westward/internal/domain/model/lock"
)

// deadPID is close to the Linux pid_max ceiling, so no live process should
// carry it during a test run
const deadPID = 4194303

func insertLock(t *testing.T, db *sql.DB, lockID string, pid int, hostname string, expiresAt time.Time) {
	t.Helper()
	now := time.Now().UTC()
	_, err := db.Exec(`
		INSERT INTO command_locks (lock_id, operation, pid, hostname, acquired_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, lockID, "setup", pid, hostname, now.Format(time.RFC3339), expiresAt.UTC().Format(time.RFC3339))
	require.NoError(t, err)
}

func TestCommandLockRepositoryImpl_AcquireReleaseCycle(t *testing.T) {
	db := openTestDB(t, "locks_cycle")
	defer db.Close()

	repo := NewCommandLockRepository(db)
	ctx := context.Background()

	acquired, err := repo.Acquire(ctx, "workspace", "setup", 10*time.Minute)
	require.NoError(t, err)
	require.NotNil(t, acquired)
	assert.True(t, acquired.OwnedByCurrentProcess())

	// A live lock held by this very process refuses a second acquisition
	contended, err := repo.Acquire(ctx, "workspace", "build", 10*time.Minute)
	require.NoError(t, err)
	assert.Nil(t, contended)

	found, err := repo.Find(ctx, "workspace")
	require.NoError(t, err)
	assert.Equal(t, "setup", found.Operation())

	require.NoError(t, repo.Release(ctx, "workspace"))
	_, err = repo.Find(ctx, "workspace")
	assert.ErrorIs(t, err, lock.ErrLockNotFound)
}

func TestCommandLockRepositoryImpl_TakesOverExpiredLock(t *testing.T) {
	db := openTestDB(t, "locks_expired")
	defer db.Close()

	repo := NewCommandLockRepository(db)
	ctx := context.Background()

	insertLock(t, db, "workspace", deadPID, "elsewhere", time.Now().Add(-time.Minute))

	acquired, err := repo.Acquire(ctx, "workspace", "build", 10*time.Minute)
	require.NoError(t, err)
	require.NotNil(t, acquired)
	assert.Equal(t, "build", acquired.Operation())
	assert.True(t, acquired.OwnedByCurrentProcess())
}

func TestCommandLockRepositoryImpl_TakesOverDeadProcessLock(t *testing.T) {
	db := openTestDB(t, "locks_dead")
	defer db.Close()

	repo := NewCommandLockRepository(db)
	ctx := context.Background()

	// Not yet expired, but the owning process is gone
	insertLock(t, db, "workspace", deadPID, "elsewhere", time.Now().Add(time.Hour))

	acquired, err := repo.Acquire(ctx, "workspace", "build", 10*time.Minute)
	require.NoError(t, err)
	require.NotNil(t, acquired)
}

func TestCommandLockRepositoryImpl_RefusesToReleaseForeignLock(t *testing.T) {
	db := openTestDB(t, "locks_foreign")
	defer db.Close()

	repo := NewCommandLockRepository(db)
	ctx := context.Background()

	insertLock(t, db, "workspace", deadPID, "elsewhere", time.Now().Add(time.Hour))

	err := repo.Release(ctx, "workspace")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "owned by pid")

	// The foreign lock is still there
	found, err := repo.Find(ctx, "workspace")
	require.NoError(t, err)
	assert.Equal(t, deadPID, found.PID())
}

func TestCommandLockRepositoryImpl_CleanupExpired(t *testing.T) {
	db := openTestDB(t, "locks_cleanup")
	defer db.Close()

	repo := NewCommandLockRepository(db)
	ctx := context.Background()

	insertLock(t, db, "stale", deadPID, "elsewhere", time.Now().Add(-time.Hour))
	live, err := repo.Acquire(ctx, "workspace", "setup", 10*time.Minute)
	require.NoError(t, err)
	require.NotNil(t, live)

	removed, err := repo.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = repo.Find(ctx, "stale")
	assert.ErrorIs(t, err, lock.ErrLockNotFound)
	_, err = repo.Find(ctx, "workspace")
	assert.NoError(t, err)
}

func TestMigrator_MigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t, "migrator")
	defer db.Close()

	// openTestDB already migrated once
	require.NoError(t, NewMigrator(db).Migrate())

	version, err := NewMigrator(db).Version()
	require.NoError(t, err)
	assert.Equal(t, "1", version)

	// Both tables are usable
	_, err = db.Exec(`INSERT INTO journal_records (id, run_id, operation, outcome, created_at) VALUES ('x', 'r', 'op', 'ok', 'now')`)
	assert.NoError(t, err)
	_, err = db.Exec(`SELECT lock_id FROM command_locks`)
	assert.NoError(t, err)
}
