package repository

import (
	"context"

	"github.com/westward-dev/westward/internal/domain/model/workspace"
)

// WorkspaceRepository manages persistence of the workspace aggregate
type WorkspaceRepository interface {
	// Exists reports whether a workspace state file is present
	Exists(ctx context.Context) (bool, error)

	// Load reads and validates the persisted workspace.
	// A missing state file yields an empty workspace, not an error;
	// a state file that fails validation yields ErrCorruptState.
	Load(ctx context.Context) (*workspace.Workspace, error)

	// Save persists the workspace atomically
	Save(ctx context.Context, ws *workspace.Workspace) error
}
