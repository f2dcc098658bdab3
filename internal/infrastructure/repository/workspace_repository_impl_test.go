package repository

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/westward-dev/westward/internal/domain/model"
	"github.com/westward-dev/westward/internal/domain/model/buildcfg"
	"github.com/westward-dev/westward/internal/domain/model/project"
	"github.com/westward-dev/westward/internal/domain/model/workspace"
)

const testStatePath = "westward/workspace.yaml"

func newTestRepo() (*WorkspaceRepositoryImpl, afero.Fs) {
	fs := afero.NewMemMapFs()
	return NewWorkspaceRepositoryImpl(fs, testStatePath), fs
}

func TestWorkspaceRepositoryImpl_MissingFileYieldsFreshWorkspace(t *testing.T) {
	repo, _ := newTestRepo()
	ctx := context.Background()

	exists, err := repo.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	ws, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StageUninitialized, ws.Stage())
	assert.Empty(t, ws.Projects())
}

func TestWorkspaceRepositoryImpl_SaveLoadRoundTrip(t *testing.T) {
	repo, _ := newTestRepo()
	ctx := context.Background()

	ws := workspace.NewWorkspace()
	ws.MarkInitialSetupComplete()
	require.NoError(t, ws.MarkWestUpdated())

	p, err := project.NewProject("blinky", "blinky", "blinky")
	require.NoError(t, err)
	require.NoError(t, ws.RegisterProject(p))
	cfg, err := buildcfg.NewBuildConfig("test_build_1", "blinky", "nucleo_f401re", buildcfg.ProfileSpeed)
	require.NoError(t, err)
	require.NoError(t, ws.RegisterBuildConfig(cfg))
	require.NoError(t, ws.SetActiveProject("blinky"))
	require.NoError(t, ws.SetActiveBuild("test_build_1"))

	require.NoError(t, repo.Save(ctx, ws))

	exists, err := repo.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StageDependenciesSynced, loaded.Stage())
	assert.Equal(t, "blinky", loaded.ActiveProject())
	assert.Equal(t, "test_build_1", loaded.ActiveBuild())

	lp, err := loaded.Project("blinky")
	require.NoError(t, err)
	assert.Equal(t, "blinky", lp.SourcePath())
	assert.Equal(t, p.CreatedAt().UTC(), lp.CreatedAt().UTC())

	lc, err := loaded.BuildConfig("test_build_1")
	require.NoError(t, err)
	assert.Equal(t, buildcfg.ProfileSpeed, lc.Profile())
}

func TestWorkspaceRepositoryImpl_SaveOverwritesPreviousState(t *testing.T) {
	repo, _ := newTestRepo()
	ctx := context.Background()

	ws := workspace.NewWorkspace()
	ws.MarkInitialSetupComplete()
	require.NoError(t, repo.Save(ctx, ws))

	require.NoError(t, ws.MarkWestUpdated())
	require.NoError(t, repo.Save(ctx, ws))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, loaded.WestUpdated())
}

func TestWorkspaceRepositoryImpl_UnparseableFileIsCorrupt(t *testing.T) {
	repo, fs := newTestRepo()
	require.NoError(t, afero.WriteFile(fs, testStatePath, []byte("{unbalanced: ["), 0644))

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.True(t, model.IsCorruptState(err))
}

func TestWorkspaceRepositoryImpl_UnknownVersionIsCorrupt(t *testing.T) {
	repo, fs := newTestRepo()
	require.NoError(t, afero.WriteFile(fs, testStatePath, []byte("version: 99\n"), 0644))

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.True(t, model.IsCorruptState(err))
}

func TestWorkspaceRepositoryImpl_InconsistentFlagsAreCorrupt(t *testing.T) {
	repo, fs := newTestRepo()
	state := "version: 1\ninitial_setup_complete: false\nwest_updated: true\n"
	require.NoError(t, afero.WriteFile(fs, testStatePath, []byte(state), 0644))

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.True(t, model.IsCorruptState(err))
}

func TestWorkspaceRepositoryImpl_BadTimestampIsCorrupt(t *testing.T) {
	repo, fs := newTestRepo()
	state := `version: 1
initial_setup_complete: true
projects:
  - id: blinky
    source_path: blinky
    created_at: "not-a-time"
`
	require.NoError(t, afero.WriteFile(fs, testStatePath, []byte(state), 0644))

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.True(t, model.IsCorruptState(err))
}
