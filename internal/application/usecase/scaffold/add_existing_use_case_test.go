package scaffold

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/westward-dev/westward/internal/application/port/output"
	"github.com/westward-dev/westward/internal/application/service"
	"github.com/westward-dev/westward/internal/domain/model"
	"github.com/westward-dev/westward/internal/domain/repository"
	"github.com/westward-dev/westward/internal/testutil"
)

func (f *scaffoldFixture) addExisting(prompt output.UserPrompt) *AddExistingUseCase {
	commands := service.NewCommandService(f.locks, f.journal, 0)
	return NewAddExistingUseCase(f.repo, commands, prompt, Config{Root: f.root})
}

func TestAddExistingUseCase_RegistersFolderWithRelativePath(t *testing.T) {
	f := newScaffoldFixture(t)
	folder := filepath.Join(f.root, "apps", "legacy")
	testutil.WriteProjectDescriptors(t, folder)
	prompt := testutil.NewScriptedPrompt().WillPick(folder)

	out, err := f.addExisting(prompt).Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "legacy", out.ID)
	assert.Equal(t, filepath.Join("apps", "legacy"), out.SourcePath)

	ws := f.reload(t)
	p, err := ws.Project("legacy")
	require.NoError(t, err)
	assert.True(t, p.Imported())
	assert.Equal(t, "legacy", ws.ActiveProject())

	require.Len(t, f.journal.Records, 1)
	assert.Equal(t, "project.import", f.journal.Records[0].Operation)
	assert.Equal(t, repository.OutcomeOK, f.journal.Records[0].Outcome)
}

func TestAddExistingUseCase_RejectsFolderMissingDescriptors(t *testing.T) {
	f := newScaffoldFixture(t)
	folder := filepath.Join(f.root, "notes")
	require.NoError(t, os.MkdirAll(folder, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(folder, "CMakeLists.txt"), []byte("cmake_minimum_required(VERSION 3.20.0)\n"), 0644))
	prompt := testutil.NewScriptedPrompt().WillPick(folder)

	_, err := f.addExisting(prompt).Execute(context.Background())
	require.Error(t, err)
	assert.True(t, model.IsInvalidProjectFolder(err))

	var de model.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, []string{"prj.conf"}, de.Details["missing"])

	exists, err := f.repo.Exists(context.Background())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAddExistingUseCase_KeepsAbsolutePathOutsideRoot(t *testing.T) {
	f := newScaffoldFixture(t)
	outside := filepath.Join(t.TempDir(), "fw-app")
	testutil.WriteProjectDescriptors(t, outside)
	prompt := testutil.NewScriptedPrompt().WillPick(outside)

	out, err := f.addExisting(prompt).Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "fw-app", out.ID)
	assert.Equal(t, outside, out.SourcePath)
}

func TestAddExistingUseCase_DuplicateNameLeavesRegistryUnchanged(t *testing.T) {
	f := newScaffoldFixture(t)
	f.registerProject(t, "legacy")
	folder := filepath.Join(f.root, "legacy")
	testutil.WriteProjectDescriptors(t, folder)
	prompt := testutil.NewScriptedPrompt().WillPick(folder)

	_, err := f.addExisting(prompt).Execute(context.Background())
	require.Error(t, err)
	assert.True(t, model.IsDuplicateIdentifier(err))

	ws := f.reload(t)
	assert.Len(t, ws.Projects(), 1)

	require.Len(t, f.journal.Records, 1)
	assert.Equal(t, repository.OutcomeFailed, f.journal.Records[0].Outcome)
}

func TestAddExistingUseCase_CancelledPickIsNoOp(t *testing.T) {
	f := newScaffoldFixture(t)
	prompt := testutil.NewScriptedPrompt().WillCancel()

	_, err := f.addExisting(prompt).Execute(context.Background())
	require.Error(t, err)
	assert.True(t, model.IsCancelled(err))

	exists, err := f.repo.Exists(context.Background())
	require.NoError(t, err)
	assert.False(t, exists)
}
