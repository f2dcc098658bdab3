package sdk

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/westward-dev/westward/internal/application/port/output"
	"github.com/westward-dev/westward/internal/application/service"
	"github.com/westward-dev/westward/internal/domain/model"
	"github.com/westward-dev/westward/internal/domain/repository"
	infrarepo "github.com/westward-dev/westward/internal/infrastructure/repository"
	"github.com/westward-dev/westward/internal/testutil"
)

type sdkFixture struct {
	root    string
	repo    *infrarepo.WorkspaceRepositoryImpl
	runner  *testutil.FakeRunner
	locks   *testutil.MemLocks
	journal *testutil.MemJournal
}

func newSDKFixture(t *testing.T) *sdkFixture {
	t.Helper()
	root := t.TempDir()
	fs := afero.NewMemMapFs()
	return &sdkFixture{
		root:    root,
		repo:    infrarepo.NewWorkspaceRepositoryImpl(fs, filepath.Join(root, ".westward", "workspace.yaml")),
		runner:  &testutil.FakeRunner{},
		locks:   testutil.NewMemLocks(),
		journal: &testutil.MemJournal{},
	}
}

func (f *sdkFixture) seedManifestStage(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	ws, err := f.repo.Load(ctx)
	require.NoError(t, err)
	ws.MarkInitialSetupComplete()
	require.NoError(t, f.repo.Save(ctx, ws))
}

func (f *sdkFixture) install(prompt output.UserPrompt, installDir string) *InstallUseCase {
	commands := service.NewCommandService(f.locks, f.journal, 0)
	return NewInstallUseCase(f.repo, commands, f.runner, prompt, Config{
		Root:       f.root,
		Home:       ".westward",
		WestBin:    "west",
		InstallDir: installDir,
	})
}

func TestInstallUseCase_SelectiveSingleToolchain(t *testing.T) {
	f := newSDKFixture(t)
	f.seedManifestStage(t)
	prompt := testutil.NewScriptedPrompt().
		WillSelect(ModeSelective).
		WillSelect("specific").
		WillSelectMany("arm-zephyr-eabi")

	out, err := f.install(prompt, "").Execute(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, f.runner.CallCount())
	call := f.runner.Calls[0]
	assert.Equal(t, "west", call.Bin)
	assert.Equal(t, []string{"sdk", "install", "-t", "arm-zephyr-eabi"}, call.Args)

	assert.Equal(t, ModeSelective, out.Mode)
	assert.Equal(t, []string{"arm-zephyr-eabi"}, out.Toolchains)

	require.Len(t, f.journal.Records, 1)
	assert.Equal(t, "sdk.install", f.journal.Records[0].Operation)
	assert.Equal(t, repository.OutcomeOK, f.journal.Records[0].Outcome)
	assert.Contains(t, f.journal.Records[0].Detail, "arm-zephyr-eabi")
}

func TestInstallUseCase_AutomaticInstallsEverything(t *testing.T) {
	f := newSDKFixture(t)
	f.seedManifestStage(t)
	prompt := testutil.NewScriptedPrompt().WillSelect(ModeAutomatic)

	out, err := f.install(prompt, "").Execute(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, f.runner.CallCount())
	assert.Equal(t, []string{"sdk", "install"}, f.runner.Calls[0].Args)
	assert.Equal(t, ModeAutomatic, out.Mode)
	assert.Empty(t, out.Toolchains)
}

func TestInstallUseCase_SelectiveAllOmitsToolchainFlags(t *testing.T) {
	f := newSDKFixture(t)
	f.seedManifestStage(t)
	prompt := testutil.NewScriptedPrompt().
		WillSelect(ModeSelective).
		WillSelect("all")

	_, err := f.install(prompt, "").Execute(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, f.runner.CallCount())
	assert.Equal(t, []string{"sdk", "install"}, f.runner.Calls[0].Args)
}

func TestInstallUseCase_HonorsConfiguredInstallDir(t *testing.T) {
	f := newSDKFixture(t)
	f.seedManifestStage(t)
	dir := filepath.Join(f.root, "toolchains")
	prompt := testutil.NewScriptedPrompt().WillSelect(ModeAutomatic)

	_, err := f.install(prompt, dir).Execute(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, f.runner.CallCount())
	assert.Equal(t, []string{"sdk", "install", "--install-dir", dir}, f.runner.Calls[0].Args)
}

func TestInstallUseCase_RequiresManifestStage(t *testing.T) {
	f := newSDKFixture(t)
	prompt := testutil.NewScriptedPrompt()

	_, err := f.install(prompt, "").Execute(context.Background())
	require.Error(t, err)
	assert.True(t, model.IsPreconditionNotMet(err))
	assert.Empty(t, prompt.Asked, "an unready workspace must not prompt")
	assert.Equal(t, 0, f.runner.CallCount())
}

func TestInstallUseCase_CancelledSelectionAborts(t *testing.T) {
	f := newSDKFixture(t)
	f.seedManifestStage(t)
	prompt := testutil.NewScriptedPrompt().
		WillSelect(ModeSelective).
		WillSelect("specific").
		WillCancel()

	_, err := f.install(prompt, "").Execute(context.Background())
	require.Error(t, err)
	assert.True(t, model.IsCancelled(err))
	assert.Equal(t, 0, f.runner.CallCount())
}

func TestInstallUseCase_EmptySelectionIsCancellation(t *testing.T) {
	f := newSDKFixture(t)
	f.seedManifestStage(t)
	prompt := testutil.NewScriptedPrompt().
		WillSelect(ModeSelective).
		WillSelect("specific").
		WillSelectMany()

	_, err := f.install(prompt, "").Execute(context.Background())
	require.Error(t, err)
	assert.True(t, model.IsCancelled(err))
	assert.Equal(t, 0, f.runner.CallCount())
}

func TestInstallUseCase_InstallerFailureIsReported(t *testing.T) {
	f := newSDKFixture(t)
	f.seedManifestStage(t)
	f.runner.RunFunc = func(ctx context.Context, cmd output.Command) (*output.Result, error) {
		return &output.Result{ExitCode: 2, Stderr: "network unreachable"}, nil
	}
	prompt := testutil.NewScriptedPrompt().WillSelect(ModeAutomatic)

	_, err := f.install(prompt, "").Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sdk install failed (exit 2)")
	assert.Contains(t, err.Error(), "network unreachable")

	require.Len(t, f.journal.Records, 1)
	assert.Equal(t, repository.OutcomeFailed, f.journal.Records[0].Outcome)
}
