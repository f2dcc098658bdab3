package build_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/westward-dev/westward/internal/application/service"
	"github.com/westward-dev/westward/internal/application/usecase/build"
	"github.com/westward-dev/westward/internal/application/usecase/buildconf"
	"github.com/westward-dev/westward/internal/application/usecase/scaffold"
	"github.com/westward-dev/westward/internal/application/usecase/sdk"
	"github.com/westward-dev/westward/internal/application/usecase/setup"
	"github.com/westward-dev/westward/internal/domain/repository"
	"github.com/westward-dev/westward/internal/infrastructure/gateway/boards"
	"github.com/westward-dev/westward/internal/infrastructure/gateway/templates"
	infrarepo "github.com/westward-dev/westward/internal/infrastructure/repository"
	"github.com/westward-dev/westward/internal/testutil"
)

// TestEndToEnd_SetupThroughBuild walks the whole workspace lifecycle against
// real state persistence, real template deployment and real board discovery,
// with only the external processes faked: initial setup, selective toolchain
// install, project scaffolding, board configuration and a successful build.
func TestEndToEnd_SetupThroughBuild(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	repo := infrarepo.NewWorkspaceRepositoryImpl(afero.NewOsFs(), filepath.Join(root, ".westward", "workspace.yaml"))
	runner := &testutil.FakeRunner{}
	locks := testutil.NewMemLocks()
	journal := &testutil.MemJournal{}
	commands := service.NewCommandService(locks, journal, 0)

	reqDir := filepath.Join(root, "zephyr", "scripts")
	require.NoError(t, os.MkdirAll(reqDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(reqDir, "requirements.txt"), []byte("pyelftools\n"), 0644))
	testutil.WriteBoardMetadata(t, filepath.Join(root, "zephyr", "boards"), "nucleo_f401re", "st")

	// 1. Initial setup with the minimal manifest on the stm32 family
	setupUC := setup.NewSetupUseCase(repo, commands, runner,
		testutil.NewScriptedPrompt().WillSelect("minimal").WillSelect("stm32"),
		setup.Config{
			Root:          root,
			Home:          ".westward",
			WestBin:       "west",
			PythonBin:     "python3",
			RetryAttempts: 1,
			RetryBackoff:  time.Millisecond,
		})
	setupOut, err := setupUC.RunStandard(ctx)
	require.NoError(t, err)
	require.Equal(t, "packages_ready", setupOut.Stage)

	manifest, err := os.ReadFile(filepath.Join(root, ".westward", "west.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(manifest), "hal_stm32")

	// 2. Install only the Cortex-M toolchain
	installUC := sdk.NewInstallUseCase(repo, commands, runner,
		testutil.NewScriptedPrompt().
			WillSelect(sdk.ModeSelective).
			WillSelect("specific").
			WillSelectMany("arm-zephyr-eabi"),
		sdk.Config{Root: root, Home: ".westward", WestBin: "west"})
	_, err = installUC.Execute(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, runner.CallCount())
	assert.Equal(t, []string{"sdk", "install", "-t", "arm-zephyr-eabi"}, runner.Calls[4].Args)

	// 3. Scaffold blinky from the builtin template
	createUC := scaffold.NewCreateProjectUseCase(repo, commands, templates.NewStore(nil),
		testutil.NewScriptedPrompt().WillSelect("blinky").WillType("blinky"),
		scaffold.Config{Root: root})
	projOut, err := createUC.Execute(ctx)
	require.NoError(t, err)
	require.Equal(t, "blinky", projOut.ID)

	cmake, err := os.ReadFile(filepath.Join(root, "blinky", "CMakeLists.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(cmake), "project(blinky)")

	// 4. Bind blinky to the discovered board
	addUC := buildconf.NewAddBuildConfigUseCase(repo, commands, boards.NewScanner(),
		testutil.NewScriptedPrompt().
			WillSelect("nucleo_f401re").
			WillSelect("debug").
			WillType("test_build_1"),
		buildconf.Config{Root: root})
	cfgOut, err := addUC.Execute(ctx, "blinky")
	require.NoError(t, err)
	require.Equal(t, "test_build_1", cfgOut.ID)

	// 5. Build it
	runUC := build.NewRunBuildUseCase(repo, commands, runner, build.Config{
		Root:    root,
		Home:    ".westward",
		WestBin: "west",
	})
	buildOut, err := runUC.Execute(ctx, "test_build_1")
	require.NoError(t, err)
	assert.True(t, buildOut.Success)

	lastCall := runner.Calls[len(runner.Calls)-1]
	assert.Equal(t, []string{
		"build",
		"-b", "nucleo_f401re",
		"-p", "auto",
		"--build-dir", filepath.Join(root, ".westward", "build", "test_build_1"),
		filepath.Join(root, "blinky"),
		"--",
		"-DCONFIG_DEBUG_OPTIMIZATIONS=y",
		"-DCONFIG_DEBUG_THREAD_INFO=y",
	}, lastCall.Args)

	// The journal carries one clean record per operation
	assert.Equal(t, []string{
		"setup.init", "setup.sync", "setup.venv", "setup.packages",
		"sdk.install", "project.create", "config.add", "build.run",
	}, journal.Operations())
	for _, rec := range journal.Records {
		assert.Equal(t, repository.OutcomeOK, rec.Outcome)
	}

	// Every command took and released the workspace lock
	assert.Equal(t, 5, locks.Acquired)
	assert.Equal(t, 5, locks.Released)

	// The persisted state reflects the full session
	ws, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "blinky", ws.ActiveProject())
	assert.Equal(t, "test_build_1", ws.ActiveBuild())
	assert.Len(t, ws.Projects(), 1)
	assert.Len(t, ws.BuildConfigs(), 1)
}
