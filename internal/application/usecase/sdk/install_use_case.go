// Package sdk installs the cross-compilation toolchains: over the network
// through the workspace tool, or from a locally downloaded bundle for
// air-gapped hosts.
package sdk

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/westward-dev/westward/internal/application/dto"
	"github.com/westward-dev/westward/internal/application/port/output"
	"github.com/westward-dev/westward/internal/application/service"
	"github.com/westward-dev/westward/internal/domain/model"
	"github.com/westward-dev/westward/internal/domain/repository"
	"github.com/westward-dev/westward/internal/util"
)

// Install modes
const (
	ModeAutomatic = "automatic"
	ModeSelective = "selective"
)

// toolchainCatalog lists the installable toolchain identifiers by target
// architecture
var toolchainCatalog = []output.SelectOption{
	{Value: "arm-zephyr-eabi", Label: "arm-zephyr-eabi", Hint: "ARM Cortex-M and Cortex-R"},
	{Value: "aarch64-zephyr-elf", Label: "aarch64-zephyr-elf", Hint: "64-bit ARM"},
	{Value: "riscv64-zephyr-elf", Label: "riscv64-zephyr-elf", Hint: "32 and 64-bit RISC-V"},
	{Value: "x86_64-zephyr-elf", Label: "x86_64-zephyr-elf", Hint: "Intel and AMD x86-64"},
	{Value: "xtensa-espressif_esp32_zephyr-elf", Label: "xtensa-espressif_esp32_zephyr-elf", Hint: "Espressif ESP32 Xtensa"},
	{Value: "mips-zephyr-elf", Label: "mips-zephyr-elf", Hint: "MIPS32"},
	{Value: "sparc-zephyr-elf", Label: "sparc-zephyr-elf", Hint: "SPARC LEON"},
}

// Config carries the paths the SDK use cases need
type Config struct {
	Root       string // Workspace root
	Home       string // State directory name under Root
	WestBin    string
	InstallDir string // Explicit SDK directory; empty uses the installer default
}

// InstallUseCase drives interactive toolchain installation
type InstallUseCase struct {
	workspaceRepo repository.WorkspaceRepository
	commands      *service.CommandService
	runner        output.CommandRunner
	prompt        output.UserPrompt
	cfg           Config
}

// NewInstallUseCase creates a new InstallUseCase
func NewInstallUseCase(
	workspaceRepo repository.WorkspaceRepository,
	commands *service.CommandService,
	runner output.CommandRunner,
	prompt output.UserPrompt,
	cfg Config,
) *InstallUseCase {
	return &InstallUseCase{
		workspaceRepo: workspaceRepo,
		commands:      commands,
		runner:        runner,
		prompt:        prompt,
		cfg:           cfg,
	}
}

// Execute asks how to install and invokes the installer accordingly.
// Selective installs pass one -t flag per chosen toolchain; cancelling any
// prompt (or confirming an empty selection) aborts without side effects.
func (uc *InstallUseCase) Execute(ctx context.Context) (*dto.SDKInstallOutput, error) {
	started := time.Now()
	runID := uc.commands.NewRunID()

	release, err := uc.commands.AcquireWorkspaceLock(ctx, "sdk-install")
	if err != nil {
		return nil, err
	}
	defer release()

	// 1. The installer lives in the synced tooling
	ws, err := uc.workspaceRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := ws.EnsureReady(model.StageManifestCreated); err != nil {
		return nil, err
	}

	// 2. Choose the installation mode
	mode, err := uc.prompt.SelectOne(ctx, output.SelectPrompt{
		Title: "Toolchain installation",
		Options: []output.SelectOption{
			{Value: ModeAutomatic, Label: "Automatic", Hint: "Install the full recommended toolchain set"},
			{Value: ModeSelective, Label: "Select specific toolchains", Hint: "Choose what to install"},
		},
	})
	if err != nil {
		return nil, err
	}

	var toolchains []string
	if mode == ModeSelective {
		scope, err := uc.prompt.SelectOne(ctx, output.SelectPrompt{
			Title: "Selective installation",
			Options: []output.SelectOption{
				{Value: "all", Label: "Install all", Hint: "Every available toolchain"},
				{Value: "specific", Label: "Select specific", Hint: "Pick individual target architectures"},
			},
		})
		if err != nil {
			return nil, err
		}
		if scope == "specific" {
			toolchains, err = uc.prompt.SelectMany(ctx, output.SelectPrompt{
				Title:   "Select toolchains",
				Options: toolchainCatalog,
			})
			if err != nil {
				return nil, err
			}
		}
	}

	// 3. Run the installer
	args := []string{"sdk", "install"}
	if uc.cfg.InstallDir != "" {
		args = append(args, "--install-dir", uc.cfg.InstallDir)
	}
	for _, id := range toolchains {
		args = append(args, "-t", id)
	}

	cmd := output.Command{Bin: uc.cfg.WestBin, Args: args, Dir: uc.cfg.Root}
	res, err := uc.runner.Run(ctx, cmd)
	if err != nil {
		uc.commands.Record(ctx, runID, "sdk.install", started, err, "")
		return nil, err
	}
	if !res.Succeeded() {
		installErr := fmt.Errorf("sdk install failed (exit %d): %s", res.ExitCode, util.TailLines(res.Stderr, 10))
		uc.commands.Record(ctx, runID, "sdk.install", started, installErr, "")
		return nil, installErr
	}

	uc.commands.Record(ctx, runID, "sdk.install", started, nil, describeInstall(mode, toolchains))
	return &dto.SDKInstallOutput{
		Mode:       mode,
		Toolchains: toolchains,
		ElapsedMs:  time.Since(started).Milliseconds(),
	}, nil
}

func describeInstall(mode string, toolchains []string) string {
	if len(toolchains) == 0 {
		return mode + " install, all toolchains"
	}
	detail := mode + " install:"
	for _, id := range toolchains {
		detail += " " + id
	}
	return detail
}

// DefaultInstallDir is where imported bundles land when settings do not
// name an SDK directory
func (c Config) DefaultInstallDir() string {
	if c.InstallDir != "" {
		return c.InstallDir
	}
	return filepath.Join(c.Root, c.Home, "sdk")
}
