// Package setup drives the staged workspace setup pipeline: manifest
// acquisition, dependency sync, Python environment creation and package
// installation, with every completed stage persisted before the next one
// starts.
package setup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/westward-dev/westward/internal/application/dto"
	"github.com/westward-dev/westward/internal/application/port/output"
	"github.com/westward-dev/westward/internal/application/service"
	"github.com/westward-dev/westward/internal/domain/model"
	"github.com/westward-dev/westward/internal/domain/model/workspace"
	"github.com/westward-dev/westward/internal/domain/repository"
	"github.com/westward-dev/westward/internal/embed"
	"github.com/westward-dev/westward/internal/util"
)

// Stage operation names as they appear in the journal and in SetupOutput
const (
	opInit     = "setup.init"
	opSync     = "setup.sync"
	opVenv     = "setup.venv"
	opPackages = "setup.packages"
)

// Config carries the paths and policies the pipeline needs
type Config struct {
	Root               string // Workspace root; sources are synced here
	Home               string // State directory name under Root
	WestBin            string
	PythonBin          string
	DefaultManifestURL string
	RetryAttempts      int           // External invocations per stage before giving up
	RetryBackoff       time.Duration // Pause between attempts
}

// SetupUseCase orchestrates both setup entry paths and the shared
// stage continuation
type SetupUseCase struct {
	workspaceRepo repository.WorkspaceRepository
	commands      *service.CommandService
	runner        output.CommandRunner
	prompt        output.UserPrompt
	cfg           Config
}

// NewSetupUseCase creates a new SetupUseCase
func NewSetupUseCase(
	workspaceRepo repository.WorkspaceRepository,
	commands *service.CommandService,
	runner output.CommandRunner,
	prompt output.UserPrompt,
	cfg Config,
) *SetupUseCase {
	if cfg.RetryAttempts < 1 {
		cfg.RetryAttempts = 1
	}

	return &SetupUseCase{
		workspaceRepo: workspaceRepo,
		commands:      commands,
		runner:        runner,
		prompt:        prompt,
		cfg:           cfg,
	}
}

// RunStandard performs the local-manifest setup path: prompt for a
// workspace template and hardware family, write the manifest, then run the
// shared continuation. Already-completed stages are skipped.
func (uc *SetupUseCase) RunStandard(ctx context.Context) (*dto.SetupOutput, error) {
	started := time.Now()
	runID := uc.commands.NewRunID()

	release, err := uc.commands.AcquireWorkspaceLock(ctx, "setup")
	if err != nil {
		return nil, err
	}
	defer release()

	ws, err := uc.workspaceRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	out := &dto.SetupOutput{StagesRun: []string{}}
	if !ws.InitialSetupComplete() {
		if err := uc.initStandard(ctx, runID, ws); err != nil {
			return nil, err
		}
		out.StagesRun = append(out.StagesRun, opInit)
	}

	if err := uc.resume(ctx, runID, ws, out); err != nil {
		return nil, err
	}

	out.Stage = ws.Stage().String()
	out.ElapsedMs = time.Since(started).Milliseconds()
	return out, nil
}

// RunFromManifest performs the remote-manifest setup path: initialize the
// workspace from a manifest repository URL, then run the shared
// continuation. An empty url is prompted for.
func (uc *SetupUseCase) RunFromManifest(ctx context.Context, url string) (*dto.SetupOutput, error) {
	started := time.Now()
	runID := uc.commands.NewRunID()

	release, err := uc.commands.AcquireWorkspaceLock(ctx, "setup")
	if err != nil {
		return nil, err
	}
	defer release()

	ws, err := uc.workspaceRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	out := &dto.SetupOutput{StagesRun: []string{}}
	if !ws.InitialSetupComplete() {
		if err := uc.initFromManifest(ctx, runID, ws, url); err != nil {
			return nil, err
		}
		out.StagesRun = append(out.StagesRun, opInit)
	}

	if err := uc.resume(ctx, runID, ws, out); err != nil {
		return nil, err
	}

	out.Stage = ws.Stage().String()
	out.ElapsedMs = time.Since(started).Milliseconds()
	return out, nil
}

// initStandard writes a local manifest chosen through prompts and
// initializes the workspace around it
func (uc *SetupUseCase) initStandard(ctx context.Context, runID string, ws *workspace.Workspace) error {
	// 1. Choose a manifest template
	catalog, err := embed.ListManifests()
	if err != nil {
		return err
	}
	options := make([]output.SelectOption, 0, len(catalog))
	for _, entry := range catalog {
		options = append(options, output.SelectOption{
			Value: entry.ID,
			Label: displayTitle(entry.ID),
			Hint:  entry.Description,
		})
	}
	templateID, err := uc.prompt.SelectOne(ctx, output.SelectPrompt{
		Title:   "Select a workspace template",
		Options: options,
	})
	if err != nil {
		return err
	}

	// 2. Choose the default hardware family
	family, err := uc.prompt.SelectOne(ctx, output.SelectPrompt{
		Title:   "Select a hardware family",
		Options: hardwareFamilies,
	})
	if err != nil {
		return err
	}

	// 3. Write the manifest into the state directory
	content, err := embed.RenderManifest(templateID, family)
	if err != nil {
		return err
	}
	manifestDir := filepath.Join(uc.cfg.Root, uc.cfg.Home)
	if err := util.WriteFileAtomic(filepath.Join(manifestDir, "west.yml"), content, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	// 4. Register the manifest repository unless the root is already initialized
	if _, err := os.Stat(filepath.Join(uc.cfg.Root, ".west")); err != nil {
		cmd := output.Command{
			Bin:  uc.cfg.WestBin,
			Args: []string{"init", "-l", manifestDir},
			Dir:  uc.cfg.Root,
		}
		if err := uc.runStage(ctx, runID, opInit, model.ErrSetupFailed, cmd); err != nil {
			return err
		}
	}

	// 5. Persist the completed stage before anything else runs
	ws.MarkInitialSetupComplete()
	return uc.save(ctx, ws)
}

// initFromManifest initializes the workspace from a remote manifest
// repository
func (uc *SetupUseCase) initFromManifest(ctx context.Context, runID string, ws *workspace.Workspace, url string) error {
	// 1. Resolve the manifest URL, prompting when not supplied
	if url == "" {
		entered, err := uc.prompt.Text(ctx, output.TextPrompt{
			Title:       "Manifest repository URL",
			Placeholder: uc.cfg.DefaultManifestURL,
			Validate:    uc.validateManifestURL,
		})
		if err != nil {
			return err
		}
		url = entered
		if url == "" {
			url = uc.cfg.DefaultManifestURL
		}
	}

	// 2. Initialize from the remote manifest
	cmd := output.Command{
		Bin:  uc.cfg.WestBin,
		Args: []string{"init", "-m", url},
		Dir:  uc.cfg.Root,
	}
	if err := uc.runStage(ctx, runID, opInit, model.ErrSetupFailed, cmd); err != nil {
		return err
	}

	// 3. Persist the completed stage
	ws.MarkInitialSetupComplete()
	return uc.save(ctx, ws)
}

// resume runs the shared continuation from the first incomplete stage.
// Stages run strictly in order and every success is persisted before the
// next stage starts, so a failed run resumes exactly where it stopped.
func (uc *SetupUseCase) resume(ctx context.Context, runID string, ws *workspace.Workspace, out *dto.SetupOutput) error {
	// 1. Sync manifest-declared repositories
	if !ws.WestUpdated() {
		cmd := output.Command{Bin: uc.cfg.WestBin, Args: []string{"update"}, Dir: uc.cfg.Root}
		if err := uc.runStage(ctx, runID, opSync, model.ErrDependencySyncFailed, cmd); err != nil {
			return err
		}
		if err := ws.MarkWestUpdated(); err != nil {
			return err
		}
		if err := uc.save(ctx, ws); err != nil {
			return err
		}
		out.StagesRun = append(out.StagesRun, opSync)
	}

	// 2. Create the isolated Python environment
	if !ws.PythonEnvSetup() {
		cmd := output.Command{
			Bin:  uc.cfg.PythonBin,
			Args: []string{"-m", "venv", uc.venvDir()},
			Dir:  uc.cfg.Root,
		}
		if err := uc.runStage(ctx, runID, opVenv, model.ErrEnvSetupFailed, cmd); err != nil {
			return err
		}
		if err := ws.MarkPythonEnvSetup(); err != nil {
			return err
		}
		if err := uc.save(ctx, ws); err != nil {
			return err
		}
		out.StagesRun = append(out.StagesRun, opVenv)
	}

	// 3. Install packages from the discovered requirements manifest
	if !ws.PackagesInstalled() {
		reqPath, found := uc.findRequirements()
		if found {
			cmd := output.Command{
				Bin:  filepath.Join(uc.venvDir(), "bin", "pip"),
				Args: []string{"install", "-r", reqPath},
				Dir:  uc.cfg.Root,
			}
			if err := uc.runStage(ctx, runID, opPackages, model.ErrPackageInstallFailed, cmd); err != nil {
				return err
			}
		} else {
			uc.commands.Record(ctx, runID, opPackages, time.Now(), nil, "no requirements manifest found, nothing to install")
		}
		if err := ws.MarkPackagesInstalled(); err != nil {
			return err
		}
		if err := uc.save(ctx, ws); err != nil {
			return err
		}
		out.StagesRun = append(out.StagesRun, opPackages)
	}

	return nil
}

// runStage executes one external stage and journals its outcome
func (uc *SetupUseCase) runStage(ctx context.Context, runID, op string, stageErr model.DomainError, cmd output.Command) error {
	started := time.Now()
	err := uc.execute(ctx, stageErr, cmd)
	uc.commands.Record(ctx, runID, op, started, err, commandLine(cmd))
	return err
}

// execute runs cmd under the retry policy, mapping failures onto stageErr.
// Spawn failures and cancellation are never retried.
func (uc *SetupUseCase) execute(ctx context.Context, stageErr model.DomainError, cmd output.Command) error {
	var lastErr error
	for attempt := 1; ; attempt++ {
		res, err := uc.runner.Run(ctx, cmd)
		switch {
		case err != nil:
			if errors.Is(err, context.Canceled) {
				return model.ErrCancelled.WithCause(err)
			}
			var de model.DomainError
			if errors.As(err, &de) && de.Code == model.ErrToolNotStarted.Code {
				return err
			}
			lastErr = stageErr.WithCause(err)
		case res.Succeeded():
			return nil
		default:
			lastErr = stageErr.WithDetails(map[string]interface{}{
				"command":   commandLine(cmd),
				"exit_code": res.ExitCode,
				"stderr":    util.TailLines(res.Stderr, 20),
			})
		}

		if attempt >= uc.cfg.RetryAttempts {
			return lastErr
		}
		if err := sleepCtx(ctx, uc.cfg.RetryBackoff); err != nil {
			return model.ErrCancelled.WithCause(err)
		}
	}
}

func (uc *SetupUseCase) save(ctx context.Context, ws *workspace.Workspace) error {
	if err := uc.workspaceRepo.Save(ctx, ws); err != nil {
		return fmt.Errorf("failed to persist workspace state: %w", err)
	}
	return nil
}

func (uc *SetupUseCase) venvDir() string {
	return filepath.Join(uc.cfg.Root, uc.cfg.Home, ".venv")
}

func (uc *SetupUseCase) validateManifestURL(value string) error {
	if value == "" && uc.cfg.DefaultManifestURL == "" {
		return fmt.Errorf("a manifest repository URL is required")
	}
	return nil
}
