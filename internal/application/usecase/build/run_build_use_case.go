// Package build runs registered build configurations through the workspace
// build tool and diagnoses the host environment.
package build

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/westward-dev/westward/internal/application/dto"
	"github.com/westward-dev/westward/internal/application/port/output"
	"github.com/westward-dev/westward/internal/application/service"
	"github.com/westward-dev/westward/internal/domain/model"
	"github.com/westward-dev/westward/internal/domain/repository"
	"github.com/westward-dev/westward/internal/util"
)

// Config carries the tool paths the build use cases need
type Config struct {
	Root      string // Workspace root
	Home      string // State directory name under Root; build trees land in <Home>/build
	WestBin   string
	PythonBin string
	GitBin    string
}

// RunBuildUseCase executes one registered build configuration
type RunBuildUseCase struct {
	workspaceRepo repository.WorkspaceRepository
	commands      *service.CommandService
	runner        output.CommandRunner
	cfg           Config
}

// NewRunBuildUseCase creates a new RunBuildUseCase
func NewRunBuildUseCase(
	workspaceRepo repository.WorkspaceRepository,
	commands *service.CommandService,
	runner output.CommandRunner,
	cfg Config,
) *RunBuildUseCase {
	return &RunBuildUseCase{
		workspaceRepo: workspaceRepo,
		commands:      commands,
		runner:        runner,
		cfg:           cfg,
	}
}

// Execute builds the configuration named by buildID. A failing build is a
// regular output with Success false, not an error; the workspace is never
// mutated on either outcome.
func (uc *RunBuildUseCase) Execute(ctx context.Context, buildID string) (*dto.BuildOutput, error) {
	started := time.Now()
	runID := uc.commands.NewRunID()

	release, err := uc.commands.AcquireWorkspaceLock(ctx, "build")
	if err != nil {
		return nil, err
	}
	defer release()

	ws, err := uc.workspaceRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	// 1. Resolve the configuration and its project
	bc, err := ws.BuildConfig(buildID)
	if err != nil {
		return nil, err
	}
	p, err := ws.Project(bc.ProjectID())
	if err != nil {
		return nil, err
	}

	// 2. Builds need the fully set up environment
	if err := ws.EnsureReady(model.StagePackagesReady); err != nil {
		return nil, err
	}

	// 3. Invoke the build tool
	buildDir := filepath.Join(uc.cfg.Root, uc.cfg.Home, "build", bc.ID())
	args := []string{
		"build",
		"-b", bc.Board(),
		"-p", "auto",
		"--build-dir", buildDir,
		uc.sourceDir(p.SourcePath()),
	}
	if cmakeArgs := bc.Profile().CMakeArgs(); len(cmakeArgs) > 0 {
		args = append(args, "--")
		args = append(args, cmakeArgs...)
	}

	cmd := output.Command{Bin: uc.cfg.WestBin, Args: args, Dir: uc.cfg.Root}
	res, err := uc.runner.Run(ctx, cmd)
	if err != nil {
		uc.commands.Record(ctx, runID, "build.run", started, err, "")
		return nil, err
	}

	var recErr error
	if !res.Succeeded() {
		recErr = fmt.Errorf("build failed (exit %d)", res.ExitCode)
	}
	uc.commands.Record(ctx, runID, "build.run", started, recErr,
		fmt.Sprintf("%s: %s on %s", bc.ID(), bc.ProjectID(), bc.Board()))

	return &dto.BuildOutput{
		ID:        bc.ID(),
		Board:     bc.Board(),
		BuildDir:  buildDir,
		Success:   res.Succeeded(),
		ExitCode:  res.ExitCode,
		Output:    res.Stdout,
		Diagnosis: util.TailLines(res.Stderr, 40),
		ElapsedMs: time.Since(started).Milliseconds(),
	}, nil
}

// sourceDir resolves a stored project path against the workspace root
func (uc *RunBuildUseCase) sourceDir(sourcePath string) string {
	if filepath.IsAbs(sourcePath) {
		return sourcePath
	}
	return filepath.Join(uc.cfg.Root, sourcePath)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
