package build

import (
	"context"
	"time"

	"github.com/westward-dev/westward/internal/application/dto"
	"github.com/westward-dev/westward/internal/application/port/output"
	"github.com/westward-dev/westward/internal/domain/repository"
)

// DoctorUseCase probes the external tools the pipeline depends on and
// checks that the persisted workspace state loads cleanly. It never
// mutates anything.
type DoctorUseCase struct {
	workspaceRepo repository.WorkspaceRepository
	runner        output.CommandRunner
	cfg           Config
}

// NewDoctorUseCase creates a new DoctorUseCase
func NewDoctorUseCase(
	workspaceRepo repository.WorkspaceRepository,
	runner output.CommandRunner,
	cfg Config,
) *DoctorUseCase {
	return &DoctorUseCase{
		workspaceRepo: workspaceRepo,
		runner:        runner,
		cfg:           cfg,
	}
}

// Execute reports one check per required tool plus the state file health
func (uc *DoctorUseCase) Execute(ctx context.Context) (*dto.DoctorOutput, error) {
	started := time.Now()

	tools := []struct {
		name string
		bin  string
	}{
		{"west", uc.cfg.WestBin},
		{"python3", uc.cfg.PythonBin},
		{"git", uc.cfg.GitBin},
		{"cmake", "cmake"},
		{"ninja", "ninja"},
	}

	out := &dto.DoctorOutput{Healthy: true}
	for _, tool := range tools {
		check := uc.probe(ctx, tool.name, tool.bin)
		if !check.OK {
			out.Healthy = false
		}
		out.Checks = append(out.Checks, check)
	}

	// State readability is part of the diagnosis: a corrupt file fails
	// every later command, so surface it here first.
	ws, err := uc.workspaceRepo.Load(ctx)
	if err != nil {
		out.StateOK = false
		out.Healthy = false
	} else {
		out.StateOK = true
		out.Stage = ws.Stage().String()
	}

	out.ElapsedMs = time.Since(started).Milliseconds()
	return out, nil
}

// probe resolves the binary and asks it for a version
func (uc *DoctorUseCase) probe(ctx context.Context, name, bin string) dto.DoctorCheck {
	path, err := uc.runner.LookPath(bin)
	if err != nil {
		return dto.DoctorCheck{Name: name, Detail: "not found on PATH"}
	}

	res, err := uc.runner.Run(ctx, output.Command{Bin: bin, Args: []string{"--version"}})
	if err != nil || !res.Succeeded() {
		return dto.DoctorCheck{Name: name, Path: path, Detail: "did not report a version"}
	}

	version := firstLine(res.Stdout)
	if version == "" {
		version = firstLine(res.Stderr)
	}
	return dto.DoctorCheck{Name: name, OK: true, Path: path, Version: version}
}
