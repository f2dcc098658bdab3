package scaffold

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/westward-dev/westward/internal/application/dto"
	"github.com/westward-dev/westward/internal/application/port/output"
	"github.com/westward-dev/westward/internal/application/service"
	"github.com/westward-dev/westward/internal/domain/model"
	"github.com/westward-dev/westward/internal/domain/model/project"
	"github.com/westward-dev/westward/internal/domain/repository"
	"github.com/westward-dev/westward/internal/pkg/ident"
)

// descriptorFiles must all be present for a folder to count as a buildable
// application root
var descriptorFiles = []string{"CMakeLists.txt", "prj.conf"}

// AddExistingUseCase registers an already existing application folder as a
// project. The folder keeps its name; no files are written into it.
type AddExistingUseCase struct {
	workspaceRepo repository.WorkspaceRepository
	commands      *service.CommandService
	prompt        output.UserPrompt
	cfg           Config
}

// NewAddExistingUseCase creates a new AddExistingUseCase
func NewAddExistingUseCase(
	workspaceRepo repository.WorkspaceRepository,
	commands *service.CommandService,
	prompt output.UserPrompt,
	cfg Config,
) *AddExistingUseCase {
	return &AddExistingUseCase{
		workspaceRepo: workspaceRepo,
		commands:      commands,
		prompt:        prompt,
		cfg:           cfg,
	}
}

// Execute asks for a folder, validates it looks like an application root,
// and registers it under its base name
func (uc *AddExistingUseCase) Execute(ctx context.Context) (*dto.ProjectOutput, error) {
	started := time.Now()
	runID := uc.commands.NewRunID()

	release, err := uc.commands.AcquireWorkspaceLock(ctx, "project-add")
	if err != nil {
		return nil, err
	}
	defer release()

	ws, err := uc.workspaceRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	// 1. Choose the folder
	folder, err := uc.prompt.SelectFolder(ctx, output.FolderPrompt{
		Title: "Select the project folder",
		Root:  uc.cfg.Root,
	})
	if err != nil {
		return nil, err
	}

	// 2. The folder must carry the build descriptors
	var missing []string
	for _, name := range descriptorFiles {
		if !fileExists(filepath.Join(folder, name)) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, model.ErrInvalidProjectFolder.WithDetails(map[string]interface{}{
			"folder":  folder,
			"missing": missing,
		})
	}

	// 3. Register under the folder's base name
	name, err := ident.NormalizeAndValidate(filepath.Base(folder))
	if err != nil {
		return nil, fmt.Errorf("folder name is not usable as a project identifier: %w", err)
	}

	p, err := project.NewProject(name, uc.relPath(folder), "")
	if err != nil {
		return nil, err
	}
	if err := ws.RegisterProject(p); err != nil {
		uc.commands.Record(ctx, runID, "project.import", started, err, "")
		return nil, err
	}
	if err := ws.SetActiveProject(p.ID()); err != nil {
		return nil, err
	}
	if err := uc.workspaceRepo.Save(ctx, ws); err != nil {
		return nil, fmt.Errorf("failed to persist workspace state: %w", err)
	}

	uc.commands.Record(ctx, runID, "project.import", started, nil,
		fmt.Sprintf("%s from %s", p.ID(), folder))
	return &dto.ProjectOutput{
		ID:         p.ID(),
		SourcePath: p.SourcePath(),
	}, nil
}

// relPath stores folders under the root as relative paths so the workspace
// stays relocatable; folders outside it keep their absolute path
func (uc *AddExistingUseCase) relPath(folder string) string {
	rel, err := filepath.Rel(uc.cfg.Root, folder)
	if err != nil || rel == ".." || filepath.IsAbs(rel) {
		return folder
	}
	if len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator) {
		return folder
	}
	return rel
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
