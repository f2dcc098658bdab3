// Package scaffold creates and imports the firmware projects registered in
// a workspace.
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
	"github.com/westward-dev/westward/internal/domain/model/project"
	"github.com/westward-dev/westward/internal/domain/model/workspace"
	"github.com/westward-dev/westward/internal/domain/repository"
	"github.com/westward-dev/westward/internal/pkg/ident"
)

// Config carries the workspace layout the scaffolder needs
type Config struct {
	Root string // Workspace root; projects are created in subfolders of it
}

// CreateProjectUseCase scaffolds a new project from a template
type CreateProjectUseCase struct {
	workspaceRepo repository.WorkspaceRepository
	commands      *service.CommandService
	store         output.TemplateStore
	prompt        output.UserPrompt
	cfg           Config
}

// NewCreateProjectUseCase creates a new CreateProjectUseCase
func NewCreateProjectUseCase(
	workspaceRepo repository.WorkspaceRepository,
	commands *service.CommandService,
	store output.TemplateStore,
	prompt output.UserPrompt,
	cfg Config,
) *CreateProjectUseCase {
	return &CreateProjectUseCase{
		workspaceRepo: workspaceRepo,
		commands:      commands,
		store:         store,
		prompt:        prompt,
		cfg:           cfg,
	}
}

// Execute prompts for a template and a unique project name, deploys the
// template into a subfolder named after the identifier, and registers the
// project as the active one
func (uc *CreateProjectUseCase) Execute(ctx context.Context) (*dto.ProjectOutput, error) {
	started := time.Now()
	runID := uc.commands.NewRunID()

	release, err := uc.commands.AcquireWorkspaceLock(ctx, "project-create")
	if err != nil {
		return nil, err
	}
	defer release()

	ws, err := uc.workspaceRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	// 1. Choose a template
	infos, err := uc.store.List(ctx)
	if err != nil {
		return nil, err
	}
	options := make([]output.SelectOption, 0, len(infos))
	for _, info := range infos {
		hint := info.Description
		if hint == "" {
			hint = info.Origin
		}
		options = append(options, output.SelectOption{Value: info.ID, Label: info.ID, Hint: hint})
	}
	templateID, err := uc.prompt.SelectOne(ctx, output.SelectPrompt{
		Title:   "Select a project template",
		Options: options,
	})
	if err != nil {
		return nil, err
	}

	// 2. Choose a unique name
	entered, err := uc.prompt.Text(ctx, output.TextPrompt{
		Title:       "Project name",
		Placeholder: "my-app",
		Validate:    newNameValidator(ws),
	})
	if err != nil {
		return nil, err
	}
	name, err := ident.NormalizeAndValidate(entered)
	if err != nil {
		return nil, err
	}

	// 3. Deploy the template into <root>/<name>
	destDir := filepath.Join(uc.cfg.Root, name)
	existedBefore := dirExists(destDir)
	files, err := uc.store.Deploy(ctx, templateID, destDir)
	if err != nil {
		if !existedBefore {
			os.RemoveAll(destDir)
		}
		uc.commands.Record(ctx, runID, "project.create", started, err, "")
		return nil, err
	}

	// 4. Register and persist
	p, err := project.NewProject(name, name, templateID)
	if err != nil {
		return nil, err
	}
	if err := ws.RegisterProject(p); err != nil {
		if !existedBefore {
			os.RemoveAll(destDir)
		}
		uc.commands.Record(ctx, runID, "project.create", started, err, "")
		return nil, err
	}
	if err := ws.SetActiveProject(p.ID()); err != nil {
		return nil, err
	}
	if err := uc.workspaceRepo.Save(ctx, ws); err != nil {
		return nil, fmt.Errorf("failed to persist workspace state: %w", err)
	}

	uc.commands.Record(ctx, runID, "project.create", started, nil,
		fmt.Sprintf("%s from template %s, %d files", p.ID(), templateID, files))
	return &dto.ProjectOutput{
		ID:         p.ID(),
		SourcePath: p.SourcePath(),
		Template:   p.Template(),
		Files:      files,
	}, nil
}

// newNameValidator accepts identifiers that are well formed and not yet
// registered, so the prompt can re-ask instead of failing the operation
func newNameValidator(ws *workspace.Workspace) func(string) error {
	return func(value string) error {
		name, err := ident.NormalizeAndValidate(value)
		if err != nil {
			return err
		}
		if _, err := ws.Project(name); err == nil {
			return fmt.Errorf("project %q already exists", name)
		}
		return nil
	}
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
