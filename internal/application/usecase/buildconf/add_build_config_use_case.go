// Package buildconf registers named build configurations binding a project
// to a discovered board and an optimization profile.
package buildconf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/westward-dev/westward/internal/application/dto"
	"github.com/westward-dev/westward/internal/application/port/output"
	"github.com/westward-dev/westward/internal/application/service"
	"github.com/westward-dev/westward/internal/domain/model/buildcfg"
	"github.com/westward-dev/westward/internal/domain/model/workspace"
	"github.com/westward-dev/westward/internal/domain/repository"
	"github.com/westward-dev/westward/internal/pkg/ident"
)

// otherFolderOption marks the fallback entry in the board select
const otherFolderOption = "\x00other-folder"

// Config carries the board discovery layout
type Config struct {
	Root       string   // Workspace root holding the synced source trees
	ExtraRoots []string // Board definition folders registered in settings
}

// AddBuildConfigUseCase drives the interactive board/profile/name flow
type AddBuildConfigUseCase struct {
	workspaceRepo repository.WorkspaceRepository
	commands      *service.CommandService
	scanner       output.BoardScanner
	prompt        output.UserPrompt
	cfg           Config
}

// NewAddBuildConfigUseCase creates a new AddBuildConfigUseCase
func NewAddBuildConfigUseCase(
	workspaceRepo repository.WorkspaceRepository,
	commands *service.CommandService,
	scanner output.BoardScanner,
	prompt output.UserPrompt,
	cfg Config,
) *AddBuildConfigUseCase {
	return &AddBuildConfigUseCase{
		workspaceRepo: workspaceRepo,
		commands:      commands,
		scanner:       scanner,
		prompt:        prompt,
		cfg:           cfg,
	}
}

// Execute registers a build configuration for projectID. The board list is
// discovered from the synced trees plus registered extra folders; choosing
// the fallback entry scans one more folder and re-presents the list.
// Cancelling any prompt leaves the workspace untouched.
func (uc *AddBuildConfigUseCase) Execute(ctx context.Context, projectID string) (*dto.BuildConfigOutput, error) {
	started := time.Now()
	runID := uc.commands.NewRunID()

	release, err := uc.commands.AcquireWorkspaceLock(ctx, "config-add")
	if err != nil {
		return nil, err
	}
	defer release()

	ws, err := uc.workspaceRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	// 1. The project must exist before anything is asked
	p, err := ws.Project(projectID)
	if err != nil {
		return nil, err
	}

	// 2. Discover and choose the target board
	boardName, err := uc.selectBoard(ctx)
	if err != nil {
		return nil, err
	}

	// 3. Choose the optimization profile
	profileOptions := make([]output.SelectOption, 0, len(buildcfg.Profiles()))
	for _, prof := range buildcfg.Profiles() {
		profileOptions = append(profileOptions, output.SelectOption{
			Value: prof.String(),
			Label: prof.String(),
			Hint:  profileHint(prof),
		})
	}
	profile, err := uc.prompt.SelectOne(ctx, output.SelectPrompt{
		Title:   "Select an optimization profile",
		Options: profileOptions,
	})
	if err != nil {
		return nil, err
	}

	// 4. Choose a unique configuration name
	entered, err := uc.prompt.Text(ctx, output.TextPrompt{
		Title:       "Build configuration name",
		Placeholder: p.ID() + "_" + boardName,
		Validate:    newConfigNameValidator(ws),
	})
	if err != nil {
		return nil, err
	}
	name, err := ident.NormalizeAndValidate(entered)
	if err != nil {
		return nil, err
	}

	// 5. Register and persist
	cfgEntity, err := buildcfg.NewBuildConfig(name, p.ID(), boardName, buildcfg.Profile(profile))
	if err != nil {
		return nil, err
	}
	if err := ws.RegisterBuildConfig(cfgEntity); err != nil {
		uc.commands.Record(ctx, runID, "config.add", started, err, "")
		return nil, err
	}
	if err := ws.SetActiveBuild(cfgEntity.ID()); err != nil {
		return nil, err
	}
	if err := uc.workspaceRepo.Save(ctx, ws); err != nil {
		return nil, fmt.Errorf("failed to persist workspace state: %w", err)
	}

	uc.commands.Record(ctx, runID, "config.add", started, nil,
		fmt.Sprintf("%s: %s on %s, %s", cfgEntity.ID(), cfgEntity.ProjectID(), cfgEntity.Board(), cfgEntity.Profile()))
	return &dto.BuildConfigOutput{
		ID:        cfgEntity.ID(),
		ProjectID: cfgEntity.ProjectID(),
		Board:     cfgEntity.Board(),
		Profile:   cfgEntity.Profile().String(),
	}, nil
}

// selectBoard scans the known roots and presents the result together with
// a fallback entry that lets the user point at one more folder
func (uc *AddBuildConfigUseCase) selectBoard(ctx context.Context) (string, error) {
	roots := uc.discoverRoots()

	for {
		boards, err := uc.scanner.Scan(ctx, roots)
		if err != nil {
			return "", err
		}

		options := make([]output.SelectOption, 0, len(boards)+1)
		for _, b := range boards {
			options = append(options, output.SelectOption{Value: b.Name, Label: b.Name, Hint: b.Vendor})
		}
		options = append(options, output.SelectOption{
			Value: otherFolderOption,
			Label: "Choose another folder...",
			Hint:  "Scan an additional board definition folder",
		})

		selected, err := uc.prompt.SelectOne(ctx, output.SelectPrompt{
			Title:   "Select a target board",
			Options: options,
		})
		if err != nil {
			return "", err
		}
		if selected != otherFolderOption {
			return selected, nil
		}

		folder, err := uc.prompt.SelectFolder(ctx, output.FolderPrompt{
			Title: "Board definitions folder",
			Root:  uc.cfg.Root,
		})
		if err != nil {
			return "", err
		}
		roots = append(roots, folder)
	}
}

// discoverRoots returns the board search locations in priority order: the
// synced main tree, boards folders of other synced modules, then the extra
// folders from settings. Later entries override earlier ones on duplicate
// board names.
func (uc *AddBuildConfigUseCase) discoverRoots() []string {
	roots := []string{filepath.Join(uc.cfg.Root, "zephyr", "boards")}

	if entries, err := os.ReadDir(uc.cfg.Root); err == nil {
		var moduleRoots []string
		for _, entry := range entries {
			if !entry.IsDir() || entry.Name() == "zephyr" || strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			boardsDir := filepath.Join(uc.cfg.Root, entry.Name(), "boards")
			if info, err := os.Stat(boardsDir); err == nil && info.IsDir() {
				moduleRoots = append(moduleRoots, boardsDir)
			}
		}
		sort.Strings(moduleRoots)
		roots = append(roots, moduleRoots...)
	}

	return append(roots, uc.cfg.ExtraRoots...)
}

func newConfigNameValidator(ws *workspace.Workspace) func(string) error {
	return func(value string) error {
		name, err := ident.NormalizeAndValidate(value)
		if err != nil {
			return err
		}
		if _, err := ws.BuildConfig(name); err == nil {
			return fmt.Errorf("build configuration %q already exists", name)
		}
		return nil
	}
}

func profileHint(p buildcfg.Profile) string {
	switch p {
	case buildcfg.ProfileDebug:
		return "Debug optimizations with thread info"
	case buildcfg.ProfileSpeed:
		return "Optimize for execution speed"
	case buildcfg.ProfileSize:
		return "Optimize for image size"
	default:
		return ""
	}
}
