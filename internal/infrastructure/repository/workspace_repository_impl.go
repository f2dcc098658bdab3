package repository

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/westward-dev/westward/internal/domain/model"
	"github.com/westward-dev/westward/internal/domain/model/workspace"
	"github.com/westward-dev/westward/internal/infra/persistence/file"
)

// stateFileVersion identifies the workspace.yaml schema
const stateFileVersion = 1

// WorkspaceRepositoryImpl implements repository.WorkspaceRepository using a
// YAML state file written atomically
type WorkspaceRepositoryImpl struct {
	fs        afero.Fs
	statePath string
}

// NewWorkspaceRepositoryImpl creates a new file-based workspace repository
func NewWorkspaceRepositoryImpl(fs afero.Fs, statePath string) *WorkspaceRepositoryImpl {
	return &WorkspaceRepositoryImpl{
		fs:        fs,
		statePath: statePath,
	}
}

type projectDoc struct {
	ID         string `yaml:"id"`
	SourcePath string `yaml:"source_path"`
	Template   string `yaml:"template,omitempty"`
	CreatedAt  string `yaml:"created_at"`
}

type buildConfigDoc struct {
	ID        string `yaml:"id"`
	Project   string `yaml:"project"`
	Board     string `yaml:"board"`
	Profile   string `yaml:"profile"`
	CreatedAt string `yaml:"created_at"`
}

type workspaceDoc struct {
	Version              int              `yaml:"version"`
	InitialSetupComplete bool             `yaml:"initial_setup_complete"`
	WestUpdated          bool             `yaml:"west_updated"`
	PythonEnvSetup       bool             `yaml:"python_env_setup"`
	PackagesInstalled    bool             `yaml:"packages_installed"`
	ActiveProject        string           `yaml:"active_project,omitempty"`
	ActiveBuild          string           `yaml:"active_build,omitempty"`
	Projects             []projectDoc     `yaml:"projects"`
	BuildConfigs         []buildConfigDoc `yaml:"build_configs"`
	Meta                 struct {
		UpdatedAt string `yaml:"updated_at"`
	} `yaml:"meta"`
}

// Exists reports whether a workspace state file is present
func (r *WorkspaceRepositoryImpl) Exists(ctx context.Context) (bool, error) {
	_, err := r.fs.Stat(r.statePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat state file: %w", err)
	}
	return true, nil
}

// Load reads and validates the persisted workspace.
// A missing file yields a fresh empty workspace; anything unreadable or
// inconsistent yields ErrCorruptState so callers stop before touching disk.
func (r *WorkspaceRepositoryImpl) Load(ctx context.Context) (*workspace.Workspace, error) {
	b, err := afero.ReadFile(r.fs, r.statePath)
	if err != nil {
		if os.IsNotExist(err) {
			return workspace.NewWorkspace(), nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var doc workspaceDoc
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, model.ErrCorruptState.WithCause(fmt.Errorf("unmarshal %s: %w", r.statePath, err))
	}
	if doc.Version != stateFileVersion {
		return nil, model.ErrCorruptState.WithDetails(map[string]interface{}{
			"detail": fmt.Sprintf("unsupported state file version %d", doc.Version),
		})
	}

	snapshot := workspace.Snapshot{
		InitialSetupComplete: doc.InitialSetupComplete,
		WestUpdated:          doc.WestUpdated,
		PythonEnvSetup:       doc.PythonEnvSetup,
		PackagesInstalled:    doc.PackagesInstalled,
		ActiveProject:        doc.ActiveProject,
		ActiveBuild:          doc.ActiveBuild,
	}
	for _, p := range doc.Projects {
		createdAt, err := parseStateTime(p.CreatedAt)
		if err != nil {
			return nil, model.ErrCorruptState.WithCause(fmt.Errorf("project %s: %w", p.ID, err))
		}
		snapshot.Projects = append(snapshot.Projects, workspace.ProjectSnapshot{
			ID:         p.ID,
			SourcePath: p.SourcePath,
			Template:   p.Template,
			CreatedAt:  createdAt,
		})
	}
	for _, c := range doc.BuildConfigs {
		createdAt, err := parseStateTime(c.CreatedAt)
		if err != nil {
			return nil, model.ErrCorruptState.WithCause(fmt.Errorf("build configuration %s: %w", c.ID, err))
		}
		snapshot.BuildConfigs = append(snapshot.BuildConfigs, workspace.BuildConfigSnapshot{
			ID:        c.ID,
			ProjectID: c.Project,
			Board:     c.Board,
			Profile:   c.Profile,
			CreatedAt: createdAt,
		})
	}

	return workspace.ReconstructWorkspace(snapshot)
}

// Save persists the workspace atomically
func (r *WorkspaceRepositoryImpl) Save(ctx context.Context, ws *workspace.Workspace) error {
	snapshot := ws.Snapshot()

	doc := workspaceDoc{
		Version:              stateFileVersion,
		InitialSetupComplete: snapshot.InitialSetupComplete,
		WestUpdated:          snapshot.WestUpdated,
		PythonEnvSetup:       snapshot.PythonEnvSetup,
		PackagesInstalled:    snapshot.PackagesInstalled,
		ActiveProject:        snapshot.ActiveProject,
		ActiveBuild:          snapshot.ActiveBuild,
		Projects:             make([]projectDoc, 0, len(snapshot.Projects)),
		BuildConfigs:         make([]buildConfigDoc, 0, len(snapshot.BuildConfigs)),
	}
	for _, p := range snapshot.Projects {
		doc.Projects = append(doc.Projects, projectDoc{
			ID:         p.ID,
			SourcePath: p.SourcePath,
			Template:   p.Template,
			CreatedAt:  p.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	for _, c := range snapshot.BuildConfigs {
		doc.BuildConfigs = append(doc.BuildConfigs, buildConfigDoc{
			ID:        c.ID,
			Project:   c.ProjectID,
			Board:     c.Board,
			Profile:   c.Profile,
			CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	doc.Meta.UpdatedAt = time.Now().UTC().Format(time.RFC3339Nano)

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to marshal workspace state: %w", err)
	}
	if err := file.WriteFileAtomic(r.fs, r.statePath, data); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

func parseStateTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("missing created_at timestamp")
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid created_at timestamp %q: %w", s, err)
	}
	return t, nil
}
