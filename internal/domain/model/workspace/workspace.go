// Package workspace holds the aggregate root for a firmware workspace: the
// bootstrap progress flags, the registered projects and build configurations,
// and the invariants tying them together.
package workspace

import (
	"sort"
	"sync"
	"time"

	"github.com/westward-dev/westward/internal/domain/model"
	"github.com/westward-dev/westward/internal/domain/model/buildcfg"
	"github.com/westward-dev/westward/internal/domain/model/project"
)

// Workspace is the aggregate root for one workspace directory.
// All mutating methods serialize on an internal mutex so concurrent
// registrations observe each other; the progress flags are monotonic and
// only ever move forward along the setup pipeline.
type Workspace struct {
	mu sync.Mutex

	initialSetupComplete bool
	westUpdated          bool
	pythonEnvSetup       bool
	packagesInstalled    bool

	projects     map[string]*project.Project
	buildConfigs map[string]*buildcfg.BuildConfig

	activeProject string
	activeBuild   string
}

// NewWorkspace creates an empty workspace in the uninitialized stage
func NewWorkspace() *Workspace {
	return &Workspace{
		projects:     make(map[string]*project.Project),
		buildConfigs: make(map[string]*buildcfg.BuildConfig),
	}
}

// Snapshot is the persistence-facing view of a workspace, captured under a
// single lock acquisition so saves never observe a half-applied mutation.
type Snapshot struct {
	InitialSetupComplete bool
	WestUpdated          bool
	PythonEnvSetup       bool
	PackagesInstalled    bool
	Projects             []ProjectSnapshot
	BuildConfigs         []BuildConfigSnapshot
	ActiveProject        string
	ActiveBuild          string
}

// ProjectSnapshot mirrors project.Project for persistence
type ProjectSnapshot struct {
	ID         string
	SourcePath string
	Template   string
	CreatedAt  time.Time
}

// BuildConfigSnapshot mirrors buildcfg.BuildConfig for persistence
type BuildConfigSnapshot struct {
	ID        string
	ProjectID string
	Board     string
	Profile   string
	CreatedAt time.Time
}

// ReconstructWorkspace restores a workspace from a persisted snapshot.
// The snapshot is validated in full before any of it is accepted: dangling
// references and incoherent flag combinations mean the state file can no
// longer be trusted, so loading fails with ErrCorruptState instead of
// silently repairing.
func ReconstructWorkspace(s Snapshot) (*Workspace, error) {
	if s.WestUpdated && !s.InitialSetupComplete {
		return nil, corrupt("westUpdated is set but initial setup never completed")
	}
	if s.PythonEnvSetup && !s.WestUpdated {
		return nil, corrupt("pythonEnvSetup is set but dependencies were never synced")
	}
	if s.PackagesInstalled && !s.PythonEnvSetup {
		return nil, corrupt("packagesInstalled is set but the environment was never created")
	}

	ws := NewWorkspace()
	ws.initialSetupComplete = s.InitialSetupComplete
	ws.westUpdated = s.WestUpdated
	ws.pythonEnvSetup = s.PythonEnvSetup
	ws.packagesInstalled = s.PackagesInstalled

	for _, p := range s.Projects {
		if _, exists := ws.projects[p.ID]; exists {
			return nil, corrupt("duplicate project entry: " + p.ID)
		}
		ws.projects[p.ID] = project.ReconstructProject(p.ID, p.SourcePath, p.Template, p.CreatedAt)
	}
	for _, c := range s.BuildConfigs {
		if _, exists := ws.buildConfigs[c.ID]; exists {
			return nil, corrupt("duplicate build configuration entry: " + c.ID)
		}
		if _, exists := ws.projects[c.ProjectID]; !exists {
			return nil, corrupt("build configuration " + c.ID + " references unknown project " + c.ProjectID)
		}
		profile := buildcfg.Profile(c.Profile)
		if !profile.IsValid() {
			return nil, corrupt("build configuration " + c.ID + " has unknown profile " + c.Profile)
		}
		ws.buildConfigs[c.ID] = buildcfg.ReconstructBuildConfig(c.ID, c.ProjectID, c.Board, profile, c.CreatedAt)
	}

	if s.ActiveProject != "" {
		if _, exists := ws.projects[s.ActiveProject]; !exists {
			return nil, corrupt("active project " + s.ActiveProject + " is not registered")
		}
		ws.activeProject = s.ActiveProject
	}
	if s.ActiveBuild != "" {
		if _, exists := ws.buildConfigs[s.ActiveBuild]; !exists {
			return nil, corrupt("active build configuration " + s.ActiveBuild + " is not registered")
		}
		ws.activeBuild = s.ActiveBuild
	}
	return ws, nil
}

func corrupt(detail string) error {
	return model.ErrCorruptState.WithDetails(map[string]interface{}{"detail": detail})
}

// Snapshot captures the full workspace state under one lock acquisition
func (w *Workspace) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := Snapshot{
		InitialSetupComplete: w.initialSetupComplete,
		WestUpdated:          w.westUpdated,
		PythonEnvSetup:       w.pythonEnvSetup,
		PackagesInstalled:    w.packagesInstalled,
		ActiveProject:        w.activeProject,
		ActiveBuild:          w.activeBuild,
	}
	for _, id := range w.projectIDsLocked() {
		p := w.projects[id]
		s.Projects = append(s.Projects, ProjectSnapshot{
			ID:         p.ID(),
			SourcePath: p.SourcePath(),
			Template:   p.Template(),
			CreatedAt:  p.CreatedAt(),
		})
	}
	for _, id := range w.buildConfigIDsLocked() {
		c := w.buildConfigs[id]
		s.BuildConfigs = append(s.BuildConfigs, BuildConfigSnapshot{
			ID:        c.ID(),
			ProjectID: c.ProjectID(),
			Board:     c.Board(),
			Profile:   c.Profile().String(),
			CreatedAt: c.CreatedAt(),
		})
	}
	return s
}

// Stage derives the setup pipeline position from the progress flags
func (w *Workspace) Stage() model.SetupStage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stageLocked()
}

func (w *Workspace) stageLocked() model.SetupStage {
	switch {
	case w.packagesInstalled:
		return model.StagePackagesReady
	case w.pythonEnvSetup:
		return model.StageEnvironmentReady
	case w.westUpdated:
		return model.StageDependenciesSynced
	case w.initialSetupComplete:
		return model.StageManifestCreated
	default:
		return model.StageUninitialized
	}
}

// EnsureReady fails with ErrPreconditionNotMet unless the workspace has
// reached the given stage
func (w *Workspace) EnsureReady(stage model.SetupStage) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	current := w.stageLocked()
	if !current.AtLeast(stage) {
		return model.ErrPreconditionNotMet.WithDetails(map[string]interface{}{
			"required": stage.String(),
			"current":  current.String(),
		})
	}
	return nil
}

// MarkInitialSetupComplete records that a valid manifest exists.
// Marking an already-set flag is a no-op; flags never move backwards.
func (w *Workspace) MarkInitialSetupComplete() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.initialSetupComplete = true
}

// MarkWestUpdated records a completed dependency sync
func (w *Workspace) MarkWestUpdated() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.initialSetupComplete {
		return stageViolation(model.StageManifestCreated, w.stageLocked())
	}
	w.westUpdated = true
	return nil
}

// MarkPythonEnvSetup records a completed Python environment creation
func (w *Workspace) MarkPythonEnvSetup() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.westUpdated {
		return stageViolation(model.StageDependenciesSynced, w.stageLocked())
	}
	w.pythonEnvSetup = true
	return nil
}

// MarkPackagesInstalled records a completed package installation
func (w *Workspace) MarkPackagesInstalled() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.pythonEnvSetup {
		return stageViolation(model.StageEnvironmentReady, w.stageLocked())
	}
	w.packagesInstalled = true
	return nil
}

func stageViolation(required, current model.SetupStage) error {
	return model.ErrPreconditionNotMet.WithDetails(map[string]interface{}{
		"required": required.String(),
		"current":  current.String(),
	})
}

// Flag getters

func (w *Workspace) InitialSetupComplete() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.initialSetupComplete
}

func (w *Workspace) WestUpdated() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.westUpdated
}

func (w *Workspace) PythonEnvSetup() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pythonEnvSetup
}

func (w *Workspace) PackagesInstalled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.packagesInstalled
}

// RegisterProject adds a project under a workspace-unique name
func (w *Workspace) RegisterProject(p *project.Project) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.projects[p.ID()]; exists {
		return model.ErrDuplicateIdentifier.WithDetails(map[string]interface{}{
			"kind": "project",
			"name": p.ID(),
		})
	}
	w.projects[p.ID()] = p
	return nil
}

// RegisterBuildConfig adds a build configuration under a workspace-unique name.
// The referenced project must already be registered.
func (w *Workspace) RegisterBuildConfig(c *buildcfg.BuildConfig) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.projects[c.ProjectID()]; !exists {
		return model.ErrUnknownProject.WithDetails(map[string]interface{}{
			"name": c.ProjectID(),
		})
	}
	if _, exists := w.buildConfigs[c.ID()]; exists {
		return model.ErrDuplicateIdentifier.WithDetails(map[string]interface{}{
			"kind": "build configuration",
			"name": c.ID(),
		})
	}
	w.buildConfigs[c.ID()] = c
	return nil
}

// Project looks up a registered project
func (w *Workspace) Project(id string) (*project.Project, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	p, exists := w.projects[id]
	if !exists {
		return nil, model.ErrUnknownProject.WithDetails(map[string]interface{}{"name": id})
	}
	return p, nil
}

// BuildConfig looks up a registered build configuration
func (w *Workspace) BuildConfig(id string) (*buildcfg.BuildConfig, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, exists := w.buildConfigs[id]
	if !exists {
		return nil, model.ErrUnknownBuildConfig.WithDetails(map[string]interface{}{"name": id})
	}
	return c, nil
}

// Projects returns all registered projects ordered by name
func (w *Workspace) Projects() []*project.Project {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*project.Project, 0, len(w.projects))
	for _, id := range w.projectIDsLocked() {
		out = append(out, w.projects[id])
	}
	return out
}

// BuildConfigs returns all registered build configurations ordered by name
func (w *Workspace) BuildConfigs() []*buildcfg.BuildConfig {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*buildcfg.BuildConfig, 0, len(w.buildConfigs))
	for _, id := range w.buildConfigIDsLocked() {
		out = append(out, w.buildConfigs[id])
	}
	return out
}

func (w *Workspace) projectIDsLocked() []string {
	ids := make([]string, 0, len(w.projects))
	for id := range w.projects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (w *Workspace) buildConfigIDsLocked() []string {
	ids := make([]string, 0, len(w.buildConfigs))
	for id := range w.buildConfigs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SetActiveProject records the most recently used project.
// The reference is a convenience for command defaults, never authoritative.
func (w *Workspace) SetActiveProject(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.projects[id]; !exists {
		return model.ErrUnknownProject.WithDetails(map[string]interface{}{"name": id})
	}
	w.activeProject = id
	return nil
}

// SetActiveBuild records the most recently used build configuration
func (w *Workspace) SetActiveBuild(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.buildConfigs[id]; !exists {
		return model.ErrUnknownBuildConfig.WithDetails(map[string]interface{}{"name": id})
	}
	w.activeBuild = id
	return nil
}

// ActiveProject returns the most recently used project name, empty when unset
func (w *Workspace) ActiveProject() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.activeProject
}

// ActiveBuild returns the most recently used build configuration name, empty when unset
func (w *Workspace) ActiveBuild() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.activeBuild
}
