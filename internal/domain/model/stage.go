package model

// SetupStage represents how far the workspace bootstrap has progressed.
// Stages form a strict linear chain and only ever move forward.
type SetupStage string

const (
	StageUninitialized      SetupStage = "uninitialized"
	StageManifestCreated    SetupStage = "manifest_created"
	StageDependenciesSynced SetupStage = "dependencies_synced"
	StageEnvironmentReady   SetupStage = "environment_ready"
	StagePackagesReady      SetupStage = "packages_ready"
)

// stageOrder defines the linear progression of the bootstrap pipeline
var stageOrder = map[SetupStage]int{
	StageUninitialized:      0,
	StageManifestCreated:    1,
	StageDependenciesSynced: 2,
	StageEnvironmentReady:   3,
	StagePackagesReady:      4,
}

// IsValid checks if the stage value is valid
func (s SetupStage) IsValid() bool {
	_, ok := stageOrder[s]
	return ok
}

// Rank returns the position of the stage in the pipeline, -1 for unknown values
func (s SetupStage) Rank() int {
	r, ok := stageOrder[s]
	if !ok {
		return -1
	}
	return r
}

// Next returns the stage that follows s, false when s is terminal or unknown
func (s SetupStage) Next() (SetupStage, bool) {
	switch s {
	case StageUninitialized:
		return StageManifestCreated, true
	case StageManifestCreated:
		return StageDependenciesSynced, true
	case StageDependenciesSynced:
		return StageEnvironmentReady, true
	case StageEnvironmentReady:
		return StagePackagesReady, true
	default:
		return s, false
	}
}

// CanAdvanceTo checks whether next is the immediate successor of s.
// Skipping stages and moving backwards are both rejected.
func (s SetupStage) CanAdvanceTo(next SetupStage) bool {
	n, ok := s.Next()
	return ok && n == next
}

// AtLeast reports whether s has reached or passed the given stage
func (s SetupStage) AtLeast(other SetupStage) bool {
	sr, or := s.Rank(), other.Rank()
	return sr >= 0 && or >= 0 && sr >= or
}

// String returns the string representation of the stage
func (s SetupStage) String() string {
	return string(s)
}
