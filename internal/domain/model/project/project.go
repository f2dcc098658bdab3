// Package project defines the firmware application entity registered in a workspace.
package project

import (
	"fmt"
	"time"

	"github.com/westward-dev/westward/internal/pkg/ident"
)

// Project represents a firmware application living inside the workspace.
// A project is created from a template, cloned from a sample repository,
// or imported from an existing folder.
type Project struct {
	id         string
	sourcePath string
	template   string
	createdAt  time.Time
}

// NewProject creates a project with a validated identifier.
// sourcePath is the application folder relative to the workspace root.
// template records the scaffold origin and stays empty for imported folders.
func NewProject(id, sourcePath, template string) (*Project, error) {
	name, err := ident.NormalizeAndValidate(id)
	if err != nil {
		return nil, fmt.Errorf("invalid project name: %w", err)
	}
	if sourcePath == "" {
		return nil, fmt.Errorf("project source path must not be empty")
	}
	return &Project{
		id:         name,
		sourcePath: sourcePath,
		template:   template,
		createdAt:  time.Now(),
	}, nil
}

// ReconstructProject restores a project from persistence without validation
func ReconstructProject(id, sourcePath, template string, createdAt time.Time) *Project {
	return &Project{
		id:         id,
		sourcePath: sourcePath,
		template:   template,
		createdAt:  createdAt,
	}
}

// Getters

func (p *Project) ID() string           { return p.id }
func (p *Project) SourcePath() string   { return p.sourcePath }
func (p *Project) Template() string     { return p.template }
func (p *Project) CreatedAt() time.Time { return p.createdAt }

// Imported reports whether the project was registered from an existing
// folder rather than scaffolded from a template
func (p *Project) Imported() bool { return p.template == "" }
