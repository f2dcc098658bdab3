// Package templates serves project scaffolds from two sources: templates
// compiled into the binary and sample repositories fetched over git.
package templates

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"

	appconfig "github.com/westward-dev/westward/internal/app/config"
	"github.com/westward-dev/westward/internal/application/port/output"
	"github.com/westward-dev/westward/internal/embed"
)

// Store implements output.TemplateStore
type Store struct {
	samples []appconfig.SampleTemplate
}

// NewStore creates a template store over the embedded catalog plus the
// sample repositories registered in settings
func NewStore(samples []appconfig.SampleTemplate) *Store {
	return &Store{samples: samples}
}

// List returns builtin templates followed by configured sample repositories
func (s *Store) List(ctx context.Context) ([]output.TemplateInfo, error) {
	builtin, err := embed.ListProjects()
	if err != nil {
		return nil, err
	}

	infos := make([]output.TemplateInfo, 0, len(builtin)+len(s.samples))
	for _, entry := range builtin {
		infos = append(infos, output.TemplateInfo{
			ID:          entry.ID,
			Description: entry.Description,
			Source:      output.TemplateSourceBuiltin,
		})
	}
	for _, sample := range s.samples {
		if s.isBuiltin(builtin, sample.ID) {
			continue
		}
		infos = append(infos, output.TemplateInfo{
			ID:          sample.ID,
			Description: sample.Description,
			Source:      output.TemplateSourceGit,
			Origin:      sample.URL,
		})
	}
	return infos, nil
}

// Deploy materializes templateID into destDir and returns the file count
func (s *Store) Deploy(ctx context.Context, templateID, destDir string) (int, error) {
	if err := ensureEmptyDir(destDir); err != nil {
		return 0, err
	}

	builtin, err := embed.ListProjects()
	if err != nil {
		return 0, err
	}
	if s.isBuiltin(builtin, templateID) {
		return deployBuiltin(templateID, destDir)
	}

	for _, sample := range s.samples {
		if sample.ID == templateID {
			return deployGit(ctx, sample.URL, destDir)
		}
	}
	return 0, fmt.Errorf("unknown template %q", templateID)
}

func (s *Store) isBuiltin(builtin []embed.CatalogEntry, id string) bool {
	for _, entry := range builtin {
		if entry.ID == id {
			return true
		}
	}
	return false
}

func deployBuiltin(templateID, destDir string) (int, error) {
	files, err := embed.ProjectFiles(templateID, filepath.Base(destDir))
	if err != nil {
		return 0, err
	}

	for _, tmpl := range files {
		if _, err := embed.WriteTemplate(destDir, tmpl, false); err != nil {
			return 0, err
		}
	}
	return len(files), nil
}

// deployGit clones the sample repository and strips its git metadata so the
// result is a plain project folder
func deployGit(ctx context.Context, url, destDir string) (int, error) {
	_, err := git.PlainCloneContext(ctx, destDir, false, &git.CloneOptions{
		URL:          url,
		Depth:        1,
		SingleBranch: true,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to fetch sample %s: %w", url, err)
	}

	if err := os.RemoveAll(filepath.Join(destDir, ".git")); err != nil {
		return 0, err
	}
	return countFiles(destDir)
}

func countFiles(dir string) (int, error) {
	count := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func ensureEmptyDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return fmt.Errorf("destination %s is not empty", dir)
	}
	return nil
}
