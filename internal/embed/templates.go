// Package embed ships the scaffold data built into the binary: west manifest
// templates used by initial setup and project templates used by the scaffolder.
package embed

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed templates/manifests/* templates/projects/*
var templatesFS embed.FS

const (
	manifestDir = "templates/manifests"
	projectDir  = "templates/projects"
	tmplSuffix  = ".tmpl"
)

var manifestDescriptions = map[string]string{
	"minimal":  "Zephyr core plus a single HAL module",
	"complete": "Full upstream manifest with every module",
}

var projectDescriptions = map[string]string{
	"minimal": "Bare application that prints the boot banner",
	"blinky":  "Toggles the led0 devicetree alias once a second",
}

// Template represents one file to be written during scaffolding
type Template struct {
	Path    string
	Content []byte
	Mode    os.FileMode
}

// CatalogEntry names one embedded template
type CatalogEntry struct {
	ID          string
	Description string
}

// ListManifests returns the embedded manifest templates in display order
func ListManifests() ([]CatalogEntry, error) {
	return listCatalog(manifestDir, ".yml"+tmplSuffix, manifestDescriptions)
}

// ListProjects returns the embedded project templates in display order
func ListProjects() ([]CatalogEntry, error) {
	entries, err := templatesFS.ReadDir(projectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded templates: %w", err)
	}

	catalog := make([]CatalogEntry, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		catalog = append(catalog, CatalogEntry{ID: e.Name(), Description: projectDescriptions[e.Name()]})
	}
	sort.Slice(catalog, func(i, j int) bool { return catalog[i].ID < catalog[j].ID })
	return catalog, nil
}

func listCatalog(dir, suffix string, descriptions map[string]string) ([]CatalogEntry, error) {
	entries, err := templatesFS.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded templates: %w", err)
	}

	catalog := make([]CatalogEntry, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		id := strings.TrimSuffix(e.Name(), suffix)
		catalog = append(catalog, CatalogEntry{ID: id, Description: descriptions[id]})
	}
	sort.Slice(catalog, func(i, j int) bool { return catalog[i].ID < catalog[j].ID })
	return catalog, nil
}

// RenderManifest produces the west manifest for the chosen template,
// substituting the hardware family into templates that declare one
func RenderManifest(templateID, family string) ([]byte, error) {
	path := manifestDir + "/" + templateID + ".yml" + tmplSuffix
	content, err := templatesFS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unknown manifest template %q", templateID)
	}

	text := string(content)
	if strings.Contains(text, "%s") {
		text = fmt.Sprintf(text, family)
	}
	return []byte(text), nil
}

// ProjectFiles returns the files of a project template with the project name
// substituted into its build descriptor
func ProjectFiles(templateID, projectName string) ([]Template, error) {
	root := projectDir + "/" + templateID
	if _, err := templatesFS.ReadDir(root); err != nil {
		return nil, fmt.Errorf("unknown project template %q", templateID)
	}

	var templates []Template
	err := fs.WalkDir(templatesFS, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		content, err := templatesFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		destPath := strings.TrimPrefix(path, root+"/")
		destPath = strings.TrimSuffix(destPath, tmplSuffix)

		// Only the build descriptor carries the project name.
		if destPath == "CMakeLists.txt" {
			content = []byte(fmt.Sprintf(string(content), projectName))
		}

		templates = append(templates, Template{
			Path:    destPath,
			Content: content,
			Mode:    0644,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// WriteTemplate writes one template file atomically under baseDir.
// Existing files are left untouched unless force is set.
func WriteTemplate(baseDir string, tmpl Template, force bool) (bool, error) {
	fullPath := filepath.Join(baseDir, tmpl.Path)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if !force {
		if _, err := os.Stat(fullPath); err == nil {
			return false, nil
		}
	}

	tmpFile := fullPath + ".tmp"
	if err := os.WriteFile(tmpFile, tmpl.Content, tmpl.Mode); err != nil {
		return false, fmt.Errorf("failed to write temp file %s: %w", tmpFile, err)
	}
	if err := os.Rename(tmpFile, fullPath); err != nil {
		os.Remove(tmpFile)
		return false, fmt.Errorf("failed to rename %s to %s: %w", tmpFile, fullPath, err)
	}
	return true, nil
}
