package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// NewTestWorkspace creates a temporary workspace for testing
// It creates a temp directory, changes to it, and sets up the basic .westward structure
// Returns a cleanup function that should be called via t.Cleanup()
func NewTestWorkspace(t *testing.T) func() {
	t.Helper()

	// Save current working directory
	originalCwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get current directory: %v", err)
	}

	// Create temp directory
	tmpDir := t.TempDir()

	// Change to temp directory
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}

	// Create basic .westward structure
	dirs := []string{
		".westward",
		".westward/build",
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			// Restore working directory before failing
			os.Chdir(originalCwd)
			t.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}

	// Return cleanup function
	return func() {
		// Restore original working directory
		if err := os.Chdir(originalCwd); err != nil {
			t.Errorf("Failed to restore working directory: %v", err)
		}
	}
}

// WriteStateFile creates a workspace state file in the workspace
func WriteStateFile(t *testing.T, content string) string {
	t.Helper()

	statePath := filepath.Join(".westward", "workspace.yaml")

	if err := os.WriteFile(statePath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write state file: %v", err)
	}

	return statePath
}

// WriteProjectDescriptors creates the files that make a folder a buildable
// application: CMakeLists.txt, prj.conf and a minimal source tree
func WriteProjectDescriptors(t *testing.T, dir string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Join(dir, "src"), 0755); err != nil {
		t.Fatalf("Failed to create project directory %s: %v", dir, err)
	}

	files := map[string]string{
		"CMakeLists.txt": "cmake_minimum_required(VERSION 3.20.0)\n",
		"prj.conf":       "# test configuration\n",
		"src/main.c":     "int main(void) { return 0; }\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
}

// WriteBoardMetadata creates a board.yml under root/<name> declaring a
// single board
func WriteBoardMetadata(t *testing.T, root, name, vendor string) {
	t.Helper()

	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create board directory %s: %v", dir, err)
	}

	content := "board:\n  name: " + name + "\n  vendor: " + vendor + "\n"
	if err := os.WriteFile(filepath.Join(dir, "board.yml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write board metadata for %s: %v", name, err)
	}
}

// CheckNoAbsolutePaths checks if the given path is absolute and fails if it is
func CheckNoAbsolutePaths(t *testing.T, path string) {
	t.Helper()

	if filepath.IsAbs(path) {
		t.Fatalf("Absolute path detected (not allowed in tests): %s", path)
	}
}

// AssertFileNotExists verifies that a file does not exist
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	CheckNoAbsolutePaths(t, path)

	if _, err := os.Stat(path); err == nil {
		t.Errorf("File should not exist but does: %s", path)
	}
}

// AssertFileExists verifies that a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	CheckNoAbsolutePaths(t, path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File should exist but doesn't: %s", path)
	}
}
