package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/westward-dev/westward/internal/testutil"
)

// captureStdout runs fn with os.Stdout redirected and returns what it printed
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w

	output := make(chan string)
	go func() {
		buf := new(bytes.Buffer)
		io.Copy(buf, r)
		output <- buf.String()
	}()

	fn()

	w.Close()
	os.Stdout = oldStdout
	return <-output
}

func TestNewRoot_RegistersCommands(t *testing.T) {
	root := NewRoot()

	if root.Use != "westward" {
		t.Errorf("Expected Use to be 'westward', got %s", root.Use)
	}

	expected := []string{"setup", "doctor", "sdk", "project", "config", "build", "status", "history", "version"}
	for _, name := range expected {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected subcommand %q to be registered", name)
		}
	}
}

func TestSetupCmdFlags(t *testing.T) {
	cmd := newSetupCmd()

	if cmd.Flags().Lookup("manifest-url") == nil {
		t.Error("Expected --manifest-url flag to be registered")
	}
	if cmd.Flags().Lookup("remote") == nil {
		t.Error("Expected --remote flag to be registered")
	}
}

func TestJSONFlagRegistered(t *testing.T) {
	for _, cmd := range []struct {
		name   string
		lookup func() bool
	}{
		{"doctor", func() bool { return newDoctorCmd().Flags().Lookup("json") != nil }},
		{"status", func() bool { return newStatusCmd().Flags().Lookup("json") != nil }},
		{"history", func() bool { return newHistoryCmd().Flags().Lookup("json") != nil }},
		{"project list", func() bool { return newProjectListCmd().Flags().Lookup("json") != nil }},
		{"config list", func() bool { return newConfigListCmd().Flags().Lookup("json") != nil }},
	} {
		if !cmd.lookup() {
			t.Errorf("Expected %s to register a --json flag", cmd.name)
		}
	}
}

func TestStatusCmd_FreshWorkspaceJSON(t *testing.T) {
	cleanup := testutil.NewTestWorkspace(t)
	defer cleanup()

	root := NewRoot()
	root.SetArgs([]string{"status", "--json"})

	var execErr error
	out := captureStdout(t, func() {
		execErr = root.Execute()
	})
	if execErr != nil {
		t.Fatalf("status failed: %v", execErr)
	}

	var status StatusOutput
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &status); err != nil {
		t.Fatalf("status --json emitted invalid JSON: %v\noutput: %s", err, out)
	}
	if status.Stage != "uninitialized" {
		t.Errorf("Expected stage uninitialized, got %s", status.Stage)
	}
	if !status.Ok {
		t.Error("Expected ok=true for a fresh workspace")
	}
	if status.Projects != 0 || status.BuildConfigs != 0 {
		t.Errorf("Expected empty registries, got %d projects, %d configs", status.Projects, status.BuildConfigs)
	}
}

func TestStatusCmd_TextOutput(t *testing.T) {
	cleanup := testutil.NewTestWorkspace(t)
	defer cleanup()

	root := NewRoot()
	root.SetArgs([]string{"status"})

	var execErr error
	out := captureStdout(t, func() {
		execErr = root.Execute()
	})
	if execErr != nil {
		t.Fatalf("status failed: %v", execErr)
	}

	if !strings.Contains(out, "uninitialized") {
		t.Errorf("Expected stage in text output, got:\n%s", out)
	}
	if !strings.Contains(out, "pending") {
		t.Errorf("Expected pending markers for incomplete stages, got:\n%s", out)
	}
}

func TestHistoryCmd_EmptyJournal(t *testing.T) {
	cleanup := testutil.NewTestWorkspace(t)
	defer cleanup()

	root := NewRoot()
	root.SetArgs([]string{"history"})

	var execErr error
	out := captureStdout(t, func() {
		execErr = root.Execute()
	})
	if execErr != nil {
		t.Fatalf("history failed: %v", execErr)
	}
	if !strings.Contains(out, "No recorded operations.") {
		t.Errorf("Expected empty-journal message, got:\n%s", out)
	}
}

func TestHistoryCmd_EmptyJournalJSON(t *testing.T) {
	cleanup := testutil.NewTestWorkspace(t)
	defer cleanup()

	root := NewRoot()
	root.SetArgs([]string{"history", "--json"})

	var execErr error
	out := captureStdout(t, func() {
		execErr = root.Execute()
	})
	if execErr != nil {
		t.Fatalf("history failed: %v", execErr)
	}

	var records []historyRecord
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &records); err != nil {
		t.Fatalf("history --json emitted invalid JSON: %v\noutput: %s", err, out)
	}
	if len(records) != 0 {
		t.Errorf("Expected no records, got %d", len(records))
	}
}

func TestProjectListCmd_Empty(t *testing.T) {
	cleanup := testutil.NewTestWorkspace(t)
	defer cleanup()

	root := NewRoot()
	root.SetArgs([]string{"project", "list"})

	var execErr error
	out := captureStdout(t, func() {
		execErr = root.Execute()
	})
	if execErr != nil {
		t.Fatalf("project list failed: %v", execErr)
	}
	if !strings.Contains(out, "No projects registered") {
		t.Errorf("Expected empty-list message, got:\n%s", out)
	}
}

func TestConfigListCmd_Empty(t *testing.T) {
	cleanup := testutil.NewTestWorkspace(t)
	defer cleanup()

	root := NewRoot()
	root.SetArgs([]string{"config", "list"})

	var execErr error
	out := captureStdout(t, func() {
		execErr = root.Execute()
	})
	if execErr != nil {
		t.Fatalf("config list failed: %v", execErr)
	}
	if !strings.Contains(out, "No build configurations") {
		t.Errorf("Expected empty-list message, got:\n%s", out)
	}
}

func TestBuildCmd_NoSelection(t *testing.T) {
	cleanup := testutil.NewTestWorkspace(t)
	defer cleanup()

	root := NewRoot()
	root.SetArgs([]string{"build"})
	root.SetErr(io.Discard)
	root.SetOut(io.Discard)

	err := root.Execute()
	if err == nil {
		t.Fatal("Expected error when no build configuration is selected")
	}
	if !strings.Contains(err.Error(), "no build configuration selected") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestConfigAddCmd_NoProjectSelected(t *testing.T) {
	cleanup := testutil.NewTestWorkspace(t)
	defer cleanup()

	root := NewRoot()
	root.SetArgs([]string{"config", "add"})
	root.SetErr(io.Discard)
	root.SetOut(io.Discard)

	err := root.Execute()
	if err == nil {
		t.Fatal("Expected error when no project is selected")
	}
	if !strings.Contains(err.Error(), "no project selected") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestVersionCmd_Output(t *testing.T) {
	root := NewRoot()
	root.SetArgs([]string{"version"})

	var execErr error
	out := captureStdout(t, func() {
		execErr = root.Execute()
	})
	if execErr != nil {
		t.Fatalf("version failed: %v", execErr)
	}
	if !strings.Contains(out, "westward version") {
		t.Errorf("Expected version banner, got:\n%s", out)
	}
	if !strings.Contains(out, "OS/Arch") {
		t.Errorf("Expected runtime details, got:\n%s", out)
	}
}

func TestEnsureWorkspaceHome(t *testing.T) {
	cleanup := testutil.NewTestWorkspace(t)
	defer cleanup()

	if err := ensureWorkspaceHome(); err != nil {
		t.Fatalf("ensureWorkspaceHome failed: %v", err)
	}

	settingsPath := filepath.Join(".westward", "settings.json")
	testutil.AssertFileExists(t, settingsPath)
	testutil.AssertFileExists(t, filepath.Join(".westward", "var"))

	// A second run must not overwrite user edits
	if err := os.WriteFile(settingsPath, []byte(`{"west_bin": "west2"}`), 0644); err != nil {
		t.Fatalf("Failed to edit settings: %v", err)
	}
	if err := ensureWorkspaceHome(); err != nil {
		t.Fatalf("ensureWorkspaceHome second run failed: %v", err)
	}
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		t.Fatalf("Failed to read settings: %v", err)
	}
	if !strings.Contains(string(data), "west2") {
		t.Error("Expected existing settings.json to survive a second run")
	}
}

func TestFormatElapsed(t *testing.T) {
	cases := []struct {
		ms   int64
		want string
	}{
		{0, "0s"},
		{250, "250ms"},
		{1500, "1.5s"},
		{90000, "1m30s"},
	}
	for _, tc := range cases {
		if got := formatElapsed(tc.ms); got != tc.want {
			t.Errorf("formatElapsed(%d) = %s, want %s", tc.ms, got, tc.want)
		}
	}
}
