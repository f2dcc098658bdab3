package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/westward-dev/westward/internal/application/dto"
	infraConfig "github.com/westward-dev/westward/internal/infra/config"
	"github.com/westward-dev/westward/internal/util"
)

func newSetupCmd() *cobra.Command {
	var manifestURL string
	var remote bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Bootstrap the workspace: manifest, dependencies, Python environment, packages",
		Long: `Runs the staged workspace setup pipeline. Completed stages are recorded
in the workspace state and skipped on later runs, so setup is safe to
re-invoke after a failure; it resumes at the first incomplete stage.

Without flags the manifest is scaffolded locally from an embedded template.
With --manifest-url (or --remote, which prompts for the URL) the workspace
is initialized from a remote manifest repository instead.`,
		RunE: func(c *cobra.Command, _ []string) error {
			if err := ensureWorkspaceHome(); err != nil {
				return err
			}

			container, err := newContainer()
			if err != nil {
				return err
			}
			defer container.Close()

			uc := container.SetupUseCase()
			ctx := c.Context()

			var out *dto.SetupOutput
			if remote || manifestURL != "" {
				out, err = uc.RunFromManifest(ctx, manifestURL)
			} else {
				out, err = uc.RunStandard(ctx)
			}
			if err != nil {
				return reportCancellable(err)
			}

			if len(out.StagesRun) == 0 {
				fmt.Println("Workspace already set up, nothing to do.")
			} else {
				fmt.Printf("Completed %s in %s.\n", strings.Join(out.StagesRun, ", "), formatElapsed(out.ElapsedMs))
			}
			fmt.Printf("Stage: %s\n", out.Stage)
			return nil
		},
	}

	cmd.Flags().StringVar(&manifestURL, "manifest-url", "", "Initialize from this remote manifest repository")
	cmd.Flags().BoolVar(&remote, "remote", false, "Initialize from a remote manifest, prompting for the URL")
	return cmd
}

// ensureWorkspaceHome scaffolds the workspace metadata directory and a
// commented default settings.json. Existing files are never overwritten.
func ensureWorkspaceHome() error {
	home := activeConfig().Home()
	if err := os.MkdirAll(filepath.Join(home, "var"), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", home, err)
	}

	settingsPath := filepath.Join(home, "settings.json")
	if _, err := os.Stat(settingsPath); err == nil {
		return nil
	}
	if err := util.WriteFileAtomic(settingsPath, infraConfig.CreateDefaultSettings(), 0644); err != nil {
		return fmt.Errorf("failed to write default settings: %w", err)
	}
	Info("wrote %s", settingsPath)
	return nil
}
