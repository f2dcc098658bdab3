package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build [name]",
		Short: "Run a registered build configuration",
		Long: `Invokes the workspace build tool for the named build configuration.
Without an argument the workspace's active build configuration is used.
The workspace must be fully set up first (run: westward setup).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := newContainer()
			if err != nil {
				return err
			}
			defer container.Close()

			buildID := ""
			if len(args) == 1 {
				buildID = args[0]
			} else {
				ws, err := container.WorkspaceRepository().Load(cmd.Context())
				if err != nil {
					return err
				}
				buildID = ws.ActiveBuild()
				if buildID == "" {
					return fmt.Errorf("no build configuration selected; pass a name or run: westward config add")
				}
			}

			out, err := container.RunBuildUseCase().Execute(cmd.Context(), buildID)
			if err != nil {
				return err
			}

			if !out.Success {
				if out.Diagnosis != "" {
					fmt.Fprintln(cmd.ErrOrStderr(), out.Diagnosis)
				}
				return fmt.Errorf("build %s failed (exit %d)", out.ID, out.ExitCode)
			}

			fmt.Printf("Build %s for %s succeeded in %s.\n", out.ID, out.Board, formatElapsed(out.ElapsedMs))
			fmt.Printf("Artifacts: %s\n", out.BuildDir)
			return nil
		},
	}
}
