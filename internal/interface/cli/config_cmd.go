package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/westward-dev/westward/internal/application/dto"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage build configurations",
		RunE:  func(c *cobra.Command, _ []string) error { return c.Help() },
	}
	cmd.AddCommand(newConfigAddCmd())
	cmd.AddCommand(newConfigListCmd())
	return cmd
}

func newConfigAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [project]",
		Short: "Create a build configuration for a project",
		Long: `Creates a named build configuration binding a project to a board and an
optimization profile. Boards are discovered under the synced source trees
and any extra folders from settings.json; the selection list offers a
fallback to scan one more folder.

Without an argument the workspace's active project is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := newContainer()
			if err != nil {
				return err
			}
			defer container.Close()

			projectID := ""
			if len(args) == 1 {
				projectID = args[0]
			} else {
				ws, err := container.WorkspaceRepository().Load(cmd.Context())
				if err != nil {
					return err
				}
				projectID = ws.ActiveProject()
				if projectID == "" {
					return fmt.Errorf("no project selected; pass a project name or run: westward project create")
				}
			}

			out, err := container.AddBuildConfigUseCase().Execute(cmd.Context(), projectID)
			if err != nil {
				return reportCancellable(err)
			}

			fmt.Printf("Registered build configuration %s: %s on %s (%s).\n",
				out.ID, out.ProjectID, out.Board, out.Profile)
			return nil
		},
	}
}

func newConfigListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List build configurations",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := newContainer()
			if err != nil {
				return err
			}
			defer container.Close()

			ws, err := container.WorkspaceRepository().Load(cmd.Context())
			if err != nil {
				return err
			}

			items := make([]dto.BuildConfigListItem, 0)
			for _, bc := range ws.BuildConfigs() {
				items = append(items, dto.BuildConfigListItem{
					ID:        bc.ID(),
					ProjectID: bc.ProjectID(),
					Board:     bc.Board(),
					Profile:   bc.Profile().String(),
					Active:    bc.ID() == ws.ActiveBuild(),
					CreatedAt: bc.CreatedAt().UTC().Format(time.RFC3339),
				})
			}

			if jsonOutput {
				b, err := json.Marshal(items)
				if err != nil {
					return fmt.Errorf("marshal json: %w", err)
				}
				fmt.Println(string(b))
				return nil
			}

			if len(items) == 0 {
				fmt.Println("No build configurations. Run: westward config add")
				return nil
			}
			for _, item := range items {
				marker := " "
				if item.Active {
					marker = "*"
				}
				fmt.Printf("%s %-20s %-20s %-20s %s\n", marker, item.ID, item.ProjectID, item.Board, item.Profile)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}
