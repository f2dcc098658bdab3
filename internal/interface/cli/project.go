package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/westward-dev/westward/internal/application/dto"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage firmware application projects",
		RunE:  func(c *cobra.Command, _ []string) error { return c.Help() },
	}
	cmd.AddCommand(newProjectCreateCmd())
	cmd.AddCommand(newProjectAddCmd())
	cmd.AddCommand(newProjectListCmd())
	return cmd
}

func newProjectCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Scaffold a new project from a template",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := newContainer()
			if err != nil {
				return err
			}
			defer container.Close()

			out, err := container.CreateProjectUseCase().Execute(cmd.Context())
			if err != nil {
				return reportCancellable(err)
			}

			fmt.Printf("Created project %s from template %s (%d files) in %s.\n",
				out.ID, out.Template, out.Files, out.SourcePath)
			return nil
		},
	}
}

func newProjectAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add",
		Short: "Register an existing application folder as a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := newContainer()
			if err != nil {
				return err
			}
			defer container.Close()

			out, err := container.AddExistingUseCase().Execute(cmd.Context())
			if err != nil {
				return reportCancellable(err)
			}

			fmt.Printf("Registered project %s from %s.\n", out.ID, out.SourcePath)
			return nil
		},
	}
}

func newProjectListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered projects",
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

			items := make([]dto.ProjectListItem, 0)
			for _, p := range ws.Projects() {
				items = append(items, dto.ProjectListItem{
					ID:         p.ID(),
					SourcePath: p.SourcePath(),
					Template:   p.Template(),
					Active:     p.ID() == ws.ActiveProject(),
					CreatedAt:  p.CreatedAt().UTC().Format(time.RFC3339),
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
				fmt.Println("No projects registered. Run: westward project create")
				return nil
			}
			for _, item := range items {
				marker := " "
				if item.Active {
					marker = "*"
				}
				origin := item.Template
				if origin == "" {
					origin = "imported"
				}
				fmt.Printf("%s %-20s %-12s %s\n", marker, item.ID, origin, item.SourcePath)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}
