package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

type StatusOutput struct {
	Ts            string `json:"ts"`
	Stage         string `json:"stage"`
	InitialSetup  bool   `json:"initial_setup_complete"`
	WestUpdated   bool   `json:"west_updated"`
	PythonEnv     bool   `json:"python_env_setup"`
	Packages      bool   `json:"packages_installed"`
	Projects      int    `json:"projects"`
	BuildConfigs  int    `json:"build_configs"`
	ActiveProject string `json:"active_project,omitempty"`
	ActiveBuild   string `json:"active_build,omitempty"`
	Ok            bool   `json:"ok"`
	Error         string `json:"error,omitempty"`
}

func newStatusCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show workspace setup progress and registered entities",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := newContainer()
			if err != nil {
				return err
			}
			defer container.Close()

			ws, err := container.WorkspaceRepository().Load(cmd.Context())
			if err != nil {
				if jsonOutput {
					b, _ := json.Marshal(StatusOutput{
						Ts:    time.Now().Format(time.RFC3339Nano),
						Stage: "unknown",
						Error: fmt.Sprintf("read state: %v", err),
					})
					fmt.Println(string(b))
				}
				return fmt.Errorf("read state: %w", err)
			}

			out := StatusOutput{
				Ts:            time.Now().Format(time.RFC3339Nano),
				Stage:         ws.Stage().String(),
				InitialSetup:  ws.InitialSetupComplete(),
				WestUpdated:   ws.WestUpdated(),
				PythonEnv:     ws.PythonEnvSetup(),
				Packages:      ws.PackagesInstalled(),
				Projects:      len(ws.Projects()),
				BuildConfigs:  len(ws.BuildConfigs()),
				ActiveProject: ws.ActiveProject(),
				ActiveBuild:   ws.ActiveBuild(),
				Ok:            true,
			}

			if jsonOutput {
				b, err := json.Marshal(out)
				if err != nil {
					return fmt.Errorf("marshal json: %w", err)
				}
				fmt.Println(string(b))
				return nil
			}

			fmt.Printf("Stage          : %s\n", out.Stage)
			fmt.Printf("Manifest       : %s\n", progress(out.InitialSetup))
			fmt.Printf("Dependencies   : %s\n", progress(out.WestUpdated))
			fmt.Printf("Python env     : %s\n", progress(out.PythonEnv))
			fmt.Printf("Packages       : %s\n", progress(out.Packages))
			fmt.Printf("Projects       : %d\n", out.Projects)
			fmt.Printf("Build configs  : %d\n", out.BuildConfigs)
			if out.ActiveProject != "" {
				fmt.Printf("Active project : %s\n", out.ActiveProject)
			}
			if out.ActiveBuild != "" {
				fmt.Printf("Active build   : %s\n", out.ActiveBuild)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output status in JSON format")
	return cmd
}

func progress(done bool) string {
	if done {
		return "done"
	}
	return "pending"
}
