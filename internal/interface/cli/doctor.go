package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check required tools and workspace state",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := newContainer()
			if err != nil {
				return err
			}
			defer container.Close()

			out, err := container.DoctorUseCase().Execute(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput {
				b, err := json.Marshal(out)
				if err != nil {
					return fmt.Errorf("marshal json: %w", err)
				}
				fmt.Println(string(b))
			} else {
				for _, check := range out.Checks {
					if check.OK {
						fmt.Printf("OK: %s (%s) %s\n", check.Name, check.Path, check.Version)
					} else {
						fmt.Printf("WARN: %s %s\n", check.Name, check.Detail)
					}
				}
				if out.StateOK {
					fmt.Printf("OK: workspace state readable, stage %s\n", out.Stage)
				} else {
					fmt.Println("ERROR: workspace state unreadable")
				}
			}

			if !out.Healthy {
				return fmt.Errorf("environment check failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}
