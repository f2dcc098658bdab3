package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/westward-dev/westward/internal/app/config"
	infraConfig "github.com/westward-dev/westward/internal/infra/config"
)

// globalConfig holds the loaded configuration for all commands
var globalConfig config.Config

func NewRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "westward",
		Short: "Firmware workspace bootstrap and build orchestrator",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load configuration before any command runs
			// Priority: settings.json > defaults
			baseDir := ".westward"
			if home := os.Getenv("WESTWARD_HOME"); home != "" {
				baseDir = home
			}

			cfg, err := infraConfig.LoadSettings(baseDir)
			if err != nil {
				return err
			}
			globalConfig = cfg
			InitGlobalLogger(cfg.StderrLevel())
			return nil
		},
		RunE: func(c *cobra.Command, _ []string) error { return c.Help() },
	}
	cmd.AddCommand(newSetupCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newSDKCmd())
	cmd.AddCommand(newProjectCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}
