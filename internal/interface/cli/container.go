package cli

import (
	"fmt"
	"os"

	"github.com/westward-dev/westward/internal/app/config"
	infraConfig "github.com/westward-dev/westward/internal/infra/config"
	"github.com/westward-dev/westward/internal/infrastructure/di"
)

// activeConfig returns the configuration loaded by the root command,
// falling back to defaults when a command runs outside the root (tests)
func activeConfig() config.Config {
	if globalConfig == nil {
		cfg, err := infraConfig.LoadSettings(".westward")
		if err != nil {
			Warn("failed to load settings, using defaults: %v", err)
			cfg = infraConfig.Defaults()
		}
		globalConfig = cfg
	}
	return globalConfig
}

// newContainer wires the dependency container for one command invocation,
// rooted at the current working directory
func newContainer() (*di.Container, error) {
	root, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}
	return di.NewContainer(di.Config{Root: root, App: activeConfig()})
}
