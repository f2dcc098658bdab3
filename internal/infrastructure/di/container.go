// Package di wires the infrastructure, application and interface layers
// together for one command invocation.
package di

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/afero"

	appconfig "github.com/westward-dev/westward/internal/app/config"
	"github.com/westward-dev/westward/internal/application/port/output"
	"github.com/westward-dev/westward/internal/application/service"
	buildusecase "github.com/westward-dev/westward/internal/application/usecase/build"
	buildconfusecase "github.com/westward-dev/westward/internal/application/usecase/buildconf"
	scaffoldusecase "github.com/westward-dev/westward/internal/application/usecase/scaffold"
	sdkusecase "github.com/westward-dev/westward/internal/application/usecase/sdk"
	setupusecase "github.com/westward-dev/westward/internal/application/usecase/setup"
	"github.com/westward-dev/westward/internal/domain/repository"
	"github.com/westward-dev/westward/internal/infrastructure/gateway/archive"
	"github.com/westward-dev/westward/internal/infrastructure/gateway/boards"
	"github.com/westward-dev/westward/internal/infrastructure/gateway/prompt"
	"github.com/westward-dev/westward/internal/infrastructure/gateway/shell"
	"github.com/westward-dev/westward/internal/infrastructure/gateway/templates"
	sqliterepo "github.com/westward-dev/westward/internal/infrastructure/persistence/sqlite"
	infrarepo "github.com/westward-dev/westward/internal/infrastructure/repository"
)

// Config holds configuration for the container
type Config struct {
	Root string           // Workspace root; empty resolves to the current directory
	App  appconfig.Config // Loaded application settings

	// Test seams. When nil the real terminal prompt, process runner and
	// OS filesystem are used.
	Prompt  output.UserPrompt
	Runner  output.CommandRunner
	StateFs afero.Fs
}

// Container is the DI container that holds all dependencies.
// This implements manual dependency injection for Clean Architecture.
type Container struct {
	// Infrastructure Layer - Database
	db *sql.DB

	// Infrastructure Layer - Repositories
	workspaceRepo repository.WorkspaceRepository
	journalRepo   repository.JournalRepository
	lockRepo      repository.CommandLockRepository

	// Infrastructure Layer - Gateways
	runner     output.CommandRunner
	userPrompt output.UserPrompt
	scanner    output.BoardScanner
	templates  output.TemplateStore
	extractor  output.ArchiveExtractor

	// Application Layer - Services
	commands *service.CommandService

	// Application Layer - Use Cases
	setupUC      *setupusecase.SetupUseCase
	sdkInstallUC *sdkusecase.InstallUseCase
	sdkImportUC  *sdkusecase.ImportUseCase
	createUC     *scaffoldusecase.CreateProjectUseCase
	addExistUC   *scaffoldusecase.AddExistingUseCase
	buildConfUC  *buildconfusecase.AddBuildConfigUseCase
	runBuildUC   *buildusecase.RunBuildUseCase
	doctorUC     *buildusecase.DoctorUseCase

	// Configuration
	config Config
}

// NewContainer creates and initializes the DI container
func NewContainer(config Config) (*Container, error) {
	if config.Root == "" {
		config.Root = "."
	}
	if config.App == nil {
		return nil, fmt.Errorf("container requires loaded application settings")
	}

	c := &Container{config: config}

	// Initialize dependencies in dependency order
	if err := c.initializeInfrastructure(); err != nil {
		return nil, fmt.Errorf("failed to initialize infrastructure: %w", err)
	}
	c.initializeApplication()

	return c, nil
}

// initializeInfrastructure initializes infrastructure layer components
func (c *Container) initializeInfrastructure() error {
	app := c.config.App
	home := filepath.Join(c.config.Root, app.Home())

	// 1. Open the coordination database under <home>/var
	fs := c.config.StateFs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	varDir := filepath.Join(home, "var")
	if err := fs.MkdirAll(varDir, 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(varDir, "westward.db")+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	c.db = db

	// 2. Run database migrations
	migrator := sqliterepo.NewMigrator(db)
	if err := migrator.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// 3. Initialize repositories
	c.lockRepo = sqliterepo.NewCommandLockRepository(db)
	c.journalRepo = sqliterepo.NewJournalRepository(db)
	c.workspaceRepo = infrarepo.NewWorkspaceRepositoryImpl(fs, filepath.Join(home, "workspace.yaml"))

	// 4. Initialize gateways, honoring test seams
	c.runner = c.config.Runner
	if c.runner == nil {
		c.runner = shell.NewRunner(app.Timeout())
	}
	c.userPrompt = c.config.Prompt
	if c.userPrompt == nil {
		c.userPrompt = prompt.NewTerminalPrompt()
	}
	c.scanner = boards.NewScanner()
	c.templates = templates.NewStore(app.Samples())
	c.extractor = archive.NewExtractor()

	return nil
}

// initializeApplication initializes application layer services and use cases
func (c *Container) initializeApplication() {
	app := c.config.App

	c.commands = service.NewCommandService(c.lockRepo, c.journalRepo, app.LockTTL())

	c.setupUC = setupusecase.NewSetupUseCase(c.workspaceRepo, c.commands, c.runner, c.userPrompt, setupusecase.Config{
		Root:               c.config.Root,
		Home:               app.Home(),
		WestBin:            app.WestBin(),
		PythonBin:          app.PythonBin(),
		DefaultManifestURL: app.DefaultManifestURL(),
		RetryAttempts:      app.RetryAttempts(),
		RetryBackoff:       app.RetryBackoff(),
	})

	sdkCfg := sdkusecase.Config{
		Root:       c.config.Root,
		Home:       app.Home(),
		WestBin:    app.WestBin(),
		InstallDir: app.SDKInstallDir(),
	}
	c.sdkInstallUC = sdkusecase.NewInstallUseCase(c.workspaceRepo, c.commands, c.runner, c.userPrompt, sdkCfg)
	c.sdkImportUC = sdkusecase.NewImportUseCase(c.commands, c.extractor, sdkCfg)

	scaffoldCfg := scaffoldusecase.Config{Root: c.config.Root}
	c.createUC = scaffoldusecase.NewCreateProjectUseCase(c.workspaceRepo, c.commands, c.templates, c.userPrompt, scaffoldCfg)
	c.addExistUC = scaffoldusecase.NewAddExistingUseCase(c.workspaceRepo, c.commands, c.userPrompt, scaffoldCfg)

	c.buildConfUC = buildconfusecase.NewAddBuildConfigUseCase(c.workspaceRepo, c.commands, c.scanner, c.userPrompt, buildconfusecase.Config{
		Root:       c.config.Root,
		ExtraRoots: app.BoardRoots(),
	})

	buildCfg := buildusecase.Config{
		Root:      c.config.Root,
		Home:      app.Home(),
		WestBin:   app.WestBin(),
		PythonBin: app.PythonBin(),
		GitBin:    app.GitBin(),
	}
	c.runBuildUC = buildusecase.NewRunBuildUseCase(c.workspaceRepo, c.commands, c.runner, buildCfg)
	c.doctorUC = buildusecase.NewDoctorUseCase(c.workspaceRepo, c.runner, buildCfg)
}

// SetupUseCase returns the setup pipeline use case
func (c *Container) SetupUseCase() *setupusecase.SetupUseCase {
	return c.setupUC
}

// SDKInstallUseCase returns the toolchain install use case
func (c *Container) SDKInstallUseCase() *sdkusecase.InstallUseCase {
	return c.sdkInstallUC
}

// SDKImportUseCase returns the toolchain bundle import use case
func (c *Container) SDKImportUseCase() *sdkusecase.ImportUseCase {
	return c.sdkImportUC
}

// CreateProjectUseCase returns the template scaffolding use case
func (c *Container) CreateProjectUseCase() *scaffoldusecase.CreateProjectUseCase {
	return c.createUC
}

// AddExistingUseCase returns the project import use case
func (c *Container) AddExistingUseCase() *scaffoldusecase.AddExistingUseCase {
	return c.addExistUC
}

// AddBuildConfigUseCase returns the build configuration use case
func (c *Container) AddBuildConfigUseCase() *buildconfusecase.AddBuildConfigUseCase {
	return c.buildConfUC
}

// RunBuildUseCase returns the build execution use case
func (c *Container) RunBuildUseCase() *buildusecase.RunBuildUseCase {
	return c.runBuildUC
}

// DoctorUseCase returns the environment diagnosis use case
func (c *Container) DoctorUseCase() *buildusecase.DoctorUseCase {
	return c.doctorUC
}

// WorkspaceRepository returns the workspace state repository
func (c *Container) WorkspaceRepository() repository.WorkspaceRepository {
	return c.workspaceRepo
}

// JournalRepository returns the operation journal repository
func (c *Container) JournalRepository() repository.JournalRepository {
	return c.journalRepo
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
