package sdk

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/westward-dev/westward/internal/application/dto"
	"github.com/westward-dev/westward/internal/application/port/output"
	"github.com/westward-dev/westward/internal/application/service"
)

// ImportUseCase unpacks a locally downloaded SDK bundle. It is not gated
// on setup stages so air-gapped hosts can stage toolchains first.
type ImportUseCase struct {
	commands  *service.CommandService
	extractor output.ArchiveExtractor
	cfg       Config
}

// NewImportUseCase creates a new ImportUseCase
func NewImportUseCase(
	commands *service.CommandService,
	extractor output.ArchiveExtractor,
	cfg Config,
) *ImportUseCase {
	return &ImportUseCase{
		commands:  commands,
		extractor: extractor,
		cfg:       cfg,
	}
}

// Execute unpacks archivePath into the SDK directory
func (uc *ImportUseCase) Execute(ctx context.Context, archivePath string) (*dto.SDKImportOutput, error) {
	started := time.Now()
	runID := uc.commands.NewRunID()

	release, err := uc.commands.AcquireWorkspaceLock(ctx, "sdk-import")
	if err != nil {
		return nil, err
	}
	defer release()

	// 1. Validate the bundle before touching the SDK directory
	if !strings.HasSuffix(archivePath, ".tar.xz") {
		return nil, fmt.Errorf("unsupported bundle %q: expected a .tar.xz archive", archivePath)
	}
	if info, err := os.Stat(archivePath); err != nil || info.IsDir() {
		return nil, fmt.Errorf("bundle %s is not readable", archivePath)
	}

	// 2. Unpack
	destDir := uc.cfg.DefaultInstallDir()
	files, err := uc.extractor.ExtractTarXZ(ctx, archivePath, destDir)
	uc.commands.Record(ctx, runID, "sdk.import", started, err, fmt.Sprintf("%s -> %s (%d files)", archivePath, destDir, files))
	if err != nil {
		return nil, err
	}

	return &dto.SDKImportOutput{
		Archive:   archivePath,
		Dir:       destDir,
		Files:     files,
		ElapsedMs: time.Since(started).Milliseconds(),
	}, nil
}
