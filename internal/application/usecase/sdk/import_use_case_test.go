package sdk

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/westward-dev/westward/internal/application/service"
	"github.com/westward-dev/westward/internal/domain/repository"
	"github.com/westward-dev/westward/internal/testutil"
)

type fakeExtractor struct {
	archive string
	dest    string
	files   int
	err     error
}

func (f *fakeExtractor) ExtractTarXZ(ctx context.Context, archivePath, destDir string) (int, error) {
	f.archive = archivePath
	f.dest = destDir
	if f.err != nil {
		return 0, f.err
	}
	return f.files, nil
}

func (f *sdkFixture) importer(extractor *fakeExtractor) *ImportUseCase {
	commands := service.NewCommandService(f.locks, f.journal, 0)
	return NewImportUseCase(commands, extractor, Config{
		Root:    f.root,
		Home:    ".westward",
		WestBin: "west",
	})
}

func TestImportUseCase_ExtractsIntoSDKDir(t *testing.T) {
	f := newSDKFixture(t)
	archive := filepath.Join(f.root, "zephyr-sdk-0.16.8_linux-x86_64.tar.xz")
	require.NoError(t, os.WriteFile(archive, []byte("bundle"), 0644))
	extractor := &fakeExtractor{files: 42}

	out, err := f.importer(extractor).Execute(context.Background(), archive)
	require.NoError(t, err)

	assert.Equal(t, archive, extractor.archive)
	assert.Equal(t, filepath.Join(f.root, ".westward", "sdk"), extractor.dest)
	assert.Equal(t, 42, out.Files)
	assert.Equal(t, extractor.dest, out.Dir)

	require.Len(t, f.journal.Records, 1)
	assert.Equal(t, "sdk.import", f.journal.Records[0].Operation)
	assert.Equal(t, repository.OutcomeOK, f.journal.Records[0].Outcome)
	assert.Contains(t, f.journal.Records[0].Detail, "42 files")
}

func TestImportUseCase_RejectsNonTarXZBundle(t *testing.T) {
	f := newSDKFixture(t)
	extractor := &fakeExtractor{}

	_, err := f.importer(extractor).Execute(context.Background(), "zephyr-sdk.zip")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported bundle")
	assert.Empty(t, extractor.archive, "a rejected bundle must not reach the extractor")
}

func TestImportUseCase_RejectsMissingArchive(t *testing.T) {
	f := newSDKFixture(t)
	extractor := &fakeExtractor{}

	_, err := f.importer(extractor).Execute(context.Background(), filepath.Join(f.root, "missing.tar.xz"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not readable")
	assert.Empty(t, extractor.archive)
}

func TestImportUseCase_ReportsExtractorFailure(t *testing.T) {
	f := newSDKFixture(t)
	archive := filepath.Join(f.root, "sdk.tar.xz")
	require.NoError(t, os.WriteFile(archive, []byte("bundle"), 0644))
	extractor := &fakeExtractor{err: errors.New("archive path escapes destination")}

	_, err := f.importer(extractor).Execute(context.Background(), archive)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes destination")

	require.Len(t, f.journal.Records, 1)
	assert.Equal(t, repository.OutcomeFailed, f.journal.Records[0].Outcome)
}
