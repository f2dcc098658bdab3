package output

import "context"

// ArchiveExtractor unpacks locally downloaded toolchain bundles.
// Implementations must reject archive members that escape destDir.
type ArchiveExtractor interface {
	// ExtractTarXZ unpacks a .tar.xz archive into destDir and returns the
	// number of files written
	ExtractTarXZ(ctx context.Context, archivePath, destDir string) (int, error)
}
