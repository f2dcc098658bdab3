// Package archive unpacks locally downloaded toolchain bundles so SDK
// installs work on hosts without network access.
package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// Extractor implements output.ArchiveExtractor for tar.xz bundles
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractTarXZ unpacks archivePath into destDir and returns the number of
// regular files written. Members that would land outside destDir are
// rejected before anything is written for them.
func (e *Extractor) ExtractTarXZ(ctx context.Context, archivePath, destDir string) (int, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create extract dir %s: %w", destDir, err)
	}

	xzr, err := xz.NewReader(f)
	if err != nil {
		return 0, fmt.Errorf("failed to create xz reader: %w", err)
	}

	count := 0
	tr := tar.NewReader(xzr)
	for {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("error reading tar: %w", err)
		}

		target, err := safeTarget(destDir, hdr.Name)
		if err != nil {
			return count, err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(hdr.Mode)); err != nil {
				return count, fmt.Errorf("failed to create dir %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return count, fmt.Errorf("failed to create parent dir: %w", err)
			}
			outFile, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(hdr.Mode))
			if err != nil {
				return count, fmt.Errorf("failed to create file %s: %w", target, err)
			}
			if _, err := io.Copy(outFile, tr); err != nil {
				outFile.Close()
				return count, fmt.Errorf("failed to write file %s: %w", target, err)
			}
			outFile.Close()
			count++
		case tar.TypeSymlink:
			if err := safeLink(destDir, target, hdr.Linkname); err != nil {
				return count, err
			}
			if err := os.Symlink(hdr.Linkname, target); err != nil && !os.IsExist(err) {
				return count, fmt.Errorf("failed to create symlink %s -> %s: %w", target, hdr.Linkname, err)
			}
		}
	}
	return count, nil
}

// safeTarget joins a member name under destDir, rejecting absolute names
// and names that resolve outside the destination
func safeTarget(destDir, name string) (string, error) {
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("archive member %q has an absolute path", name)
	}
	target := filepath.Join(destDir, name)
	rel, err := filepath.Rel(destDir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive member %q escapes the destination", name)
	}
	return target, nil
}

func safeLink(destDir, target, linkname string) error {
	if filepath.IsAbs(linkname) {
		return fmt.Errorf("archive symlink %q has an absolute target", linkname)
	}
	resolved := filepath.Join(filepath.Dir(target), linkname)
	rel, err := filepath.Rel(destDir, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return fmt.Errorf("archive symlink %q escapes the destination", linkname)
	}
	return nil
}
