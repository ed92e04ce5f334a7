package binwrapper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/mholt/archiver/v4"
)

// extractStream unpacks an archive stream into destDir, dropping
// stripComponents leading path segments from each entry. Entries whose
// whole path is stripped away are skipped.
func extractStream(ctx context.Context, filename string, reader io.Reader, destDir string, stripComponents int) error {
	format, reader, err := archiver.Identify(filename, reader)
	if err != nil {
		if errors.Is(err, archiver.ErrNoMatch) {
			return fmt.Errorf("unable to identify archive format for %s", filename)
		}
		return err
	}
	// zip extraction needs an io.ReaderAt
	if _, isZip := format.(archiver.Zip); isZip {
		var buf []byte
		buf, err = io.ReadAll(reader)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}
	extractor, ok := format.(archiver.Extractor)
	if !ok {
		decompressor, isDecompressor := format.(archiver.Decompressor)
		if !isDecompressor {
			return fmt.Errorf("cannot extract %s", filename)
		}
		rc, dErr := decompressor.OpenReader(reader)
		if dErr != nil {
			return dErr
		}
		defer logCloseErr(rc)
		target := filepath.Join(destDir, strings.TrimSuffix(filename, path.Ext(filename)))
		return writeFile(target, rc, 0o755)
	}
	return extractor.Extract(ctx, reader, nil, func(_ context.Context, af archiver.File) error {
		if af.IsDir() {
			return nil
		}
		name := strippedName(af.NameInArchive, stripComponents)
		if name == "" {
			return nil
		}
		target := filepath.Join(destDir, filepath.FromSlash(name))
		if af.LinkTarget != "" {
			mkErr := os.MkdirAll(filepath.Dir(target), 0o755)
			if mkErr != nil {
				return mkErr
			}
			rmErr := os.RemoveAll(target)
			if rmErr != nil {
				return rmErr
			}
			return os.Symlink(filepath.FromSlash(af.LinkTarget), target)
		}
		rc, fErr := af.Open()
		if fErr != nil {
			return fErr
		}
		defer logCloseErr(rc)
		return writeFile(target, rc, 0o755)
	})
}

// strippedName removes strip leading segments from an archive-internal
// path. Returns "" when nothing is left.
func strippedName(name string, strip int) string {
	name = strings.TrimPrefix(filepath.ToSlash(name), "/")
	parts := strings.Split(path.Clean(name), "/")
	if len(parts) <= strip {
		return ""
	}
	return strings.Join(parts[strip:], "/")
}
