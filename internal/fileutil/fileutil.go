// Package fileutil holds file copy helpers used when bringing clip files into
// the upload directory.
package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrExists reports that the copy target is already present.
var ErrExists = errors.New("destination already exists")

// CopyInto copies src to dst without ever exposing a partial dst. Data is
// written to a temp file next to dst, checked against the source by size and
// SHA-256, then renamed into place. An existing dst is never replaced.
func CopyInto(src, dst string) error {
	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("%s: %w", dst, ErrExists)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("source %q is a directory", src)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	written, err := io.Copy(io.MultiWriter(tmp, dstHasher), io.TeeReader(in, srcHasher))
	closeErr := tmp.Close()
	switch {
	case err != nil:
		cleanup()
		return err
	case closeErr != nil:
		cleanup()
		return closeErr
	case written != info.Size():
		cleanup()
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", info.Size(), written)
	case !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)):
		cleanup()
		return errors.New("copy hash mismatch: file corrupted during copy")
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		cleanup()
		return err
	}
	// Link fails when dst appeared meanwhile, unlike Rename.
	if err := os.Link(tmpPath, dst); err != nil {
		cleanup()
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s: %w", dst, ErrExists)
		}
		return err
	}
	cleanup()
	return nil
}
