// Package fileutil holds the small filesystem helpers the site build relies on.
//
// Every generated file is written through a sibling temp file and renamed into
// place, so the preview server never observes a partially written page while a
// watch rebuild is running.
package fileutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const filePerm = 0o644

// WriteAtomic replaces path with data, creating parent directories as needed.
func WriteAtomic(path string, data []byte) error {
	return writeVia(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// WriteAtomicFunc is WriteAtomic for producers that stream, such as image
// encoders. Nothing is left at path when fill returns an error.
func WriteAtomicFunc(path string, fill func(io.Writer) error) error {
	return writeVia(path, fill)
}

func writeVia(path string, fill func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp for %q: %w", path, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err := fill(tmp); err != nil {
		return err
	}
	if err := tmp.Chmod(filePerm); err != nil {
		return fmt.Errorf("chmod %q: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %q: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename into %q: %w", path, err)
	}
	committed = true
	return nil
}

// CopyVerified copies a user supplied asset (the stylesheet override) into the
// output tree. The digest of what was read must match the digest of what was
// written; otherwise dst is left untouched.
func CopyVerified(src, dst string) (int64, error) {
	info, err := os.Stat(src)
	if err != nil {
		return 0, fmt.Errorf("stat source: %w", err)
	}
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	var written int64
	readSum := sha256.New()
	writeSum := sha256.New()
	err = writeVia(dst, func(w io.Writer) error {
		n, err := io.Copy(io.MultiWriter(w, writeSum), io.TeeReader(in, readSum))
		written = n
		if err != nil {
			return err
		}
		if n != info.Size() {
			return fmt.Errorf("copy size mismatch: %s is %d bytes, copied %d", src, info.Size(), n)
		}
		if !bytes.Equal(readSum.Sum(nil), writeSum.Sum(nil)) {
			return fmt.Errorf("copy hash mismatch: %s changed during copy", src)
		}
		return nil
	})
	return written, err
}

// EnsureDirs creates each of dirs beneath root.
func EnsureDirs(root string, dirs ...string) error {
	for _, dir := range dirs {
		path := filepath.Join(root, dir)
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", path, err)
		}
	}
	return nil
}
