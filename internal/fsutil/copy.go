package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	cp "github.com/otiai10/copy"
)

// ErrExist is returned by CopyTree when the destination already exists.
// Callers treat it as recoverable.
var ErrExist = errors.New("destination already exists")

// CopyTree copies the directory tree at src into dst, which must not exist.
// File modes are preserved; symlinks are copied as links.
func CopyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source %s: %w", src, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source %s is not a directory", src)
	}

	// The copier merges into an existing root instead of reporting it.
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("copy %s to %s: %w", src, dst, ErrExist)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat destination %s: %w", dst, err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create parent of %s: %w", dst, err)
	}

	err = cp.Copy(src, dst, cp.Options{
		OnSymlink: func(string) cp.SymlinkAction { return cp.Shallow },
		// Nested directories cannot pre-exist under a fresh root; refuse
		// rather than merge if one appears concurrently.
		OnDirExists: func(_, dest string) cp.DirExistsAction { return cp.Untouchable },
	})
	if err != nil {
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	return nil
}
