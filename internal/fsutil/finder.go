// Package fsutil provides file system utility functions.
package fsutil

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// FindFilesByExtension recursively searches the given root path for all files ending
// with the specified extension. It returns a slice of their full paths.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// FindDirsContaining recursively searches rootPath for directories holding a
// regular file called marker. The directories are returned sorted.
func FindDirsContaining(rootPath string, marker string) ([]string, error) {
	if marker == "" {
		panic("marker must not be empty")
	}

	var dirs []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == marker {
			dirs = append(dirs, filepath.Dir(path))
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	sort.Strings(dirs)
	return dirs, nil
}
