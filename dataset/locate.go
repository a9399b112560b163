package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches CSV exports inside a dataset directory.
const DefaultPattern = "*.csv"

// Locate resolves the dataset file. A file path is returned as is; for a
// directory the first file matching pattern (in name order) is used. The
// pattern may use ** to search subdirectories.
func Locate(path, pattern string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: no dataset path configured", ErrNoDataset)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNoDataset, path)
		}
		return "", fmt.Errorf("stat dataset path: %w", err)
	}
	if !info.IsDir() {
		return path, nil
	}

	if pattern == "" {
		pattern = DefaultPattern
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(path, pattern))
	if err != nil {
		return "", fmt.Errorf("glob error: %w", err)
	}

	files := matches[:0]
	for _, m := range matches {
		if fi, err := os.Stat(m); err == nil && !fi.IsDir() {
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return "", fmt.Errorf("%w: no %s files in %s", ErrNoDataset, pattern, path)
	}

	sort.Strings(files)
	return files[0], nil
}
