// Package fileutil provides file system helpers for title directories.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FindCaseInsensitive returns the actual path of filename inside dir,
// matching the name case-insensitively. Legacy titles authored on
// Windows mix letter case freely, so exact-name lookups miss files on
// case-sensitive file systems.
func FindCaseInsensitive(dir, filename string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(entry.Name(), filename) {
			return filepath.Join(dir, entry.Name()), nil
		}
	}

	return "", fmt.Errorf("file not found: %s (searched in %s)", filename, dir)
}

// ReadFileCaseInsensitive reads the named file from dir, matching the
// name case-insensitively.
func ReadFileCaseInsensitive(dir, filename string) ([]byte, error) {
	path, err := FindCaseInsensitive(dir, filename)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}
