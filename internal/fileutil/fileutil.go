// Package fileutil provides file and path utility functions.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteFileAtomic writes data to path through a temporary sibling file and
// a rename, so readers never observe a partially written file. The temp
// file lives in the target directory because rename is only atomic within
// one filesystem.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".mdbundle-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp output: %w", err)
	}
	tmpPath := tmpFile.Name()
	remove := func() { _ = os.Remove(tmpPath) }

	if _, writeErr := tmpFile.Write(data); writeErr != nil {
		_ = tmpFile.Close()
		remove()
		return fmt.Errorf("writing temp output: %w", writeErr)
	}
	if closeErr := tmpFile.Close(); closeErr != nil {
		remove()
		return fmt.Errorf("closing temp output: %w", closeErr)
	}
	if chmodErr := os.Chmod(tmpPath, perm); chmodErr != nil {
		remove()
		return fmt.Errorf("setting output mode: %w", chmodErr)
	}
	if renameErr := os.Rename(tmpPath, path); renameErr != nil {
		remove()
		return fmt.Errorf("replacing output: %w", renameErr)
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather
// than a bare name. A string containing path separators (/, \) is
// treated as a path.
//
// Examples:
//   - "a4" -> false (name)
//   - "./custom.yaml" -> true (relative path)
//   - "/absolute/preset.yaml" -> true (absolute)
//   - "C:\presets\a4.yaml" -> true (Windows)
//   - "a4-compact" -> false (hyphenated name)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}
