// Package fileutils provides the file operations the commands use to read
// statement files and create output files.
package fileutils

import (
	"fmt"
	"os"
	"path/filepath"

	"ypbank/statements/internal/parsererror"
)

// FileExists checks if a file exists and is not a directory
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return false
	}
	return !info.IsDir()
}

// DirectoryExists checks if a directory exists
func DirectoryExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if os.IsNotExist(err) {
		return false
	}
	return info.IsDir()
}

// EnsureDirectoryExists creates a directory if it doesn't exist
func EnsureDirectoryExists(dirPath string) error {
	if !DirectoryExists(dirPath) {
		if err := os.MkdirAll(dirPath, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return nil
}

// ReadFileContent reads the entire file as a string. Errors carry the path
// so commands can report which statement file failed.
func ReadFileContent(filePath string) (string, error) {
	if !FileExists(filePath) {
		return "", &parsererror.ReadError{
			Path: filePath,
			Err:  os.ErrNotExist,
		}
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", &parsererror.ReadError{Path: filePath, Err: err}
	}

	return string(data), nil
}

// CreateFile creates or truncates a file for writing, creating any parent
// directories first
func CreateFile(filePath string) (*os.File, error) {
	dir := filepath.Dir(filePath)
	if err := EnsureDirectoryExists(dir); err != nil {
		return nil, err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	return file, nil
}
