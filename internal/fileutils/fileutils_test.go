package fileutils_test

import (
	"os"
	"path/filepath"
	"testing"

	"ypbank/statements/internal/fileutils"
	"ypbank/statements/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()

	// Create a test file
	testFile := filepath.Join(tmpDir, "test.txt")
	err := os.WriteFile(testFile, []byte("test"), 0600)
	assert.NoError(t, err)

	// Test existing file
	assert.True(t, fileutils.FileExists(testFile))

	// Test non-existent file
	assert.False(t, fileutils.FileExists(filepath.Join(tmpDir, "nonexistent.txt")))

	// Test directory (should return false)
	assert.False(t, fileutils.FileExists(tmpDir))
}

func TestDirectoryExists(t *testing.T) {
	tmpDir := t.TempDir()

	// Test existing directory
	assert.True(t, fileutils.DirectoryExists(tmpDir))

	// Test non-existent directory
	assert.False(t, fileutils.DirectoryExists(filepath.Join(tmpDir, "nonexistent")))

	// Create a file and test (should return false)
	testFile := filepath.Join(tmpDir, "test.txt")
	err := os.WriteFile(testFile, []byte("test"), 0600)
	assert.NoError(t, err)
	assert.False(t, fileutils.DirectoryExists(testFile))
}

func TestEnsureDirectoryExists(t *testing.T) {
	tmpDir := t.TempDir()

	// Test creating a new directory
	newDir := filepath.Join(tmpDir, "new", "nested", "dir")
	err := fileutils.EnsureDirectoryExists(newDir)
	assert.NoError(t, err)
	assert.True(t, fileutils.DirectoryExists(newDir))

	// Test with already existing directory
	err = fileutils.EnsureDirectoryExists(newDir)
	assert.NoError(t, err)
}

func TestReadFileContent(t *testing.T) {
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "statement.sta")
	err := os.WriteFile(testFile, []byte(":20:0000000000"), 0600)
	require.NoError(t, err)

	content, err := fileutils.ReadFileContent(testFile)
	assert.NoError(t, err)
	assert.Equal(t, ":20:0000000000", content)
}

func TestReadFileContent_NotExist(t *testing.T) {
	tmpDir := t.TempDir()
	missing := filepath.Join(tmpDir, "missing.sta")

	_, err := fileutils.ReadFileContent(missing)
	require.Error(t, err)

	var readErr *parsererror.ReadError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, missing, readErr.Path)
}

func TestCreateFile(t *testing.T) {
	tmpDir := t.TempDir()

	// Test creating a file in a nested directory that doesn't exist yet
	outFile := filepath.Join(tmpDir, "out", "converted.xml")
	f, err := fileutils.CreateFile(outFile)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.True(t, fileutils.FileExists(outFile))
}
