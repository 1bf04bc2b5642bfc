package testutil

import (
	"path/filepath"
	"testing"

	"github.com/hostup/hostup/pkg/filesystem"
	"github.com/stretchr/testify/require"
)

// NewMemoryFS creates an in-memory filesystem for tests
func NewMemoryFS() filesystem.FS {
	return filesystem.NewMemory()
}

// WriteFile writes content to path, creating parent directories
func WriteFile(t *testing.T, fs filesystem.FS, path, content string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, fs.WriteFile(path, []byte(content), 0644))
}

// ReadFile reads path and fails the test on error
func ReadFile(t *testing.T, fs filesystem.FS, path string) string {
	t.Helper()
	data, err := fs.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// AssertFileContent asserts the file at path holds exactly content
func AssertFileContent(t *testing.T, fs filesystem.FS, path, content string) {
	t.Helper()
	require.Equal(t, content, ReadFile(t, fs, path))
}

// AssertNotExists asserts no file or directory exists at path
func AssertNotExists(t *testing.T, fs filesystem.FS, path string) {
	t.Helper()
	_, err := fs.Stat(path)
	require.Error(t, err, "expected %s not to exist", path)
}
