// Test Type: Unit Test
// Description: Tests for path resolution and environment overrides.

package paths_test

import (
	"path/filepath"
	"testing"

	"github.com/hostup/hostup/pkg/paths"
	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides(t *testing.T) {
	t.Setenv(paths.EnvConfigDir, "/tmp/hostup-conf")
	t.Setenv(paths.EnvStateDir, "/tmp/hostup-state")
	t.Setenv(paths.EnvLogDir, "/tmp/hostup-log")
	t.Setenv(paths.EnvLockPath, "/tmp/hostup.lock")

	p := paths.New()
	assert.Equal(t, "/tmp/hostup-conf", p.ConfigDir())
	assert.Equal(t, "/tmp/hostup-state", p.StateDir())
	assert.Equal(t, "/tmp/hostup-log", p.LogDir())
	assert.Equal(t, "/tmp/hostup.lock", p.LockPath())
}

func TestDerivedPaths(t *testing.T) {
	t.Setenv(paths.EnvConfigDir, "/etc/hostup")
	t.Setenv(paths.EnvStateDir, "/var/lib/hostup")

	p := paths.New()
	assert.Equal(t, filepath.Join("/etc/hostup", "hostup.toml"), p.ConfigFile())
	assert.Equal(t, filepath.Join("/etc/hostup", "templates"), p.TemplatesDir())
	assert.Equal(t, filepath.Join("/var/lib/hostup", "receipts"), p.ReceiptsDir())
}
