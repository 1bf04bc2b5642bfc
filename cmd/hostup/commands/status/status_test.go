// Test Type: Integration Test
// Description: Tests for the status command reading the latest receipt.

package status_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/hostup/hostup/cmd/hostup/commands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootCmd := commands.NewRootCmd()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestStatusSummarizesLatestReceipt(t *testing.T) {
	stateDir := t.TempDir()
	t.Setenv("HOSTUP_CONFIG_DIR", t.TempDir())
	t.Setenv("HOSTUP_STATE_DIR", stateDir)
	t.Setenv("HOSTUP_LOG_DIR", t.TempDir())

	receiptsDir := filepath.Join(stateDir, "receipts")
	require.NoError(t, os.MkdirAll(receiptsDir, 0755))
	receipt := `command = 'provision'
started_at = 2026-08-27T10:00:00Z
finished_at = 2026-08-27T10:00:05Z
success = true

[[groups]]
name = 'packages'

[[groups.actions]]
name = 'package:nginx'
outcome = 'applied'
`
	require.NoError(t, os.WriteFile(
		filepath.Join(receiptsDir, "run-20260827-100000.toml"), []byte(receipt), 0644))

	out, err := execute(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "provision")
	assert.Contains(t, out, "succeeded")
	assert.Contains(t, out, "packages")
	assert.Contains(t, out, "package:nginx")
}

func TestStatusWithoutReceipts(t *testing.T) {
	t.Setenv("HOSTUP_CONFIG_DIR", t.TempDir())
	t.Setenv("HOSTUP_STATE_DIR", t.TempDir())
	t.Setenv("HOSTUP_LOG_DIR", t.TempDir())

	_, err := execute(t, "status")
	require.NoError(t, err)
}
