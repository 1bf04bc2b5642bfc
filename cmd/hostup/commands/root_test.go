// Test Type: Integration Test
// Description: Tests for the root command wiring - flags, subcommands,
// version output and the embedded help topics.

package commands_test

import (
	"bytes"
	"testing"

	"github.com/hostup/hostup/cmd/hostup/commands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOSTUP_CONFIG_DIR", t.TempDir())
	t.Setenv("HOSTUP_STATE_DIR", t.TempDir())
	t.Setenv("HOSTUP_LOG_DIR", t.TempDir())
	t.Setenv("HOSTUP_LOCK_PATH", t.TempDir()+"/hostup.lock")
}

func TestRootCmdWiring(t *testing.T) {
	testEnv(t)
	rootCmd := commands.NewRootCmd()

	assert.Equal(t, "hostup", rootCmd.Use)
	for _, flag := range []string{"verbose", "quiet", "yes", "dry-run"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), "missing flag %s", flag)
	}

	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{
		"provision", "deploy", "check", "render",
		"templates", "unlock", "status", "version", "help",
	} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestVersionCommand(t *testing.T) {
	testEnv(t)
	rootCmd := commands.NewRootCmd()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "hostup version")
}

func TestHelpTopicsEmbedded(t *testing.T) {
	testEnv(t)
	rootCmd := commands.NewRootCmd()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"help", "topics"})
	require.NoError(t, rootCmd.Execute())

	for _, topic := range []string{"templates", "transactions", "locking"} {
		assert.Contains(t, out.String(), topic)
	}
}

func TestNoCommandIsAnError(t *testing.T) {
	testEnv(t)
	rootCmd := commands.NewRootCmd()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{})
	assert.Error(t, rootCmd.Execute())
}
