// Package paths provides centralized path handling for hostup. A root run
// uses the traditional system locations; an unprivileged run falls back to
// the XDG base directories so development and tests never need root.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvConfigDir overrides the configuration directory
	EnvConfigDir = "HOSTUP_CONFIG_DIR"

	// EnvStateDir overrides the state directory (receipts)
	EnvStateDir = "HOSTUP_STATE_DIR"

	// EnvLogDir overrides the log directory
	EnvLogDir = "HOSTUP_LOG_DIR"

	// EnvLockPath overrides the advisory lock file path
	EnvLockPath = "HOSTUP_LOCK_PATH"
)

// System locations used when running as root
const (
	rootConfigDir = "/etc/hostup"
	rootStateDir  = "/var/lib/hostup"
	rootLogDir    = "/var/log/hostup"
	rootLockPath  = "/run/hostup.lock"
)

// Names inside the directories above. These define hostup's layout and are
// not user-configurable.
const (
	// ConfigFileName is the main configuration file
	ConfigFileName = "hostup.toml"

	// TemplatesDirName holds user template overrides
	TemplatesDirName = "templates"

	// ReceiptsDirName holds run receipts
	ReceiptsDirName = "receipts"
)

// Paths resolves every directory and file hostup uses
type Paths struct {
	configDir string
	stateDir  string
	logDir    string
	lockPath  string
}

// New resolves paths from the environment and effective uid
func New() *Paths {
	root := os.Geteuid() == 0

	p := &Paths{}
	p.configDir = fromEnv(EnvConfigDir, root, rootConfigDir, filepath.Join(xdg.ConfigHome, "hostup"))
	p.stateDir = fromEnv(EnvStateDir, root, rootStateDir, filepath.Join(xdg.StateHome, "hostup"))
	p.logDir = fromEnv(EnvLogDir, root, rootLogDir, filepath.Join(xdg.StateHome, "hostup"))
	p.lockPath = fromEnv(EnvLockPath, root, rootLockPath, filepath.Join(xdg.StateHome, "hostup", "hostup.lock"))
	return p
}

func fromEnv(env string, root bool, rootDefault, userDefault string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	if root {
		return rootDefault
	}
	return userDefault
}

// ConfigDir returns the configuration directory
func (p *Paths) ConfigDir() string {
	return p.configDir
}

// ConfigFile returns the main configuration file path
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.configDir, ConfigFileName)
}

// TemplatesDir returns the user template override directory
func (p *Paths) TemplatesDir() string {
	return filepath.Join(p.configDir, TemplatesDirName)
}

// StateDir returns the state directory
func (p *Paths) StateDir() string {
	return p.stateDir
}

// ReceiptsDir returns the directory run receipts are written to
func (p *Paths) ReceiptsDir() string {
	return filepath.Join(p.stateDir, ReceiptsDirName)
}

// LogDir returns the log directory
func (p *Paths) LogDir() string {
	return p.logDir
}

// LockPath returns the advisory lock file path
func (p *Paths) LockPath() string {
	return p.lockPath
}
