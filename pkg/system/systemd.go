package system

import (
	"context"

	"github.com/hostup/hostup/pkg/logging"
)

// Systemd implements ServiceManager with systemctl
type Systemd struct {
	runner Runner
}

// NewSystemd creates a ServiceManager backed by systemctl
func NewSystemd(runner Runner) *Systemd {
	return &Systemd{runner: runner}
}

// IsActive reports whether the unit is currently running.
// systemctl is-active exits non-zero for inactive units; that is a normal
// answer, not an error.
func (s *Systemd) IsActive(ctx context.Context, unit string) (bool, error) {
	result, err := s.runner.Run(ctx, Command{
		Name: "systemctl",
		Args: []string{"is-active", "--quiet", unit},
	})
	if err != nil {
		return false, err
	}
	return result.ExitCode == 0, nil
}

// IsEnabled reports whether the unit starts at boot
func (s *Systemd) IsEnabled(ctx context.Context, unit string) (bool, error) {
	result, err := s.runner.Run(ctx, Command{
		Name: "systemctl",
		Args: []string{"is-enabled", "--quiet", unit},
	})
	if err != nil {
		return false, err
	}
	return result.ExitCode == 0, nil
}

// Enable makes the unit start at boot
func (s *Systemd) Enable(ctx context.Context, unit string) error {
	return s.ctl(ctx, "enable", unit)
}

// Start starts the unit
func (s *Systemd) Start(ctx context.Context, unit string) error {
	return s.ctl(ctx, "start", unit)
}

// Reload asks the unit to reload its configuration
func (s *Systemd) Reload(ctx context.Context, unit string) error {
	return s.ctl(ctx, "reload", unit)
}

// Restart restarts the unit
func (s *Systemd) Restart(ctx context.Context, unit string) error {
	return s.ctl(ctx, "restart", unit)
}

// DaemonReload reloads the systemd manager configuration. Required after
// writing or changing a unit file.
func (s *Systemd) DaemonReload(ctx context.Context) error {
	logger := logging.GetLogger("system.systemd")
	logger.Debug().Msg("Reloading systemd manager configuration")
	_, err := RunChecked(ctx, s.runner, Command{
		Name: "systemctl",
		Args: []string{"daemon-reload"},
	})
	return err
}

func (s *Systemd) ctl(ctx context.Context, verb, unit string) error {
	logger := logging.GetLogger("system.systemd")
	logger.Info().Str("verb", verb).Str("unit", unit).Msg("systemctl")
	_, err := RunChecked(ctx, s.runner, Command{
		Name: "systemctl",
		Args: []string{verb, unit},
	})
	return err
}
