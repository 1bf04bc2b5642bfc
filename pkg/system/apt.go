package system

import (
	"context"
	"strings"
	"time"

	"github.com/hostup/hostup/pkg/errors"
	"github.com/hostup/hostup/pkg/logging"
)

// installTimeout bounds a single apt-get invocation; package downloads on a
// slow mirror can legitimately take minutes.
const installTimeout = 15 * time.Minute

// AptManager implements PackageManager on top of apt-get/dpkg-query
type AptManager struct {
	runner Runner
}

// NewAptManager creates a PackageManager backed by apt
func NewAptManager(runner Runner) *AptManager {
	return &AptManager{runner: runner}
}

// IsInstalled queries dpkg for the package's install status. It is the
// side-effect-free check predicate: a missing package is not an error.
func (a *AptManager) IsInstalled(ctx context.Context, name string) (bool, error) {
	result, err := a.runner.Run(ctx, Command{
		Name: "dpkg-query",
		Args: []string{"-W", "-f=${Status}", name},
	})
	if err != nil {
		return false, err
	}
	if result.ExitCode != 0 {
		// dpkg-query exits 1 for packages it has never heard of
		return false, nil
	}
	return strings.Contains(result.Stdout, "install ok installed"), nil
}

// Install installs the given packages non-interactively
func (a *AptManager) Install(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	logger := logging.GetLogger("system.apt")
	logger.Info().Strs("packages", names).Msg("Installing packages")

	args := append([]string{"install", "-y", "--no-install-recommends"}, names...)
	_, err := RunChecked(ctx, a.runner, Command{
		Name:    "apt-get",
		Args:    args,
		Env:     []string{"DEBIAN_FRONTEND=noninteractive"},
		Timeout: installTimeout,
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrActionExecute,
			"apt-get install failed for %s", strings.Join(names, ", "))
	}
	return nil
}

// Update refreshes the package index
func (a *AptManager) Update(ctx context.Context) error {
	_, err := RunChecked(ctx, a.runner, Command{
		Name:    "apt-get",
		Args:    []string{"update"},
		Env:     []string{"DEBIAN_FRONTEND=noninteractive"},
		Timeout: installTimeout,
	})
	return err
}
