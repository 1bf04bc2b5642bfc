package action

import (
	"context"
	"fmt"
	"strings"

	"github.com/hostup/hostup/pkg/system"
)

// EnsurePackage ensures a set of packages is installed. It has no rollback:
// uninstalling shared packages on failure would take down unrelated services.
type EnsurePackage struct {
	pm    system.PackageManager
	names []string
}

// NewEnsurePackage creates a package action for the given names
func NewEnsurePackage(pm system.PackageManager, names ...string) *EnsurePackage {
	return &EnsurePackage{pm: pm, names: names}
}

// Name identifies the action
func (a *EnsurePackage) Name() string {
	return fmt.Sprintf("package:%s", strings.Join(a.names, ","))
}

// Check queries the package manager for every package
func (a *EnsurePackage) Check(ctx context.Context) (Status, error) {
	for _, name := range a.names {
		installed, err := a.pm.IsInstalled(ctx, name)
		if err != nil {
			return StatusUnsatisfied, err
		}
		if !installed {
			return StatusUnsatisfied, nil
		}
	}
	return StatusSatisfied, nil
}

// Apply installs the packages. The package manager itself is idempotent for
// already-installed names, so no per-name filtering is needed here.
func (a *EnsurePackage) Apply(ctx context.Context) error {
	return a.pm.Install(ctx, a.names...)
}
