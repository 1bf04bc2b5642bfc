package system

import "context"

// PackageManager is consulted by package actions. IsInstalled is the cheap
// check predicate; Install performs the mutation.
type PackageManager interface {
	IsInstalled(ctx context.Context, name string) (bool, error)
	Install(ctx context.Context, names ...string) error
}

// ServiceManager manages system services (systemd in production).
type ServiceManager interface {
	IsActive(ctx context.Context, unit string) (bool, error)
	IsEnabled(ctx context.Context, unit string) (bool, error)
	Enable(ctx context.Context, unit string) error
	Start(ctx context.Context, unit string) error
	Reload(ctx context.Context, unit string) error
	Restart(ctx context.Context, unit string) error
	DaemonReload(ctx context.Context) error
}

// SourceFetcher clones application sources. Clone must refuse an existing
// non-empty destination; overwriting is an explicit caller decision handled
// above this interface.
type SourceFetcher interface {
	Clone(ctx context.Context, url, dest string) error
}
