package action

import (
	"context"
	"fmt"
	iofs "io/fs"
	"os"

	"github.com/hostup/hostup/pkg/errors"
	"github.com/hostup/hostup/pkg/filesystem"
)

// EnsureDir ensures a directory exists. It has no rollback: removing a
// directory the run did not conceptually own is more destructive than
// leaving it behind.
type EnsureDir struct {
	fs   filesystem.FS
	path string
	mode iofs.FileMode
}

// NewEnsureDir creates a directory action
func NewEnsureDir(fs filesystem.FS, path string, mode iofs.FileMode) *EnsureDir {
	return &EnsureDir{fs: fs, path: path, mode: mode}
}

// Name identifies the action
func (a *EnsureDir) Name() string {
	return fmt.Sprintf("dir:%s", a.path)
}

// Check stats the path
func (a *EnsureDir) Check(_ context.Context) (Status, error) {
	info, err := a.fs.Stat(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return StatusUnsatisfied, nil
		}
		return StatusUnsatisfied, errors.Wrapf(err, errors.ErrFileAccess,
			"cannot stat %q", a.path)
	}
	if !info.IsDir() {
		return StatusUnsatisfied, errors.Newf(errors.ErrPreconditionFailed,
			"%q exists but is not a directory", a.path)
	}
	return StatusSatisfied, nil
}

// Apply creates the directory and any missing parents
func (a *EnsureDir) Apply(_ context.Context) error {
	if err := a.fs.MkdirAll(a.path, a.mode); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot create %q", a.path)
	}
	return nil
}
