package action

import (
	"context"
	"fmt"
	"os"

	"github.com/hostup/hostup/pkg/errors"
	"github.com/hostup/hostup/pkg/filesystem"
)

// EnsureSymlink ensures link points at source. The canonical use is
// activating an nginx site by linking sites-enabled to sites-available.
type EnsureSymlink struct {
	fs     filesystem.FS
	source string
	link   string
}

// NewEnsureSymlink creates a symlink action; link will point at source
func NewEnsureSymlink(fs filesystem.FS, source, link string) *EnsureSymlink {
	return &EnsureSymlink{fs: fs, source: source, link: link}
}

// Name identifies the action
func (a *EnsureSymlink) Name() string {
	return fmt.Sprintf("symlink:%s", a.link)
}

// Check reads the existing link, if any
func (a *EnsureSymlink) Check(_ context.Context) (Status, error) {
	if _, err := a.fs.Lstat(a.link); err != nil {
		if os.IsNotExist(err) {
			return StatusUnsatisfied, nil
		}
		return StatusUnsatisfied, errors.Wrapf(err, errors.ErrFileAccess,
			"cannot stat %q", a.link)
	}
	target, err := a.fs.Readlink(a.link)
	if err != nil {
		return StatusUnsatisfied, errors.Newf(errors.ErrPreconditionFailed,
			"%q exists and is not a symlink", a.link)
	}
	if target == a.source {
		return StatusSatisfied, nil
	}
	return StatusUnsatisfied, nil
}

// Apply replaces any existing link and creates the new one
func (a *EnsureSymlink) Apply(_ context.Context) error {
	if _, err := a.fs.Lstat(a.link); err == nil {
		if err := a.fs.Remove(a.link); err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "cannot replace %q", a.link)
		}
	}
	if err := a.fs.Symlink(a.source, a.link); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite,
			"cannot link %q to %q", a.link, a.source)
	}
	return nil
}

// Rollback removes the link created by Apply
func (a *EnsureSymlink) Rollback(_ context.Context) error {
	if err := a.fs.Remove(a.link); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot remove %q", a.link)
	}
	return nil
}
