package action

import (
	"context"
	"fmt"
	"os"

	"github.com/hostup/hostup/pkg/errors"
	"github.com/hostup/hostup/pkg/filesystem"
	"github.com/hostup/hostup/pkg/system"
)

// Cloner is the source fetcher surface the clone action needs
type Cloner interface {
	system.SourceFetcher
	HasCheckout(dest string) bool
}

// EnsureClone ensures dest holds a checkout of url. An existing non-empty
// destination that is not a checkout fails the check unless the caller
// explicitly authorized overwriting it.
type EnsureClone struct {
	cloner    Cloner
	fs        filesystem.FS
	url       string
	dest      string
	overwrite bool
}

// NewEnsureClone creates a clone action
func NewEnsureClone(cloner Cloner, fs filesystem.FS, url, dest string, overwrite bool) *EnsureClone {
	return &EnsureClone{cloner: cloner, fs: fs, url: url, dest: dest, overwrite: overwrite}
}

// Name identifies the action
func (a *EnsureClone) Name() string {
	return fmt.Sprintf("clone:%s", a.dest)
}

// Check looks for an existing checkout at the destination
func (a *EnsureClone) Check(_ context.Context) (Status, error) {
	if a.cloner.HasCheckout(a.dest) {
		return StatusSatisfied, nil
	}
	entries, err := a.fs.ReadDir(a.dest)
	if err != nil {
		if os.IsNotExist(err) {
			return StatusUnsatisfied, nil
		}
		return StatusUnsatisfied, errors.Wrapf(err, errors.ErrFileAccess,
			"cannot inspect %q", a.dest)
	}
	if len(entries) > 0 && !a.overwrite {
		return StatusUnsatisfied, errors.Newf(errors.ErrPreconditionFailed,
			"%q exists, is not empty and is not a checkout; pass --overwrite to replace it", a.dest).
			WithDetail("dest", a.dest)
	}
	return StatusUnsatisfied, nil
}

// Apply replaces an authorized overwrite target and clones. The replaced
// directory is set aside until the clone succeeds, so a failed clone puts
// it back; once the clone is in place the replaced copy is deleted.
func (a *EnsureClone) Apply(ctx context.Context) error {
	aside := ""
	if a.overwrite {
		if _, err := a.fs.Stat(a.dest); err == nil {
			aside = a.dest + ".hostup-replaced"
			if err := a.fs.Rename(a.dest, aside); err != nil {
				return errors.Wrapf(err, errors.ErrFileWrite, "cannot set aside %q", a.dest)
			}
		}
	}
	if err := a.cloner.Clone(ctx, a.url, a.dest); err != nil {
		if aside != "" {
			_ = a.fs.RemoveAll(a.dest)
			_ = a.fs.Rename(aside, a.dest)
		}
		return err
	}
	if aside != "" {
		if err := a.fs.RemoveAll(aside); err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite,
				"cannot remove replaced copy %q", aside)
		}
	}
	return nil
}

// Rollback removes the fresh checkout. Overwrite is one-way past this
// point: the replaced directory is deleted when the clone succeeds, so a
// later failure in the group restores the destination to empty, not to the
// pre-overwrite content. The check's --overwrite gate exists because the
// caller is authorizing exactly that loss.
func (a *EnsureClone) Rollback(_ context.Context) error {
	if err := a.fs.RemoveAll(a.dest); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot remove %q", a.dest)
	}
	return nil
}
