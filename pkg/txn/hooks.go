package txn

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/hostup/hostup/pkg/errors"
	"github.com/hostup/hostup/pkg/filesystem"
	"github.com/hostup/hostup/pkg/system"
)

// ValidateCommand returns a validation hook that runs one syntax-check
// command line (e.g. "php-fpm8.2 -t"). The staged files are swapped into
// their live paths for the duration of the check and restored afterwards,
// so the command parses the staged content, not the pre-change tree. A
// non-zero exit fails validation and the group's staged files are discarded.
//
// The swap only covers targets the group staged. A file that becomes
// visible to the checker through something the group has not applied yet
// (a fresh vhost behind a not-yet-created symlink) is outside its reach;
// such groups run the check again at the head of their activation sequence,
// where a failure drives the commit rollback.
func ValidateCommand(fsys filesystem.FS, r system.Runner, cmdline string) ValidateFunc {
	return func(ctx context.Context, staged Staged) error {
		fields := strings.Fields(cmdline)
		if len(fields) == 0 {
			return nil
		}

		swap, err := swapIn(fsys, staged)
		if err != nil {
			return err
		}
		_, runErr := system.RunChecked(ctx, r, system.Command{
			Name: fields[0],
			Args: fields[1:],
		})
		if err := swap.restore(); err != nil {
			// the live tree may no longer match its pre-run state
			return err
		}
		return runErr
	}
}

// swappedFile tracks one staged file temporarily occupying its live path
type swappedFile struct {
	target   string
	staged   string
	aside    string
	hadPrior bool
}

type swapState struct {
	fs   filesystem.FS
	done []swappedFile
}

// swapIn moves each staged file to its live path, setting existing live
// files aside. Renames stay within the target's directory. A mid-swap
// failure unwinds what was already swapped.
func swapIn(fsys filesystem.FS, staged Staged) (*swapState, error) {
	targets := make([]string, 0, len(staged))
	for target := range staged {
		targets = append(targets, target)
	}
	sort.Strings(targets)

	s := &swapState{fs: fsys}
	for _, target := range targets {
		sf := swappedFile{
			target: target,
			staged: staged[target],
			aside:  target + ".hostup-validate",
		}
		if _, err := fsys.Lstat(target); err == nil {
			if err := fsys.Rename(target, sf.aside); err != nil {
				_ = s.restore()
				return nil, errors.Wrapf(err, errors.ErrFileWrite,
					"cannot set aside %q for validation", target)
			}
			sf.hadPrior = true
		} else if !os.IsNotExist(err) {
			_ = s.restore()
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %q", target)
		}
		if err := fsys.Rename(sf.staged, target); err != nil {
			if sf.hadPrior {
				_ = fsys.Rename(sf.aside, target)
			}
			_ = s.restore()
			return nil, errors.Wrapf(err, errors.ErrFileWrite,
				"cannot swap %q in for validation", sf.staged)
		}
		s.done = append(s.done, sf)
	}
	return s, nil
}

// restore puts every swapped file back: staged content returns to its
// staged path, prior live files return to their targets.
func (s *swapState) restore() error {
	var firstErr error
	for i := len(s.done) - 1; i >= 0; i-- {
		sf := s.done[i]
		if err := s.fs.Rename(sf.target, sf.staged); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, errors.ErrFileWrite,
				"cannot restore %q after validation", sf.target)
		}
		if sf.hadPrior {
			if err := s.fs.Rename(sf.aside, sf.target); err != nil && firstErr == nil {
				firstErr = errors.Wrapf(err, errors.ErrFileWrite,
					"cannot restore %q after validation", sf.target)
			}
		}
	}
	s.done = nil
	return firstErr
}

// ActivateCommand returns an activation hook that runs one command line
// (e.g. "supervisorctl update")
func ActivateCommand(r system.Runner, cmdline string) ActivateFunc {
	return func(ctx context.Context) error {
		fields := strings.Fields(cmdline)
		if len(fields) == 0 {
			return nil
		}
		_, err := system.RunChecked(ctx, r, system.Command{
			Name: fields[0],
			Args: fields[1:],
		})
		return err
	}
}

// ActivateReload returns an activation hook that reloads a unit
func ActivateReload(sm system.ServiceManager, unit string) ActivateFunc {
	return func(ctx context.Context) error {
		return sm.Reload(ctx, unit)
	}
}

// ActivateRestart returns an activation hook that restarts a unit
func ActivateRestart(sm system.ServiceManager, unit string) ActivateFunc {
	return func(ctx context.Context) error {
		return sm.Restart(ctx, unit)
	}
}

// ActivateEnable returns an activation hook that enables a unit at boot
func ActivateEnable(sm system.ServiceManager, unit string) ActivateFunc {
	return func(ctx context.Context) error {
		return sm.Enable(ctx, unit)
	}
}

// ActivateDaemonReload returns an activation hook that reloads the service
// manager configuration. Required after writing a unit file.
func ActivateDaemonReload(sm system.ServiceManager) ActivateFunc {
	return func(ctx context.Context) error {
		return sm.DaemonReload(ctx)
	}
}

// ActivateSequence chains activation hooks; the first failure stops the chain
func ActivateSequence(fns ...ActivateFunc) ActivateFunc {
	return func(ctx context.Context) error {
		for _, fn := range fns {
			if fn == nil {
				continue
			}
			if err := fn(ctx); err != nil {
				return err
			}
		}
		return nil
	}
}
