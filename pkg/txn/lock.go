package txn

import (
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hostup/hostup/pkg/errors"
	"github.com/hostup/hostup/pkg/logging"
	"github.com/pelletier/go-toml/v2"
)

// LockInfo is the inspectable content of the advisory lock file
type LockInfo struct {
	PID       int       `toml:"pid"`
	StartedAt time.Time `toml:"started_at"`
	Hostname  string    `toml:"hostname"`
}

// Alive reports whether the lock-holding process still exists. A
// non-positive PID means the lock file never recorded a holder (a crash
// between create and write); nobody is alive behind it.
func (i *LockInfo) Alive() bool {
	if i.PID <= 0 {
		return false
	}
	proc, err := os.FindProcess(i.PID)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}

// Age returns how long ago the lock was taken
func (i *LockInfo) Age() time.Duration {
	return time.Since(i.StartedAt)
}

// Lock is the held advisory lock. It prevents two provisioning runs from
// interleaving on the same host; well-behaved callers respect it, the OS
// does not enforce it.
type Lock struct {
	path string
}

// Acquire creates the lock file with O_CREAT|O_EXCL semantics. Contention
// surfaces as ALREADY_RUNNING before any mutation happens. The lock file is
// written through the os package directly: exclusive-create is the whole
// point and the FS abstraction does not carry open flags.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite,
			"cannot create lock directory for %q", path)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			held := errors.Newf(errors.ErrAlreadyRunning,
				"another run holds the lock at %q", path).
				WithDetail("path", path)
			if info, ierr := InspectLock(path); ierr == nil {
				held = held.WithDetail("pid", info.PID).
					WithDetail("age", info.Age().Round(time.Second).String())
			}
			return nil, held
		}
		return nil, errors.Wrapf(err, errors.ErrFileWrite, "cannot create lock at %q", path)
	}
	logger := logging.GetLogger("txn.lock")
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("Failed to close lock file")
		}
	}()

	// a lock we created but could not describe must not outlive this call:
	// an empty lock file would block every later run with no holder to inspect
	abandon := func() {
		if rerr := os.Remove(path); rerr != nil {
			logger.Warn().Err(rerr).Str("path", path).Msg("Failed to remove half-written lock")
		}
	}

	hostname, _ := os.Hostname()
	info := LockInfo{
		PID:       os.Getpid(),
		StartedAt: time.Now(),
		Hostname:  hostname,
	}
	data, err := toml.Marshal(info)
	if err != nil {
		abandon()
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot marshal lock info")
	}
	if _, err := f.Write(data); err != nil {
		abandon()
		return nil, errors.Wrapf(err, errors.ErrFileWrite, "cannot write lock at %q", path)
	}

	return &Lock{path: path}, nil
}

// Release removes the lock file
func (l *Lock) Release() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot remove lock at %q", l.path)
	}
	return nil
}

// InspectLock reads an existing lock file without touching it
func InspectLock(path string) (*LockInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrNotFound, "no lock at %q", path)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read lock at %q", path)
	}
	var info LockInfo
	if err := toml.Unmarshal(data, &info); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "malformed lock file at %q", path)
	}
	return &info, nil
}

// RemoveStaleLock removes the lock file regardless of holder. force skips
// the liveness check.
func RemoveStaleLock(path string, force bool) error {
	info, err := InspectLock(path)
	if err != nil {
		return err
	}
	if !force && info.Alive() {
		return errors.Newf(errors.ErrAlreadyRunning,
			"lock at %q is held by live process %d; use --force to remove anyway", path, info.PID).
			WithDetail("pid", info.PID)
	}
	if err := os.Remove(path); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot remove lock at %q", path)
	}
	return nil
}
