package action

import (
	"bytes"
	"context"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/hostup/hostup/pkg/errors"
	"github.com/hostup/hostup/pkg/filesystem"
)

// EnsureFile ensures the target file holds exactly the given content.
// It implements FileProducer, so inside a transaction the engine stages and
// commits the file; Apply is the direct, non-transactional path.
type EnsureFile struct {
	fs      filesystem.FS
	target  string
	content []byte
	mode    iofs.FileMode
}

// NewEnsureFile creates a file action for the given target and content
func NewEnsureFile(fs filesystem.FS, target string, content []byte, mode iofs.FileMode) *EnsureFile {
	return &EnsureFile{fs: fs, target: target, content: content, mode: mode}
}

// Name identifies the action
func (a *EnsureFile) Name() string {
	return fmt.Sprintf("file:%s", a.target)
}

// Check compares the live file's content with the desired content
func (a *EnsureFile) Check(_ context.Context) (Status, error) {
	existing, err := a.fs.ReadFile(a.target)
	if err != nil {
		if os.IsNotExist(err) {
			return StatusUnsatisfied, nil
		}
		return StatusUnsatisfied, errors.Wrapf(err, errors.ErrFileAccess,
			"cannot read %q", a.target)
	}
	if bytes.Equal(existing, a.content) {
		return StatusSatisfied, nil
	}
	return StatusUnsatisfied, nil
}

// Apply writes the file directly. Transactional runs never call this; the
// engine stages Content to a temporary path and renames it into place.
func (a *EnsureFile) Apply(_ context.Context) error {
	if err := a.fs.MkdirAll(filepath.Dir(a.target), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot create parent of %q", a.target)
	}
	if err := a.fs.WriteFile(a.target, a.content, a.mode); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %q", a.target)
	}
	return nil
}

// TargetPath implements FileProducer
func (a *EnsureFile) TargetPath() string {
	return a.target
}

// Content implements FileProducer
func (a *EnsureFile) Content() ([]byte, error) {
	return a.content, nil
}

// Mode implements FileProducer
func (a *EnsureFile) Mode() iofs.FileMode {
	return a.mode
}
