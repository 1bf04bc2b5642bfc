package system

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/hostup/hostup/pkg/errors"
	"github.com/hostup/hostup/pkg/filesystem"
	"github.com/hostup/hostup/pkg/logging"
)

const cloneTimeout = 10 * time.Minute

// Git implements SourceFetcher with the git CLI
type Git struct {
	runner Runner
	fs     filesystem.FS
}

// NewGit creates a SourceFetcher backed by git
func NewGit(runner Runner, fs filesystem.FS) *Git {
	return &Git{runner: runner, fs: fs}
}

// Clone clones url into dest. An existing non-empty destination is a
// PRECONDITION_FAILED error; callers that want to overwrite must clear the
// destination explicitly first.
func (g *Git) Clone(ctx context.Context, url, dest string) error {
	logger := logging.GetLogger("system.git")

	if entries, err := g.fs.ReadDir(dest); err == nil && len(entries) > 0 {
		return errors.Newf(errors.ErrPreconditionFailed,
			"destination %q exists and is not empty", dest).
			WithDetail("dest", dest)
	} else if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %q", dest)
	}

	logger.Info().Str("url", url).Str("dest", dest).Msg("Cloning repository")
	_, err := RunChecked(ctx, g.runner, Command{
		Name:    "git",
		Args:    []string{"clone", "--depth", "1", url, dest},
		Timeout: cloneTimeout,
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrCloneFailed, "git clone of %q failed", url)
	}
	return nil
}

// HasCheckout reports whether dest already holds a git checkout
func (g *Git) HasCheckout(dest string) bool {
	info, err := g.fs.Stat(filepath.Join(dest, ".git"))
	return err == nil && info.IsDir()
}
