// Test Type: Unit Test
// Description: Tests for the validation and activation hook helpers - the
// staged-file swap around the check command and hook sequencing.

package txn_test

import (
	"context"
	"testing"

	"github.com/hostup/hostup/pkg/errors"
	"github.com/hostup/hostup/pkg/filesystem"
	"github.com/hostup/hostup/pkg/system"
	"github.com/hostup/hostup/pkg/testutil"
	"github.com/hostup/hostup/pkg/txn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// snapshotRunner records what the checked paths held at the moment the
// command ran, so tests can tell which content the checker actually parsed
type snapshotRunner struct {
	fs     filesystem.FS
	watch  []string
	seen   map[string][]string
	result system.Result
}

func newSnapshotRunner(fs filesystem.FS, watch ...string) *snapshotRunner {
	return &snapshotRunner{fs: fs, watch: watch, seen: make(map[string][]string)}
}

func (r *snapshotRunner) Run(_ context.Context, _ system.Command) (system.Result, error) {
	for _, path := range r.watch {
		data, err := r.fs.ReadFile(path)
		if err != nil {
			r.seen[path] = append(r.seen[path], "<absent>")
			continue
		}
		r.seen[path] = append(r.seen[path], string(data))
	}
	return r.result, nil
}

func TestValidateCommandChecksStagedContent(t *testing.T) {
	fs := testutil.NewMemoryFS()
	target := "/etc/nginx/sites-available/example.com"
	stagedPath := "/etc/nginx/sites-available/.example.com.hostup-stage"
	testutil.WriteFile(t, fs, target, "old config")
	testutil.WriteFile(t, fs, stagedPath, "new config")

	runner := newSnapshotRunner(fs, target)
	hook := txn.ValidateCommand(fs, runner, "nginx -t")

	err := hook(context.Background(), txn.Staged{target: stagedPath})
	require.NoError(t, err)

	// the check saw the staged content at the live path
	require.Len(t, runner.seen[target], 1)
	assert.Equal(t, "new config", runner.seen[target][0])

	// afterwards the live tree is back to its pre-check state
	testutil.AssertFileContent(t, fs, target, "old config")
	testutil.AssertFileContent(t, fs, stagedPath, "new config")
	testutil.AssertNotExists(t, fs, target+".hostup-validate")
}

func TestValidateCommandFailureRestoresLiveTree(t *testing.T) {
	fs := testutil.NewMemoryFS()
	target := "/etc/php/8.2/fpm/pool.d/myapp.conf"
	stagedPath := "/etc/php/8.2/fpm/pool.d/.myapp.conf.hostup-stage"
	testutil.WriteFile(t, fs, target, "[myapp]\nuser = deploy")
	testutil.WriteFile(t, fs, stagedPath, "[myapp\nbroken")

	runner := newSnapshotRunner(fs, target)
	runner.result = system.Result{ExitCode: 1, Stderr: "failed to load configuration"}
	hook := txn.ValidateCommand(fs, runner, "php-fpm8.2 -t")

	err := hook(context.Background(), txn.Staged{target: stagedPath})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrActionExecute))

	// the broken content was what the checker rejected, and the swap undid itself
	assert.Equal(t, "[myapp\nbroken", runner.seen[target][0])
	testutil.AssertFileContent(t, fs, target, "[myapp]\nuser = deploy")
	testutil.AssertFileContent(t, fs, stagedPath, "[myapp\nbroken")
}

func TestValidateCommandSwapsFreshTargetInAndOut(t *testing.T) {
	fs := testutil.NewMemoryFS()
	target := "/etc/nginx/sites-available/new.example.com"
	stagedPath := "/etc/nginx/sites-available/.new.example.com.hostup-stage"
	testutil.WriteFile(t, fs, stagedPath, "server {}")

	runner := newSnapshotRunner(fs, target)
	hook := txn.ValidateCommand(fs, runner, "nginx -t")

	require.NoError(t, hook(context.Background(), txn.Staged{target: stagedPath}))

	assert.Equal(t, "server {}", runner.seen[target][0])
	// no live file existed before, so none exists after
	testutil.AssertNotExists(t, fs, target)
	testutil.AssertFileContent(t, fs, stagedPath, "server {}")
}

func TestValidateCommandEmptyCommandLineIsNoOp(t *testing.T) {
	fs := testutil.NewMemoryFS()
	stagedPath := "/etc/app/.app.conf.hostup-stage"
	testutil.WriteFile(t, fs, stagedPath, "content")

	runner := newSnapshotRunner(fs)
	hook := txn.ValidateCommand(fs, runner, "  ")

	require.NoError(t, hook(context.Background(), txn.Staged{"/etc/app/app.conf": stagedPath}))
	assert.Empty(t, runner.seen)
	testutil.AssertNotExists(t, fs, "/etc/app/app.conf")
}

func TestActivateSequenceStopsAtFirstFailure(t *testing.T) {
	var order []string
	step := func(name string, err error) txn.ActivateFunc {
		return func(context.Context) error {
			order = append(order, name)
			return err
		}
	}

	seq := txn.ActivateSequence(
		step("check", nil),
		nil,
		step("reload", errors.New(errors.ErrActionExecute, "reload failed")),
		step("after", nil),
	)

	err := seq(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"check", "reload"}, order)
}
