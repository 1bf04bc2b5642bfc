// Test Type: Unit Test
// Description: Tests for the txn package - staging, validation, commit,
// rollback and per-group independence.

package txn_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/hostup/hostup/pkg/action"
	"github.com/hostup/hostup/pkg/errors"
	"github.com/hostup/hostup/pkg/filesystem"
	"github.com/hostup/hostup/pkg/testutil"
	"github.com/hostup/hostup/pkg/txn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAction is a minimal non-file action without a rollback path
type fakeAction struct {
	name     string
	status   action.Status
	applyErr error
	applied  int
}

func (f *fakeAction) Name() string                                 { return f.name }
func (f *fakeAction) Check(context.Context) (action.Status, error) { return f.status, nil }
func (f *fakeAction) Apply(context.Context) error {
	f.applied++
	return f.applyErr
}

// fakeRollbackable adds a rollback path to fakeAction
type fakeRollbackable struct {
	fakeAction
	rolledBack int
}

func (f *fakeRollbackable) Rollback(context.Context) error {
	f.rolledBack++
	return nil
}

func newRunner(t *testing.T, fs filesystem.FS, opts ...txn.Option) *txn.Runner {
	t.Helper()
	return txn.NewRunner(fs, filepath.Join(t.TempDir(), "hostup.lock"), opts...)
}

func fileGroup(fs filesystem.FS, name, target, content string) txn.Group {
	return txn.Group{
		Name: name,
		Actions: []action.Descriptor{
			{Action: action.NewEnsureFile(fs, target, []byte(content), 0644)},
		},
	}
}

func TestRunCommitsStagedFile(t *testing.T) {
	fs := testutil.NewMemoryFS()
	runner := newRunner(t, fs)

	var sawStaged string
	g := fileGroup(fs, "vhost", "/etc/nginx/sites-available/example.com", "server {}")
	g.Validate = func(_ context.Context, staged txn.Staged) error {
		sawStaged = staged["/etc/nginx/sites-available/example.com"]
		// validation runs against the staged copy, never the live path
		data, err := fs.ReadFile(sawStaged)
		require.NoError(t, err)
		assert.Equal(t, "server {}", string(data))
		testutil.AssertNotExists(t, fs, "/etc/nginx/sites-available/example.com")
		return nil
	}

	result, err := runner.Run(context.Background(), []txn.Group{g})
	require.NoError(t, err)
	require.False(t, result.Failed())

	assert.NotEmpty(t, sawStaged)
	testutil.AssertFileContent(t, fs, "/etc/nginx/sites-available/example.com", "server {}")
	testutil.AssertNotExists(t, fs, sawStaged)
	assert.Equal(t, action.OutcomeApplied, result.Groups[0].Results[0].Outcome)
}

func TestAlreadySatisfiedSkipsStaging(t *testing.T) {
	fs := testutil.NewMemoryFS()
	testutil.WriteFile(t, fs, "/etc/app.conf", "content")
	runner := newRunner(t, fs)

	validated := false
	g := fileGroup(fs, "app", "/etc/app.conf", "content")
	g.Validate = func(_ context.Context, staged txn.Staged) error {
		validated = true
		assert.Empty(t, staged)
		return nil
	}

	result, err := runner.Run(context.Background(), []txn.Group{g})
	require.NoError(t, err)
	assert.True(t, validated)
	assert.Equal(t, action.OutcomeAlreadySatisfied, result.Groups[0].Results[0].Outcome)
}

func TestValidationFailureLeavesLiveByteIdentical(t *testing.T) {
	fs := testutil.NewMemoryFS()
	testutil.WriteFile(t, fs, "/etc/nginx/sites-available/example.com", "old config")
	runner := newRunner(t, fs)

	g := fileGroup(fs, "vhost", "/etc/nginx/sites-available/example.com", "broken config")
	g.Validate = func(context.Context, txn.Staged) error {
		return fmt.Errorf("nginx: configuration file test failed")
	}

	result, err := runner.Run(context.Background(), []txn.Group{g})
	require.NoError(t, err)
	require.True(t, result.Failed())
	assert.True(t, errors.IsErrorCode(result.Groups[0].Err, errors.ErrValidationFailed))

	// no partial application: the live file is untouched and nothing is staged
	testutil.AssertFileContent(t, fs, "/etc/nginx/sites-available/example.com", "old config")
	entries, readErr := fs.ReadDir("/etc/nginx/sites-available")
	require.NoError(t, readErr)
	assert.Len(t, entries, 1)
}

func TestActivateFailureRollsBackCommittedFiles(t *testing.T) {
	fs := testutil.NewMemoryFS()
	testutil.WriteFile(t, fs, "/etc/nginx/sites-available/example.com", "old config")
	runner := newRunner(t, fs)

	g := fileGroup(fs, "vhost", "/etc/nginx/sites-available/example.com", "new config")
	g.Activate = func(context.Context) error {
		return fmt.Errorf("systemctl reload nginx failed")
	}

	result, err := runner.Run(context.Background(), []txn.Group{g})
	require.NoError(t, err)
	require.True(t, result.Failed())

	gr := result.Groups[0]
	assert.True(t, errors.IsErrorCode(gr.Err, errors.ErrActionExecute))
	assert.True(t, gr.RolledBack)
	testutil.AssertFileContent(t, fs, "/etc/nginx/sites-available/example.com", "old config")
}

func TestActivateFailureRemovesFreshFiles(t *testing.T) {
	fs := testutil.NewMemoryFS()
	runner := newRunner(t, fs)

	g := fileGroup(fs, "vhost", "/etc/nginx/sites-available/example.com", "new config")
	g.Activate = func(context.Context) error { return fmt.Errorf("reload failed") }

	result, err := runner.Run(context.Background(), []txn.Group{g})
	require.NoError(t, err)
	require.True(t, result.Failed())
	testutil.AssertNotExists(t, fs, "/etc/nginx/sites-available/example.com")
}

func TestRollbackRunsInReverseOrderThroughRollbackers(t *testing.T) {
	fs := testutil.NewMemoryFS()
	runner := newRunner(t, fs)

	ok := &fakeRollbackable{fakeAction: fakeAction{name: "enable"}}
	failing := &fakeAction{name: "reload", applyErr: fmt.Errorf("boom")}

	g := txn.Group{
		Name: "activate",
		Actions: []action.Descriptor{
			{Action: ok},
			{Action: failing},
		},
	}

	result, err := runner.Run(context.Background(), []txn.Group{g})
	require.NoError(t, err)
	require.True(t, result.Failed())
	assert.Equal(t, 1, ok.applied)
	assert.Equal(t, 1, ok.rolledBack)
	assert.True(t, result.Groups[0].RolledBack)
	assert.True(t, errors.IsErrorCode(result.Groups[0].Err, errors.ErrActionExecute))
}

func TestCommittedActionWithoutRollbackIsUncommittable(t *testing.T) {
	fs := testutil.NewMemoryFS()
	runner := newRunner(t, fs)

	noRollback := &fakeAction{name: "install"}
	failing := &fakeAction{name: "restart", applyErr: fmt.Errorf("boom")}

	g := txn.Group{
		Name: "provision",
		Actions: []action.Descriptor{
			{Action: noRollback},
			{Action: failing},
		},
	}

	result, err := runner.Run(context.Background(), []txn.Group{g})
	require.NoError(t, err)
	gr := result.Groups[0]
	assert.True(t, errors.IsErrorCode(gr.Err, errors.ErrUncommittable))
	assert.False(t, gr.RolledBack)
}

func TestBestEffortFailureDoesNotFailGroup(t *testing.T) {
	fs := testutil.NewMemoryFS()
	runner := newRunner(t, fs)

	optional := &fakeAction{name: "pm2-save", applyErr: fmt.Errorf("pm2 not installed")}
	required := &fakeAction{name: "reload"}

	g := txn.Group{
		Name: "deploy",
		Actions: []action.Descriptor{
			{Action: optional, BestEffort: true},
			{Action: required},
		},
	}

	result, err := runner.Run(context.Background(), []txn.Group{g})
	require.NoError(t, err)
	assert.False(t, result.Failed())
	assert.Equal(t, action.OutcomeFailed, result.Groups[0].Results[0].Outcome)
	assert.Equal(t, action.OutcomeApplied, result.Groups[0].Results[1].Outcome)
}

func TestGroupsAreIndependentlyCommitted(t *testing.T) {
	fs := testutil.NewMemoryFS()
	runner := newRunner(t, fs)

	good := fileGroup(fs, "first", "/etc/first.conf", "first")
	bad := fileGroup(fs, "second", "/etc/second.conf", "second")
	bad.Validate = func(context.Context, txn.Staged) error { return fmt.Errorf("invalid") }

	result, err := runner.Run(context.Background(), []txn.Group{good, bad})
	require.NoError(t, err)
	require.Len(t, result.Groups, 2)

	// the first group's commit survives the second group's failure
	assert.False(t, result.Groups[0].Failed())
	assert.True(t, result.Groups[1].Failed())
	testutil.AssertFileContent(t, fs, "/etc/first.conf", "first")
	testutil.AssertNotExists(t, fs, "/etc/second.conf")
}

func TestStopsAtFirstFailedGroupByDefault(t *testing.T) {
	fs := testutil.NewMemoryFS()
	runner := newRunner(t, fs)

	bad := fileGroup(fs, "first", "/etc/first.conf", "first")
	bad.Validate = func(context.Context, txn.Staged) error { return fmt.Errorf("invalid") }
	later := fileGroup(fs, "second", "/etc/second.conf", "second")

	result, err := runner.Run(context.Background(), []txn.Group{bad, later})
	require.NoError(t, err)
	assert.Len(t, result.Groups, 1)
	testutil.AssertNotExists(t, fs, "/etc/second.conf")
}

func TestContinueOnErrorRunsLaterGroups(t *testing.T) {
	fs := testutil.NewMemoryFS()
	runner := newRunner(t, fs, txn.WithContinueOnError())

	bad := fileGroup(fs, "first", "/etc/first.conf", "first")
	bad.Validate = func(context.Context, txn.Staged) error { return fmt.Errorf("invalid") }
	later := fileGroup(fs, "second", "/etc/second.conf", "second")

	result, err := runner.Run(context.Background(), []txn.Group{bad, later})
	require.NoError(t, err)
	assert.Len(t, result.Groups, 2)
	testutil.AssertFileContent(t, fs, "/etc/second.conf", "second")
}

func TestPreviewOnlyChecks(t *testing.T) {
	fs := testutil.NewMemoryFS()
	runner := newRunner(t, fs)

	g := fileGroup(fs, "vhost", "/etc/app.conf", "content")
	checks := runner.Preview(context.Background(), []txn.Group{g})

	require.Len(t, checks, 1)
	require.Len(t, checks[0].Checks, 1)
	assert.Equal(t, action.StatusUnsatisfied, checks[0].Checks[0].Status)
	testutil.AssertNotExists(t, fs, "/etc/app.conf")
}

func TestRunFailsFastWhenLockHeld(t *testing.T) {
	fs := testutil.NewMemoryFS()
	lockPath := filepath.Join(t.TempDir(), "hostup.lock")

	lock, err := txn.Acquire(lockPath)
	require.NoError(t, err)
	defer func() { require.NoError(t, lock.Release()) }()

	runner := txn.NewRunner(fs, lockPath)
	g := fileGroup(fs, "vhost", "/etc/app.conf", "content")

	_, err = runner.Run(context.Background(), []txn.Group{g})
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyRunning))
	testutil.AssertNotExists(t, fs, "/etc/app.conf")
}

func TestLockReleasedAfterRun(t *testing.T) {
	fs := testutil.NewMemoryFS()
	lockPath := filepath.Join(t.TempDir(), "hostup.lock")
	runner := txn.NewRunner(fs, lockPath)

	_, err := runner.Run(context.Background(), []txn.Group{fileGroup(fs, "a", "/etc/a.conf", "a")})
	require.NoError(t, err)

	// a second run can take the lock again
	_, err = runner.Run(context.Background(), []txn.Group{fileGroup(fs, "b", "/etc/b.conf", "b")})
	require.NoError(t, err)
}
