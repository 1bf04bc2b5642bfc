// Package txn sequences idempotent actions with all-or-nothing semantics per
// atomic group. File mutations are staged to temporary paths next to their
// targets, validated (e.g. nginx -t against the staged snapshot), and only
// then renamed into place. Post-commit failures roll committed actions back
// in reverse order; a committed action without a rollback path surfaces as
// UNCOMMITTABLE so automation can alert rather than silently continue.
package txn

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hostup/hostup/pkg/action"
	"github.com/hostup/hostup/pkg/errors"
	"github.com/hostup/hostup/pkg/filesystem"
	"github.com/hostup/hostup/pkg/logging"
)

// Staged maps live target paths to the temporary paths holding their staged
// content. Validation hooks receive it to syntax-check staged files before
// anything touches the live paths.
type Staged map[string]string

// ValidateFunc runs between staging and commit. A non-nil error discards the
// staged files and fails the group with VALIDATION_FAILED; live state is left
// byte-identical.
type ValidateFunc func(ctx context.Context, staged Staged) error

// ActivateFunc runs after a successful commit (typically a service reload).
// A non-nil error triggers rollback of the committed actions.
type ActivateFunc func(ctx context.Context) error

// Group is an ordered set of actions committed together. Groups are
// independently committed: a failed group never unwinds earlier groups.
type Group struct {
	Name     string
	Actions  []action.Descriptor
	Validate ValidateFunc
	Activate ActivateFunc
}

// GroupResult is the reported outcome of one group
type GroupResult struct {
	Group      string
	Results    []action.Result
	Err        error
	RolledBack bool
}

// Failed reports whether the group failed
func (g *GroupResult) Failed() bool {
	return g.Err != nil
}

// RunResult lists per-group outcomes. Partial progress across groups is
// expected: earlier committed groups stay in place when a later group fails.
type RunResult struct {
	Groups []GroupResult
}

// Failed reports whether any group failed
func (r *RunResult) Failed() bool {
	return r.FirstError() != nil
}

// FirstError returns the first group error, if any
func (r *RunResult) FirstError() error {
	for i := range r.Groups {
		if r.Groups[i].Err != nil {
			return r.Groups[i].Err
		}
	}
	return nil
}

// Runner executes groups under the advisory lock
type Runner struct {
	fs              filesystem.FS
	lockPath        string
	continueOnError bool
}

// Option configures a Runner
type Option func(*Runner)

// WithContinueOnError makes the runner attempt later groups after a group
// fails, instead of stopping at the first failure.
func WithContinueOnError() Option {
	return func(r *Runner) { r.continueOnError = true }
}

// NewRunner creates a transaction runner. lockPath is the advisory lock file
// held for the duration of every Run.
func NewRunner(fs filesystem.FS, lockPath string, opts ...Option) *Runner {
	r := &Runner{fs: fs, lockPath: lockPath}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the groups in order. Group failures are reported through the
// RunResult; the returned error is reserved for failures that prevent the
// run itself (lock contention).
func (r *Runner) Run(ctx context.Context, groups []Group) (*RunResult, error) {
	logger := logging.GetLogger("txn")

	lock, err := Acquire(r.lockPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn().Err(err).Str("path", r.lockPath).Msg("Failed to release lock")
		}
	}()

	result := &RunResult{}
	for _, g := range groups {
		logger.Info().Str("group", g.Name).Int("actions", len(g.Actions)).Msg("Running group")
		gr := r.runGroup(ctx, g)
		result.Groups = append(result.Groups, gr)
		if gr.Err != nil {
			logger.Error().Str("group", g.Name).Err(gr.Err).Msg("Group failed")
			if !r.continueOnError {
				break
			}
		}
	}
	return result, nil
}

// CheckResult is one action's check outcome in a preview run
type CheckResult struct {
	Action string
	Status action.Status
	Err    error
}

// GroupCheck lists check outcomes for one group
type GroupCheck struct {
	Group  string
	Checks []CheckResult
}

// Preview runs every action's Check without mutating anything. It does not
// take the lock: checks are side-effect-free by contract.
func (r *Runner) Preview(ctx context.Context, groups []Group) []GroupCheck {
	out := make([]GroupCheck, 0, len(groups))
	for _, g := range groups {
		gc := GroupCheck{Group: g.Name}
		for _, d := range g.Actions {
			status, err := d.Action.Check(ctx)
			gc.Checks = append(gc.Checks, CheckResult{
				Action: d.Action.Name(),
				Status: status,
				Err:    err,
			})
		}
		out = append(out, gc)
	}
	return out
}

// stagedFile tracks one staged target until commit or discard
type stagedFile struct {
	index  int // position in the group's action list
	target string
	staged string
}

// committed tracks one applied mutation for reverse-order rollback
type committed struct {
	// file rollback: restore target from backup (or remove if no prior)
	target   string
	backup   string
	hadPrior bool

	// action rollback
	act action.Action
}

func (r *Runner) runGroup(ctx context.Context, g Group) GroupResult {
	logger := logging.GetLogger("txn")
	res := GroupResult{Group: g.Name}
	res.Results = make([]action.Result, len(g.Actions))
	for i, d := range g.Actions {
		res.Results[i] = action.Result{Action: d.Action.Name(), Outcome: action.OutcomeSkipped}
	}

	var staged []stagedFile
	var pending []int // indices of unsatisfied non-file actions

	discard := func() {
		for _, s := range staged {
			if err := r.fs.Remove(s.staged); err != nil {
				logger.Warn().Err(err).Str("path", s.staged).Msg("Failed to discard staged file")
			}
		}
	}

	fail := func(i int, err error) GroupResult {
		res.Results[i].Outcome = action.OutcomeFailed
		res.Results[i].Err = err
		res.Err = err
		discard()
		return res
	}

	// Phase 1: check, and stage file-producing actions
	for i, d := range g.Actions {
		start := time.Now()
		status, err := d.Action.Check(ctx)
		res.Results[i].Duration = time.Since(start)
		if err != nil {
			if d.BestEffort {
				logger.Warn().Str("action", d.Action.Name()).Err(err).Msg("Best-effort check failed")
				res.Results[i].Outcome = action.OutcomeFailed
				res.Results[i].Err = err
				continue
			}
			return fail(i, err)
		}
		if status == action.StatusSatisfied {
			res.Results[i].Outcome = action.OutcomeAlreadySatisfied
			continue
		}

		if fp, ok := d.Action.(action.FileProducer); ok {
			content, err := fp.Content()
			if err != nil {
				if d.BestEffort {
					res.Results[i].Outcome = action.OutcomeFailed
					res.Results[i].Err = err
					continue
				}
				return fail(i, err)
			}
			target := fp.TargetPath()
			dir := filepath.Dir(target)
			// staged in the target's directory so commit is a same-filesystem rename
			stagedPath := filepath.Join(dir, fmt.Sprintf(".%s.hostup-stage", filepath.Base(target)))
			if err := r.fs.MkdirAll(dir, 0755); err != nil {
				return fail(i, errors.Wrapf(err, errors.ErrFileWrite, "cannot create %q", dir))
			}
			if err := r.fs.WriteFile(stagedPath, content, fp.Mode()); err != nil {
				return fail(i, errors.Wrapf(err, errors.ErrFileWrite, "cannot stage %q", target))
			}
			staged = append(staged, stagedFile{index: i, target: target, staged: stagedPath})
		} else {
			pending = append(pending, i)
		}
	}

	// Phase 2: validate the staged snapshot
	if g.Validate != nil {
		stagedMap := make(Staged, len(staged))
		for _, s := range staged {
			stagedMap[s.target] = s.staged
		}
		if err := g.Validate(ctx, stagedMap); err != nil {
			discard()
			res.Err = errors.Wrapf(err, errors.ErrValidationFailed,
				"group %q failed validation", g.Name)
			return res
		}
	}

	// Phase 3: commit staged files (backup, then rename into place)
	var done []committed
	for _, s := range staged {
		backup := s.target + ".hostup-backup"
		hadPrior := false
		if data, err := r.fs.ReadFile(s.target); err == nil {
			if err := r.fs.WriteFile(backup, data, 0600); err != nil {
				discard()
				rbErr, uncommittable := r.rollback(ctx, done)
				res.RolledBack = rbErr == nil && !uncommittable
				res.Err = r.postCommitError(g.Name,
					errors.Wrapf(err, errors.ErrFileWrite, "cannot back up %q", s.target),
					rbErr, uncommittable)
				res.Results[s.index].Outcome = action.OutcomeFailed
				res.Results[s.index].Err = err
				return res
			}
			hadPrior = true
		}
		if err := r.fs.Rename(s.staged, s.target); err != nil {
			discard()
			rbErr, uncommittable := r.rollback(ctx, done)
			res.RolledBack = rbErr == nil && !uncommittable
			res.Err = r.postCommitError(g.Name,
				errors.Wrapf(err, errors.ErrFileWrite, "cannot commit %q", s.target),
				rbErr, uncommittable)
			res.Results[s.index].Outcome = action.OutcomeFailed
			res.Results[s.index].Err = err
			return res
		}
		done = append(done, committed{target: s.target, backup: backup, hadPrior: hadPrior})
		res.Results[s.index].Outcome = action.OutcomeApplied
	}

	// Phase 4: apply the remaining actions in order
	for _, i := range pending {
		d := g.Actions[i]
		start := time.Now()
		err := d.Action.Apply(ctx)
		res.Results[i].Duration += time.Since(start)
		if err != nil {
			if d.BestEffort {
				logger.Warn().Str("action", d.Action.Name()).Err(err).Msg("Best-effort action failed")
				res.Results[i].Outcome = action.OutcomeFailed
				res.Results[i].Err = err
				continue
			}
			res.Results[i].Outcome = action.OutcomeFailed
			res.Results[i].Err = err
			rbErr, uncommittable := r.rollback(ctx, done)
			res.RolledBack = rbErr == nil && !uncommittable
			res.Err = r.postCommitError(g.Name, err, rbErr, uncommittable)
			return res
		}
		done = append(done, committed{act: d.Action})
		res.Results[i].Outcome = action.OutcomeApplied
	}

	// Phase 5: activate
	if g.Activate != nil {
		if err := g.Activate(ctx); err != nil {
			rbErr, uncommittable := r.rollback(ctx, done)
			res.RolledBack = rbErr == nil && !uncommittable
			res.Err = r.postCommitError(g.Name, err, rbErr, uncommittable)
			return res
		}
	}

	// Success: the backups are no longer needed
	for _, c := range done {
		if c.hadPrior {
			if err := r.fs.Remove(c.backup); err != nil {
				logger.Warn().Err(err).Str("path", c.backup).Msg("Failed to remove backup")
			}
		}
	}
	return res
}

// rollback undoes committed mutations in reverse order. It returns the first
// rollback error and whether any committed action had no rollback path.
func (r *Runner) rollback(ctx context.Context, done []committed) (error, bool) {
	logger := logging.GetLogger("txn")
	var firstErr error
	uncommittable := false

	for i := len(done) - 1; i >= 0; i-- {
		c := done[i]
		switch {
		case c.target != "":
			var err error
			if c.hadPrior {
				err = r.fs.Rename(c.backup, c.target)
			} else {
				err = r.fs.Remove(c.target)
			}
			if err != nil && firstErr == nil {
				firstErr = err
			}
		case c.act != nil:
			rb, ok := c.act.(action.Rollbacker)
			if !ok {
				logger.Error().Str("action", c.act.Name()).Msg("Committed action has no rollback path")
				uncommittable = true
				continue
			}
			if err := rb.Rollback(ctx); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr, uncommittable
}

// postCommitError composes the reported error for a failure after commit.
// cause is the first failure; rbErr/uncommittable describe the rollback
// outcome.
func (r *Runner) postCommitError(group string, cause, rbErr error, uncommittable bool) error {
	if uncommittable {
		return errors.Wrapf(cause, errors.ErrUncommittable,
			"group %q failed after commit and has no complete rollback path", group)
	}
	if rbErr != nil {
		return errors.Wrapf(cause, errors.ErrUncommittable,
			"group %q failed after commit and rollback also failed", group).
			WithDetail("rollbackError", rbErr.Error())
	}
	return errors.Wrapf(cause, errors.ErrActionExecute,
		"group %q failed after commit; committed actions were rolled back", group)
}
