package action

import (
	"context"

	"github.com/hostup/hostup/pkg/system"
)

// EnsureCommand is the generic glue action for tools without a richer
// collaborator (pm2, supervisorctl, composer, npm). The optional check
// command's exit status is the predicate: exit 0 means satisfied. Without a
// check command the action is always unsatisfied and runs every time.
type EnsureCommand struct {
	name   string
	runner system.Runner
	check  *system.Command
	apply  system.Command
}

// NewEnsureCommand creates a command action. check may be nil.
func NewEnsureCommand(runner system.Runner, name string, check *system.Command, apply system.Command) *EnsureCommand {
	return &EnsureCommand{name: name, runner: runner, check: check, apply: apply}
}

// Name identifies the action
func (a *EnsureCommand) Name() string {
	return a.name
}

// Check runs the check command, if any; exit 0 means satisfied
func (a *EnsureCommand) Check(ctx context.Context) (Status, error) {
	if a.check == nil {
		return StatusUnsatisfied, nil
	}
	result, err := a.runner.Run(ctx, *a.check)
	if err != nil {
		return StatusUnsatisfied, err
	}
	if result.ExitCode == 0 {
		return StatusSatisfied, nil
	}
	return StatusUnsatisfied, nil
}

// Apply runs the apply command; non-zero exit is an ACTION_EXECUTE error
func (a *EnsureCommand) Apply(ctx context.Context) error {
	_, err := system.RunChecked(ctx, a.runner, a.apply)
	return err
}

// WithRollback returns a variant of the action that undoes Apply by running
// the given command. Without it the action is commit-only.
func (a *EnsureCommand) WithRollback(rollback system.Command) *RollbackCommand {
	return &RollbackCommand{EnsureCommand: *a, rollback: rollback}
}

// RollbackCommand is an EnsureCommand with a declared rollback command
type RollbackCommand struct {
	EnsureCommand
	rollback system.Command
}

// Rollback runs the rollback command
func (a *RollbackCommand) Rollback(ctx context.Context) error {
	_, err := system.RunChecked(ctx, a.runner, a.rollback)
	return err
}
