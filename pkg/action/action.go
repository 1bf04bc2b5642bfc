// Package action defines the idempotent unit of work the transaction engine
// sequences: a cheap, side-effect-free Check that answers "is this already
// satisfied?", and an Apply that mutates the host. Idempotence ownership
// lives entirely in the check phase: Apply is only legal after Check
// returned Unsatisfied and does not re-check internally.
package action

import (
	"context"
	"io/fs"
	"time"
)

// Status is the answer of an action's check predicate
type Status int

const (
	// StatusUnsatisfied means the action's postcondition does not hold yet
	StatusUnsatisfied Status = iota
	// StatusSatisfied means the action is already a no-op
	StatusSatisfied
)

// String returns the status name
func (s Status) String() string {
	if s == StatusSatisfied {
		return "satisfied"
	}
	return "unsatisfied"
}

// Action is a named unit of work. Constructed once per invocation, executed
// at most once, never reused across runs.
type Action interface {
	// Name identifies the action in results, logs and error messages
	Name() string

	// Check reports whether the action's postcondition already holds.
	// It must be side-effect-free and cheap (stat, readlink, dpkg query),
	// so callers can always preview whether Apply would be a no-op.
	Check(ctx context.Context) (Status, error)

	// Apply performs the mutation. Calling it when Check returned
	// Satisfied is a caller error.
	Apply(ctx context.Context) error
}

// Rollbacker is implemented by actions that can undo a committed Apply.
// An action without it makes its transaction group commit-only: failures
// after commit are reported as UNCOMMITTABLE rather than undone.
type Rollbacker interface {
	Rollback(ctx context.Context) error
}

// FileProducer is implemented by actions whose mutation is writing one file.
// The transaction engine stages the content to a temporary path, validates,
// and renames it into place; the action itself never writes the live path
// during a transactional run. File actions are therefore always
// rollbackable (the engine keeps a backup of the prior content).
type FileProducer interface {
	// TargetPath is the live path the file belongs at
	TargetPath() string

	// Content produces the bytes to write (e.g. a rendered template)
	Content() ([]byte, error)

	// Mode is the file mode for the target
	Mode() fs.FileMode
}

// Descriptor pairs an action with its run policy. BestEffort is a declared
// property: a failed best-effort action is recorded but does not fail its
// group.
type Descriptor struct {
	Action     Action
	BestEffort bool
}

// Outcome tags the result of one action within a run
type Outcome int

const (
	// OutcomeApplied means the action ran and mutated the host
	OutcomeApplied Outcome = iota
	// OutcomeAlreadySatisfied means the check short-circuited the action
	OutcomeAlreadySatisfied
	// OutcomeFailed means the action's check or apply failed
	OutcomeFailed
	// OutcomeSkipped means an earlier failure prevented the action from running
	OutcomeSkipped
)

// String returns the outcome name
func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeAlreadySatisfied:
		return "already-satisfied"
	case OutcomeFailed:
		return "failed"
	default:
		return "skipped"
	}
}

// Result is the per-action outcome of a run; owned by the run and discarded
// after reporting.
type Result struct {
	Action   string
	Outcome  Outcome
	Err      error
	Duration time.Duration
}
