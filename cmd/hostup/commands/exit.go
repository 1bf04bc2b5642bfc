package commands

import (
	"github.com/hostup/hostup/pkg/errors"
)

// Exit codes. Automation branches on these: 2 means fix the input or
// environment, 3 means the staged configuration was rejected, 4 means the
// host needs human attention, 5 means try again later.
const (
	ExitOK             = 0
	ExitFailure        = 1
	ExitPrecondition   = 2
	ExitValidation     = 3
	ExitUncommittable  = 4
	ExitAlreadyRunning = 5
)

// ExitCode maps an error to the process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch errors.GetErrorCode(err) {
	case errors.ErrPreconditionFailed, errors.ErrMissingPlaceholder:
		return ExitPrecondition
	case errors.ErrValidationFailed:
		return ExitValidation
	case errors.ErrUncommittable:
		return ExitUncommittable
	case errors.ErrAlreadyRunning:
		return ExitAlreadyRunning
	}
	return ExitFailure
}
