// Test Type: Unit Test
// Description: Tests for error-code to exit-code mapping.

package commands

import (
	"fmt"
	"testing"

	"github.com/hostup/hostup/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitOK},
		{"precondition", errors.New(errors.ErrPreconditionFailed, "no tty"), ExitPrecondition},
		{"missing placeholder", errors.New(errors.ErrMissingPlaceholder, "PORT"), ExitPrecondition},
		{"validation", errors.New(errors.ErrValidationFailed, "nginx -t"), ExitValidation},
		{"uncommittable", errors.New(errors.ErrUncommittable, "no rollback"), ExitUncommittable},
		{"already running", errors.New(errors.ErrAlreadyRunning, "locked"), ExitAlreadyRunning},
		{"other coded error", errors.New(errors.ErrActionExecute, "boom"), ExitFailure},
		{"plain error", fmt.Errorf("boom"), ExitFailure},
		{"wrapped coded error", errors.Wrap(
			errors.New(errors.ErrValidationFailed, "nginx -t"),
			errors.ErrValidationFailed, "group failed"), ExitValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
