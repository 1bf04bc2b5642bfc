package system

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/hostup/hostup/pkg/errors"
	"github.com/hostup/hostup/pkg/logging"
)

// Command describes one external process invocation.
type Command struct {
	Name    string
	Args    []string
	Env     []string // appended to the inherited environment
	Dir     string
	Timeout time.Duration // zero means no timeout beyond the caller's context
}

// String returns the command line for logging and error messages
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result is the captured outcome of a completed process.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes external commands. Run blocks until the process exits;
// a non-zero exit status is reported through Result.ExitCode with a nil
// error, so checks can branch on exit codes without unwrapping. A non-nil
// error means the process could not be run at all.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// execRunner is the production Runner backed by os/exec
type execRunner struct{}

// NewRunner creates the production process runner
func NewRunner() Runner {
	return &execRunner{}
}

func (r *execRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	logger := logging.GetLogger("system.runner")

	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	logging.LogCommand(cmd.Name, cmd.Args)
	start := time.Now()

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			logger.Debug().
				Str("command", cmd.String()).
				Int("exitCode", result.ExitCode).
				Dur("duration", time.Since(start)).
				Msg("Command exited non-zero")
			return result, nil
		}
		return result, errors.Wrapf(err, errors.ErrActionExecute,
			"failed to run %q", cmd.String())
	}

	logger.Debug().
		Str("command", cmd.String()).
		Dur("duration", time.Since(start)).
		Msg("Command completed")
	return result, nil
}

// RunChecked runs cmd and converts a non-zero exit into a coded
// ACTION_EXECUTE error carrying the command line and stderr.
func RunChecked(ctx context.Context, r Runner, cmd Command) (Result, error) {
	result, err := r.Run(ctx, cmd)
	if err != nil {
		return result, err
	}
	if result.ExitCode != 0 {
		msg := strings.TrimSpace(result.Stderr)
		if msg == "" {
			msg = strings.TrimSpace(result.Stdout)
		}
		return result, errors.Newf(errors.ErrActionExecute,
			"%q exited with status %d: %s", cmd.String(), result.ExitCode, msg).
			WithDetail("command", cmd.String()).
			WithDetail("exitCode", result.ExitCode)
	}
	return result, nil
}
