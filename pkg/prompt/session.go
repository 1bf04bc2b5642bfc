// Package prompt collects interactive answers with defaults. It is a config
// source for the engine, not part of it: sessions produce substitution
// values and decisions, the engine never prompts.
package prompt

import (
	"os"

	"github.com/mattn/go-isatty"

	"github.com/hostup/hostup/pkg/errors"
)

// Validator checks a candidate answer before it is accepted
type Validator func(string) error

// Session asks questions through a Driver. With assumeYes every question
// resolves to its default without touching the driver; a non-interactive
// stdin without assumeYes refuses to hang and fails with
// PRECONDITION_FAILED instead.
type Session struct {
	driver      Driver
	assumeYes   bool
	interactive bool
}

// NewSession creates a session; interactivity is detected from stdin
func NewSession(driver Driver, assumeYes bool) *Session {
	fd := os.Stdin.Fd()
	return &Session{
		driver:      driver,
		assumeYes:   assumeYes,
		interactive: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	}
}

// WithInteractive overrides interactivity detection (tests)
func (s *Session) WithInteractive(v bool) *Session {
	s.interactive = v
	return s
}

func (s *Session) guard(prompt string) error {
	if !s.interactive {
		return errors.Newf(errors.ErrPreconditionFailed,
			"stdin is not a terminal and --yes was not given; cannot ask %q", prompt)
	}
	return nil
}

// Ask collects a string answer. Validators run against the final answer,
// including the default when assumeYes is set.
func (s *Session) Ask(prompt, def string, validators ...Validator) (string, error) {
	validate := chain(validators)
	if s.assumeYes {
		if validate != nil {
			if err := validate(def); err != nil {
				return "", errors.Wrapf(err, errors.ErrPreconditionFailed,
					"default answer for %q is invalid", prompt)
			}
		}
		return def, nil
	}
	if err := s.guard(prompt); err != nil {
		return "", err
	}
	return s.driver.Input(prompt, def, validate)
}

// Confirm collects a yes/no answer
func (s *Session) Confirm(prompt string, def bool) (bool, error) {
	if s.assumeYes {
		return def, nil
	}
	if err := s.guard(prompt); err != nil {
		return false, err
	}
	return s.driver.Confirm(prompt, def)
}

// Select collects one of the given options
func (s *Session) Select(prompt string, options []string, def string) (string, error) {
	if s.assumeYes {
		return def, nil
	}
	if err := s.guard(prompt); err != nil {
		return "", err
	}
	return s.driver.Select(prompt, options, def)
}

func chain(validators []Validator) func(string) error {
	if len(validators) == 0 {
		return nil
	}
	return func(answer string) error {
		for _, v := range validators {
			if err := v(answer); err != nil {
				return err
			}
		}
		return nil
	}
}
