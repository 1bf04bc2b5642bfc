package prompt

import (
	"fmt"
	"strings"
)

// ScriptedDriver answers prompts from a fixed queue. Tests use it to drive
// sessions without a terminal. The literal answer "" takes the default.
type ScriptedDriver struct {
	answers  []string
	asked    []string
	position int
}

// NewScriptedDriver creates a driver that replies with the given answers in order
func NewScriptedDriver(answers ...string) *ScriptedDriver {
	return &ScriptedDriver{answers: answers}
}

// Asked returns the prompt messages seen so far
func (d *ScriptedDriver) Asked() []string {
	return d.asked
}

func (d *ScriptedDriver) next(msg string) (string, error) {
	d.asked = append(d.asked, msg)
	if d.position >= len(d.answers) {
		return "", fmt.Errorf("no scripted answer for prompt %q", msg)
	}
	answer := d.answers[d.position]
	d.position++
	return answer, nil
}

// Input implements Driver
func (d *ScriptedDriver) Input(msg, def string, validate func(string) error) (string, error) {
	answer, err := d.next(msg)
	if err != nil {
		return "", err
	}
	if answer == "" {
		answer = def
	}
	if validate != nil {
		if err := validate(answer); err != nil {
			return "", err
		}
	}
	return answer, nil
}

// Confirm implements Driver
func (d *ScriptedDriver) Confirm(msg string, def bool) (bool, error) {
	answer, err := d.next(msg)
	if err != nil {
		return false, err
	}
	if answer == "" {
		return def, nil
	}
	return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes"), nil
}

// Select implements Driver
func (d *ScriptedDriver) Select(msg string, options []string, def string) (string, error) {
	answer, err := d.next(msg)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	for _, opt := range options {
		if opt == answer {
			return answer, nil
		}
	}
	return "", fmt.Errorf("scripted answer %q is not one of %v", answer, options)
}
