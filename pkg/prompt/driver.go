package prompt

import (
	"github.com/AlecAivazis/survey/v2"

	"github.com/hostup/hostup/pkg/errors"
)

// Driver abstracts the actual terminal prompt implementation so the session
// logic can be tested with a scripted provider and callers can swap
// implementations.
type Driver interface {
	Input(msg, def string, validate func(string) error) (string, error)
	Confirm(msg string, def bool) (bool, error)
	Select(msg string, options []string, def string) (string, error)
}

// surveyDriver is the production driver on AlecAivazis/survey
type surveyDriver struct{}

// NewSurveyDriver creates the production terminal driver
func NewSurveyDriver() Driver {
	return &surveyDriver{}
}

func (d *surveyDriver) Input(msg, def string, validate func(string) error) (string, error) {
	var out string
	p := &survey.Input{Message: msg, Default: def}
	var opts []survey.AskOpt
	if validate != nil {
		opts = append(opts, survey.WithValidator(func(ans interface{}) error {
			s, _ := ans.(string)
			return validate(s)
		}))
	}
	if err := survey.AskOne(p, &out, opts...); err != nil {
		return "", errors.Wrap(err, errors.ErrPreconditionFailed, "prompt aborted")
	}
	return out, nil
}

func (d *surveyDriver) Confirm(msg string, def bool) (bool, error) {
	var out bool
	p := &survey.Confirm{Message: msg, Default: def}
	if err := survey.AskOne(p, &out); err != nil {
		return false, errors.Wrap(err, errors.ErrPreconditionFailed, "prompt aborted")
	}
	return out, nil
}

func (d *surveyDriver) Select(msg string, options []string, def string) (string, error) {
	var out string
	p := &survey.Select{Message: msg, Options: options, Default: def}
	if err := survey.AskOne(p, &out); err != nil {
		return "", errors.Wrap(err, errors.ErrPreconditionFailed, "prompt aborted")
	}
	return out, nil
}
