package prompt

import (
	"strconv"
	"strings"

	"github.com/hostup/hostup/pkg/errors"
)

// NotEmpty rejects blank answers
func NotEmpty(answer string) error {
	if strings.TrimSpace(answer) == "" {
		return errors.New(errors.ErrPreconditionFailed, "a value is required")
	}
	return nil
}

// Domain validates a DNS name: dot-separated labels of letters, digits and
// hyphens, no leading or trailing hyphen per label.
func Domain(answer string) error {
	if answer == "" || len(answer) > 253 {
		return errors.Newf(errors.ErrPreconditionFailed, "%q is not a valid domain name", answer)
	}
	for _, label := range strings.Split(answer, ".") {
		if label == "" || len(label) > 63 {
			return errors.Newf(errors.ErrPreconditionFailed, "%q is not a valid domain name", answer)
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return errors.Newf(errors.ErrPreconditionFailed, "%q is not a valid domain name", answer)
		}
		for i := 0; i < len(label); i++ {
			c := label[i]
			ok := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-'
			if !ok {
				return errors.Newf(errors.ErrPreconditionFailed, "%q is not a valid domain name", answer)
			}
		}
	}
	return nil
}

// AppName validates an application folder name: letters, digits, hyphens
// and underscores only, so it is safe in paths, unit names and pool names.
func AppName(answer string) error {
	if answer == "" || len(answer) > 64 {
		return errors.Newf(errors.ErrPreconditionFailed, "%q is not a valid app name", answer)
	}
	for i := 0; i < len(answer); i++ {
		c := answer[i]
		ok := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_'
		if !ok {
			return errors.Newf(errors.ErrPreconditionFailed,
				"%q is not a valid app name (letters, digits, - and _ only)", answer)
		}
	}
	return nil
}

// Port validates a TCP port number
func Port(answer string) error {
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > 65535 {
		return errors.Newf(errors.ErrPreconditionFailed, "%q is not a valid port", answer)
	}
	return nil
}
