// Package tmpl implements the placeholder template renderer used for every
// configuration file hostup writes. Placeholders are `{NAME}` tokens where
// NAME is uppercase letters, digits and underscores. Matching is literal
// token scanning, not regex capturing: replacement happens uniformly in one
// pass over the template text, so substitution values containing `{OTHER}`
// are emitted verbatim and never re-expanded.
package tmpl

import (
	"strings"

	"github.com/hostup/hostup/pkg/errors"
)

// Template is an immutable text blob plus the ordered list of placeholder
// names it references (order of first appearance).
type Template struct {
	name         string
	text         string
	placeholders []string
}

// Parse scans text for placeholder tokens and returns a Template.
// Text without any placeholders is a valid (constant) template.
func Parse(name, text string) (*Template, error) {
	if name == "" {
		return nil, errors.New(errors.ErrTemplateParse, "template name must not be empty")
	}

	var order []string
	seen := make(map[string]bool)
	forEachToken(text, func(token string, start, end int) {
		if !seen[token] {
			seen[token] = true
			order = append(order, token)
		}
	})

	return &Template{
		name:         name,
		text:         text,
		placeholders: order,
	}, nil
}

// Name returns the template's name
func (t *Template) Name() string {
	return t.name
}

// Text returns the raw template text
func (t *Template) Text() string {
	return t.text
}

// Placeholders returns the placeholder names in order of first appearance.
// Callers use this to know which values to collect before rendering.
func (t *Template) Placeholders() []string {
	out := make([]string, len(t.placeholders))
	copy(out, t.placeholders)
	return out
}

// Render substitutes every placeholder with its value from subs. It is a
// pure function: no side effects, no partial output. If any placeholder has
// no entry in subs, Render fails with a MISSING_PLACEHOLDER error naming the
// first unresolved token in template order.
func (t *Template) Render(subs map[string]string) (string, error) {
	for _, name := range t.placeholders {
		if _, ok := subs[name]; !ok {
			return "", errors.Newf(errors.ErrMissingPlaceholder,
				"placeholder %q in template %q has no substitution value", name, t.name).
				WithDetail("placeholder", name).
				WithDetail("template", t.name)
		}
	}

	var b strings.Builder
	b.Grow(len(t.text))
	last := 0
	forEachToken(t.text, func(token string, start, end int) {
		b.WriteString(t.text[last:start])
		b.WriteString(subs[token])
		last = end
	})
	b.WriteString(t.text[last:])
	return b.String(), nil
}

// forEachToken calls fn for each placeholder token in text, in order.
// start/end are the byte offsets of the full `{NAME}` token.
func forEachToken(text string, fn func(token string, start, end int)) {
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		j := i + 1
		if j >= len(text) || !isTokenStart(text[j]) {
			continue
		}
		for j < len(text) && isTokenChar(text[j]) {
			j++
		}
		if j < len(text) && text[j] == '}' {
			fn(text[i+1:j], i, j+1)
			i = j
		}
	}
}

func isTokenStart(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

func isTokenChar(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}
