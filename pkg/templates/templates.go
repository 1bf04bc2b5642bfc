// Package templates holds the built-in configuration templates and resolves
// user overrides. A template dropped into the config templates directory
// with the same filename shadows the built-in one.
package templates

import (
	"embed"
	"os"
	"path/filepath"
	"sort"

	"github.com/hostup/hostup/pkg/errors"
	"github.com/hostup/hostup/pkg/filesystem"
	"github.com/hostup/hostup/pkg/tmpl"
)

//go:embed builtin
var builtinFS embed.FS

// Well-known template names
const (
	NginxStatic       = "nginx-static.conf"
	NginxPHP          = "nginx-php.conf"
	NginxProxy        = "nginx-proxy.conf"
	NginxDefault      = "nginx-default.conf"
	PHPPool           = "php-pool.conf"
	SystemdUnit       = "systemd-unit.service"
	SupervisorProgram = "supervisor-program.conf"
	Fail2banJail      = "fail2ban-jail.conf"
)

// Names lists the built-in template names, sorted
func Names() []string {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		// the embedded directory always exists
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

// Load resolves name against the override directory first, then the
// built-in set. An unknown name is a NOT_FOUND error.
func Load(fs filesystem.FS, overrideDir, name string) (*tmpl.Template, error) {
	if overrideDir != "" {
		path := filepath.Join(overrideDir, name)
		if data, err := fs.ReadFile(path); err == nil {
			return tmpl.Parse(name, string(data))
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read template override %q", path)
		}
	}

	data, err := builtinFS.ReadFile(filepath.Join("builtin", name))
	if err != nil {
		return nil, errors.Newf(errors.ErrNotFound, "unknown template %q", name)
	}
	return tmpl.Parse(name, string(data))
}
