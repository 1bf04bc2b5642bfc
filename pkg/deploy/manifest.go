// Package deploy turns an application description into transaction groups:
// fetch the source, render the runtime configuration (php-fpm pool, systemd
// unit or supervisor program) and publish the nginx vhost. An app repo may
// carry a hostup.yaml manifest; flags and prompts override it.
package deploy

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hostup/hostup/pkg/errors"
	"github.com/hostup/hostup/pkg/filesystem"
)

// ManifestFile is the manifest filename looked up in an app repo's root
const ManifestFile = "hostup.yaml"

// Kind selects the deploy recipe
type Kind string

// Supported application kinds
const (
	KindStatic Kind = "static"
	KindPHP    Kind = "php"
	KindNode   Kind = "node"
)

// ParseKind validates a kind string
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindStatic, KindPHP, KindNode:
		return Kind(s), nil
	}
	return "", errors.Newf(errors.ErrInvalidInput,
		"unknown app kind %q (expected static, php or node)", s)
}

// Process managers for node apps
const (
	ManagerSystemd    = "systemd"
	ManagerSupervisor = "supervisor"
)

// Manifest is the optional hostup.yaml an app repo ships to describe itself
type Manifest struct {
	Kind    string   `yaml:"kind,omitempty"`
	Domain  string   `yaml:"domain,omitempty"`
	Port    int      `yaml:"port,omitempty"`
	Build   []string `yaml:"build,omitempty"`
	Start   string   `yaml:"start,omitempty"`
	Manager string   `yaml:"manager,omitempty"`
}

// LoadManifest reads hostup.yaml from dir. A missing manifest is not an
// error; the returned manifest is nil.
func LoadManifest(fs filesystem.FS, dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %q", path)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "invalid manifest %q", path)
	}
	if m.Kind != "" {
		if _, err := ParseKind(m.Kind); err != nil {
			return nil, err
		}
	}
	if m.Manager != "" && m.Manager != ManagerSystemd && m.Manager != ManagerSupervisor {
		return nil, errors.Newf(errors.ErrInvalidInput,
			"unknown process manager %q (expected systemd or supervisor)", m.Manager)
	}
	return &m, nil
}

// Merge fills empty App fields from the manifest. Explicit values (flags,
// prompt answers) win over the manifest, but a manifest declaring a
// different kind than the one requested is an error: the wrong recipe
// would publish the wrong runtime configuration for the app.
func (a *App) Merge(m *Manifest) error {
	if m == nil {
		return nil
	}
	if m.Kind != "" && Kind(m.Kind) != a.Kind {
		return errors.Newf(errors.ErrInvalidInput,
			"manifest declares kind %q but %q was requested", m.Kind, a.Kind).
			WithDetail("manifest_kind", m.Kind).
			WithDetail("requested_kind", string(a.Kind))
	}
	if a.Domain == "" {
		a.Domain = m.Domain
	}
	if a.Port == 0 {
		a.Port = m.Port
	}
	if len(a.Build) == 0 {
		a.Build = m.Build
	}
	if a.Start == "" {
		a.Start = m.Start
	}
	if a.Manager == "" {
		a.Manager = m.Manager
	}
	return nil
}
