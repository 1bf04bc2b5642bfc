// Package provision builds the base provisioning plan: packages, the nginx
// catch-all default site and the fail2ban jail. Each concern is its own
// atomic group, so a failed vhost never unwinds an installed package set.
package provision

import (
	"path/filepath"

	"github.com/hostup/hostup/pkg/action"
	"github.com/hostup/hostup/pkg/config"
	"github.com/hostup/hostup/pkg/filesystem"
	"github.com/hostup/hostup/pkg/system"
	"github.com/hostup/hostup/pkg/templates"
	"github.com/hostup/hostup/pkg/txn"
)

// Options carries the collaborators and configuration the plan needs
type Options struct {
	FS           filesystem.FS
	Runner       system.Runner
	Packages     system.PackageManager
	Services     system.ServiceManager
	Config       *config.Config
	TemplatesDir string
}

// Plan builds the provisioning groups
func Plan(opts Options) ([]txn.Group, error) {
	cfg := opts.Config

	packages := txn.Group{
		Name: "packages",
		Actions: []action.Descriptor{
			{Action: action.NewEnsurePackage(opts.Packages, cfg.Provision.Packages...)},
			{Action: action.NewEnsureServiceEnabled(opts.Services, cfg.Nginx.Service)},
			{Action: action.NewEnsureServiceActive(opts.Services, cfg.Nginx.Service)},
		},
	}

	defaultSite, err := defaultSiteGroup(opts)
	if err != nil {
		return nil, err
	}

	jail, err := jailGroup(opts)
	if err != nil {
		return nil, err
	}

	return []txn.Group{packages, defaultSite, jail}, nil
}

// defaultSiteGroup writes the catch-all server that rejects requests for
// unknown hostnames, so half-configured apps never answer for the bare IP.
func defaultSiteGroup(opts Options) (txn.Group, error) {
	cfg := opts.Config

	tpl, err := templates.Load(opts.FS, opts.TemplatesDir, templates.NginxDefault)
	if err != nil {
		return txn.Group{}, err
	}
	content, err := tpl.Render(nil)
	if err != nil {
		return txn.Group{}, err
	}

	available := filepath.Join(cfg.Nginx.SitesAvailable, "default")
	enabled := filepath.Join(cfg.Nginx.SitesEnabled, "default")

	return txn.Group{
		Name: "nginx-default-site",
		Actions: []action.Descriptor{
			{Action: action.NewEnsureFile(opts.FS, available, []byte(content), 0644)},
			{Action: action.NewEnsureSymlink(opts.FS, available, enabled)},
		},
		Validate: txn.ValidateCommand(opts.FS, opts.Runner, cfg.Nginx.CheckCommand),
		// the check runs again once the symlink exists: a fresh site is not
		// part of nginx's include set until then, so only the post-commit
		// check can parse it in context; a failure here rolls the group back
		Activate: txn.ActivateSequence(
			txn.ActivateCommand(opts.Runner, cfg.Nginx.CheckCommand),
			txn.ActivateReload(opts.Services, cfg.Nginx.Service),
		),
	}, nil
}

func jailGroup(opts Options) (txn.Group, error) {
	cfg := opts.Config

	tpl, err := templates.Load(opts.FS, opts.TemplatesDir, templates.Fail2banJail)
	if err != nil {
		return txn.Group{}, err
	}
	content, err := tpl.Render(map[string]string{
		"MAX_RETRY": cfg.Fail2ban.MaxRetry,
		"BAN_TIME":  cfg.Fail2ban.BanTime,
	})
	if err != nil {
		return txn.Group{}, err
	}

	target := filepath.Join(cfg.Fail2ban.JailDir, "hostup-nginx.conf")
	return txn.Group{
		Name: "fail2ban",
		Actions: []action.Descriptor{
			{Action: action.NewEnsureFile(opts.FS, target, []byte(content), 0644)},
			{Action: action.NewEnsureServiceEnabled(opts.Services, cfg.Fail2ban.Service)},
		},
		Activate: txn.ActivateRestart(opts.Services, cfg.Fail2ban.Service),
	}, nil
}
