package deploy

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hostup/hostup/pkg/action"
	"github.com/hostup/hostup/pkg/config"
	"github.com/hostup/hostup/pkg/errors"
	"github.com/hostup/hostup/pkg/filesystem"
	"github.com/hostup/hostup/pkg/system"
	"github.com/hostup/hostup/pkg/templates"
	"github.com/hostup/hostup/pkg/txn"
)

// App is the fully resolved description of one deployment
type App struct {
	Kind      Kind
	Name      string // app folder name under deploy.apps_dir
	Domain    string
	Repo      string   // source URL; empty means the checkout already exists
	Build     []string // commands run in the app root after fetch
	Start     string   // node: the process start command
	Port      int      // node: the port nginx proxies to
	Manager   string   // node: systemd (default) or supervisor
	Overwrite bool     // replace an existing non-checkout destination
}

// Root returns the app's directory under the configured apps dir
func (a *App) Root(cfg *config.Config) string {
	return filepath.Join(cfg.Deploy.AppsDir, a.Name)
}

// Options carries the collaborators a recipe needs
type Options struct {
	FS           filesystem.FS
	Runner       system.Runner
	Services     system.ServiceManager
	Cloner       action.Cloner
	Config       *config.Config
	TemplatesDir string
}

// Plan builds the transaction groups for one app deployment. The source
// group runs first; the kind-specific groups publish configuration only
// after the checkout and build succeeded.
func (a *App) Plan(opts Options) ([]txn.Group, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}

	groups := []txn.Group{a.sourceGroup(opts)}

	var rest []txn.Group
	var err error
	switch a.Kind {
	case KindStatic:
		rest, err = a.staticGroups(opts)
	case KindPHP:
		rest, err = a.phpGroups(opts)
	case KindNode:
		rest, err = a.nodeGroups(opts)
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown app kind %q", a.Kind)
	}
	if err != nil {
		return nil, err
	}
	return append(groups, rest...), nil
}

func (a *App) validate() error {
	if a.Name == "" {
		return errors.New(errors.ErrInvalidInput, "app name is required")
	}
	if a.Domain == "" {
		return errors.New(errors.ErrInvalidInput, "domain is required")
	}
	if a.Kind == KindNode {
		if a.Start == "" {
			return errors.New(errors.ErrInvalidInput, "node apps need a start command")
		}
		if a.Port <= 0 || a.Port > 65535 {
			return errors.Newf(errors.ErrInvalidInput, "invalid port %d", a.Port)
		}
	}
	return nil
}

// sourceGroup fetches the checkout and runs the build commands inside it
func (a *App) sourceGroup(opts Options) txn.Group {
	root := a.Root(opts.Config)

	g := txn.Group{Name: "source"}
	if a.Repo != "" {
		g.Actions = append(g.Actions, action.Descriptor{
			Action: action.NewEnsureClone(opts.Cloner, opts.FS, a.Repo, root, a.Overwrite),
		})
	}
	for i, cmdline := range a.Build {
		name, args := splitCommand(cmdline)
		g.Actions = append(g.Actions, action.Descriptor{
			Action: action.NewEnsureCommand(opts.Runner,
				fmt.Sprintf("build[%d]:%s", i, cmdline),
				nil,
				system.Command{Name: name, Args: args, Dir: root}),
		})
	}
	return g
}

// vhostGroup publishes one nginx site. Validation swaps the staged file
// into sites-available for the syntax check; the check runs once more after
// the symlink is committed, since a fresh site only enters nginx's include
// set through sites-enabled. A post-commit failure rolls the group back.
func (a *App) vhostGroup(opts Options, template string, subs map[string]string) (txn.Group, error) {
	cfg := opts.Config

	content, err := a.render(opts, template, subs)
	if err != nil {
		return txn.Group{}, err
	}

	available := filepath.Join(cfg.Nginx.SitesAvailable, a.Domain)
	enabled := filepath.Join(cfg.Nginx.SitesEnabled, a.Domain)

	return txn.Group{
		Name: "nginx-vhost",
		Actions: []action.Descriptor{
			{Action: action.NewEnsureFile(opts.FS, available, []byte(content), 0644)},
			{Action: action.NewEnsureSymlink(opts.FS, available, enabled)},
		},
		Validate: txn.ValidateCommand(opts.FS, opts.Runner, cfg.Nginx.CheckCommand),
		Activate: txn.ActivateSequence(
			txn.ActivateCommand(opts.Runner, cfg.Nginx.CheckCommand),
			txn.ActivateReload(opts.Services, cfg.Nginx.Service),
		),
	}, nil
}

func (a *App) staticGroups(opts Options) ([]txn.Group, error) {
	vhost, err := a.vhostGroup(opts, templates.NginxStatic, map[string]string{
		"DOMAIN":   a.Domain,
		"APP_ROOT": a.Root(opts.Config),
	})
	if err != nil {
		return nil, err
	}
	return []txn.Group{vhost}, nil
}

func (a *App) phpGroups(opts Options) ([]txn.Group, error) {
	cfg := opts.Config

	pool, err := a.render(opts, templates.PHPPool, map[string]string{
		"POOL":         a.Name,
		"USER":         cfg.Deploy.User,
		"APP_ROOT":     a.Root(cfg),
		"MAX_CHILDREN": "5",
	})
	if err != nil {
		return nil, err
	}

	poolGroup := txn.Group{
		Name: "php-pool",
		Actions: []action.Descriptor{
			{Action: action.NewEnsureFile(opts.FS,
				filepath.Join(cfg.PHP.PoolDir, a.Name+".conf"), []byte(pool), 0644)},
		},
		Validate: txn.ValidateCommand(opts.FS, opts.Runner, cfg.PHP.CheckCommand),
		Activate: txn.ActivateRestart(opts.Services, cfg.PHP.Service),
	}

	vhost, err := a.vhostGroup(opts, templates.NginxPHP, map[string]string{
		"DOMAIN":   a.Domain,
		"APP_ROOT": a.Root(cfg),
		"POOL":     a.Name,
	})
	if err != nil {
		return nil, err
	}
	return []txn.Group{poolGroup, vhost}, nil
}

func (a *App) nodeGroups(opts Options) ([]txn.Group, error) {
	cfg := opts.Config
	port := strconv.Itoa(a.Port)

	subs := map[string]string{
		"APP_NAME":      a.Name,
		"APP_ROOT":      a.Root(cfg),
		"USER":          cfg.Deploy.User,
		"START_COMMAND": a.Start,
		"PORT":          port,
	}

	var service txn.Group
	switch a.Manager {
	case ManagerSupervisor:
		content, err := a.render(opts, templates.SupervisorProgram, subs)
		if err != nil {
			return nil, err
		}
		service = txn.Group{
			Name: "supervisor-program",
			Actions: []action.Descriptor{
				{Action: action.NewEnsureFile(opts.FS,
					filepath.Join(cfg.Supervisor.ConfDir, a.Name+".conf"), []byte(content), 0644)},
			},
			Activate: txn.ActivateSequence(
				txn.ActivateCommand(opts.Runner, "supervisorctl reread"),
				txn.ActivateCommand(opts.Runner, "supervisorctl update"),
			),
		}
	case ManagerSystemd, "":
		content, err := a.render(opts, templates.SystemdUnit, subs)
		if err != nil {
			return nil, err
		}
		unit := a.Name + ".service"
		service = txn.Group{
			Name: "systemd-unit",
			Actions: []action.Descriptor{
				{Action: action.NewEnsureFile(opts.FS,
					filepath.Join(cfg.Systemd.UnitDir, unit), []byte(content), 0644)},
			},
			Activate: txn.ActivateSequence(
				txn.ActivateDaemonReload(opts.Services),
				txn.ActivateEnable(opts.Services, unit),
				txn.ActivateRestart(opts.Services, unit),
			),
		}
	default:
		return nil, errors.Newf(errors.ErrInvalidInput,
			"unknown process manager %q", a.Manager)
	}

	vhost, err := a.vhostGroup(opts, templates.NginxProxy, map[string]string{
		"DOMAIN": a.Domain,
		"PORT":   port,
	})
	if err != nil {
		return nil, err
	}
	return []txn.Group{service, vhost}, nil
}

func (a *App) render(opts Options, name string, subs map[string]string) (string, error) {
	tpl, err := templates.Load(opts.FS, opts.TemplatesDir, name)
	if err != nil {
		return "", err
	}
	return tpl.Render(subs)
}

// splitCommand breaks a manifest command line into name and args. Manifest
// commands are simple invocations; shell syntax is not interpreted.
func splitCommand(cmdline string) (string, []string) {
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}
