package deploy

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hostup/hostup/cmd/hostup/commands/runtime"
	"github.com/hostup/hostup/pkg/deploy"
	"github.com/hostup/hostup/pkg/errors"
	"github.com/hostup/hostup/pkg/prompt"
	"github.com/hostup/hostup/pkg/system"
)

// NewCommand creates the deploy command
func NewCommand() *cobra.Command {
	var (
		name      string
		domain    string
		repo      string
		port      int
		start     string
		build     []string
		manager   string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:       "deploy <kind>",
		Short:     MsgShort,
		Long:      MsgLong,
		Example:   MsgExample,
		GroupID:   "core",
		ValidArgs: []string{"static", "php", "node"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := deploy.ParseKind(args[0])
			if err != nil {
				return err
			}

			rt, err := runtime.New(cmd)
			if err != nil {
				return err
			}
			session := rt.Session()

			app := deploy.App{
				Kind:      kind,
				Name:      name,
				Domain:    domain,
				Repo:      repo,
				Port:      port,
				Start:     start,
				Build:     build,
				Manager:   manager,
				Overwrite: overwrite,
			}
			if err := resolve(rt, session, &app); err != nil {
				return err
			}

			groups, err := app.Plan(deploy.Options{
				FS:           rt.FS,
				Runner:       rt.Runner,
				Services:     system.NewSystemd(rt.Runner),
				Cloner:       system.NewGit(rt.Runner, rt.FS),
				Config:       rt.Config,
				TemplatesDir: rt.Paths.TemplatesDir(),
			})
			if err != nil {
				return err
			}

			rt.Printer.Header(fmt.Sprintf(MsgHeaderFormat, app.Kind, app.Name))
			return rt.Execute(cmd.Context(),
				fmt.Sprintf("deploy %s %s", app.Kind, app.Name), groups)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", MsgFlagName)
	cmd.Flags().StringVar(&domain, "domain", "", MsgFlagDomain)
	cmd.Flags().StringVar(&repo, "repo", "", MsgFlagRepo)
	cmd.Flags().IntVar(&port, "port", 0, MsgFlagPort)
	cmd.Flags().StringVar(&start, "start", "", MsgFlagStart)
	cmd.Flags().StringArrayVar(&build, "build", nil, MsgFlagBuild)
	cmd.Flags().StringVar(&manager, "manager", "", MsgFlagManager)
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, MsgFlagOverwrite)

	return cmd
}

// resolve fills the app description: flags first, then the manifest in an
// existing checkout, then interactive prompts for whatever is still missing.
func resolve(rt *runtime.Runtime, session *prompt.Session, app *deploy.App) error {
	var err error
	if app.Name == "" {
		app.Name, err = session.Ask(MsgAskName, "", prompt.NotEmpty, prompt.AppName)
		if err != nil {
			return err
		}
	}

	manifest, err := deploy.LoadManifest(rt.FS, app.Root(rt.Config))
	if err != nil {
		return err
	}
	if err := app.Merge(manifest); err != nil {
		return err
	}

	if app.Domain == "" {
		app.Domain, err = session.Ask(MsgAskDomain, "", prompt.NotEmpty, prompt.Domain)
		if err != nil {
			return err
		}
	}

	if app.Kind == deploy.KindNode {
		if app.Start == "" {
			app.Start, err = session.Ask(MsgAskStart, "", prompt.NotEmpty)
			if err != nil {
				return err
			}
		}
		if app.Port == 0 {
			answer, err := session.Ask(MsgAskPort, "3000", prompt.Port)
			if err != nil {
				return err
			}
			app.Port, err = strconv.Atoi(answer)
			if err != nil {
				return errors.Wrapf(err, errors.ErrInvalidInput, "invalid port %q", answer)
			}
		}
	}
	return nil
}
