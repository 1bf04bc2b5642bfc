// Package runtime assembles the collaborators a hostup command needs: the
// resolved paths, layered configuration, filesystem, process runner and
// terminal printer. Commands stay thin; everything testable lives below.
package runtime

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/hostup/hostup/pkg/config"
	"github.com/hostup/hostup/pkg/filesystem"
	"github.com/hostup/hostup/pkg/logging"
	"github.com/hostup/hostup/pkg/paths"
	"github.com/hostup/hostup/pkg/prompt"
	"github.com/hostup/hostup/pkg/style"
	"github.com/hostup/hostup/pkg/system"
	"github.com/hostup/hostup/pkg/txn"
)

// Runtime carries the resolved collaborators for one command invocation
type Runtime struct {
	FS      filesystem.FS
	Runner  system.Runner
	Config  *config.Config
	Paths   *paths.Paths
	Printer *style.Printer

	Yes    bool
	DryRun bool
	Quiet  bool
}

// New resolves the runtime from the command's persistent flags
func New(cmd *cobra.Command) (*Runtime, error) {
	flags := cmd.Root().PersistentFlags()
	yes, _ := flags.GetBool("yes")
	dryRun, _ := flags.GetBool("dry-run")
	quiet, _ := flags.GetBool("quiet")

	p := paths.New()
	cfg, err := config.Load(p.ConfigFile())
	if err != nil {
		return nil, err
	}

	return &Runtime{
		FS:      filesystem.NewOS(),
		Runner:  system.NewRunner(),
		Config:  cfg,
		Paths:   p,
		Printer: style.NewPrinter(quiet),
		Yes:     yes,
		DryRun:  dryRun,
		Quiet:   quiet,
	}, nil
}

// Session creates a prompt session honoring --yes
func (rt *Runtime) Session() *prompt.Session {
	return prompt.NewSession(prompt.NewSurveyDriver(), rt.Yes)
}

// Execute runs (or previews, under --dry-run) the groups, prints the
// outcome, writes the run receipt and returns the first group error.
func (rt *Runtime) Execute(ctx context.Context, command string, groups []txn.Group) error {
	logger := logging.GetLogger("cmd")

	runner := txn.NewRunner(rt.FS, rt.Paths.LockPath())

	if rt.DryRun {
		rt.Printer.Header("Dry run - nothing will change")
		for _, gc := range runner.Preview(ctx, groups) {
			rt.Printer.Info("%s", gc.Group)
			for _, c := range gc.Checks {
				rt.Printer.CheckLine(c)
			}
		}
		return nil
	}

	started := time.Now()
	result, err := runner.Run(ctx, groups)
	if err != nil {
		return err
	}

	rt.Printer.RunSummary(result)

	receipt := txn.NewReceipt(command, started, result)
	if path, err := receipt.Write(rt.FS, rt.Paths.ReceiptsDir()); err != nil {
		logger.Warn().Err(err).Msg("Failed to write run receipt")
	} else {
		logger.Debug().Str("path", path).Msg("Wrote run receipt")
	}

	return result.FirstError()
}
