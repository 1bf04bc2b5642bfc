package check

import (
	"github.com/spf13/cobra"

	"github.com/hostup/hostup/cmd/hostup/commands/runtime"
	"github.com/hostup/hostup/pkg/provision"
	"github.com/hostup/hostup/pkg/system"
	"github.com/hostup/hostup/pkg/txn"
)

// NewCommand creates the check command
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "check",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtime.New(cmd)
			if err != nil {
				return err
			}

			groups, err := provision.Plan(provision.Options{
				FS:           rt.FS,
				Runner:       rt.Runner,
				Packages:     system.NewAptManager(rt.Runner),
				Services:     system.NewSystemd(rt.Runner),
				Config:       rt.Config,
				TemplatesDir: rt.Paths.TemplatesDir(),
			})
			if err != nil {
				return err
			}

			rt.Printer.Header(MsgHeader)
			runner := txn.NewRunner(rt.FS, rt.Paths.LockPath())
			for _, gc := range runner.Preview(cmd.Context(), groups) {
				rt.Printer.Info("%s", gc.Group)
				for _, c := range gc.Checks {
					rt.Printer.CheckLine(c)
				}
			}
			return nil
		},
	}
}
