package provision

import (
	"github.com/spf13/cobra"

	"github.com/hostup/hostup/cmd/hostup/commands/runtime"
	"github.com/hostup/hostup/pkg/provision"
	"github.com/hostup/hostup/pkg/system"
)

// NewCommand creates the provision command
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "provision",
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
			return rt.Execute(cmd.Context(), "provision", groups)
		},
	}
}
