package status

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hostup/hostup/cmd/hostup/commands/runtime"
	"github.com/hostup/hostup/pkg/errors"
	"github.com/hostup/hostup/pkg/txn"
)

// NewCommand creates the status command
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtime.New(cmd)
			if err != nil {
				return err
			}

			receipt, err := txn.LatestReceipt(rt.FS, rt.Paths.ReceiptsDir())
			if err != nil {
				if errors.IsErrorCode(err, errors.ErrNotFound) {
					rt.Printer.Info(MsgNoRuns)
					return nil
				}
				return err
			}

			out := cmd.OutOrStdout()
			verdict := MsgResultOK
			if !receipt.Success {
				verdict = MsgResultFailed
			}
			fmt.Fprintf(out, MsgHeaderFormat+"\n",
				receipt.Command, receipt.StartedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "Run %s in %s\n\n", verdict,
				receipt.FinishedAt.Sub(receipt.StartedAt).Round(time.Millisecond))

			for _, g := range receipt.Groups {
				if g.Error != "" {
					fmt.Fprintf(out, MsgGroupFailed+"\n", g.Name, g.Error)
					if g.RolledBack {
						fmt.Fprintln(out, MsgGroupRollback)
					}
					continue
				}
				fmt.Fprintf(out, MsgGroupOK+"\n", g.Name)
				for _, a := range g.Actions {
					fmt.Fprintf(out, "      %-18s %s\n", a.Outcome, a.Name)
				}
			}
			return nil
		},
	}
}
