package unlock

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/hostup/hostup/cmd/hostup/commands/runtime"
	"github.com/hostup/hostup/pkg/errors"
	"github.com/hostup/hostup/pkg/txn"
)

// NewCommand creates the unlock command
func NewCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "unlock",
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
			lockPath := rt.Paths.LockPath()

			info, err := txn.InspectLock(lockPath)
			if err != nil {
				if errors.IsErrorCode(err, errors.ErrNotFound) {
					rt.Printer.Info(MsgNoLock, lockPath)
					return nil
				}
				return err
			}

			holder := MsgHolderGone
			if info.Alive() {
				holder = MsgHolderAlive
			}
			rt.Printer.Info(MsgLockInfo,
				lockPath, info.PID, info.Hostname, info.Age().Round(time.Second), holder)

			if err := txn.RemoveStaleLock(lockPath, force); err != nil {
				return err
			}
			rt.Printer.Info(MsgLockRemoved)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, MsgFlagForce)
	return cmd
}
