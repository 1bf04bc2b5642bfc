package templates

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hostup/hostup/cmd/hostup/commands/runtime"
	"github.com/hostup/hostup/pkg/templates"
)

// NewCommand creates the templates command
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "templates",
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

			out := cmd.OutOrStdout()
			overrideDir := rt.Paths.TemplatesDir()
			for _, name := range templates.Names() {
				tpl, err := templates.Load(rt.FS, overrideDir, name)
				if err != nil {
					return err
				}

				placeholders := strings.Join(tpl.Placeholders(), ", ")
				if placeholders == "" {
					placeholders = MsgNoPlaceholders
				}

				marker := ""
				if _, err := rt.FS.Stat(filepath.Join(overrideDir, name)); err == nil {
					marker = " " + MsgOverridden
				}
				fmt.Fprintf(out, "%-26s %s%s\n", name, placeholders, marker)
			}
			fmt.Fprintf(out, "\n"+MsgOverrideDirNote, overrideDir)
			return nil
		},
	}
}
