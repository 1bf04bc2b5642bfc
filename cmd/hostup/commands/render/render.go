package render

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hostup/hostup/cmd/hostup/commands/runtime"
	"github.com/hostup/hostup/pkg/errors"
	"github.com/hostup/hostup/pkg/templates"
)

// NewCommand creates the render command
func NewCommand() *cobra.Command {
	var (
		sets   []string
		output string
	)

	cmd := &cobra.Command{
		Use:     "render <template>",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return templates.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtime.New(cmd)
			if err != nil {
				return err
			}

			subs, err := parseSets(sets)
			if err != nil {
				return err
			}

			tpl, err := templates.Load(rt.FS, rt.Paths.TemplatesDir(), args[0])
			if err != nil {
				return err
			}
			rendered, err := tpl.Render(subs)
			if err != nil {
				return err
			}

			if output != "" {
				if err := rt.FS.WriteFile(output, []byte(rendered), 0644); err != nil {
					return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %q", output)
				}
				rt.Printer.Info("Wrote %s", output)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, MsgFlagSet)
	cmd.Flags().StringVarP(&output, "output", "o", "", MsgFlagOutput)

	return cmd
}

// parseSets turns KEY=VALUE pairs into a substitution map
func parseSets(sets []string) (map[string]string, error) {
	subs := make(map[string]string, len(sets))
	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		if !ok || key == "" {
			return nil, errors.Newf(errors.ErrInvalidInput,
				"invalid --set %q (expected KEY=VALUE)", s)
		}
		subs[key] = value
	}
	return subs, nil
}
