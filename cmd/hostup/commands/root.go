// Package commands assembles the hostup CLI: the root command, the global
// flags, the version command and the topic-based help system.
package commands

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	checkcmd "github.com/hostup/hostup/cmd/hostup/commands/check"
	deploycmd "github.com/hostup/hostup/cmd/hostup/commands/deploy"
	provisioncmd "github.com/hostup/hostup/cmd/hostup/commands/provision"
	rendercmd "github.com/hostup/hostup/cmd/hostup/commands/render"
	statuscmd "github.com/hostup/hostup/cmd/hostup/commands/status"
	templatescmd "github.com/hostup/hostup/cmd/hostup/commands/templates"
	unlockcmd "github.com/hostup/hostup/cmd/hostup/commands/unlock"
	"github.com/hostup/hostup/internal/version"
	"github.com/hostup/hostup/pkg/cobrax/topics"
	"github.com/hostup/hostup/pkg/logging"
	"github.com/hostup/hostup/pkg/paths"
)

//go:embed help/*.md
var helpFS embed.FS

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var (
		verbosity int
		quiet     bool
		yes       bool
		dryRun    bool
	)

	rootCmd := &cobra.Command{
		Use:     "hostup",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity, paths.New().LogDir())
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf(MsgNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, MsgFlagQuiet)
	rootCmd.PersistentFlags().BoolVarP(&yes, "yes", "y", false, MsgFlagYes)
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)

	// Disable the automatic help command; topics installs its own
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.AddCommand(provisioncmd.NewCommand())
	rootCmd.AddCommand(deploycmd.NewCommand())
	rootCmd.AddCommand(checkcmd.NewCommand())
	rootCmd.AddCommand(rendercmd.NewCommand())
	rootCmd.AddCommand(templatescmd.NewCommand())
	rootCmd.AddCommand(unlockcmd.NewCommand())
	rootCmd.AddCommand(statuscmd.NewCommand())
	rootCmd.AddCommand(newVersionCmd())

	initHelpTopics(rootCmd)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "hostup version %s\n", version.Version)
			fmt.Fprintf(out, "  commit: %s\n", version.Commit)
			fmt.Fprintf(out, "  built:  %s\n", version.Date)
		},
	}
}

func initHelpTopics(rootCmd *cobra.Command) {
	docs, err := fs.Sub(helpFS, "help")
	if err != nil {
		return
	}
	_ = topics.Initialize(rootCmd, docs, topics.Options{
		Renderer: topics.NewGlamourRenderer(),
	})
}
