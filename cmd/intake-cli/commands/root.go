// Package commands defines the intake-cli command tree. Every command reads
// the shared configuration loaded before it runs.
package commands

import (
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-intake/internal/config"
	"github.com/goliatone/go-intake/internal/logging"
)

// globals is the state the root command prepares for its subcommands.
type globals struct {
	configPath string
	verbose    int

	cfg    config.Config
	logger logr.Logger
}

func (g *globals) load(cmd *cobra.Command) error {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return err
	}
	g.cfg = cfg
	verbosity := cfg.Log.Verbosity
	if g.verbose > verbosity {
		verbosity = g.verbose
	}
	g.logger = logging.New(cmd.ErrOrStderr(), verbosity)
	return nil
}

// Root returns the root command for intake-cli.
func Root() *cobra.Command {
	g := &globals{logger: logr.Discard()}

	cmd := &cobra.Command{
		Use:           "intake-cli",
		Short:         "Render, validate and prompt medical intake wizard steps",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return g.load(cmd)
		},
	}
	cmd.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default $INTAKE_CONFIG or <user config dir>/intake/config.yaml)")
	cmd.PersistentFlags().CountVarP(&g.verbose, "verbose", "v", "increase log verbosity (repeatable)")

	cmd.AddCommand(Steps(g))
	cmd.AddCommand(Render(g))
	cmd.AddCommand(Validate(g))
	cmd.AddCommand(Prompt(g))
	cmd.AddCommand(Version())

	return cmd
}
