package main

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samuelfneumann/envies/environment/envconfig"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands
type RootOptions struct {
	Verbose bool

	// Config is the path of a YAML registry of environment
	// configurations, merged over the built-in defaults
	Config string
}

// NewRootCommand creates the root command of the envies CLI
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "envies",
		Short: "Inspect episodic environments",
		Long: `Inspect the configured episodic environments by running them with a
random policy.

Environments are configured by name. The built-in configurations can be
extended or replaced with a YAML registry given by --config.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := zerolog.InfoLevel
			if opts.Verbose {
				level = zerolog.DebugLevel
			}
			zerolog.SetGlobalLevel(level)
			log.Logger = log.Output(zerolog.ConsoleWriter{
				Out: cmd.ErrOrStderr(),
			})
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false,
		"verbose output")
	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "",
		"YAML registry of environment configurations")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewRolloutCommand(opts))

	return cmd
}

// registry returns the built-in configurations merged with those of
// the --config file
func (o *RootOptions) registry() (envconfig.Registry, error) {
	registry := envconfig.Defaults()
	if o.Config == "" {
		return registry, nil
	}

	loaded, err := envconfig.LoadFile(o.Config)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("file", o.Config).Strs("names", loaded.Names()).
		Msg("loaded configurations")
	return registry.Merge(loaded), nil
}
