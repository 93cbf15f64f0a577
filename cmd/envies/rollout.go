package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/samuelfneumann/envies/environment"
	"github.com/samuelfneumann/envies/experiment"
	"github.com/samuelfneumann/envies/experiment/tracker"
	"github.com/samuelfneumann/envies/experiment/trackers"
	"github.com/samuelfneumann/envies/utils/progressbar"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
)

// RolloutOptions holds the flags of the rollout command
type RolloutOptions struct {
	Episodes int
	Seed     uint64
	Render   bool
	Plot     string
	Workers  int
}

// NewRolloutCommand creates the rollout command
func NewRolloutCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RolloutOptions{}

	cmd := &cobra.Command{
		Use:   "rollout <name>",
		Short: "Run random-policy episodes of a configured environment",
		Long: `Run episodes of the environment configured by name, selecting actions
uniformly at random, and report the returns, episode lengths, and win rate.

With --render, episodes are run on a renderable twin of the environment.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRollout(cmd, rootOpts, opts, args[0])
		},
	}

	cmd.Flags().IntVarP(&opts.Episodes, "episodes", "n", 10,
		"number of episodes")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0,
		"seed of the first episode, episode i uses seed + i")
	cmd.Flags().BoolVar(&opts.Render, "render", false,
		"run on a renderable twin of the environment")
	cmd.Flags().StringVar(&opts.Plot, "plot", "",
		"save a plot of the episodic returns to this PNG file")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", 1,
		"number of concurrent workers, each with its own environment")

	return cmd
}

// summary holds the tracked data of a rollout
type summary struct {
	returns []float64
	lengths []float64
	won     []float64
}

func runRollout(cmd *cobra.Command, rootOpts *RootOptions,
	opts *RolloutOptions, name string) error {
	if opts.Episodes <= 0 {
		return fmt.Errorf("rollout: episodes must be positive, got %v",
			opts.Episodes)
	}

	registry, err := rootOpts.registry()
	if err != nil {
		return err
	}
	envConf, err := registry.Get(name)
	if err != nil {
		return err
	}

	c := experiment.Config{
		Type:     experiment.RolloutExp,
		Episodes: opts.Episodes,
		Seed:     opts.Seed,
		EnvConf:  envConf,
		Render:   opts.Render,
	}

	var s summary
	if opts.Workers > 1 {
		s, err = runWorkers(c, opts.Workers)
	} else {
		s, err = runSequential(cmd, c, !rootOpts.Verbose)
	}
	if err != nil {
		return err
	}

	printSummary(cmd, name, s)
	if opts.Plot != "" {
		if err := plotReturns(opts.Plot, name, s.returns); err != nil {
			return err
		}
		log.Info().Str("file", opts.Plot).Msg("saved return plot")
	}
	return nil
}

func runSequential(cmd *cobra.Command, c experiment.Config,
	progress bool) (summary, error) {
	ret := trackers.NewReturn("")
	length := trackers.NewEpisodeLength("")

	r, err := c.CreateExp(ret, length)
	if err != nil {
		return summary{}, err
	}
	defer r.Close()

	outcome := trackers.NewOutcome(r.Environment(), "")
	r.Register(outcome)

	var bar *progressbar.ManualProgressBar
	if progress {
		bar = progressbar.NewManualProgressBar(cmd.ErrOrStderr(), 40,
			c.Episodes)
		defer bar.Close()
	}

	for {
		ended, err := r.RunEpisode()
		if err != nil {
			return summary{}, err
		}
		if bar != nil {
			bar.Increment()
			bar.Display()
		}
		if ended {
			break
		}
	}

	return summary{
		returns: ret.Data(),
		lengths: length.Data(),
		won:     outcome.Data(),
	}, nil
}

// runWorkers runs c on concurrent workers. RunWorkers creates the
// trackers of each worker before any worker starts.
func runWorkers(c experiment.Config, workers int) (summary, error) {
	var all [][]tracker.Tracker
	newTrackers := func(_ int, env environment.Environment) []tracker.Tracker {
		t := []tracker.Tracker{
			trackers.NewReturn(""),
			trackers.NewEpisodeLength(""),
			trackers.NewOutcome(env, ""),
		}
		all = append(all, t)
		return t
	}

	if _, err := experiment.RunWorkers(c, workers, newTrackers); err != nil {
		return summary{}, err
	}

	var s summary
	for _, t := range all {
		s.returns = append(s.returns, t[0].Data()...)
		s.lengths = append(s.lengths, t[1].Data()...)
		s.won = append(s.won, t[2].Data()...)
	}
	return s, nil
}

func printSummary(cmd *cobra.Command, name string, s summary) {
	meanReturn, stdReturn := stat.MeanStdDev(s.returns, nil)
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "environment:  %v\n", name)
	fmt.Fprintf(out, "episodes:     %v\n", len(s.returns))
	fmt.Fprintf(out, "return:       %.3f ± %.3f\n", meanReturn, stdReturn)
	fmt.Fprintf(out, "length:       %.1f\n", stat.Mean(s.lengths, nil))
	fmt.Fprintf(out, "win rate:     %.3f\n", stat.Mean(s.won, nil))
}
