// Package experiment implements functionality for running episodes of
// environments and tracking the data they generate. Experiments
// perform no learning, actions are selected by a fixed Policy.
package experiment

import (
	"fmt"

	"github.com/samuelfneumann/envies/environment/envconfig"
	"github.com/samuelfneumann/envies/experiment/tracker"
)

// Interface Experiment outlines structs that can run experiments.
// Experiments convert each transition of an environment into a
// timestep.TimeStep and send it to the registered Trackers. The Save()
// function then saves all tracked data to disk. The Run() method runs
// all episodes of the experiment, and the RunEpisode() method runs
// a single episode.
type Experiment interface {
	// Run runs all remaining episodes
	Run() error

	// RunEpisode runs a single episode and returns whether all
	// episodes of the experiment have been run
	RunEpisode() (bool, error)

	// Register adds a new tracker.Tracker to the (possibly already
	// running) experiment
	Register(t tracker.Tracker)

	// Save saves all tracked data to disk
	Save() error
}

type Type string

const (
	RolloutExp Type = "Rollout"
)

// Config represents a configuration of an experiment
type Config struct {
	Type     Type             `yaml:"type" json:"type"`
	Episodes int              `yaml:"episodes" json:"episodes"`
	Seed     uint64           `yaml:"seed" json:"seed"`
	EnvConf  envconfig.Config `yaml:"environment" json:"environment"`

	// Render runs the experiment on a renderable twin of the
	// configured environment
	Render bool `yaml:"render" json:"render"`
}

// CreateExp creates the experiment described by the Config. The
// experiment owns its environment, which is closed by Close.
func (c Config) CreateExp(t ...tracker.Tracker) (*Rollout, error) {
	if c.Type != RolloutExp {
		return nil, fmt.Errorf("createExp: no such experiment type %v",
			c.Type)
	}

	env, err := c.EnvConf.Create()
	if err != nil {
		return nil, fmt.Errorf("createExp: could not create environment: %w",
			err)
	}

	if c.Render {
		renderable, err := env.BuildRenderable()
		env.Close()
		if err != nil {
			return nil, fmt.Errorf("createExp: could not create renderable "+
				"environment: %w", err)
		}
		env = renderable
	}

	return NewRollout(env, RandomPolicy, c.Episodes, c.Seed, t...), nil
}
