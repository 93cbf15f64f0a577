package experiment

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/samuelfneumann/envies/environment"
	"github.com/samuelfneumann/envies/experiment/tracker"
	ts "github.com/samuelfneumann/envies/timestep"
	"github.com/samuelfneumann/envies/utils/tensorutils"
	"gonum.org/v1/gonum/mat"
)

// Policy selects the next action to take in an environment
type Policy func(env environment.Environment) mat.Vector

// RandomPolicy samples actions uniformly from the environment's action
// space
func RandomPolicy(env environment.Environment) mat.Vector {
	return env.SampleAction()
}

// Rollout is an Experiment that runs a fixed number of episodes of an
// environment with a Policy. Episode i is started with seed + i.
type Rollout struct {
	env      environment.Environment
	policy   Policy
	episodes int
	seed     uint64
	trackers []tracker.Tracker

	currentEpisode int
	totalSteps     int
}

// NewRollout creates and returns a new rollout experiment on a given
// environment. The episodes parameter determines how many episodes the
// experiment is run for, and the t parameter is a slice of
// tracker.Tracker which determine what data is saved.
func NewRollout(e environment.Environment, p Policy, episodes int,
	seed uint64, t ...tracker.Tracker) *Rollout {
	return &Rollout{
		env:      e,
		policy:   p,
		episodes: episodes,
		seed:     seed,
		trackers: t,
	}
}

// Register registers a tracker.Tracker with the experiment so that data
// generated during the experiment can be tracked and saved
func (r *Rollout) Register(t tracker.Tracker) {
	r.trackers = append(r.trackers, t)
}

// Environment returns the environment of the experiment
func (r *Rollout) Environment() environment.Environment {
	return r.env
}

// RunEpisode runs a single episode of the experiment
func (r *Rollout) RunEpisode() (bool, error) {
	if r.currentEpisode >= r.episodes {
		return true, nil
	}

	obs, err := r.env.ResetWithSeed(r.seed + uint64(r.currentEpisode))
	if err != nil {
		return false, fmt.Errorf("runEpisode: %v", err)
	}
	vec, err := observationVec(r.env, obs)
	if err != nil {
		return false, fmt.Errorf("runEpisode: %v", err)
	}

	step := ts.New(ts.First, 0, vec, 0)
	r.track(step)

	var episodeReturn float64
	for !step.Last() {
		action := r.policy(r.env)
		reward, err := r.env.Run(action)
		if err != nil {
			return false, fmt.Errorf("runEpisode: episode %v: %w",
				r.currentEpisode, err)
		}
		episodeReturn += reward
		r.totalSteps++

		vec, err := observationVec(r.env, r.env.Observation())
		if err != nil {
			return false, fmt.Errorf("runEpisode: %v", err)
		}

		step = ts.New(ts.Mid, reward, vec, step.Number+1)
		if r.env.IsTerminal() {
			step.StepType = ts.Last
			step.SetEnd(ts.TerminalStateReached)
		}
		r.track(step)
	}

	log.Debug().
		Int("episode", r.currentEpisode).
		Int("steps", step.Number).
		Float64("return", episodeReturn).
		Stringer("outcome", environment.OutcomeOf(r.env)).
		Msg("episode finished")

	r.currentEpisode++
	return r.currentEpisode >= r.episodes, nil
}

// Run runs all remaining episodes of the experiment
func (r *Rollout) Run() error {
	for {
		ended, err := r.RunEpisode()
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
		if ended {
			return nil
		}
	}
}

// TotalSteps returns the number of steps taken over all episodes
func (r *Rollout) TotalSteps() int {
	return r.totalSteps
}

// Save saves all the data cached by the Trackers to disk
func (r *Rollout) Save() error {
	for _, t := range r.trackers {
		if err := t.Save(); err != nil {
			return fmt.Errorf("save: %v", err)
		}
	}
	return nil
}

// Close closes the environment of the experiment
func (r *Rollout) Close() error {
	return r.env.Close()
}

// track tracks the current timestep by caching its data in each
// Tracker
func (r *Rollout) track(t ts.TimeStep) {
	for _, tr := range r.trackers {
		tr.Track(t)
	}
}

// observationVec converts an observation of env to a *mat.VecDense
func observationVec(env environment.Environment,
	obs environment.Observation) (*mat.VecDense, error) {
	t, err := env.ObservationVector(obs)
	if err != nil {
		return nil, fmt.Errorf("observationVec: %v", err)
	}

	vec, err := tensorutils.ToVecDense(t)
	if err != nil {
		return nil, fmt.Errorf("observationVec: %v", err)
	}
	return vec, nil
}
