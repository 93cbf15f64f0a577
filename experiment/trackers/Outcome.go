package trackers

import (
	"github.com/samuelfneumann/envies/environment"
	"github.com/samuelfneumann/envies/experiment/tracker"
	"github.com/samuelfneumann/envies/timestep"
)

// Outcome tracks whether each episode of an environment was won. The
// tracked data is 1 for won episodes and 0 for lost episodes, so its
// mean is the win rate.
//
// Outcome reads the outcome from the environment it was created
// with, so it must be registered with an experiment on that same
// environment.
type Outcome struct {
	env      environment.Environment
	won      []float64
	filename string
}

// NewOutcome returns a new Outcome tracker for env
func NewOutcome(env environment.Environment, filename string) *Outcome {
	return &Outcome{env: env, filename: filename}
}

// Track records the outcome of the episode on its last timestep
func (o *Outcome) Track(t timestep.TimeStep) {
	if !t.Last() {
		return
	}
	if environment.OutcomeOf(o.env) == environment.Won {
		o.won = append(o.won, 1.0)
	} else {
		o.won = append(o.won, 0.0)
	}
}

// Data returns 1 for each won episode and 0 for each lost episode
func (o *Outcome) Data() []float64 {
	return append([]float64(nil), o.won...)
}

// Counts returns the number of won and lost episodes
func (o *Outcome) Counts() (won, lost int) {
	for _, w := range o.won {
		if w == 1.0 {
			won++
		} else {
			lost++
		}
	}
	return won, lost
}

// Save saves the data tracked by the Outcome Tracker to disk
func (o *Outcome) Save() error {
	if o.filename == "" {
		return nil
	}
	return tracker.SaveData(o.filename, o.won)
}
