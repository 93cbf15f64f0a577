// Package simulator defines the boundary between environment adapters
// and the external simulators they wrap.
//
// A Simulator is treated as an opaque black box which can be reset
// with a seed and stepped with an action, much like an OpenAI Gym
// environment. Simulators are created by id through a registry, so
// that adapters can be configured with the name of the simulator to
// use:
//
//	sim, err := simulator.Make("CartPole-v1", simulator.Options{
//		MaxEpisodeSteps: 500,
//		Seed:            12,
//	})
//
// Simulator packages register themselves with Register in an init
// function.
package simulator

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/samuelfneumann/envies/timestep"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/mat"
)

// ErrUnknownSimulator is returned by Make when no simulator has been
// registered with the requested id
var ErrUnknownSimulator = errors.New("unknown simulator")

// Simulator is an external simulator of an episodic task
type Simulator interface {
	// Reset starts a new episode and returns the first observation.
	// The starting state is a pure function of seed.
	Reset(seed uint64) (*mat.VecDense, error)

	// Step takes one step in the simulator. The returned TimeStep is
	// Last if the simulator reached a terminal state or the episode
	// step limit was reached, and its EndType tells which.
	Step(action *mat.VecDense) (timestep.TimeStep, error)

	// ActionSpace returns the space of legal actions
	ActionSpace() Space

	// ObservationSpace returns the bounds of observations
	ObservationSpace() *Box

	// SampleAction samples an action from the simulator's own action
	// sampling distribution
	SampleAction() *mat.VecDense

	// Render draws the current frame of the simulator
	Render() error

	// Close performs resource cleanup
	Close() error
}

// Options configures the creation of a Simulator
type Options struct {
	// MaxEpisodeSteps is the step limit after which episodes are
	// truncated. It must be positive.
	MaxEpisodeSteps int

	// Seed seeds the action sampler of the simulator. Episode starting
	// states are seeded separately on Reset.
	Seed uint64

	// Render enables drawing every frame to RenderDir
	Render    bool
	RenderDir string
}

// Validate returns an error if the Options are not legal
func (o Options) Validate() error {
	if o.MaxEpisodeSteps <= 0 {
		return fmt.Errorf("validate: max episode steps must be positive, "+
			"got %v", o.MaxEpisodeSteps)
	}
	return nil
}

// Maker creates a new Simulator
type Maker func(Options) (Simulator, error)

var registry = map[string]Maker{}

// Register makes a simulator available by the provided id. If
// Register is called twice with the same id or if maker is nil, it
// panics.
func Register(id string, maker Maker) {
	if maker == nil {
		panic("register: simulator maker is nil")
	}
	if _, dup := registry[id]; dup {
		panic(fmt.Sprintf("register: register called twice for simulator %v",
			id))
	}
	registry[id] = maker
}

// Make creates the simulator registered with the given id
func Make(id string, o Options) (Simulator, error) {
	maker, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("make: %q: %w", id, ErrUnknownSimulator)
	}
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("make: %v", err)
	}

	sim, err := maker(o)
	if err != nil {
		return nil, fmt.Errorf("make: could not create simulator %v: %v",
			id, err)
	}
	log.Debug().Str("simulator", id).Int("maxEpisodeSteps", o.MaxEpisodeSteps).
		Bool("render", o.Render).Msg("created simulator")

	return sim, nil
}

// IDs returns the sorted ids of all registered simulators
func IDs() []string {
	ids := maps.Keys(registry)
	slices.Sort(ids)
	return ids
}
