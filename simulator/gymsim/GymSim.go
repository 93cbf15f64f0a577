//go:build gogym

// Package gymsim provides OpenAI Gym environments as simulators
// through the Go bindings for OpenAI Gym, found at
// https://github.com/samuelfneumann/GoGym.
//
// The simulators are registered with the Gym environment name
// prefixed by "gym:", for example "gym:CartPole-v1". Building this
// package requires the gogym build tag and a Python installation with
// Gym available to cgo.
package gymsim

import (
	"fmt"

	"github.com/samuelfneumann/envies/simulator"
	ts "github.com/samuelfneumann/envies/timestep"
	"github.com/samuelfneumann/gogym"
	"gonum.org/v1/gonum/mat"
)

// Prefix is prepended to Gym environment names to form simulator ids
const Prefix = "gym:"

// Names are the Gym environments registered as simulators
var Names = []string{
	"CartPole-v1",
	"Acrobot-v1",
	"LunarLanderContinuous-v2",
}

func init() {
	for _, name := range Names {
		name := name
		simulator.Register(Prefix+name, func(o simulator.Options) (
			simulator.Simulator, error) {
			return New(name, o)
		})
	}
}

// GymSim wraps an OpenAI Gym environment. Gym's own time limit is
// kept, and episodes are additionally truncated at the step limit of
// the Options the GymSim was created with. Since Gym does not report
// why an episode ended, every end before the step limit is considered
// terminal.
type GymSim struct {
	gogym.Environment
	name string

	ender       simulator.Ender
	actionSpace simulator.Space
	obsSpace    *simulator.Box
	sampler     *simulator.Sampler

	lastStep ts.TimeStep
	episodes int
}

// New returns a new GymSim wrapping the Gym environment with the
// given name
func New(name string, o simulator.Options) (*GymSim, error) {
	if o.Render {
		return nil, fmt.Errorf("new: rendering is not supported for Gym "+
			"environment %v", name)
	}

	env, err := gogym.Make(name)
	if err != nil {
		return nil, fmt.Errorf("new: could not create environment: %v", err)
	}

	actionSpace, err := convert(env.ActionSpace())
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("new: action space: %v", err)
	}
	obsSpace, err := convert(env.ObservationSpace())
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("new: observation space: %v", err)
	}
	obsBox, ok := obsSpace.(*simulator.Box)
	if !ok {
		env.Close()
		return nil, fmt.Errorf("new: observation space must be a box, got %T",
			obsSpace)
	}

	return &GymSim{
		Environment: env,
		name:        name,
		ender:       simulator.NewStepLimit(o.MaxEpisodeSteps),
		actionSpace: actionSpace,
		obsSpace:    obsBox,
		sampler:     simulator.NewSampler(actionSpace, o.Seed),
	}, nil
}

// convert converts a GoGym space to a simulator.Space
func convert(space gogym.Space) (simulator.Space, error) {
	switch space.(type) {
	case *gogym.DiscreteSpace:
		high := space.High()[0]
		return simulator.NewDiscrete(int(high.AtVec(0)) + 1), nil

	case *gogym.BoxSpace:
		low := space.Low()[0]
		high := space.High()[0]
		return simulator.NewBox(low.RawVector().Data,
			high.RawVector().Data), nil
	}
	return nil, fmt.Errorf("convert: invalid space type %T, only BoxSpace "+
		"and DiscreteSpace are supported", space)
}

// Reset seeds the Gym environment and starts a new episode
func (g *GymSim) Reset(seed uint64) (*mat.VecDense, error) {
	g.Environment.Seed(int(seed))
	obs, err := g.Environment.Reset()
	if err != nil {
		return nil, fmt.Errorf("reset: could not reset environment: %v", err)
	}

	g.lastStep = ts.New(ts.First, 0, obs, 0)
	g.episodes++
	return mat.VecDenseCopyOf(obs), nil
}

// Step takes a single environmental step
func (g *GymSim) Step(a *mat.VecDense) (ts.TimeStep, error) {
	if g.episodes == 0 {
		return ts.TimeStep{}, fmt.Errorf("step: simulator must be reset " +
			"before stepping")
	}
	if g.lastStep.Last() {
		return ts.TimeStep{}, fmt.Errorf("step: episode has ended, reset " +
			"the simulator")
	}
	if a.Len() != g.actionSpace.Width() {
		return ts.TimeStep{}, fmt.Errorf("step: action should have %v "+
			"dimensions, got %v", g.actionSpace.Width(), a.Len())
	}

	obs, reward, done, err := g.Environment.Step(a)
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("step: could not step "+
			"GoGym environment: %v", err)
	}

	t := ts.New(ts.Mid, reward, obs, g.lastStep.Number+1)
	if !g.ender.End(&t) && done {
		t.StepType = ts.Last
		t.SetEnd(ts.TerminalStateReached)
	}
	g.lastStep = t

	t.Observation = mat.VecDenseCopyOf(obs)
	return t, nil
}

// ActionSpace returns the action space of the Gym environment
func (g *GymSim) ActionSpace() simulator.Space {
	return g.actionSpace
}

// ObservationSpace returns the observation space of the Gym
// environment
func (g *GymSim) ObservationSpace() *simulator.Box {
	return g.obsSpace
}

// SampleAction samples uniformly from the action space
func (g *GymSim) SampleAction() *mat.VecDense {
	return g.sampler.Sample()
}

// Render implements the simulator.Simulator interface. Rendering Gym
// environments is not supported.
func (g *GymSim) Render() error {
	return fmt.Errorf("render: rendering is not supported for Gym " +
		"environment %v", g.name)
}

// Close closes the Gym environment
func (g *GymSim) Close() error {
	g.Environment.Close()
	return nil
}

func (g *GymSim) String() string {
	return fmt.Sprintf("GymSim(%v)", g.name)
}
