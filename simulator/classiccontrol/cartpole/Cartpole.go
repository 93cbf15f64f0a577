// Package cartpole implements the Cartpole classic control simulator,
// registered as CartPole-v1
package cartpole

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/envies/simulator"
	ts "github.com/samuelfneumann/envies/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

// ID is the id the simulator is registered with
const ID = "CartPole-v1"

const (
	// Physical constants
	Gravity        float64 = 9.8
	CartMass       float64 = 1.0
	PoleMass       float64 = 0.1
	TotalMass      float64 = CartMass + PoleMass
	HalfPoleLength float64 = 0.5  // half of pole length
	ForceMag       float64 = 10.0 // Magnification of force applied
	Dt             float64 = 0.02 // seconds between state updates

	// Episodes terminate when the cart or pole leave these bounds (+/-)
	PositionThreshold float64 = 2.4
	AngleThreshold    float64 = 12 * 2 * math.Pi / 360

	// Starting state features are drawn uniformly from (+/-) StartBound
	StartBound float64 = 0.05

	ObservationDims int = 4
	NumActions      int = 2
)

func init() {
	simulator.Register(ID, func(o simulator.Options) (simulator.Simulator,
		error) {
		return New(o)
	})
}

// Cartpole implements the classic control simulator Cartpole. In this
// simulator, a pole is attached to a cart, which can move
// horizontally. Gravity pulls the pole downwards so that balancing it
// in an upright position is very difficult.
//
// The state features are continuous and consist of the cart's x
// position and speed, as well as the pole's angle from the positive
// y-axis and the pole's angular velocity.
//
// Actions are discrete, consisting of the direction to apply
// horizontal force to the cart. Legal actions are in {0, 1}:
//
//	Action		Meaning
//	  0			Apply force left
//	  1			Apply force right
//
// A reward of +1 is given on every step, including the step which
// ends the episode. Episodes terminate when the pole falls past
// AngleThreshold or the cart moves past PositionThreshold, and are
// truncated at the step limit.
type Cartpole struct {
	starter simulator.Starter
	ender   simulator.Ender

	actionSpace *simulator.Discrete
	sampler     *simulator.Sampler
	recorder    *simulator.Recorder

	lastStep ts.TimeStep
	episodes int
}

// New constructs a new Cartpole simulator
func New(o simulator.Options) (*Cartpole, error) {
	bound := r1.Interval{Min: -StartBound, Max: StartBound}
	starter := simulator.NewUniformStarter([]r1.Interval{bound, bound, bound,
		bound})

	positionLimit := r1.Interval{Min: -PositionThreshold,
		Max: PositionThreshold}
	angleLimit := r1.Interval{Min: -AngleThreshold, Max: AngleThreshold}
	failure := simulator.NewIntervalLimit(
		[]r1.Interval{positionLimit, angleLimit},
		[]int{0, 2},
		ts.TerminalStateReached,
	)

	actionSpace := simulator.NewDiscrete(NumActions)
	c := &Cartpole{
		starter:     starter,
		ender:       simulator.Enders{failure, simulator.NewStepLimit(o.MaxEpisodeSteps)},
		actionSpace: actionSpace,
		sampler:     simulator.NewSampler(actionSpace, o.Seed),
	}

	if o.Render {
		recorder, err := simulator.NewRecorder(o.RenderDir, "cartpole")
		if err != nil {
			return nil, fmt.Errorf("new: %v", err)
		}
		c.recorder = recorder
	}

	return c, nil
}

// Reset resets the simulator and returns a starting state drawn from
// the simulator Starter
func (c *Cartpole) Reset(seed uint64) (*mat.VecDense, error) {
	state := c.starter.Start(rand.NewSource(seed))
	c.lastStep = ts.New(ts.First, 0, state, 0)
	c.episodes++

	if c.recorder != nil {
		c.recorder.NextEpisode()
		if err := c.Render(); err != nil {
			return nil, fmt.Errorf("reset: %v", err)
		}
	}

	return mat.VecDenseCopyOf(state), nil
}

// Step takes one environmental step given action a and returns the
// next timestep. Legal actions are in the set {0, 1}.
func (c *Cartpole) Step(a *mat.VecDense) (ts.TimeStep, error) {
	if c.episodes == 0 {
		return ts.TimeStep{}, fmt.Errorf("step: simulator must be reset " +
			"before stepping")
	}
	if c.lastStep.Last() {
		return ts.TimeStep{}, fmt.Errorf("step: episode has ended, reset " +
			"the simulator")
	}
	if !c.actionSpace.Contains(a) {
		return ts.TimeStep{}, fmt.Errorf("step: illegal action %v ∉ (0, 1)",
			simulator.Format(a))
	}

	// Convert action (0, 1) to a force (-ForceMag, ForceMag)
	force := -ForceMag
	if a.AtVec(0) == 1 {
		force = ForceMag
	}

	newState := nextState(c.lastStep.Observation, force)
	nextStep := ts.New(ts.Mid, 1.0, newState, c.lastStep.Number+1)

	// Check if the step ends the episode
	c.ender.End(&nextStep)
	c.lastStep = nextStep

	if c.recorder != nil {
		if err := c.Render(); err != nil {
			return ts.TimeStep{}, fmt.Errorf("step: %v", err)
		}
	}

	nextStep.Observation = mat.VecDenseCopyOf(newState)
	return nextStep, nil
}

// nextState computes the state after applying force to the cart
// using Euler kinematic integration
func nextState(state *mat.VecDense, force float64) *mat.VecDense {
	x, xDot := state.AtVec(0), state.AtVec(1)
	th, thDot := state.AtVec(2), state.AtVec(3)

	cosTheta := math.Cos(th)
	sinTheta := math.Sin(th)

	poleMassLength := PoleMass * HalfPoleLength

	temp := (force + poleMassLength*thDot*thDot*sinTheta) / TotalMass
	thAcc := (Gravity*sinTheta - cosTheta*temp) / (HalfPoleLength *
		(4.0/3.0 - PoleMass*cosTheta*cosTheta/TotalMass))
	xAcc := temp - poleMassLength*thAcc*cosTheta/TotalMass

	x += Dt * xDot
	xDot += Dt * xAcc
	th += Dt * thDot
	thDot += Dt * thAcc

	return mat.NewVecDense(ObservationDims, []float64{x, xDot, th, thDot})
}

// ActionSpace returns the discrete action space {0, 1}
func (c *Cartpole) ActionSpace() simulator.Space {
	return c.actionSpace
}

// ObservationSpace returns the bounds on state observations
func (c *Cartpole) ObservationSpace() *simulator.Box {
	high := []float64{2 * PositionThreshold, math.MaxFloat64,
		2 * AngleThreshold, math.MaxFloat64}
	low := make([]float64, len(high))
	for i := range high {
		low[i] = -high[i]
	}
	return simulator.NewBox(low, high)
}

// SampleAction samples uniformly from {0, 1}
func (c *Cartpole) SampleAction() *mat.VecDense {
	return c.sampler.Sample()
}

// Close implements the simulator.Simulator interface
func (c *Cartpole) Close() error {
	return nil
}

func (c *Cartpole) String() string {
	msg := "Cartpole  |  Position: %v  | Speed: %v  |  Angle: %v" +
		"  |  Angular Velocity: %v"

	state := c.lastStep.Observation
	if state == nil {
		return "Cartpole  |  not reset"
	}
	position, speed := state.AtVec(0), state.AtVec(1)
	angle, velocity := state.AtVec(2), state.AtVec(3)

	return fmt.Sprintf(msg, position, speed, angle, velocity)
}
