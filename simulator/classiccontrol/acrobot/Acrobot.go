// Package acrobot implements the Acrobot classic control simulator,
// registered as Acrobot-v1
package acrobot

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/envies/simulator"
	ts "github.com/samuelfneumann/envies/timestep"
	"github.com/samuelfneumann/envies/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

// ID is the id the simulator is registered with
const ID = "Acrobot-v1"

// dynamicsType determines whether the dynamics of the simulator
// follows those defined in the NeurIPS paper or the RL book.
type dynamicsType bool

const (
	// Dynamics of simulator is consistent with RL book
	book dynamicsType = true

	// Dynamics of simulator is consistent with NeurIPS paper
	nips dynamicsType = false
)

const (
	dt float64 = 0.2

	// Physical constants
	LinkLength1 float64 = 1.0 // Metres, length of link 1
	LinkLength2 float64 = 1.0 // Metres, length of link 2
	LinkMass1   float64 = 1.0 // Kg, mass of link 1
	LinkMass2   float64 = 1.0 // Kg, mass of link 2
	LinkCOMPos1 float64 = 0.5 // Metres, centre of mass link 1
	LinkCOMPos2 float64 = 0.5 // Metres, cetnre of mass link 2
	LinkMOI     float64 = 1.0 // Moments of inertia for both links
	MaxVel1     float64 = 4 * math.Pi
	MinVel1     float64 = -MaxVel1
	MaxVel2     float64 = 9 * math.Pi
	MinVel2     float64 = -MaxVel2
	Gravity     float64 = 9.8
	MaxAngle    float64 = math.Pi
	MinAngle    float64 = -MaxAngle

	// Goal position is to swing the tip above one link length above
	// the fixed base
	GoalHeight float64 = LinkLength1

	// Starting state features are drawn uniformly from (+/-) StartBound
	StartBound float64 = 0.1

	StateDims       int = 4
	ObservationDims int = 6
	NumActions      int = 3 // Torques -1, 0, +1

	BookOrNips dynamicsType = book
)

func init() {
	simulator.Register(ID, func(o simulator.Options) (simulator.Simulator,
		error) {
		return New(o)
	})
}

// Acrobot implements the classic control simulator Acrobot. In this
// simulator, a double hindged and double linked pendulum is attached
// to a single actuated fixed base. Torque can be applied to the base
// to swing the double pendulum (acrobot) around.
//
// The underlying state is 4-dimensional:
//
//	s = [θ1, θ2, θ̇1, θ̇2], where:
//	θ1 = angle of the first link measured from the negative y-axis
//	θ2 = angle of the second link relative to the first link
//	θ̇1 = angular velocity of the first link
//	θ̇2 = angular velocity of the second link
//
// Angles are wrapped to stay within [-π, π) and angular velocities are
// clipped to [MinVel1, MaxVel1] and [MinVel2, MaxVel2]. Observations
// are 6-dimensional:
//
//	[cos θ1, sin θ1, cos θ2, sin θ2, θ̇1, θ̇2]
//
// Actions are discrete in {0, 1, 2} and apply a torque of -1, 0, or +1
// to the base.
//
// The task is cost-to-goal: a reward of -1 is given on all steps
// except the step which swings the tip of the second link above
// GoalHeight, which terminates the episode with a reward of 0.
type Acrobot struct {
	starter simulator.Starter
	ender   simulator.Ender

	actionSpace *simulator.Discrete
	sampler     *simulator.Sampler
	recorder    *simulator.Recorder

	state    *mat.VecDense
	lastStep ts.TimeStep
	episodes int

	angleBounds     r1.Interval
	velocity1Bounds r1.Interval
	velocity2Bounds r1.Interval
}

// New returns a new Acrobot simulator
func New(o simulator.Options) (*Acrobot, error) {
	bound := r1.Interval{Min: -StartBound, Max: StartBound}
	starter := simulator.NewUniformStarter([]r1.Interval{bound, bound, bound,
		bound})

	// Observations hold cos θ1, sin θ1, cos θ2, sin θ2, so the tip
	// height -cos θ1 - cos(θ1 + θ2) is recovered as
	// -cos θ1 - (cos θ1 cos θ2 - sin θ1 sin θ2)
	atGoal := func(obs *mat.VecDense) bool {
		return tipHeight(obs) > GoalHeight
	}
	goal := simulator.NewFunctionEnder(atGoal, ts.TerminalStateReached)

	actionSpace := simulator.NewDiscrete(NumActions)
	a := &Acrobot{
		starter:         starter,
		ender:           simulator.Enders{goal, simulator.NewStepLimit(o.MaxEpisodeSteps)},
		actionSpace:     actionSpace,
		sampler:         simulator.NewSampler(actionSpace, o.Seed),
		angleBounds:     r1.Interval{Min: MinAngle, Max: MaxAngle},
		velocity1Bounds: r1.Interval{Min: MinVel1, Max: MaxVel1},
		velocity2Bounds: r1.Interval{Min: MinVel2, Max: MaxVel2},
	}

	if o.Render {
		recorder, err := simulator.NewRecorder(o.RenderDir, "acrobot")
		if err != nil {
			return nil, fmt.Errorf("new: %v", err)
		}
		a.recorder = recorder
	}

	return a, nil
}

// tipHeight returns the height of the tip of the second link above
// the base given an observation
func tipHeight(obs *mat.VecDense) float64 {
	cos1, sin1 := obs.AtVec(0), obs.AtVec(1)
	cos2, sin2 := obs.AtVec(2), obs.AtVec(3)
	return -cos1 - (cos1*cos2 - sin1*sin2)
}

// observe returns the observation of a state
func observe(state *mat.VecDense) *mat.VecDense {
	th1, th2 := state.AtVec(0), state.AtVec(1)
	return mat.NewVecDense(ObservationDims, []float64{
		math.Cos(th1),
		math.Sin(th1),
		math.Cos(th2),
		math.Sin(th2),
		state.AtVec(2),
		state.AtVec(3),
	})
}

// Reset resets the simulator, begins a new episode, and returns
// the first observation of the new episode
func (a *Acrobot) Reset(seed uint64) (*mat.VecDense, error) {
	a.state = a.starter.Start(rand.NewSource(seed))
	obs := observe(a.state)
	a.lastStep = ts.New(ts.First, 0, obs, 0)
	a.episodes++

	if a.recorder != nil {
		a.recorder.NextEpisode()
		if err := a.Render(); err != nil {
			return nil, fmt.Errorf("reset: %v", err)
		}
	}

	return mat.VecDenseCopyOf(obs), nil
}

// Step takes one environmental step given action a and returns the
// next timestep. Actions are discrete, consisting of the torque
// applied to the acrobot's base and are in the set {0, 1, 2}.
func (a *Acrobot) Step(action *mat.VecDense) (ts.TimeStep, error) {
	if a.episodes == 0 {
		return ts.TimeStep{}, fmt.Errorf("step: simulator must be reset " +
			"before stepping")
	}
	if a.lastStep.Last() {
		return ts.TimeStep{}, fmt.Errorf("step: episode has ended, reset " +
			"the simulator")
	}
	if !a.actionSpace.Contains(action) {
		return ts.TimeStep{}, fmt.Errorf("step: illegal action %v ∉ "+
			"(0, 1, 2)", simulator.Format(action))
	}

	// Calculate the torque applied
	torque := action.AtVec(0) - 1.0
	a.state = a.nextState(torque)

	obs := observe(a.state)
	nextStep := ts.New(ts.Mid, -1.0, obs, a.lastStep.Number+1)

	// Check if the step is the last in the episode and adjust step type
	// if necessary
	a.ender.End(&nextStep)
	if nextStep.Terminated() {
		nextStep.Reward = 0.0
	}
	a.lastStep = nextStep

	if a.recorder != nil {
		if err := a.Render(); err != nil {
			return ts.TimeStep{}, fmt.Errorf("step: %v", err)
		}
	}

	nextStep.Observation = mat.VecDenseCopyOf(obs)
	return nextStep, nil
}

// nextState returns the next state of the simulator given the
// torque to apply to the fixed base of the acrobot.
func (a *Acrobot) nextState(torque float64) *mat.VecDense {
	s := a.state

	sAugmented := mat.NewVecDense(s.Len()+1, nil)
	num := sAugmented.CopyVec(s)
	if num != s.Len() {
		panic("nextState: wrong number of state elements copied")
	}
	sAugmented.SetVec(sAugmented.Len()-1, torque)

	integrated := rk4(dsDt, sAugmented, []float64{0.0, dt})
	r, c := integrated.Dims()
	if c != StateDims+1 {
		panic("nextState: integration returned more than 5 components")
	}
	ns := mat.VecDenseCopyOf(integrated.RowView(r - 1).(*mat.VecDense).
		SliceVec(0, c-1))

	// Ensure state stays in an acceptable range
	ns.SetVec(0, floatutils.WrapInterval(ns.AtVec(0), a.angleBounds))
	ns.SetVec(1, floatutils.WrapInterval(ns.AtVec(1), a.angleBounds))
	ns.SetVec(2, floatutils.ClipInterval(ns.AtVec(2), a.velocity1Bounds))
	ns.SetVec(3, floatutils.ClipInterval(ns.AtVec(3), a.velocity2Bounds))

	return ns
}

// ActionSpace returns the discrete action space {0, 1, 2}
func (a *Acrobot) ActionSpace() simulator.Space {
	return a.actionSpace
}

// ObservationSpace returns the bounds on observations
func (a *Acrobot) ObservationSpace() *simulator.Box {
	return simulator.NewBox(
		[]float64{-1, -1, -1, -1, MinVel1, MinVel2},
		[]float64{1, 1, 1, 1, MaxVel1, MaxVel2},
	)
}

// SampleAction samples uniformly from {0, 1, 2}
func (a *Acrobot) SampleAction() *mat.VecDense {
	return a.sampler.Sample()
}

// Close implements the simulator.Simulator interface
func (a *Acrobot) Close() error {
	return nil
}

// String implements the fmt.Stringer interface
func (a *Acrobot) String() string {
	if a.state == nil {
		return "Acrobot  |  not reset"
	}
	state := a.state

	return fmt.Sprintf("Acrobot  |  θ1: %v  |  θ2: %v  |  θ̇1: %v  |  θ̇2: %v",
		state.AtVec(0), state.AtVec(1), state.AtVec(2), state.AtVec(3))
}

// dsDt calculate ds/dt for the simulator, where s = the current
// simulator state augmented with the applied torque
func dsDt(sAugmented *mat.VecDense, t float64) []float64 {
	m1 := LinkMass1
	m2 := LinkMass2
	l1 := LinkLength1
	lc1 := LinkCOMPos1
	lc2 := LinkCOMPos2
	i1 := LinkMOI
	i2 := LinkMOI
	g := Gravity

	s := sAugmented.SliceVec(0, sAugmented.Len()-1)
	a := sAugmented.AtVec(sAugmented.Len() - 1)

	theta1 := s.AtVec(0)
	theta2 := s.AtVec(1)
	dtheta1 := s.AtVec(2)
	dtheta2 := s.AtVec(3)

	d1 := (m1*math.Pow(lc1, 2) +
		m2*(math.Pow(l1, 2)+math.Pow(lc2, 2)+2*l1*lc2*math.Cos(theta2)) +
		i1 + i2)

	d2 := m2*(math.Pow(lc2, 2)+l1*lc2*math.Cos(theta2)) + i2

	phi2 := m2 * lc2 * g * math.Cos(theta1+theta2-(math.Pi/2.0))
	phi1 := (-m2*l1*lc2*math.Pow(dtheta2, 2)*math.Sin(theta2) -
		2*m2*l1*lc2*dtheta2*dtheta1*math.Sin(theta2) +
		(m1*lc1+m2*l1)*g*math.Cos(theta1-(math.Pi/2.0)) +
		phi2)

	var ddtheta2 float64
	if BookOrNips == nips {
		ddtheta2 = (a + d2/d1*phi1 - phi2) / (m2*math.Pow(lc2, 2) + i2 -
			math.Pow(d2, 2)/d1)
	} else {
		ddtheta2 = (a + d2/d1*phi1 - m2*l1*lc2*math.Pow(dtheta1, 2)*
			math.Sin(theta2) - phi2) /
			(m2*math.Pow(lc2, 2) + i2 - math.Pow(d2, 2)/d1)
	}
	ddtheta1 := -(d2*ddtheta2 + phi1) / d1

	// Last component is da/dt == 0.0
	return []float64{dtheta1, dtheta2, ddtheta1, ddtheta2, 0.0}
}

// rk4 integrates an n-dimensional system of ODEs using 4-th order
// Runge-Kutta, returning the state at each time in t as a row.
func rk4(derivs func(*mat.VecDense, float64) []float64, y0 *mat.VecDense,
	t []float64) *mat.Dense {
	yout := mat.NewDense(len(t), y0.Len(), nil)
	yout.SetRow(0, y0.RawVector().Data)

	for i := 0; i < len(t)-1; i++ {
		thist := t[i]
		dt := t[i+1] - thist // shadowing package constant
		dt2 := dt / 2.0

		y0 := mat.VecDenseCopyOf(yout.RowView(i)) // shadowing input y0

		dsdt := derivs(y0, thist)
		k1 := mat.NewVecDense(len(dsdt), dsdt)

		input := mat.NewVecDense(len(dsdt), nil)
		input.AddScaledVec(y0, dt2, k1)
		dsdt = derivs(input, thist+dt2)
		k2 := mat.NewVecDense(len(dsdt), dsdt)

		input.AddScaledVec(y0, dt2, k2)
		dsdt = derivs(input, thist+dt2)
		k3 := mat.NewVecDense(len(dsdt), dsdt)

		input.AddScaledVec(y0, dt, k3)
		dsdt = derivs(input, thist+dt)
		k4 := mat.NewVecDense(len(dsdt), dsdt)

		row := mat.NewVecDense(k1.Len(), nil)
		row.CopyVec(k1)
		row.AddScaledVec(row, 2.0, k2)
		row.AddScaledVec(row, 2.0, k3)
		row.AddVec(row, k4)
		row.AddScaledVec(y0, dt/6.0, row)

		yout.SetRow(i+1, row.RawVector().Data)
	}
	return yout
}
