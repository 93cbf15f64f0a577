// Package timestep implements timesteps of a simulator: the native
// result of resetting or stepping a simulated environment
package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StepType denotes the type of step that a TimeStep can be, either  first
// environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// EndType determines why an episode ended. A simulator may end an
// episode because its own dynamics reached a terminal state, or
// because the episode was cut off by a step limit.
type EndType int

const (
	// NotEnded denotes a TimeStep which does not end the episode
	NotEnded EndType = iota

	// TerminalStateReached denotes that the simulator reached a
	// terminal state, the equivalent of Gym's terminated flag
	TerminalStateReached

	// Timeout denotes that the episode was cut off by the step limit,
	// the equivalent of Gym's truncated flag
	Timeout
)

func (e EndType) String() string {
	switch e {
	case TerminalStateReached:
		return "TerminalStateReached"
	case Timeout:
		return "Timeout"
	default:
		return "NotEnded"
	}
}

// TimeStep packages together a single timestep in a simulator
type TimeStep struct {
	StepType
	Reward      float64
	Observation *mat.VecDense
	Number      int
	endType     EndType
}

// New returns a new TimeStep
func New(t StepType, r float64, o *mat.VecDense, n int) TimeStep {
	return TimeStep{StepType: t, Reward: r, Observation: o, Number: n}
}

// First returns whether a TimeStep is the first in an environment
func (t *TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an environment
func (t *TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an environment
func (t *TimeStep) Last() bool {
	return t.StepType == Last
}

// SetEnd sets the reason the episode ended at this TimeStep. The
// first reason set wins, so that reaching a terminal state on the
// same step as the step limit is reported as terminal.
func (t *TimeStep) SetEnd(e EndType) {
	if t.endType == NotEnded {
		t.endType = e
	}
}

// EndType returns why the episode ended on this TimeStep
func (t *TimeStep) EndType() EndType {
	return t.endType
}

// Terminated returns whether the simulator reached a terminal state
func (t *TimeStep) Terminated() bool {
	return t.endType == TerminalStateReached
}

// Truncated returns whether the episode was cut off by a step limit
func (t *TimeStep) Truncated() bool {
	return t.endType == Timeout
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  Reward:  %.2f  |  End: %v  |  " +
		"Step Number:  %v"

	return fmt.Sprintf(str, t.StepType, t.Reward, t.endType, t.Number)
}
