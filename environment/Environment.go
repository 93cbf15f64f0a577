// Package environment outlines the interfaces and structs needed to
// implement concrete environments.
//
// Every environment, whether it is fully self-contained or an adapter
// around an external simulator, implements the Environment interface.
// The shape of the action space is described by one of two
// non-overlapping capabilities: FiniteActions, for environments with an
// enumerable set of discrete actions, and ContinuousActions, for
// environments whose actions are fixed-width real vectors.
//
// Environments are not safe for concurrent use. Parallel workers must
// each own an independent instance, which can be constructed from the
// same configuration.
package environment

import (
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

// Observation is a read-only snapshot of the internal state of an
// environment. Each environment documents the concrete type of its
// observations.
type Observation interface{}

// Environment implements a simulated, episodic task
type Environment interface {
	// ResetWithSeed starts a new episode. The resulting state is a pure
	// function of seed wherever the environment is stochastic.
	// After ResetWithSeed, IsTerminal returns false.
	ResetWithSeed(seed uint64) (Observation, error)

	// Run applies an action and advances one time step, returning the
	// reward for the transition. Run returns an error wrapping
	// ErrIllegalAction if the action is not in the action space and
	// ErrEpisodeOver if the episode is already over.
	Run(action mat.Vector) (float64, error)

	// Observation returns the current observation of the environment
	Observation() Observation

	// ObservationVector converts an observation into the tensor that
	// a policy consumes. The tensor's Dtype is fixed per environment.
	ObservationVector(obs Observation) (*tensor.Dense, error)

	IsTerminal() bool
	HasWon() bool
	LostEpisode() bool

	// SampleAction draws an action uniformly from the action space
	SampleAction() *mat.VecDense

	// MaxSteps returns the episode length budget and whether one
	// exists
	MaxSteps() (int, bool)

	// ActionSpec returns the action specification of the environment
	ActionSpec() Spec

	// BuildRenderable constructs a new, independent environment of the
	// same type and configuration, with rendering enabled
	BuildRenderable() (Environment, error)

	// Close performs resource cleanup after the environment is no
	// longer needed
	Close() error
}

// FiniteActions is an Environment whose actions are drawn from a
// finite, enumerable set. Actions are 1-dimensional vectors holding
// an index, see DiscreteAction.
type FiniteActions interface {
	Environment

	// ValidActions enumerates the action space. The order is stable
	// over the lifetime of the environment.
	ValidActions() []int
}

// ContinuousActions is an Environment whose actions are real-valued
// vectors of a fixed width
type ContinuousActions interface {
	Environment

	// ActionWidth returns the dimensionality of actions
	ActionWidth() int
}
