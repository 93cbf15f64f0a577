package simulator

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distuv"
)

// Starter implements a distribution of starting states and samples
// starting states for simulators. Starting states are drawn from the
// source given to Start, so that a simulator seeding the source on
// every reset starts deterministically.
type Starter interface {
	Start(src rand.Source) *mat.VecDense
}

// UniformStarter returns starting states as vectors sampled from a
// multi-dimensional uniform distribution
type UniformStarter struct {
	bounds []r1.Interval
}

// NewUniformStarter returns a new UniformStarter, sampling dimension
// i uniformly from bounds[i]
func NewUniformStarter(bounds []r1.Interval) UniformStarter {
	return UniformStarter{append([]r1.Interval(nil), bounds...)}
}

// Start returns a starting state vector
func (u UniformStarter) Start(src rand.Source) *mat.VecDense {
	features := len(u.bounds)
	start := make([]float64, features)

	for i, bound := range u.bounds {
		rng := distuv.Uniform{Min: bound.Min, Max: bound.Max, Src: src}
		start[i] = rng.Rand()
	}

	return mat.NewVecDense(features, start)
}
