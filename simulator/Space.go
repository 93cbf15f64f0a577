package simulator

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

// Space describes a space of actions or observations
type Space interface {
	// Width returns the dimensionality of elements of the space
	Width() int

	// Contains returns whether x is in the space
	Contains(x mat.Vector) bool
}

// Discrete is the space {0, 1, ..., N-1}. Elements are 1-dimensional
// vectors holding the index.
type Discrete struct {
	N int
}

// NewDiscrete returns a new Discrete space of n elements
func NewDiscrete(n int) *Discrete {
	if n <= 0 {
		panic(fmt.Sprintf("newDiscrete: space must have at least one "+
			"element, got %v", n))
	}
	return &Discrete{N: n}
}

// Width implements the Space interface
func (d *Discrete) Width() int {
	return 1
}

// Contains implements the Space interface
func (d *Discrete) Contains(x mat.Vector) bool {
	if x == nil || x.Len() != 1 {
		return false
	}
	value := x.AtVec(0)
	return value == math.Trunc(value) && value >= 0 && value < float64(d.N)
}

// Box is a closed, axis-aligned box in R^n
type Box struct {
	Low, High *mat.VecDense
}

// NewBox returns a new Box with the given bounds
func NewBox(low, high []float64) *Box {
	if len(low) != len(high) {
		panic(fmt.Sprintf("newBox: bounds must have the same length "+
			"\n\tlow(%v) \n\thigh(%v)", len(low), len(high)))
	}

	l := mat.NewVecDense(len(low), append([]float64(nil), low...))
	h := mat.NewVecDense(len(high), append([]float64(nil), high...))
	return &Box{Low: l, High: h}
}

// Width implements the Space interface
func (b *Box) Width() int {
	return b.Low.Len()
}

// Contains implements the Space interface. Contains only checks the
// bounds of x, for checking only the width of actions, compare
// against Width.
func (b *Box) Contains(x mat.Vector) bool {
	if x == nil || x.Len() != b.Width() {
		return false
	}
	for i := 0; i < x.Len(); i++ {
		if x.AtVec(i) < b.Low.AtVec(i) || x.AtVec(i) > b.High.AtVec(i) {
			return false
		}
	}
	return true
}

// Intervals returns the bounds of the Box as intervals
func (b *Box) Intervals() []r1.Interval {
	bounds := make([]r1.Interval, b.Width())
	for i := range bounds {
		bounds[i] = r1.Interval{Min: b.Low.AtVec(i), Max: b.High.AtVec(i)}
	}
	return bounds
}

// Sampler samples uniformly from a Space
type Sampler struct {
	width       int
	categorical *distuv.Categorical
	uniform     *distmv.Uniform
}

// NewSampler returns a new Sampler for space, seeded with seed. The
// space must be a *Discrete or a *Box with finite bounds.
func NewSampler(space Space, seed uint64) *Sampler {
	source := rand.NewSource(seed)

	switch s := space.(type) {
	case *Discrete:
		// Create the weights for the uniform categorical distribution
		weights := make([]float64, s.N)
		for i := range weights {
			weights[i] = 1.0 / float64(len(weights))
		}
		categorical := distuv.NewCategorical(weights, source)
		return &Sampler{width: 1, categorical: &categorical}

	case *Box:
		uniform := distmv.NewUniform(s.Intervals(), source)
		return &Sampler{width: s.Width(), uniform: uniform}
	}

	panic(fmt.Sprintf("newSampler: cannot sample from space %T", space))
}

// Sample returns a sample from the space
func (s *Sampler) Sample() *mat.VecDense {
	if s.categorical != nil {
		return mat.NewVecDense(1, []float64{s.categorical.Rand()})
	}
	return mat.NewVecDense(s.width, s.uniform.Rand(nil))
}

// Format formats a vector as a row for error messages
func Format(v mat.Vector) string {
	if v == nil || v.Len() == 0 {
		return "[]"
	}
	return fmt.Sprintf("%v", mat.Formatted(v.T()))
}
