package environment

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// DiscreteAction returns the 1-dimensional action vector which selects
// the action with index i in a FiniteActions environment
func DiscreteAction(i int) *mat.VecDense {
	return mat.NewVecDense(1, []float64{float64(i)})
}

// ActionIndex returns the index selected by a discrete action vector.
// The action must be 1-dimensional and hold an integer in [0, n).
func ActionIndex(a mat.Vector, n int) (int, error) {
	if a == nil || a.Len() != 1 {
		return 0, fmt.Errorf("actionIndex: discrete actions should be "+
			"1-dimensional: %w", ErrIllegalAction)
	}

	value := a.AtVec(0)
	if value != math.Trunc(value) {
		return 0, fmt.Errorf("actionIndex: action %v is not an integer: %w",
			value, ErrIllegalAction)
	}

	index := int(value)
	if index < 0 || index >= n {
		return 0, fmt.Errorf("actionIndex: action %v ∉ [0, %v): %w",
			index, n, ErrIllegalAction)
	}
	return index, nil
}

// CheckWidth returns an error if a continuous action does not have
// the given width. The values of the action are not checked.
func CheckWidth(a mat.Vector, width int) error {
	if a == nil {
		return fmt.Errorf("checkWidth: nil action: %w", ErrIllegalAction)
	}
	if a.Len() != width {
		return fmt.Errorf("checkWidth: illegal action width "+
			"\n\twant(%v) \n\thave(%v): %w", width, a.Len(), ErrIllegalAction)
	}
	return nil
}
