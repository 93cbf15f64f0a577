// Package tensorutils converts between gonum vectors and gorgonia
// tensors
package tensorutils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

// FromVector returns a 1-dimensional tensor of Dtype tensor.Float64
// holding a copy of v
func FromVector(v mat.Vector) *tensor.Dense {
	backing := make([]float64, v.Len())
	for i := range backing {
		backing[i] = v.AtVec(i)
	}
	return tensor.New(tensor.WithShape(len(backing)),
		tensor.WithBacking(backing))
}

// ToVecDense returns a copy of the data of t as a *mat.VecDense.
// Tensors of Dtype tensor.Float64 and tensor.Int are supported.
func ToVecDense(t tensor.Tensor) (*mat.VecDense, error) {
	switch data := t.Data().(type) {
	case []float64:
		if len(data) == 0 {
			return nil, fmt.Errorf("toVecDense: tensor is empty")
		}
		return mat.NewVecDense(len(data), append([]float64(nil), data...)),
			nil

	case []int:
		if len(data) == 0 {
			return nil, fmt.Errorf("toVecDense: tensor is empty")
		}
		vec := mat.NewVecDense(len(data), nil)
		for i, v := range data {
			vec.SetVec(i, float64(v))
		}
		return vec, nil
	}

	return nil, fmt.Errorf("toVecDense: cannot convert tensor of dtype %v",
		t.Dtype())
}
