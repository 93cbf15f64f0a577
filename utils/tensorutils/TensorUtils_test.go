package tensorutils

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

func TestFromVector(t *testing.T) {
	v := mat.NewVecDense(3, []float64{1, -2, 3.5})
	tens := FromVector(v)

	require.Equal(t, tensor.Float64, tens.Dtype())
	require.Equal(t, tensor.Shape{3}, tens.Shape())
	require.Equal(t, []float64{1, -2, 3.5}, tens.Data())

	// The tensor does not share memory with the vector
	v.SetVec(0, 10)
	require.Equal(t, 1.0, tens.Data().([]float64)[0])
}

func TestToVecDense(t *testing.T) {
	floats := tensor.New(tensor.WithShape(2),
		tensor.WithBacking([]float64{0.5, 1.5}))
	vec, err := ToVecDense(floats)
	require.NoError(t, err)
	require.Equal(t, []float64{0.5, 1.5}, vec.RawVector().Data)

	ints := tensor.New(tensor.WithShape(3), tensor.WithBacking([]int{3, 0, 1}))
	vec, err = ToVecDense(ints)
	require.NoError(t, err)
	require.Equal(t, []float64{3, 0, 1}, vec.RawVector().Data)

	bools := tensor.New(tensor.WithShape(1), tensor.WithBacking([]bool{true}))
	_, err = ToVecDense(bools)
	require.Error(t, err)
}
