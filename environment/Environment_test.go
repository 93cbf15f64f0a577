package environment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestClassify(t *testing.T) {
	require.Equal(t, Running, Classify(false, false))
	require.Equal(t, Won, Classify(true, false))
	require.Equal(t, Lost, Classify(false, true))
	require.Panics(t, func() { Classify(true, true) })

	require.False(t, Running.Terminal())
	require.True(t, Won.Terminal())
	require.True(t, Lost.Terminal())
}

func TestClassifyBudget(t *testing.T) {
	tests := []struct {
		name     string
		isOver   bool
		steps    int
		maxSteps int
		want     Outcome
	}{
		{"running", false, 10, 500, Running},
		{"running at budget", false, 500, 500, Running},
		{"ended early", true, 120, 500, Lost},
		{"ended at budget", true, 500, 500, Won},
		{"ended past budget", true, 501, 500, Won},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := ClassifyBudget(test.isOver, test.steps, test.maxSteps)
			require.Equal(t, test.want, got)
		})
	}
}

func TestActionIndex(t *testing.T) {
	index, err := ActionIndex(DiscreteAction(2), 3)
	require.NoError(t, err)
	require.Equal(t, 2, index)

	illegal := []mat.Vector{
		DiscreteAction(3),
		DiscreteAction(-1),
		mat.NewVecDense(1, []float64{0.5}),
		mat.NewVecDense(2, []float64{0, 1}),
		nil,
	}
	for _, a := range illegal {
		_, err := ActionIndex(a, 3)
		require.True(t, errors.Is(err, ErrIllegalAction), "action %v", a)
	}
}

func TestCheckWidth(t *testing.T) {
	require.NoError(t, CheckWidth(mat.NewVecDense(2, []float64{5, -5}), 2))
	require.ErrorIs(t, CheckWidth(mat.NewVecDense(3, nil), 2), ErrIllegalAction)
}

func TestKwargs(t *testing.T) {
	type config struct {
		BoardSize int     `yaml:"board_size"`
		Reward    float64 `yaml:"reward"`
		Render    bool    `yaml:"render"`
	}

	t.Run("decodes over defaults", func(t *testing.T) {
		c := config{BoardSize: 4, Reward: 1}
		require.NoError(t, DecodeKwargs(Kwargs{"board_size": 6}, &c))
		require.Equal(t, config{BoardSize: 6, Reward: 1}, c)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		c := config{}
		err := DecodeKwargs(Kwargs{"boardsize": 6}, &c)
		require.ErrorIs(t, err, ErrConfig)
	})

	t.Run("round trips", func(t *testing.T) {
		kw, err := EncodeKwargs(config{BoardSize: 3, Reward: -2, Render: true})
		require.NoError(t, err)
		require.Equal(t, 3, kw["board_size"])
		require.Equal(t, true, kw["render"])

		var c config
		require.NoError(t, DecodeKwargs(kw, &c))
		require.Equal(t, config{BoardSize: 3, Reward: -2, Render: true}, c)
	})
}

func TestNewDiscreteActionSpec(t *testing.T) {
	spec := NewDiscreteActionSpec(3)
	require.Equal(t, Discrete, spec.Cardinality)
	require.Equal(t, 2.0, spec.UpperBound.AtVec(0))

	continuous := NewContinuousActionSpec([]float64{-1, -1}, []float64{1, 1})
	require.Equal(t, Continuous, continuous.Cardinality)
	require.Equal(t, 2, continuous.Shape.Len())
}
