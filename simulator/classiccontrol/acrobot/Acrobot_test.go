package acrobot

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/envies/simulator"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestRegistered(t *testing.T) {
	sim, err := simulator.Make(ID, simulator.Options{MaxEpisodeSteps: 10})
	require.NoError(t, err)
	require.IsType(t, &Acrobot{}, sim)
	require.Equal(t, ObservationDims, sim.ObservationSpace().Width())
}

func TestResetDeterministic(t *testing.T) {
	a, err := New(simulator.Options{MaxEpisodeSteps: 500})
	require.NoError(t, err)

	obs1, err := a.Reset(7)
	require.NoError(t, err)
	obs2, err := a.Reset(7)
	require.NoError(t, err)
	obs3, err := a.Reset(8)
	require.NoError(t, err)

	require.True(t, mat.Equal(obs1, obs2))
	require.False(t, mat.Equal(obs1, obs3))
	require.Equal(t, ObservationDims, obs1.Len())

	// cos² + sin² == 1 for both links
	for _, i := range []int{0, 2} {
		c, s := obs1.AtVec(i), obs1.AtVec(i+1)
		require.InDelta(t, 1.0, c*c+s*s, 1e-12)
	}
	// Starting near the bottom, the tip is far below the goal
	require.Less(t, tipHeight(obs1), -1.9)
}

func TestStep(t *testing.T) {
	a, err := New(simulator.Options{MaxEpisodeSteps: 5})
	require.NoError(t, err)
	_, err = a.Reset(0)
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		step, err := a.Step(mat.NewVecDense(1, []float64{2}))
		require.NoError(t, err)
		require.Equal(t, -1.0, step.Reward)
		require.Equal(t, i, step.Number)
		require.LessOrEqual(t, math.Abs(step.Observation.AtVec(4)), MaxVel1)
		require.LessOrEqual(t, math.Abs(step.Observation.AtVec(5)), MaxVel2)
		if i < 5 {
			require.False(t, step.Last())
		} else {
			require.True(t, step.Truncated())
		}
	}

	_, err = a.Step(mat.NewVecDense(1, []float64{1}))
	require.Error(t, err)
}

func TestZeroTorqueAtRestStaysAtRest(t *testing.T) {
	a, err := New(simulator.Options{MaxEpisodeSteps: 10})
	require.NoError(t, err)
	_, err = a.Reset(0)
	require.NoError(t, err)

	a.state = mat.NewVecDense(StateDims, nil)
	step, err := a.Step(mat.NewVecDense(1, []float64{1}))
	require.NoError(t, err)
	for i := 0; i < ObservationDims; i++ {
		want := 0.0
		if i == 0 || i == 2 {
			want = 1.0
		}
		require.InDelta(t, want, step.Observation.AtVec(i), 1e-9)
	}
}

func TestGoalTerminates(t *testing.T) {
	a, err := New(simulator.Options{MaxEpisodeSteps: 10})
	require.NoError(t, err)
	_, err = a.Reset(0)
	require.NoError(t, err)

	// Both links pointing straight up, the tip stays above the goal
	// line after a single step
	a.state = mat.NewVecDense(StateDims, []float64{math.Pi - 1e-3, 0, 0, 0})
	step, err := a.Step(mat.NewVecDense(1, []float64{1}))
	require.NoError(t, err)
	require.True(t, step.Terminated())
	require.Equal(t, 0.0, step.Reward)
}

func TestIllegalAction(t *testing.T) {
	a, err := New(simulator.Options{MaxEpisodeSteps: 10})
	require.NoError(t, err)

	_, err = a.Step(mat.NewVecDense(1, []float64{0}))
	require.Error(t, err, "stepping before reset should fail")

	_, err = a.Reset(1)
	require.NoError(t, err)
	for _, bad := range [][]float64{{3}, {-1}, {0.5}, {0, 1}} {
		_, err = a.Step(mat.NewVecDense(len(bad), bad))
		require.Error(t, err)
	}
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	a, err := New(simulator.Options{MaxEpisodeSteps: 10, Render: true,
		RenderDir: dir})
	require.NoError(t, err)

	_, err = a.Reset(1)
	require.NoError(t, err)
	_, err = a.Step(a.SampleAction())
	require.NoError(t, err)

	for _, name := range []string{"acrobot-e0-f0.png", "acrobot-e0-f1.png"} {
		_, err = os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
	}
}
