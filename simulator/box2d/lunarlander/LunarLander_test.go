package lunarlander

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
	require.IsType(t, &LunarLander{}, sim)
	require.Equal(t, ActionDims, sim.ActionSpace().Width())
}

func TestResetDeterministic(t *testing.T) {
	l, err := New(simulator.Options{MaxEpisodeSteps: 500})
	require.NoError(t, err)

	obs1, err := l.Reset(3)
	require.NoError(t, err)
	terrain := append([][2]float64(nil), l.terrain...)

	obs2, err := l.Reset(3)
	require.NoError(t, err)
	require.True(t, mat.Equal(obs1, obs2))
	require.Equal(t, terrain, l.terrain)

	_, err = l.Reset(4)
	require.NoError(t, err)
	require.NotEqual(t, terrain, l.terrain)

	require.Equal(t, ObservationDims, obs1.Len())
	require.Less(t, math.Abs(obs1.AtVec(0)), 0.1, "lander starts centred")
	require.Greater(t, obs1.AtVec(1), 0.0, "lander starts above the pad")
}

func TestStepsUntilEnd(t *testing.T) {
	const limit = 1000
	l, err := New(simulator.Options{MaxEpisodeSteps: limit})
	require.NoError(t, err)
	_, err = l.Reset(0)
	require.NoError(t, err)

	noop := mat.NewVecDense(ActionDims, nil)
	for i := 1; i <= limit; i++ {
		step, err := l.Step(noop)
		require.NoError(t, err)
		require.Equal(t, i, step.Number)
		require.False(t, math.IsNaN(step.Reward))

		if step.Last() {
			if step.Terminated() {
				require.Contains(t, []float64{CrashReward, RestReward},
					step.Reward)
			}
			break
		}
	}

	require.True(t, l.lastStep.Last())
	_, err = l.Step(noop)
	require.Error(t, err)
}

func TestStepLimitTruncates(t *testing.T) {
	l, err := New(simulator.Options{MaxEpisodeSteps: 5})
	require.NoError(t, err)
	_, err = l.Reset(0)
	require.NoError(t, err)

	// The lander cannot reach the ground in 5 frames
	for i := 0; i < 5; i++ {
		step, err := l.Step(l.SampleAction())
		require.NoError(t, err)
		require.Equal(t, i == 4, step.Last())
		if step.Last() {
			require.True(t, step.Truncated())
		}
	}
}

func TestIllegalAction(t *testing.T) {
	l, err := New(simulator.Options{MaxEpisodeSteps: 10})
	require.NoError(t, err)

	_, err = l.Step(mat.NewVecDense(ActionDims, nil))
	require.Error(t, err, "stepping before reset should fail")

	_, err = l.Reset(0)
	require.NoError(t, err)
	for _, bad := range [][]float64{{0}, {0, 0, 0}} {
		_, err = l.Step(mat.NewVecDense(len(bad), bad))
		require.Error(t, err)
	}

	// Out of bounds coordinates are clipped, not rejected
	_, err = l.Step(mat.NewVecDense(ActionDims, []float64{1.5, -2}))
	require.NoError(t, err)
	require.Equal(t, 1.0, l.mPower)
	require.Equal(t, 1.0, l.sPower)
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	l, err := New(simulator.Options{MaxEpisodeSteps: 10, Render: true,
		RenderDir: dir})
	require.NoError(t, err)

	_, err = l.Reset(1)
	require.NoError(t, err)
	_, err = l.Step(l.SampleAction())
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "lunarlander-e0-f1.png"))
	require.NoError(t, err)
}
