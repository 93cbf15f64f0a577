package boardgame

import (
	"testing"

	"github.com/samuelfneumann/envies/environment"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func run(t *testing.T, b *SimpleBoardGame, field int) float64 {
	t.Helper()
	reward, err := b.Run(environment.DiscreteAction(field))
	require.NoError(t, err)
	require.False(t, b.HasWon() && b.LostEpisode())
	return reward
}

func TestInterfaces(t *testing.T) {
	var _ environment.FiniteActions = &SimpleBoardGame{}
}

func TestScenario(t *testing.T) {
	b, err := New(Config{BoardSize: 5})
	require.NoError(t, err)
	require.False(t, b.IsTerminal())

	require.Equal(t, 1.0, run(t, b, 0))
	require.Equal(t, -1.0, run(t, b, 0))
	require.True(t, b.IsTerminal())
	require.True(t, b.LostEpisode())
	require.False(t, b.HasWon())
	require.Equal(t, environment.Lost, environment.OutcomeOf(b))

	obs, err := b.ResetWithSeed(1)
	require.NoError(t, err)
	require.False(t, b.IsTerminal())
	require.Equal(t, []int{0, 0, 0, 0, 0}, obs)

	for _, field := range []int{3, 0, 4, 1} {
		require.Equal(t, 1.0, run(t, b, field))
		require.False(t, b.IsTerminal())
	}
	require.Equal(t, 1.0, run(t, b, 2))
	require.True(t, b.HasWon())
	require.True(t, b.IsTerminal())
	require.Equal(t, environment.Won, environment.OutcomeOf(b))
}

func TestRunAfterTerminal(t *testing.T) {
	b, err := New(Config{BoardSize: 2})
	require.NoError(t, err)

	run(t, b, 1)
	run(t, b, 1)
	_, err = b.Run(environment.DiscreteAction(0))
	require.ErrorIs(t, err, environment.ErrEpisodeOver)
	require.Equal(t, []int{0, 2}, b.Observation(), "state is unchanged")
}

func TestIllegalAction(t *testing.T) {
	b, err := New(DefaultConfig())
	require.NoError(t, err)

	for _, field := range []int{-1, DefaultBoardSize} {
		_, err = b.Run(environment.DiscreteAction(field))
		require.ErrorIs(t, err, environment.ErrIllegalAction)
	}
	require.Equal(t, make([]int, DefaultBoardSize), b.Observation())
}

func TestResetIgnoresSeed(t *testing.T) {
	b, err := New(Config{BoardSize: 3})
	require.NoError(t, err)

	run(t, b, 2)
	obs1, err := b.ResetWithSeed(1)
	require.NoError(t, err)
	run(t, b, 0)
	obs2, err := b.ResetWithSeed(2)
	require.NoError(t, err)

	require.Equal(t, obs1, obs2)
}

func TestObservationIsCopy(t *testing.T) {
	b, err := New(Config{BoardSize: 3})
	require.NoError(t, err)

	obs := b.Observation().([]int)
	obs[0] = 5
	require.False(t, b.LostEpisode())
}

func TestObservationVector(t *testing.T) {
	b, err := New(Config{BoardSize: 3})
	require.NoError(t, err)
	run(t, b, 1)

	v, err := b.ObservationVector(b.Observation())
	require.NoError(t, err)
	require.Equal(t, tensor.Int, v.Dtype())
	require.Equal(t, []int{0, 1, 0}, v.Data())

	_, err = b.ObservationVector([]float64{0})
	require.ErrorIs(t, err, environment.ErrObservation)
}

func TestValidActionsAndSampling(t *testing.T) {
	b, err := New(Config{BoardSize: 4, Seed: 3})
	require.NoError(t, err)

	run(t, b, 0)
	require.Equal(t, []int{0, 1, 2, 3}, b.ValidActions(),
		"visited fields stay valid")

	seen := make(map[int]bool)
	for i := 0; i < 200; i++ {
		index, err := environment.ActionIndex(b.SampleAction(), 4)
		require.NoError(t, err)
		seen[index] = true
	}
	require.Len(t, seen, 4)

	steps, ok := b.MaxSteps()
	require.True(t, ok)
	require.Equal(t, 4, steps)
	require.Equal(t, environment.Discrete, b.ActionSpec().Cardinality)
}

func TestBuildRenderable(t *testing.T) {
	b, err := New(Config{BoardSize: 3, Seed: 9})
	require.NoError(t, err)
	run(t, b, 0)

	env, err := b.BuildRenderable()
	require.NoError(t, err)
	r := env.(*SimpleBoardGame)

	want := b.Config()
	want.Render = true
	require.Equal(t, want, r.Config())
	require.False(t, b.Config().Render)

	require.Equal(t, []int{0, 0, 0}, r.Observation())
	run(t, r, 1)
	require.Equal(t, []int{1, 0, 0}, b.Observation())
}

func TestFromKwargs(t *testing.T) {
	b, err := FromKwargs(environment.Kwargs{"board_size": 6})
	require.NoError(t, err)
	require.Equal(t, 6, b.Config().BoardSize)

	b, err = FromKwargs(nil)
	require.NoError(t, err)
	require.Equal(t, DefaultBoardSize, b.Config().BoardSize)

	_, err = FromKwargs(environment.Kwargs{"board": 6})
	require.ErrorIs(t, err, environment.ErrConfig)

	_, err = FromKwargs(environment.Kwargs{"board_size": 0})
	require.ErrorIs(t, err, environment.ErrConfig)
}
