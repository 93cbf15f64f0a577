package experiment

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/envies/environment"
	"github.com/samuelfneumann/envies/environment/boardgame"
	"github.com/samuelfneumann/envies/environment/envconfig"
	"github.com/samuelfneumann/envies/experiment/tracker"
	"github.com/samuelfneumann/envies/experiment/trackers"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// sweep visits the fields of a board in order, winning every episode
func sweep(env environment.Environment) mat.Vector {
	state := env.Observation().([]int)
	for i, visits := range state {
		if visits == 0 {
			return environment.DiscreteAction(i)
		}
	}
	return environment.DiscreteAction(0)
}

func TestRolloutBoardGame(t *testing.T) {
	env, err := boardgame.New(boardgame.Config{BoardSize: 4})
	require.NoError(t, err)

	ret := trackers.NewReturn("")
	length := trackers.NewEpisodeLength("")
	outcome := trackers.NewOutcome(env, "")
	r := NewRollout(env, sweep, 3, 0, ret, length)
	r.Register(outcome)

	require.NoError(t, r.Run())
	require.Equal(t, []float64{4, 4, 4}, ret.Data())
	require.Equal(t, []float64{4, 4, 4}, length.Data())
	require.Equal(t, []float64{1, 1, 1}, outcome.Data())
	require.Equal(t, 12, r.TotalSteps())

	ended, err := r.RunEpisode()
	require.NoError(t, err)
	require.True(t, ended, "no episodes remain")
	require.Len(t, ret.Data(), 3)
}

func TestRolloutRandomPolicy(t *testing.T) {
	env, err := boardgame.New(boardgame.Config{BoardSize: 5, Seed: 1})
	require.NoError(t, err)

	ret := trackers.NewReturn("")
	outcome := trackers.NewOutcome(env, "")
	r := NewRollout(env, RandomPolicy, 20, 0, ret, outcome)
	require.NoError(t, r.Run())

	won, lost := outcome.Counts()
	require.Equal(t, 20, won+lost)

	// Lost episodes end with the only negative reward
	for i, g := range ret.Data() {
		if outcome.Data()[i] == 0 {
			require.Less(t, g, 5.0)
		} else {
			require.Equal(t, 5.0, g)
		}
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	env, err := boardgame.New(boardgame.Config{BoardSize: 2})
	require.NoError(t, err)

	returns := filepath.Join(dir, "returns.bin")
	lengths := filepath.Join(dir, "lengths.bin")
	r := NewRollout(env, sweep, 2, 0, trackers.NewReturn(returns),
		trackers.NewEpisodeLength(lengths))
	require.NoError(t, r.Run())
	require.NoError(t, r.Save())

	data, err := tracker.LoadData(returns)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 2}, data)

	data, err = tracker.LoadData(lengths)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 2}, data)
}

func TestCreateExp(t *testing.T) {
	c := Config{
		Type:     RolloutExp,
		Episodes: 3,
		Seed:     10,
		EnvConf: envconfig.NewConfig(envconfig.CartPole,
			environment.Kwargs{"max_steps": 20}),
	}

	ret := trackers.NewReturn("")
	r, err := c.CreateExp(ret)
	require.NoError(t, err)
	defer r.Close()
	require.NoError(t, r.Run())

	require.Len(t, ret.Data(), 3)
	for _, g := range ret.Data() {
		require.LessOrEqual(t, g, 19.0+100.0)
	}

	c.Type = "Offline"
	_, err = c.CreateExp()
	require.Error(t, err)

	c.Type = RolloutExp
	c.EnvConf = envconfig.NewConfig("Pong", nil)
	_, err = c.CreateExp()
	require.ErrorIs(t, err, environment.ErrConfig)
}

func TestRunWorkers(t *testing.T) {
	c := Config{
		Type:     RolloutExp,
		Episodes: 7,
		Seed:     100,
		EnvConf: envconfig.NewConfig(envconfig.CartPole,
			environment.Kwargs{"max_steps": 30}),
	}

	newTrackers := func(int, environment.Environment) []tracker.Tracker {
		return []tracker.Tracker{trackers.NewReturn("")}
	}
	rollouts, err := RunWorkers(c, 3, newTrackers)
	require.NoError(t, err)
	require.Len(t, rollouts, 3)

	// Episodes are split into contiguous blocks of seeds
	var returns []float64
	for i, want := range []struct {
		episodes int
		seed     uint64
	}{{3, 100}, {2, 103}, {2, 105}} {
		require.Equal(t, want.episodes, rollouts[i].episodes)
		require.Equal(t, want.seed, rollouts[i].seed)
		require.Len(t, rollouts[i].trackers[0].Data(), want.episodes)
		returns = append(returns, rollouts[i].trackers[0].Data()...)
	}
	require.False(t, math.IsNaN(stat.Mean(returns, nil)))

	_, err = RunWorkers(c, 0, newTrackers)
	require.Error(t, err)
}
