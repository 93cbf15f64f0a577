package trackers

import (
	"testing"

	ts "github.com/samuelfneumann/envies/timestep"
	"github.com/stretchr/testify/require"
)

func episode(rewards ...float64) []ts.TimeStep {
	steps := []ts.TimeStep{ts.New(ts.First, 0, nil, 0)}
	for i, r := range rewards {
		stepType := ts.Mid
		if i == len(rewards)-1 {
			stepType = ts.Last
		}
		steps = append(steps, ts.New(stepType, r, nil, i+1))
	}
	return steps
}

func TestReturn(t *testing.T) {
	r := NewReturn("")
	for _, step := range append(episode(1, 2, 3), episode(-1, 0.5)...) {
		r.Track(step)
	}
	require.Equal(t, []float64{6, -0.5}, r.Data())

	// An unfinished episode is not recorded
	for _, step := range episode(4, 4)[:2] {
		r.Track(step)
	}
	require.Len(t, r.Data(), 2)
	require.NoError(t, r.Save())
}

func TestReturnPanicsOnSkippedStep(t *testing.T) {
	r := NewReturn("")
	steps := episode(1, 2, 3)
	r.Track(steps[0])
	require.Panics(t, func() { r.Track(steps[2]) })
}

func TestEpisodeLength(t *testing.T) {
	e := NewEpisodeLength("")
	for _, step := range append(episode(1, 2, 3), episode(0)...) {
		e.Track(step)
	}
	require.Equal(t, []float64{3, 1}, e.Data())
}
