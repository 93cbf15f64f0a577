package simulator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fogleman/gg"
	"github.com/samuelfneumann/envies/timestep"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

func TestRegistry(t *testing.T) {
	Register("Test-v0", func(o Options) (Simulator, error) {
		return nil, nil
	})

	require.Contains(t, IDs(), "Test-v0")
	require.Panics(t, func() {
		Register("Test-v0", func(Options) (Simulator, error) { return nil, nil })
	})

	_, err := Make("NoSuchSim-v0", Options{MaxEpisodeSteps: 10})
	require.ErrorIs(t, err, ErrUnknownSimulator)

	_, err = Make("Test-v0", Options{})
	require.Error(t, err, "non-positive step limit should be rejected")
}

func TestSpaces(t *testing.T) {
	d := NewDiscrete(3)
	require.Equal(t, 1, d.Width())
	require.True(t, d.Contains(mat.NewVecDense(1, []float64{2})))
	require.False(t, d.Contains(mat.NewVecDense(1, []float64{3})))
	require.False(t, d.Contains(mat.NewVecDense(1, []float64{1.5})))

	b := NewBox([]float64{-1, -1}, []float64{1, 1})
	require.Equal(t, 2, b.Width())
	require.True(t, b.Contains(mat.NewVecDense(2, []float64{0.5, -1})))
	require.False(t, b.Contains(mat.NewVecDense(2, []float64{1.5, 0})))
	require.False(t, b.Contains(mat.NewVecDense(1, []float64{0})))
}

func TestSampler(t *testing.T) {
	t.Run("discrete samples are legal", func(t *testing.T) {
		d := NewDiscrete(4)
		s := NewSampler(d, 1)
		seen := map[float64]bool{}
		for i := 0; i < 200; i++ {
			a := s.Sample()
			require.True(t, d.Contains(a))
			seen[a.AtVec(0)] = true
		}
		require.Len(t, seen, 4)
	})

	t.Run("box samples are legal and seeded", func(t *testing.T) {
		b := NewBox([]float64{-1, 0}, []float64{1, 2})
		s1, s2 := NewSampler(b, 7), NewSampler(b, 7)
		for i := 0; i < 50; i++ {
			a1, a2 := s1.Sample(), s2.Sample()
			require.True(t, b.Contains(a1))
			require.True(t, mat.Equal(a1, a2))
		}
	})
}

func TestUniformStarter(t *testing.T) {
	s := NewUniformStarter([]r1.Interval{{Min: -0.05, Max: 0.05},
		{Min: 2, Max: 2}})

	start1 := s.Start(rand.NewSource(3))
	start2 := s.Start(rand.NewSource(3))
	require.True(t, mat.Equal(start1, start2))
	require.Equal(t, 2.0, start1.AtVec(1))
	require.InDelta(t, 0, start1.AtVec(0), 0.05)
}

func TestEnders(t *testing.T) {
	angle := NewIntervalLimit([]r1.Interval{{Min: -1, Max: 1}}, []int{0},
		timestep.TerminalStateReached)
	enders := Enders{angle, NewStepLimit(5)}

	t.Run("not ended", func(t *testing.T) {
		step := timestep.New(timestep.Mid, 0, mat.NewVecDense(1, []float64{0}), 1)
		require.False(t, enders.End(&step))
		require.True(t, step.Mid())
	})

	t.Run("step limit truncates", func(t *testing.T) {
		step := timestep.New(timestep.Mid, 0, mat.NewVecDense(1, []float64{0}), 5)
		require.True(t, enders.End(&step))
		require.True(t, step.Truncated())
	})

	t.Run("terminal wins over step limit", func(t *testing.T) {
		step := timestep.New(timestep.Mid, 0, mat.NewVecDense(1, []float64{2}), 5)
		require.True(t, enders.End(&step))
		require.True(t, step.Terminated())
	})

	t.Run("function ender", func(t *testing.T) {
		f := NewFunctionEnder(func(v *mat.VecDense) bool {
			return v.AtVec(0) > 0
		}, timestep.TerminalStateReached)
		step := timestep.New(timestep.Mid, 0, mat.NewVecDense(1, []float64{1}), 1)
		require.True(t, f.End(&step))
		require.True(t, step.Last())
	})
}

func TestRecorder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	r, err := NewRecorder(dir, "test")
	require.NoError(t, err)

	dc := gg.NewContext(4, 4)
	path, err := r.Save(dc)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "test-e0-f0.png"), path)

	r.NextEpisode()
	path, err = r.Save(dc)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "test-e1-f0.png"), path)

	_, err = os.Stat(path)
	require.NoError(t, err)
}
