package floatutils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r1"
)

func TestClip(t *testing.T) {
	require.Equal(t, 1.0, Clip(3.0, -1.0, 1.0))
	require.Equal(t, -1.0, Clip(-3.0, -1.0, 1.0))
	require.Equal(t, 0.25, ClipInterval(0.25, r1.Interval{Min: 0, Max: 1}))
}

func TestWrap(t *testing.T) {
	bounds := r1.Interval{Min: -math.Pi, Max: math.Pi}

	require.InDelta(t, -math.Pi+0.5, WrapInterval(math.Pi+0.5, bounds), 1e-12)
	require.InDelta(t, math.Pi-0.5, WrapInterval(-math.Pi-0.5, bounds), 1e-12)
	require.InDelta(t, 0.3, WrapInterval(0.3+4*math.Pi, bounds), 1e-9)
	require.Equal(t, 0.1, Wrap(0.1, -1, 1))
}

func TestSignAndFinite(t *testing.T) {
	require.Equal(t, -1.0, Sign(-2))
	require.Equal(t, 1.0, Sign(0.01))
	require.Equal(t, 0.0, Sign(0))

	require.True(t, Finite(1.5))
	require.False(t, Finite(math.NaN()))
	require.False(t, Finite(math.Inf(-1)))
}
