package progressbar

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManualProgressBar(t *testing.T) {
	var out bytes.Buffer
	p := NewManualProgressBar(&out, 10, 4)

	require.Equal(t, 0.0, p.Progress())
	require.Equal(t, 0, strings.Count(p.String(), "█"))

	p.Increment()
	p.Increment()
	require.Equal(t, 0.5, p.Progress())
	require.Equal(t, 5, strings.Count(p.String(), "█"))
	require.Contains(t, p.String(), "[50.00%")

	for i := 0; i < 10; i++ {
		p.Increment()
	}
	require.Equal(t, 1.0, p.Progress(), "progress saturates")

	p.Display()
	p.Close()
	require.Contains(t, out.String(), "[100.00%")
	require.True(t, strings.HasSuffix(out.String(), "\n"))
}
