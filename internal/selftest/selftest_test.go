package selftest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-lightstrip/internal/pixel"
)

func lit(buf []pixel.RGB) []int {
	var out []int
	for i, c := range buf {
		if c != pixel.Black {
			out = append(out, i)
		}
	}
	return out
}

func TestIndexSweep(t *testing.T) {
	r := NewRunner(IndexSweep)
	buf := make([]pixel.RGB, 4)
	for i := 0; i < 4; i++ {
		require.True(t, r.Step(buf))
		assert.Equal(t, []int{i}, lit(buf))
		assert.Equal(t, pixel.White, buf[i])
	}
	assert.False(t, r.Step(buf))
	assert.Empty(t, lit(buf))
}

func TestRGBChannels(t *testing.T) {
	r := NewRunner(RGBChannels)
	r.Hold = 2
	buf := make([]pixel.RGB, 3)
	want := []pixel.RGB{pixel.Red, pixel.Red, pixel.FromHex(0x00FF00), pixel.FromHex(0x00FF00), pixel.Blue, pixel.Blue}
	for i, c := range want {
		require.True(t, r.Step(buf), "step %d", i)
		assert.Equal(t, c, buf[2])
	}
	assert.False(t, r.Step(buf))
}

func TestHalves(t *testing.T) {
	r := NewRunner(Halves)
	r.Hold = 1
	buf := make([]pixel.RGB, 5)
	require.True(t, r.Step(buf))
	assert.Equal(t, []int{0, 1}, lit(buf))
	require.True(t, r.Step(buf))
	assert.Equal(t, []int{2, 3, 4}, lit(buf))
	assert.False(t, r.Step(buf))
}

func TestParse(t *testing.T) {
	for _, k := range Kinds() {
		got, err := Parse(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := Parse("plane_z")
	assert.ErrorIs(t, err, ErrUnknownKind)
}
