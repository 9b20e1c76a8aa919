package symbol

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"L": L, "m": M, "Q": Q, "h": H} {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, strings.ToUpper(in), got.String())
	}

	_, err := ParseLevel("X")
	require.Error(t, err)
	assert.Equal(t, "Level(9)", Level(9).String())
}

func TestEncode(t *testing.T) {
	enc := Encoder{Level: Q}

	sym, err := enc.Encode("Hello World!")
	require.NoError(t, err)
	size := sym.Size()
	require.GreaterOrEqual(t, size, 21)
	assert.Zero(t, (size-17)%4, "QR sizes are 17+4v modules")

	// Finder pattern corners are dark; outside the grid is light.
	assert.True(t, sym.Dark(0, 0))
	assert.True(t, sym.Dark(size-1, 0))
	assert.True(t, sym.Dark(0, size-1))
	assert.False(t, sym.Dark(-1, 0))
	assert.False(t, sym.Dark(size, size))

	again, err := enc.Encode("Hello World!")
	require.NoError(t, err)
	require.Equal(t, size, again.Size())
	for y := range size {
		for x := range size {
			require.Equal(t, sym.Dark(x, y), again.Dark(x, y))
		}
	}

	_, err = enc.Encode("héllo wörld ✓")
	require.NoError(t, err)
}

func TestEncodeCapacity(t *testing.T) {
	long := strings.Repeat("a", 3000)
	for _, l := range []Level{L, M, Q, H} {
		_, err := Encoder{Level: l}.Encode(long)
		require.ErrorIs(t, err, ErrEncoding, l.String())
	}

	// Higher levels hold less.
	text := strings.Repeat("a", 2000)
	_, err := Encoder{Level: L}.Encode(text)
	require.NoError(t, err)
	_, err = Encoder{Level: H}.Encode(text)
	require.ErrorIs(t, err, ErrEncoding)
}
