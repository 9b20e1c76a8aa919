package render

import (
	"bytes"
	"image"
	"image/png"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhdewitt/qr-from-tcp/internal/symbol"
)

// diagonal is a grid whose only dark modules lie on the main diagonal.
type diagonal int

func (d diagonal) Size() int { return int(d) }

func (d diagonal) Dark(x, y int) bool {
	return x == y && x >= 0 && x < int(d)
}

func helloSymbol(t *testing.T) *symbol.Symbol {
	t.Helper()
	sym, err := symbol.Encoder{Level: symbol.Q}.Encode("Hello World!")
	require.NoError(t, err)
	return sym
}

func TestParseShape(t *testing.T) {
	for _, s := range []Shape{Square, RoundedSquare, Circle} {
		got, err := ParseShape(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseShape("hexagon")
	require.Error(t, err)
}

func TestText(t *testing.T) {
	out, err := Text(diagonal(2), Options{})
	require.NoError(t, err)
	assert.Equal(t, " ▄  \n  ▀ \n", string(out))

	sym := helloSymbol(t)
	out, err = Text(sym, Options{Shape: RoundedSquare})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(out), "\n"), "\n")
	assert.Len(t, lines, (sym.Size()+2+1)/2)
	for _, line := range lines {
		assert.Equal(t, sym.Size()+2, len([]rune(line)))
	}
	assert.True(t, strings.HasPrefix(lines[0], " ▄▄▄▄▄▄▄ "), "finder pattern top edge: %q", lines[0])

	again, err := Text(helloSymbol(t), Options{})
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestSVG(t *testing.T) {
	sym := helloSymbol(t)
	for _, shape := range []Shape{Square, RoundedSquare, Circle} {
		out, err := SVG(sym, Options{Shape: shape})
		require.NoError(t, err, shape.String())
		s := string(out)
		assert.True(t, strings.HasPrefix(s, "<svg "), shape.String())
		assert.True(t, strings.HasSuffix(s, "</svg>\n"), shape.String())
		dim := (sym.Size() + 2*DefaultQuietZone) * svgUnit
		assert.Contains(t, s, `viewBox="0 0 `)
		assert.Contains(t, s, `width="`+strconv.Itoa(dim)+`"`, "background rect")
	}

	out, err := SVG(diagonal(3), Options{Shape: RoundedSquare, QuietZone: 1, Width: 300})
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, `width="300" height="300" viewBox="0 0 50 50"`)
	assert.Equal(t, 3, strings.Count(s, `rx="3"`))

	_, err = SVG(diagonal(3), Options{Shape: Shape(42)})
	require.ErrorIs(t, err, ErrFormat)
}

func TestPNG(t *testing.T) {
	sym := helloSymbol(t)
	out, err := PNG(sym, Options{Shape: RoundedSquare, Width: 600})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("\x89PNG\r\n\x1a\n")))

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 600, 600), img.Bounds())

	gray := func(x, y int) uint32 {
		r, _, _, _ := img.At(x, y).RGBA()
		return r >> 8
	}
	m := 600.0 / float64(sym.Size()+2*DefaultQuietZone)
	center := func(module int) int {
		return int((float64(module+DefaultQuietZone) + 0.5) * m)
	}

	assert.Greater(t, gray(0, 0), uint32(0xe0), "quiet zone is white")
	assert.Less(t, gray(center(0), center(0)), uint32(0x20), "finder corner is black")
	assert.Greater(t, gray(center(1), center(1)), uint32(0xe0), "finder ring is white")
	assert.Less(t, gray(center(3), center(3)), uint32(0x20), "finder core is black")
}

func TestFormatErrors(t *testing.T) {
	_, err := PNG(helloSymbol(t), Options{Width: 10})
	require.ErrorIs(t, err, ErrFormat)

	_, err = PNG(diagonal(3), Options{Shape: Shape(-1), Width: 100})
	require.ErrorIs(t, err, ErrFormat)

	for _, f := range []func(Grid, Options) ([]byte, error){Text, SVG, PNG} {
		out, err := f(diagonal(0), Options{Width: 600})
		require.ErrorIs(t, err, ErrFormat)
		assert.Nil(t, out)
	}
}
