package payload

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	cases := []struct {
		declared int64
		accept   bool
	}{
		{0, true},
		{12, true},
		{Ceiling, true},
		{Ceiling + 1, false},
		{1 << 40, false},
		{-1, true},
	}
	for _, c := range cases {
		d := Default.Check(c.declared)
		assert.Equal(t, c.accept, d.Accept, "declared %d", c.declared)
		if !c.accept {
			assert.NotEmpty(t, d.Reason)
		}
	}
}

// countingReader records how many bytes were pulled from it.
type countingReader struct {
	r    io.Reader
	read int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.read += n
	return n, err
}

func TestRead(t *testing.T) {
	body, err := Default.Read(strings.NewReader("Hello World!"))
	require.NoError(t, err)
	assert.Equal(t, "Hello World!", string(body))

	exact := bytes.Repeat([]byte("a"), Ceiling)
	body, err = Default.Read(bytes.NewReader(exact))
	require.NoError(t, err)
	assert.Len(t, body, Ceiling)

	// A body that never ends is cut off just past the limit.
	src := &countingReader{r: infiniteReader{}}
	_, err = Default.Read(src)
	require.ErrorIs(t, err, ErrTooLarge)
	assert.Equal(t, Ceiling+1, src.read)

	small := Guard{Limit: 4}
	_, err = small.Read(strings.NewReader("12345"))
	require.ErrorIs(t, err, ErrTooLarge)

	readErr := errors.New("connection reset")
	_, err = Default.Read(io.MultiReader(strings.NewReader("abc"), errReader{readErr}))
	require.ErrorIs(t, err, readErr)
}

type infiniteReader struct{}

func (infiniteReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 'x'
	}
	return len(p), nil
}

type errReader struct{ err error }

func (e errReader) Read([]byte) (int, error) { return 0, e.err }
