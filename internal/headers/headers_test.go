package headers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadersParse(t *testing.T) {
	// Test: Valid single header
	headers := NewHeaders()
	data := []byte("Host: localhost:3000\r\n\r\n")
	n, done, err := headers.Parse(data)
	require.NoError(t, err)
	require.NotNil(t, headers)
	assert.Equal(t, "localhost:3000", headers["host"])
	assert.Equal(t, 22, n)
	assert.False(t, done)
	n, done, err = headers.Parse(data[n:])
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, done)

	// Test: Invalid leading whitespace (obsolete line folding)
	headers = NewHeaders()
	data = []byte(" Host: localhost:3000 \r\n")
	_, _, err = headers.Parse(data)
	require.Error(t, err)

	// Test: Invalid spacing header
	headers = NewHeaders()
	data = []byte("           Host : localhost:3000             \r\n\r\n")
	n, done, err = headers.Parse(data)
	require.Error(t, err)
	assert.Equal(t, 0, n)
	assert.False(t, done)

	// Test: Valid 3 headers
	headers = NewHeaders()
	data = []byte("Host: example.com\r\nUser-Agent: test-agent/1.0\r\nContent-Length: 12\r\n\r\n")
	for _, want := range []struct {
		key, value string
		n          int
	}{
		{"host", "example.com", 19},
		{"user-agent", "test-agent/1.0", 28},
		{"content-length", "12", 20},
	} {
		n, done, err = headers.Parse(data)
		require.NoError(t, err)
		assert.Equal(t, want.value, headers[want.key])
		assert.Equal(t, want.n, n)
		assert.False(t, done)
		data = data[n:]
	}
	n, done, err = headers.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, done)

	// Valid done
	headers = NewHeaders()
	data = []byte("\r\n extra text ignored")
	n, done, err = headers.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, done)

	// Partial line (no CRLF)
	headers = NewHeaders()
	data = []byte("Host: loca")
	n, done, err = headers.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.False(t, done)

	// Invalid no colon
	headers = NewHeaders()
	data = []byte("Host localhost:3000\r\n")
	n, done, err = headers.Parse(data)
	require.Error(t, err)
	assert.Equal(t, 0, n)
	assert.False(t, done)

	// Invalid character in header key
	headers = NewHeaders()
	data = []byte("H©st: localhost:3000\r\n\r\n")
	n, _, err = headers.Parse(data)
	require.Error(t, err)
	assert.Equal(t, 0, n)

	// Control character in header value
	headers = NewHeaders()
	data = []byte("X-Thing: a\x00b\r\n")
	_, _, err = headers.Parse(data)
	require.Error(t, err)

	// Multiple values for one header key
	headers = NewHeaders()
	data = []byte("Set-Person: lane-loves-go\r\nSet-Person: prime-loves-zig\r\nSet-Person: tj-loves-ocaml\r\n\r\n")
	for range 4 {
		n, done, err = headers.Parse(data)
		require.NoError(t, err)
		data = data[n:]
	}
	assert.Equal(t, "lane-loves-go, prime-loves-zig, tj-loves-ocaml", headers["set-person"])
	assert.True(t, done)
}

func TestHeadersAccessors(t *testing.T) {
	h := NewHeaders()
	h.Set("Connection", "keep-alive")
	h.Set("connection", "Upgrade")
	h.SetNew("Content-Type", "text/plain")

	assert.True(t, h.Has("CONNECTION"))
	assert.Equal(t, []string{"keep-alive", "Upgrade"}, h.Values("Connection"))
	assert.True(t, h.Contains("connection", "upgrade"))
	assert.False(t, h.Contains("connection", "close"))
	assert.Nil(t, h.Values("x-missing"))
	assert.Equal(t, []string{"connection", "content-type"}, h.Keys())

	h.SetNew("content-type", "image/png")
	assert.Equal(t, "image/png", h.Get("Content-Type"))

	h.Del("Content-Type")
	assert.False(t, h.Has("content-type"))
	assert.Equal(t, "", h.Get("content-type"))
}

func TestIsToken(t *testing.T) {
	for _, s := range []string{"GET", "get", "M-SEARCH", "X-Request-Id", "!#$%&'*+-.^_`|~"} {
		assert.True(t, IsToken(s), s)
	}
	for _, s := range []string{"", "G(T", "a b", "H©st", "x:y", "tab\t"} {
		assert.False(t, IsToken(s), s)
	}
}
