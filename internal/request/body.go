package request

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http/httputil"
)

// bodyReader frames a message body on top of the connection reader. It
// never reads past the end of its own message.
type bodyReader struct {
	src       io.Reader
	br        *bufio.Reader
	remaining int64 // -1 when chunked
	err       error
}

func newFixedBody(br *bufio.Reader, n int64) *bodyReader {
	b := &bodyReader{src: br, br: br, remaining: n}
	if n == 0 {
		b.err = io.EOF
	}
	return b
}

func newChunkedBody(br *bufio.Reader) *bodyReader {
	return &bodyReader{src: httputil.NewChunkedReader(br), br: br, remaining: -1}
}

func (b *bodyReader) Read(p []byte) (int, error) {
	if b.err != nil {
		return 0, b.err
	}

	if b.remaining < 0 {
		n, err := b.src.Read(p)
		if errors.Is(err, io.EOF) {
			if terr := discardTrailer(b.br); terr != nil {
				err = terr
			}
		}
		b.err = err
		return n, err
	}

	if int64(len(p)) > b.remaining {
		p = p[:b.remaining]
	}
	n, err := b.src.Read(p)
	b.remaining -= int64(n)
	switch {
	case b.remaining == 0:
		err = nil
		b.err = io.EOF
	case errors.Is(err, io.EOF):
		err = io.ErrUnexpectedEOF
	}
	if err != nil {
		b.err = err
	}
	return n, err
}

func (b *bodyReader) done() bool {
	return errors.Is(b.err, io.EOF)
}

// discardTrailer consumes the trailer section that follows the last chunk.
func discardTrailer(br *bufio.Reader) error {
	read := 0
	for {
		line, err := br.ReadSlice('\n')
		read += len(line)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return io.ErrUnexpectedEOF
			}
			return err
		}
		if read > MaxHeadSize {
			return fmt.Errorf("%w: trailer exceeds %d bytes", ErrMalformed, MaxHeadSize)
		}
		if string(line) == crlf {
			return nil
		}
	}
}
