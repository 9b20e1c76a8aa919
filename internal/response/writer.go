package response

import (
	"errors"
	"io"

	"github.com/nhdewitt/qr-from-tcp/internal/headers"
)

type writerState int

const (
	StateWritingStatusLine writerState = iota
	StateWritingHeaders
	StateWritingBody
	StateDone
)

var ErrOutOfOrder = errors.New("writer state out-of-order")

// Writer emits exactly one response: status line, then headers, then
// body. Calls made out of that order fail without writing anything.
type Writer struct {
	writer  io.Writer
	state   writerState
	status  StatusCode
	closing bool
	written int
	cause   error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{
		writer: w,
		state:  StateWritingStatusLine,
	}
}

// WriteContinue sends an interim 100 Continue. It is only valid before the
// final status line.
func (w *Writer) WriteContinue() error {
	if w.state != StateWritingStatusLine {
		return ErrOutOfOrder
	}
	_, err := io.WriteString(w.writer, "HTTP/1.1 100 Continue\r\n\r\n")
	return err
}

func (w *Writer) WriteStatusLine(statusCode StatusCode) error {
	if w.state != StateWritingStatusLine {
		return ErrOutOfOrder
	}
	if statusCode < 200 {
		return errors.New("final status required")
	}

	w.state = StateWritingHeaders
	w.status = statusCode
	return WriteStatusLine(w.writer, statusCode)
}

func (w *Writer) WriteHeaders(h headers.Headers) error {
	if w.state != StateWritingHeaders {
		return ErrOutOfOrder
	}

	w.state = StateWritingBody
	w.closing = h.Contains("Connection", "close")
	return WriteHeaders(w.writer, h)
}

func (w *Writer) WriteBody(p []byte) (int, error) {
	if w.state != StateWritingBody {
		return 0, ErrOutOfOrder
	}

	w.state = StateDone
	n, err := w.writer.Write(p)
	w.written += n
	return n, err
}

// Started reports whether the status line has been written.
func (w *Writer) Started() bool {
	return w.state != StateWritingStatusLine
}

// Status returns the status written, or 0 if none was.
func (w *Writer) Status() StatusCode {
	return w.status
}

// Closing reports whether the written headers announced Connection: close.
func (w *Writer) Closing() bool {
	return w.closing
}

// BodyBytes returns the number of body bytes written.
func (w *Writer) BodyBytes() int {
	return w.written
}

// SetCause records why the handler answered with an error status, for the
// server to log once the response is out.
func (w *Writer) SetCause(err error) {
	w.cause = err
}

// Cause returns the error recorded by SetCause, if any.
func (w *Writer) Cause() error {
	return w.cause
}
