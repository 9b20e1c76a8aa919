// Package payload bounds request bodies before and while they are buffered.
package payload

import (
	"errors"
	"fmt"
	"io"
)

// Ceiling is the largest body, in bytes, the service accepts.
const Ceiling = 64 << 10

var ErrTooLarge = errors.New("body too big")

// Decision is the outcome of checking a declared body size.
type Decision struct {
	Accept bool
	Reason string
}

// Guard enforces a fixed body size limit.
type Guard struct {
	Limit int64
}

// Default is the guard used by the service.
var Default = Guard{Limit: Ceiling}

// Check decides on a declared body size. A negative size means the
// transport did not advertise one; such bodies are accepted provisionally
// and bounded by Read instead.
func (g Guard) Check(declared int64) Decision {
	if declared > g.Limit {
		return Decision{
			Reason: fmt.Sprintf("declared body of %d bytes exceeds limit of %d", declared, g.Limit),
		}
	}
	return Decision{Accept: true}
}

// Read buffers body, reading at most one byte past the limit. It returns
// ErrTooLarge as soon as the limit is crossed, leaving the rest unread.
func (g Guard) Read(body io.Reader) ([]byte, error) {
	buf, err := io.ReadAll(io.LimitReader(body, g.Limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(buf)) > g.Limit {
		return nil, fmt.Errorf("%w: streamed body exceeds limit of %d", ErrTooLarge, g.Limit)
	}
	return buf, nil
}
