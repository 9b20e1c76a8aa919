// Package symbol turns text into an abstract QR symbol: a square grid of
// dark and light modules, independent of how it is later drawn.
package symbol

import (
	"errors"
	"fmt"
	"strings"

	"rsc.io/qr"
)

// ErrEncoding reports text that cannot be represented as a QR symbol at
// the configured error-correction level.
var ErrEncoding = errors.New("cannot encode text as QR symbol")

// Level is the error-correction level. Higher levels survive more damage
// and hold less data.
type Level int

const (
	L Level = iota // ~7% recovery
	M              // ~15% recovery
	Q              // ~25% recovery
	H              // ~30% recovery
)

var levelNames = [...]string{L: "L", M: "M", Q: "Q", H: "H"}

func (l Level) String() string {
	if l < L || l > H {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel accepts L, M, Q or H in any case.
func ParseLevel(s string) (Level, error) {
	for l, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(l), nil
		}
	}
	return 0, fmt.Errorf("unknown error-correction level %q (want L, M, Q or H)", s)
}

func (l Level) qr() qr.Level {
	switch l {
	case L:
		return qr.L
	case M:
		return qr.M
	case H:
		return qr.H
	default:
		return qr.Q
	}
}

// Symbol is an encoded QR code.
type Symbol struct {
	code *qr.Code
}

// Size returns the number of modules along one side.
func (s *Symbol) Size() int {
	return s.code.Size
}

// Dark reports whether the module at column x, row y is dark. Coordinates
// outside the grid are light.
func (s *Symbol) Dark(x, y int) bool {
	return s.code.Black(x, y)
}

// Encoder encodes text at a fixed error-correction level. The zero value
// encodes at level L.
type Encoder struct {
	Level Level
}

// Encode picks the smallest symbol version that holds text. It fails with
// ErrEncoding rather than truncating text that does not fit.
func (e Encoder) Encode(text string) (*Symbol, error) {
	code, err := qr.Encode(text, e.Level.qr())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return &Symbol{code: code}, nil
}
