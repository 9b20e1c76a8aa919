// Package render draws QR symbols as text, SVG, or PNG.
package render

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFormat reports a symbol that could not be drawn in the requested
// representation. No partial output accompanies it.
var ErrFormat = errors.New("cannot format QR symbol")

// Grid is a square grid of dark and light modules.
type Grid interface {
	Size() int
	Dark(x, y int) bool
}

// Shape is how a single dark module is drawn.
type Shape int

const (
	Square Shape = iota
	RoundedSquare
	Circle
)

var shapeNames = [...]string{Square: "square", RoundedSquare: "rounded-square", Circle: "circle"}

func (s Shape) String() string {
	if s < Square || s > Circle {
		return fmt.Sprintf("Shape(%d)", int(s))
	}
	return shapeNames[s]
}

// ParseShape accepts the names returned by Shape.String.
func ParseShape(s string) (Shape, error) {
	for i, name := range shapeNames {
		if strings.EqualFold(s, name) {
			return Shape(i), nil
		}
	}
	return 0, fmt.Errorf("unknown module shape %q", s)
}

// DefaultQuietZone is the light border, in modules, around SVG and PNG
// output.
const DefaultQuietZone = 4

type Options struct {
	Shape Shape
	// Width is the output width in pixels. PNG requires it; SVG uses it
	// for the width and height attributes when set.
	Width int
	// QuietZone is the light border in modules. Zero selects the
	// format's default.
	QuietZone int
}

func (o Options) quietZone(def int) int {
	if o.QuietZone > 0 {
		return o.QuietZone
	}
	return def
}

func checkGrid(g Grid) error {
	if g == nil || g.Size() <= 0 {
		return fmt.Errorf("%w: empty symbol", ErrFormat)
	}
	return nil
}
