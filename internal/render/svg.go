package render

import (
	"bytes"
	"fmt"

	svg "github.com/ajstarks/svgo"
)

// svgUnit is the side of one module in viewBox units.
const svgUnit = 10

// SVG draws g as a standalone SVG document whose first element is the
// root <svg>.
func SVG(g Grid, opts Options) ([]byte, error) {
	if err := checkGrid(g); err != nil {
		return nil, err
	}

	q := opts.quietZone(DefaultQuietZone)
	size := g.Size()
	dim := (size + 2*q) * svgUnit

	var buf bytes.Buffer
	buf.WriteString(`<svg xmlns="http://www.w3.org/2000/svg"`)
	if opts.Width > 0 {
		fmt.Fprintf(&buf, ` width="%d" height="%d"`, opts.Width, opts.Width)
	}
	fmt.Fprintf(&buf, ` viewBox="0 0 %d %d">`+"\n", dim, dim)

	canvas := svg.New(&buf)
	canvas.Rect(0, 0, dim, dim, "fill:#ffffff")
	canvas.Gstyle("fill:#000000")
	for y := range size {
		for x := range size {
			if !g.Dark(x, y) {
				continue
			}
			px, py := (x+q)*svgUnit, (y+q)*svgUnit
			switch opts.Shape {
			case RoundedSquare:
				canvas.Roundrect(px, py, svgUnit, svgUnit, svgUnit*3/10, svgUnit*3/10)
			case Circle:
				canvas.Circle(px+svgUnit/2, py+svgUnit/2, svgUnit/2)
			case Square:
				canvas.Rect(px, py, svgUnit, svgUnit)
			default:
				return nil, fmt.Errorf("%w: unsupported shape %v", ErrFormat, opts.Shape)
			}
		}
	}
	canvas.Gend()
	canvas.End()

	return buf.Bytes(), nil
}
