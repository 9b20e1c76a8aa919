package render

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"golang.org/x/image/vector"
)

// kappa places cubic Bézier control points to approximate a quarter circle.
const kappa = 0.5522848

// PNG draws g as a grayscale PNG exactly opts.Width pixels square. Module
// edges that fall between pixels are anti-aliased.
func PNG(g Grid, opts Options) ([]byte, error) {
	if err := checkGrid(g); err != nil {
		return nil, err
	}

	q := opts.quietZone(DefaultQuietZone)
	size := g.Size()
	modules := size + 2*q
	width := opts.Width
	if width < modules {
		return nil, fmt.Errorf("%w: width %d cannot hold %d modules", ErrFormat, width, modules)
	}

	var radius float32
	switch opts.Shape {
	case Square:
	case RoundedSquare:
		radius = 0.3
	case Circle:
		radius = 0.5
	default:
		return nil, fmt.Errorf("%w: unsupported shape %v", ErrFormat, opts.Shape)
	}

	m := float32(width) / float32(modules)
	z := vector.NewRasterizer(width, width)
	for y := range size {
		for x := range size {
			if g.Dark(x, y) {
				addModule(z, float32(x+q)*m, float32(y+q)*m, m, radius*m)
			}
		}
	}

	img := image.NewGray(image.Rect(0, 0, width, width))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	z.Draw(img, img.Bounds(), image.Black, image.Point{})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return buf.Bytes(), nil
}

// addModule adds a w×w square at (x, y) with corners rounded to radius r.
func addModule(z *vector.Rasterizer, x, y, w, r float32) {
	if r <= 0 {
		z.MoveTo(x, y)
		z.LineTo(x+w, y)
		z.LineTo(x+w, y+w)
		z.LineTo(x, y+w)
		z.ClosePath()
		return
	}

	c := r * (1 - kappa)
	z.MoveTo(x+r, y)
	z.LineTo(x+w-r, y)
	z.CubeTo(x+w-c, y, x+w, y+c, x+w, y+r)
	z.LineTo(x+w, y+w-r)
	z.CubeTo(x+w, y+w-c, x+w-c, y+w, x+w-r, y+w)
	z.LineTo(x+r, y+w)
	z.CubeTo(x+c, y+w, x, y+w-c, x, y+w-r)
	z.LineTo(x, y+r)
	z.CubeTo(x, y+c, x+c, y, x+r, y)
	z.ClosePath()
}
