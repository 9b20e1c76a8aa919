package render

import (
	"bytes"
)

const textQuietZone = 1

// Text draws g with block glyphs, packing two module rows into each line
// so the result keeps a roughly square aspect in a terminal. Ink marks
// dark modules. Shape and Width are ignored.
func Text(g Grid, opts Options) ([]byte, error) {
	if err := checkGrid(g); err != nil {
		return nil, err
	}

	q := opts.quietZone(textQuietZone)
	size := g.Size()

	var buf bytes.Buffer
	for y := -q; y < size+q; y += 2 {
		for x := -q; x < size+q; x++ {
			top, bottom := g.Dark(x, y), g.Dark(x, y+1)
			switch {
			case top && bottom:
				buf.WriteRune('█')
			case top:
				buf.WriteRune('▀')
			case bottom:
				buf.WriteRune('▄')
			default:
				buf.WriteByte(' ')
			}
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
