package dispatch

import (
	"errors"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/nhdewitt/qr-from-tcp/internal/render"
	"github.com/nhdewitt/qr-from-tcp/internal/response"
)

// ErrInvalidText reports a body that is not valid UTF-8.
var ErrInvalidText = errors.New("body is not valid UTF-8")

// Rendered is a successfully drawn QR code.
type Rendered struct {
	ContentType string
	Body        []byte
}

type formatter struct {
	contentType string
	format      func(render.Grid, render.Options) ([]byte, error)
}

var formatters = map[Route]formatter{
	RouteBuildText:   {response.ContentTypeText, render.Text},
	RouteBuildVector: {response.ContentTypeSVG, render.SVG},
	RouteBuildRaster: {response.ContentTypePNG, render.PNG},
}

// Render decodes body as text, encodes it as a QR symbol, and draws the
// symbol in the representation route asks for. Each step runs only if the
// previous one succeeded.
func (d *Dispatcher) Render(route Route, body []byte) (Rendered, error) {
	f, ok := formatters[route]
	if !ok {
		return Rendered{}, fmt.Errorf("route %v does not render", route)
	}

	text, err := decodeText(body)
	if err != nil {
		return Rendered{}, err
	}

	sym, err := d.cfg.Encoder.Encode(text)
	if err != nil {
		return Rendered{}, err
	}

	out, err := f.format(sym, d.options(route))
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{ContentType: f.contentType, Body: out}, nil
}

func (d *Dispatcher) options(route Route) render.Options {
	opts := render.Options{Shape: d.cfg.Shape}
	if route == RouteBuildRaster {
		opts.Width = d.cfg.Width
	}
	return opts
}

func decodeText(body []byte) (string, error) {
	text, _, err := transform.Bytes(encoding.UTF8Validator, body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidText, err)
	}
	return string(text), nil
}
