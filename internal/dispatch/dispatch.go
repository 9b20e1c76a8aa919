// Package dispatch routes requests to the QR builders and turns every
// outcome into exactly one response.
package dispatch

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/nhdewitt/qr-from-tcp/internal/log"
	"github.com/nhdewitt/qr-from-tcp/internal/payload"
	"github.com/nhdewitt/qr-from-tcp/internal/render"
	"github.com/nhdewitt/qr-from-tcp/internal/request"
	"github.com/nhdewitt/qr-from-tcp/internal/response"
	"github.com/nhdewitt/qr-from-tcp/internal/symbol"
)

// RasterWidth is the width in pixels of PNG output.
const RasterWidth = 600

// Instructions is the usage text served at GET / for a server reachable at
// host.
func Instructions(host string) string {
	return fmt.Sprintf("Try POSTing data to /build such as: `curl %s/build -XPOST -d \"Hello World!\"`\n"+
		"Use /build/svg for an SVG image or /build/png for a PNG image.\n", host)
}

// Config is fixed when the dispatcher is created.
type Config struct {
	Encoder      symbol.Encoder
	Guard        payload.Guard
	Shape        render.Shape
	Width        int
	Instructions string
}

func DefaultConfig() Config {
	return Config{
		Encoder:      symbol.Encoder{Level: symbol.Q},
		Guard:        payload.Default,
		Shape:        render.RoundedSquare,
		Width:        RasterWidth,
		Instructions: Instructions("localhost:3000"),
	}
}

// Dispatcher holds no per-request state and is safe for concurrent use.
type Dispatcher struct {
	cfg Config
}

func New(cfg Config) *Dispatcher {
	return &Dispatcher{cfg: cfg}
}

// Dispatch routes req and produces its response. interim, when non-nil,
// sends 100 Continue; it is called only after the payload guard accepted
// a body the client is holding back.
func (d *Dispatcher) Dispatch(req *request.Request, interim func() error) Response {
	route := Classify(req.RequestLine.Method, req.Path)
	switch {
	case route == RouteInstructions:
		return textResponse(response.StatusOK, d.cfg.Instructions)
	case !route.Builds():
		return notFound()
	}

	if decision := d.cfg.Guard.Check(req.ContentLength); !decision.Accept {
		return fromError(fmt.Errorf("%w: %s", payload.ErrTooLarge, decision.Reason))
	}

	if interim != nil && req.ExpectsContinue() {
		if err := interim(); err != nil {
			resp := fromError(err)
			resp.Close = true
			return resp
		}
	}

	body, err := d.cfg.Guard.Read(req.Body)
	if err != nil {
		return fromError(err)
	}

	out, err := d.Render(route, body)
	if err != nil {
		return fromError(err)
	}
	return success(out)
}

// Handle serves one request on w.
func (d *Dispatcher) Handle(w *response.Writer, req *request.Request) {
	resp := d.Dispatch(req, w.WriteContinue)
	id := uuid.NewString()

	h := response.GetDefaultHeaders(len(resp.Body))
	if resp.ContentType != "" {
		h.SetNew("Content-Type", resp.ContentType)
	}
	if resp.Close || !req.KeepAlive() || !req.BodyDone() {
		h.SetNew("Connection", "close")
	} else {
		h.SetNew("Connection", "keep-alive")
	}
	h.SetNew("X-Request-Id", id)

	w.SetCause(resp.Err)

	if err := w.WriteStatusLine(resp.Status); err != nil {
		return
	}
	if err := w.WriteHeaders(h); err != nil {
		return
	}
	if _, err := w.WriteBody(resp.Body); err != nil {
		return
	}
	log.Debugf("request %s %s %s -> %d (%d bytes)", id, req.RequestLine.Method, req.RequestLine.RequestTarget, w.Status(), w.BodyBytes())
}
