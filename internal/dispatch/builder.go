package dispatch

import (
	"errors"

	"github.com/nhdewitt/qr-from-tcp/internal/payload"
	"github.com/nhdewitt/qr-from-tcp/internal/render"
	"github.com/nhdewitt/qr-from-tcp/internal/response"
	"github.com/nhdewitt/qr-from-tcp/internal/symbol"
)

// Response is the single reply to one request.
type Response struct {
	Status      response.StatusCode
	ContentType string
	Body        []byte

	// Close asks for the connection to be closed after this response,
	// typically because the request body was left unread.
	Close bool
	// Err is the failure behind an error status, for logging.
	Err error
}

func textResponse(status response.StatusCode, body string) Response {
	return Response{
		Status:      status,
		ContentType: response.ContentTypeText,
		Body:        []byte(body),
	}
}

func notFound() Response {
	return Response{Status: response.StatusNotFound}
}

func success(r Rendered) Response {
	return Response{
		Status:      response.StatusOK,
		ContentType: r.ContentType,
		Body:        r.Body,
	}
}

// fromError maps a failure while handling a build route to its response.
func fromError(err error) Response {
	var resp Response
	switch {
	case errors.Is(err, payload.ErrTooLarge):
		resp = textResponse(response.StatusRequestEntityTooLarge, "Body too big")
		resp.Close = true
	case errors.Is(err, ErrInvalidText):
		resp = textResponse(response.StatusBadRequest, "Body is not valid UTF-8")
	case errors.Is(err, symbol.ErrEncoding):
		resp = textResponse(response.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, render.ErrFormat):
		resp = textResponse(response.StatusInternalServerError, "Failed to render QR code")
	default:
		// The body could not be read; whatever is left of it is unusable.
		resp = textResponse(response.StatusBadRequest, "Malformed request body")
		resp.Close = true
	}
	resp.Err = err
	return resp
}
