package server

import (
	"github.com/nhdewitt/qr-from-tcp/internal/request"
	"github.com/nhdewitt/qr-from-tcp/internal/response"
)

// Handler writes exactly one response for req. It may leave req.Body
// unread, in which case the connection is closed afterwards.
type Handler func(w *response.Writer, req *request.Request)
