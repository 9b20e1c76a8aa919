package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/nhdewitt/qr-from-tcp/internal/log"
	"github.com/nhdewitt/qr-from-tcp/internal/request"
	"github.com/nhdewitt/qr-from-tcp/internal/response"
)

const (
	maxAcceptDelay = time.Second

	// lingerTimeout and lingerBytes bound how long, and how much of an
	// abandoned request body, is discarded before closing, so the peer sees
	// the response instead of a reset.
	lingerTimeout = 500 * time.Millisecond
	lingerBytes   = 256 << 10
)

type Server struct {
	listener    net.Listener
	isListening atomic.Bool
	handler     Handler
	logger      logr.Logger

	wg    sync.WaitGroup
	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

type Option func(*Server)

// WithLogger sets the logger used for connection-scoped messages.
func WithLogger(l logr.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// Serve binds addr and serves each accepted connection on its own
// goroutine until Close is called. A bind failure is returned directly.
func Serve(addr string, handler Handler, opts ...Option) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &Server{
		listener: listener,
		handler:  handler,
		logger:   log.Logger(),
		conns:    map[net.Conn]struct{}{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.isListening.Store(true)
	s.wg.Add(1)
	go s.listen()

	return s, nil
}

// Addr returns the bound listener address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Close stops accepting, closes every open connection, and waits for
// their handlers to return.
func (s *Server) Close() error {
	if !s.isListening.CompareAndSwap(true, false) {
		return nil
	}

	err := s.listener.Close()

	s.mu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	return err
}

func (s *Server) listen() {
	defer s.wg.Done()

	var delay time.Duration
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if !s.isListening.Load() {
				return
			}
			if delay == 0 {
				delay = 5 * time.Millisecond
			} else {
				delay = min(2*delay, maxAcceptDelay)
			}
			s.logger.Error(err, "error accepting connection", "retryIn", delay)
			time.Sleep(delay)
			continue
		}
		delay = 0

		if !s.track(conn) {
			conn.Close()
			return
		}
		go s.handle(conn)
	}
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isListening.Load() {
		return false
	}
	s.conns[conn] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	conn.Close()
}

// handle serves the requests of one connection in order.
func (s *Server) handle(conn net.Conn) {
	defer s.wg.Done()
	defer s.untrack(conn)

	logger := s.logger.WithValues("conn", uuid.NewString(), "remote", conn.RemoteAddr().String())
	logger.V(1).Info("connection accepted")

	br := bufio.NewReaderSize(conn, request.MaxLineSize)
	for {
		req, err := request.RequestFromReader(br)
		if err != nil {
			s.requestFailed(logger, conn, err)
			return
		}

		w := response.NewWriter(conn)
		if !s.serve(logger, w, req) {
			return
		}
		logOutcome(logger, w, req)
		if w.Closing() || !req.BodyDone() {
			logger.V(1).Info("connection closed after response", "status", int(w.Status()))
			linger(conn)
			return
		}
	}
}

func (s *Server) requestFailed(logger logr.Logger, conn net.Conn, err error) {
	switch {
	case errors.Is(err, io.EOF):
		logger.V(1).Info("connection closed by peer")
		return
	case !s.isListening.Load() && errors.Is(err, net.ErrClosed):
		return
	case errors.Is(err, request.ErrVersion):
		writeError(response.NewWriter(conn), response.StatusHTTPVersionNotSupported, "HTTP/1.1 only")
		linger(conn)
	case errors.Is(err, request.ErrMalformed):
		writeError(response.NewWriter(conn), response.StatusBadRequest, "Malformed request")
		linger(conn)
	}
	logger.Error(err, "error serving connection")
}

// linger half-closes conn and discards a bounded amount of what the peer
// is still sending. Nothing read here is kept.
func linger(conn net.Conn) {
	tc, ok := conn.(*net.TCPConn)
	if !ok {
		return
	}
	if err := tc.CloseWrite(); err != nil {
		return
	}
	_ = tc.SetReadDeadline(time.Now().Add(lingerTimeout))
	_, _ = io.CopyN(io.Discard, tc, lingerBytes)
}

// serve runs the handler, containing any panic to this connection. It
// reports whether the connection may carry another request.
func (s *Server) serve(logger logr.Logger, w *response.Writer, req *request.Request) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(fmt.Errorf("panic: %v", r), "handler panicked",
				"method", req.RequestLine.Method, "target", req.RequestLine.RequestTarget,
				"stack", string(debug.Stack()))
			if !w.Started() {
				writeError(w, response.StatusInternalServerError, "Internal Server Error")
			}
			ok = false
		}
	}()

	s.handler(w, req)
	return true
}

// logOutcome reports server-side failures at error level. Requests the
// handler rejected for the client's sake only show up in verbose logs.
func logOutcome(logger logr.Logger, w *response.Writer, req *request.Request) {
	status := w.Status()
	cause := w.Cause()
	kv := []any{"method", req.RequestLine.Method, "target", req.RequestLine.RequestTarget, "status", int(status)}
	switch {
	case status >= response.StatusInternalServerError:
		if cause == nil {
			cause = fmt.Errorf("handler answered %d", status)
		}
		logger.Error(cause, "request failed", kv...)
	case cause != nil:
		logger.V(1).Info("request rejected", append(kv, "reason", cause.Error())...)
	}
}

func writeError(w *response.Writer, status response.StatusCode, msg string) {
	h := response.GetDefaultHeaders(len(msg))
	h.SetNew("Connection", "close")
	if err := w.WriteStatusLine(status); err != nil {
		return
	}
	if err := w.WriteHeaders(h); err != nil {
		return
	}
	_, _ = w.WriteBody([]byte(msg))
}
