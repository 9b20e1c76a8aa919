package request

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/nhdewitt/qr-from-tcp/internal/headers"
)

type requestState int

const (
	stateRequestLine requestState = iota
	stateHeaders
	stateBody
)

const (
	crlf = "\r\n"

	// MaxLineSize bounds a single request or field line. Readers handed to
	// RequestFromReader should buffer at least this much.
	MaxLineSize = 8 << 10
	// MaxHeadSize bounds the request line plus all field lines.
	MaxHeadSize = 64 << 10
)

const (
	MethodGet  = "GET"
	MethodPost = "POST"
)

var (
	// ErrMalformed marks a request that violates HTTP/1.1 framing. The
	// connection it arrived on cannot be reused.
	ErrMalformed = errors.New("malformed request")
	// ErrVersion marks a request line naming a protocol other than HTTP/1.1.
	ErrVersion = errors.New("unsupported HTTP version")
)

type Request struct {
	RequestLine RequestLine
	Headers     headers.Headers

	// Path is the request target without its query, reduced to the path of
	// an absolute-form target.
	Path string

	// ContentLength is the advertised body size, or -1 when the body is
	// chunked and its size is unknown until read.
	ContentLength int64

	// Body streams the message body. Nothing is read from the connection
	// until Body is read.
	Body io.Reader

	state requestState
	body  *bodyReader
}

type RequestLine struct {
	HttpVersion   string
	RequestTarget string
	Method        string
}

// RequestFromReader parses one request head from reader and returns a
// request whose Body lazily streams the message body. Passing the same
// *bufio.Reader again after Body is drained reads the next pipelined
// request. A connection that closes before sending any byte yields io.EOF.
func RequestFromReader(reader io.Reader) (*Request, error) {
	br, ok := reader.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(reader, MaxLineSize)
	}

	r := Request{
		Headers: headers.NewHeaders(),
		state:   stateRequestLine,
	}

	read := 0
	for r.state != stateBody {
		line, err := br.ReadSlice('\n')
		read += len(line)
		if err != nil {
			switch {
			case errors.Is(err, bufio.ErrBufferFull):
				return nil, fmt.Errorf("%w: line exceeds %d bytes", ErrMalformed, br.Size())
			case errors.Is(err, io.EOF):
				if read == 0 {
					return nil, io.EOF
				}
				return nil, fmt.Errorf("%w: early EOF", ErrMalformed)
			default:
				return nil, err
			}
		}
		if read > MaxHeadSize {
			return nil, fmt.Errorf("%w: head exceeds %d bytes", ErrMalformed, MaxHeadSize)
		}

		n, err := r.parse(line)
		if err != nil {
			return nil, err
		}
		if n != len(line) {
			return nil, fmt.Errorf("%w: line not terminated by CRLF: %q", ErrMalformed, line)
		}
	}

	if err := r.initBody(br); err != nil {
		return nil, err
	}

	return &r, nil
}

func (r *Request) parse(data []byte) (int, error) {
	switch r.state {
	case stateRequestLine:
		// A stray CRLF between pipelined requests is tolerated.
		if bytes.Equal(data, []byte(crlf)) {
			return len(data), nil
		}
		parsed, parsedRequest, err := parseRequestLine(data)
		if parsed == 0 || err != nil {
			return 0, err
		}

		path, err := targetPath(parsedRequest.RequestTarget)
		if err != nil {
			return 0, err
		}

		r.RequestLine = parsedRequest
		r.Path = path
		r.state = stateHeaders

		return parsed, nil
	case stateHeaders:
		n, done, err := r.Headers.Parse(data)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if done {
			r.state = stateBody
		}
		return n, nil
	case stateBody:
		return 0, fmt.Errorf("error: trying to read data in a body state")
	default:
		return 0, fmt.Errorf("error: unknown state")
	}
}

func parseRequestLine(req []byte) (int, RequestLine, error) {
	idx := bytes.Index(req, []byte(crlf))
	if idx == -1 {
		return 0, RequestLine{}, nil
	}
	line := string(req[:idx])
	consumed := idx + len(crlf)

	rl, err := requestLineFromString(line)
	if err != nil {
		return 0, RequestLine{}, err
	}

	return consumed, *rl, nil
}

func requestLineFromString(s string) (*RequestLine, error) {
	parts := strings.Fields(s)
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: invalid request line: %q", ErrMalformed, s)
	}

	// Methods are case-sensitive tokens; unknown ones are left for the
	// handler to turn away.
	method := parts[0]
	if !headers.IsToken(method) {
		return nil, fmt.Errorf("%w: invalid method: %q", ErrMalformed, method)
	}

	target := parts[1]

	protocol, version, ok := strings.Cut(parts[2], "/")
	if !ok || protocol != "HTTP" {
		return nil, fmt.Errorf("%w: invalid protocol: %q", ErrMalformed, parts[2])
	}
	if version != "1.1" {
		return nil, fmt.Errorf("%w: %s", ErrVersion, parts[2])
	}

	return &RequestLine{
		Method:        method,
		RequestTarget: target,
		HttpVersion:   version,
	}, nil
}

func targetPath(target string) (string, error) {
	if strings.HasPrefix(target, "/") {
		path, _, _ := strings.Cut(target, "?")
		return path, nil
	}
	if target == "*" {
		return target, nil
	}

	u, err := url.ParseRequestURI(target)
	if err != nil || !u.IsAbs() {
		return "", fmt.Errorf("%w: invalid request target: %q", ErrMalformed, target)
	}
	if u.Path == "" {
		return "/", nil
	}
	return u.Path, nil
}

func (r *Request) initBody(br *bufio.Reader) error {
	codings := r.Headers.Values("Transfer-Encoding")
	length, hasLength := r.Headers.Get("Content-Length"), r.Headers.Has("Content-Length")

	switch {
	case len(codings) > 0 && hasLength:
		return fmt.Errorf("%w: both Content-Length and Transfer-Encoding present", ErrMalformed)
	case len(codings) > 0:
		if len(codings) != 1 || !strings.EqualFold(codings[0], "chunked") {
			return fmt.Errorf("%w: unsupported transfer coding: %q", ErrMalformed, r.Headers.Get("Transfer-Encoding"))
		}
		r.ContentLength = -1
		r.body = newChunkedBody(br)
	case hasLength:
		n, err := strconv.ParseInt(length, 10, 64)
		if err != nil || n < 0 || strings.HasPrefix(length, "+") {
			return fmt.Errorf("%w: invalid Content-Length: %q", ErrMalformed, length)
		}
		r.ContentLength = n
		r.body = newFixedBody(br, n)
	default:
		r.ContentLength = 0
		r.body = newFixedBody(br, 0)
	}

	r.Body = r.body
	return nil
}

// ExpectsContinue reports whether the client waits for an interim
// 100 Continue before sending the body.
func (r *Request) ExpectsContinue() bool {
	return r.Headers.Contains("Expect", "100-continue")
}

// KeepAlive reports whether the client allows another request on the
// same connection.
func (r *Request) KeepAlive() bool {
	return !r.Headers.Contains("Connection", "close")
}

// BodyDone reports whether the body was read to its end, leaving the
// connection positioned at the next request.
func (r *Request) BodyDone() bool {
	return r.body == nil || r.body.done()
}
