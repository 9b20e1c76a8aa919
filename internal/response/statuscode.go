package response

import "strconv"

type StatusCode int

const (
	StatusContinue                StatusCode = 100
	StatusOK                      StatusCode = 200
	StatusBadRequest              StatusCode = 400
	StatusNotFound                StatusCode = 404
	StatusRequestEntityTooLarge   StatusCode = 413
	StatusUnprocessableEntity     StatusCode = 422
	StatusInternalServerError     StatusCode = 500
	StatusHTTPVersionNotSupported StatusCode = 505
)

var reasonPhrases = map[StatusCode]string{
	StatusContinue:                "Continue",
	StatusOK:                      "OK",
	StatusBadRequest:              "Bad Request",
	StatusNotFound:                "Not Found",
	StatusRequestEntityTooLarge:   "Payload Too Large",
	StatusUnprocessableEntity:     "Unprocessable Entity",
	StatusInternalServerError:     "Internal Server Error",
	StatusHTTPVersionNotSupported: "HTTP Version Not Supported",
}

// Reason returns the reason phrase for c, or an empty string for codes
// this server never sends.
func (c StatusCode) Reason() string {
	return reasonPhrases[c]
}

func (c StatusCode) String() string {
	if r := c.Reason(); r != "" {
		return strconv.Itoa(int(c)) + " " + r
	}
	return strconv.Itoa(int(c))
}
