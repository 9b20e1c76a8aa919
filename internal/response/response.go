package response

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nhdewitt/qr-from-tcp/internal/headers"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	ContentTypeText = "text/plain"
	ContentTypeSVG  = "image/svg+xml"
	ContentTypePNG  = "image/png"
)

func WriteStatusLine(w io.Writer, statusCode StatusCode) error {
	if statusCode < 100 || statusCode > 999 {
		return fmt.Errorf("invalid status code: %d", statusCode)
	}
	_, err := fmt.Fprintf(w, "HTTP/1.1 %d %s\r\n", int(statusCode), statusCode.Reason())
	return err
}

func GetDefaultHeaders(contentLen int) headers.Headers {
	h := headers.NewHeaders()
	h.Set("Content-Length", strconv.Itoa(contentLen))
	h.Set("Content-Type", ContentTypeText)
	h.Set("Date", time.Now().UTC().Format(time.RFC1123))

	return h
}

// WriteHeaders writes h in sorted field-name order with canonical casing,
// followed by the blank line ending the header section.
func WriteHeaders(w io.Writer, h headers.Headers) error {
	caser := cases.Title(language.English)
	for _, k := range h.Keys() {
		line := caser.String(k) + ": " + h[k]
		if _, err := io.WriteString(w, line+"\r\n"); err != nil {
			return fmt.Errorf("error writing header: %w", err)
		}
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}
