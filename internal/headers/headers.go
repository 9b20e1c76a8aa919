package headers

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"
)

const (
	crlf                = "\r\n"
	validFieldNameChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!#$%&'*+-.^_`|~"
)

// Headers holds field lines keyed by lower-cased field name. Repeated
// fields are folded into one comma-separated value.
type Headers map[string]string

func NewHeaders() Headers {
	return map[string]string{}
}

// Parse consumes at most one field line from data. It reports n == 0 and
// done == false when data does not yet hold a full line, and done == true
// once the empty line terminating the header section is consumed.
func (h Headers) Parse(data []byte) (n int, done bool, err error) {
	idx := bytes.Index(data, []byte(crlf))
	if idx == -1 {
		return 0, false, nil
	}
	if idx == 0 {
		return len(crlf), true, nil
	}

	fields := data[:idx]
	colonIdx := bytes.IndexByte(fields, ':')
	if colonIdx == -1 {
		return 0, false, fmt.Errorf("malformed header line (no colon): %q", fields)
	}

	name := fields[:colonIdx]
	if len(name) == 0 {
		return 0, false, fmt.Errorf("malformed field-name: %q", fields)
	}
	if bytes.ContainsAny(name, " \t") {
		return 0, false, fmt.Errorf("malformed field-name (whitespace): %q", fields)
	}
	if !IsToken(string(name)) {
		return 0, false, fmt.Errorf("invalid character in field-name: %q", fields)
	}

	value := bytes.Trim(fields[colonIdx+1:], " \t")
	for _, c := range value {
		if (c < 0x20 && c != '\t') || c == 0x7f {
			return 0, false, fmt.Errorf("invalid character in field-value: %q", fields)
		}
	}

	h.Set(string(name), string(value))

	return idx + len(crlf), false, nil
}

// IsToken reports whether s is a non-empty RFC 9110 token, the syntax of
// field names and request methods.
func IsToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !strings.ContainsRune(validFieldNameChars, rune(s[i])) {
			return false
		}
	}
	return true
}

// Set adds value to key, appending to any existing value.
func (h Headers) Set(key, value string) {
	key = strings.ToLower(key)
	if v, ok := h[key]; ok {
		h[key] = v + ", " + value
		return
	}
	h[key] = value
}

// SetNew replaces any existing value of key.
func (h Headers) SetNew(key, value string) {
	h[strings.ToLower(key)] = value
}

func (h Headers) Get(key string) string {
	return h[strings.ToLower(key)]
}

func (h Headers) Has(key string) bool {
	_, ok := h[strings.ToLower(key)]
	return ok
}

func (h Headers) Del(key string) {
	delete(h, strings.ToLower(key))
}

// Values splits a folded value back into its trimmed, non-empty elements.
func (h Headers) Values(key string) []string {
	v, ok := h[strings.ToLower(key)]
	if !ok {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Contains reports whether any element of key's value equals token,
// ignoring case.
func (h Headers) Contains(key, token string) bool {
	for _, v := range h.Values(key) {
		if strings.EqualFold(v, token) {
			return true
		}
	}
	return false
}

// Keys returns the field names in sorted order.
func (h Headers) Keys() []string {
	return slices.Sorted(maps.Keys(h))
}
