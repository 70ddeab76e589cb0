package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrEmptyPath is reported when a call names no endpoint.
	ErrEmptyPath = errors.New("endpoint path is empty")

	// ErrNoBaseURL is reported when a relative path is used before a base URL is set.
	ErrNoBaseURL = errors.New("relative path requires a base URL")

	// ErrResponseTooLarge is reported when a body exceeds the client's buffer ceiling.
	ErrResponseTooLarge = errors.New("response body exceeds the buffer limit")

	// ErrProxyUnsupported is reported when a proxy is requested on a client
	// whose RoundTripper is not an *http.Transport.
	ErrProxyUnsupported = errors.New("custom RoundTripper cannot be routed through a proxy")
)

// maxErrorBody caps how much of a failed response is kept on an error.
const maxErrorBody = 4 << 10

// ConfigError reports an invalid argument detected before any network I/O.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// TransportError reports a failure to reach the target or the proxy in front
// of it, including timeouts and body read failures.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: transport failure: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a response whose status code is outside 2xx.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int

	// Body is a truncated copy of the response body.
	Body []byte
}

func (e *StatusError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s: http %d", e.Method, e.URL, e.StatusCode))
	if text := http.StatusText(e.StatusCode); text != "" {
		b.WriteString(" ")
		b.WriteString(text)
	}
	return b.String()
}

// DecodeError reports a 2xx response whose body could not be turned into the
// expected result.
type DecodeError struct {
	Method string
	URL    string
	Body   []byte
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s %s: decode response: %v", e.Method, e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DecodeErr reports that the body of r could not be turned into a result.
// Only the first few KiB of the body are kept.
func (r *Response) DecodeErr(err error) *DecodeError {
	body, _ := r.GetBody()
	return &DecodeError{
		Method: r.Method,
		URL:    r.URL,
		Body:   truncate(body, maxErrorBody),
		Err:    err,
	}
}

// AsStatusError extracts a *StatusError from err.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsStatus reports whether err carries the given HTTP status code.
func IsStatus(err error, code int) bool {
	se, ok := AsStatusError(err)
	return ok && se.StatusCode == code
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
