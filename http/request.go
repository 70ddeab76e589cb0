package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ContentTypeJSON is the content type sent with JSON request bodies.
const ContentTypeJSON = "application/json; charset=utf-8"

// Request represents an HTTP request with a fluent builder pattern.
// Use NewRequest to create a new Request and chain method calls to configure it.
type Request struct {
	Method      Method
	Path        string
	QueryParams url.Values
	Headers     map[string]string
	Body        interface{}
}

// NewRequest creates a new HTTP request with the specified method and path.
// The path may carry its own query string.
//
// Example:
//
//	req := http.NewRequest(http.MethodGet, "/users").
//	    WithQueryParam("limit", "10").
//	    WithHeader("Accept", "application/json")
func NewRequest(method Method, path string) *Request {
	return &Request{
		Method:      method,
		Path:        path,
		QueryParams: make(url.Values),
		Headers:     make(map[string]string),
	}
}

// WithHeader adds a header to the request.
// Returns the Request to allow method chaining.
func (r *Request) WithHeader(key, value string) *Request {
	r.Headers[key] = value
	return r
}

// WithQueryParam adds a query parameter to the request.
// Multiple values for the same key can be added by calling this method multiple times.
// Returns the Request to allow method chaining.
func (r *Request) WithQueryParam(key, value string) *Request {
	r.QueryParams.Add(key, value)
	return r
}

// WithQueryParams adds multiple query parameters to the request.
// Returns the Request to allow method chaining.
func (r *Request) WithQueryParams(params map[string]string) *Request {
	for key, value := range params {
		r.QueryParams.Add(key, value)
	}
	return r
}

// WithBody sets the body of the request.
// The body can be:
//   - string: sent as-is
//   - []byte: sent as-is
//   - io.Reader: read and sent
//   - any other type: marshaled as JSON (Content-Type is set to ContentTypeJSON if not already set)
//
// Returns the Request to allow method chaining.
func (r *Request) WithBody(body interface{}) *Request {
	r.Body = body
	return r
}

// WithJSON marshals v as the request body and sets the JSON content type.
// A nil v is sent as the JSON literal null.
func (r *Request) WithJSON(v interface{}) *Request {
	data, err := json.Marshal(v)
	if err != nil {
		// Defer the error to Build so the chain stays fluent.
		r.Body = jsonError{err: err}
		return r
	}
	r.Body = data
	r.Headers["Content-Type"] = ContentTypeJSON
	return r
}

type jsonError struct{ err error }

// URL resolves the request path against baseURL without building the request.
func (r *Request) URL(baseURL string) (*url.URL, error) {
	if r.Path == "" {
		return nil, &ConfigError{Field: "path", Err: ErrEmptyPath}
	}

	ref, err := url.Parse(r.Path)
	if err != nil {
		return nil, &ConfigError{Field: "path", Err: err}
	}
	if !ref.IsAbs() && ref.Host != "" {
		// "//x/y" is a path below the base URL, not a host.
		ref, err = url.Parse("/" + strings.TrimLeft(r.Path, "/"))
		if err != nil {
			return nil, &ConfigError{Field: "path", Err: err}
		}
	}

	var reqURL *url.URL
	if ref.IsAbs() {
		reqURL = ref
	} else {
		if strings.TrimSpace(baseURL) == "" {
			return nil, &ConfigError{Field: "base URL", Err: ErrNoBaseURL}
		}
		reqURL, err = url.Parse(baseURL)
		if err != nil {
			return nil, &ConfigError{Field: "base URL", Err: err}
		}

		// Join the escaped paths so encoded separators such as %2F survive.
		joined := strings.TrimRight(reqURL.EscapedPath(), "/") + "/" + strings.TrimLeft(ref.EscapedPath(), "/")
		if reqURL.Path, err = url.PathUnescape(joined); err != nil {
			return nil, &ConfigError{Field: "path", Err: err}
		}
		reqURL.RawPath = joined
		reqURL.RawQuery = joinQuery(reqURL.RawQuery, ref.RawQuery)
		reqURL.Fragment = ref.Fragment
	}

	if len(r.QueryParams) > 0 {
		reqURL.RawQuery = joinQuery(reqURL.RawQuery, r.QueryParams.Encode())
	}

	return reqURL, nil
}

// joinQuery concatenates raw query strings, keeping their original encoding.
func joinQuery(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "&")
}

// Build constructs an http.Request from the Request configuration.
// This is called internally by Client.Do but is exposed for advanced use cases.
func (r *Request) Build(baseURL string) (*http.Request, error) {
	reqURL, err := r.URL(baseURL)
	if err != nil {
		return nil, err
	}

	// Prepare the body
	var bodyReader io.Reader
	if r.Body != nil {
		switch body := r.Body.(type) {
		case jsonError:
			return nil, &ConfigError{Field: "body", Err: body.err}
		case string:
			bodyReader = strings.NewReader(body)
		case []byte:
			bodyReader = bytes.NewReader(body)
		case io.Reader:
			bodyReader = body
		default:
			// Assume JSON for other types
			jsonBody, err := json.Marshal(body)
			if err != nil {
				return nil, &ConfigError{Field: "body", Err: err}
			}
			bodyReader = bytes.NewReader(jsonBody)
			if _, ok := r.Headers["Content-Type"]; !ok {
				r.Headers["Content-Type"] = ContentTypeJSON
			}
		}
	}

	req, err := http.NewRequest(r.Method.String(), reqURL.String(), bodyReader)
	if err != nil {
		return nil, &ConfigError{Field: "request", Err: err}
	}

	for key, value := range r.Headers {
		req.Header.Set(key, value)
	}

	return req, nil
}
