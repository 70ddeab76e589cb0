package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"math"
	"net"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"sync"
	"time"
)

const (
	// DefaultTimeout bounds every request unless WithTimeout says otherwise.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBufferSize leaves the response size unbounded.
	DefaultMaxBufferSize int64 = math.MaxInt64
)

// Client represents an HTTP client with customizable options.
// Client is safe for concurrent use by multiple goroutines.
type Client struct {
	httpClient    *http.Client
	transport     *http.Transport
	headers       map[string]string
	maxBufferSize int64
	proxyURL      *url.URL

	mu      sync.RWMutex
	baseURL string

	closeOnce sync.Once
}

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// NewClient creates a new HTTP client with the given options.
//
// The client never reads proxy settings from the environment: requests go
// direct unless WithProxy is given.
//
// Example:
//
//	client := http.NewClient(
//	    http.WithBaseURL("https://api.example.com"),
//	    http.WithTimeout(30*time.Second),
//	    http.WithHeader("Authorization", "Bearer token"),
//	)
func NewClient(options ...ClientOption) *Client {
	transport := newTransport()
	client := &Client{
		httpClient: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: transport,
		},
		transport:     transport,
		headers:       make(map[string]string),
		maxBufferSize: DefaultMaxBufferSize,
	}

	// Apply options
	for _, option := range options {
		option(client)
	}

	return client
}

// newTransport clones http.DefaultTransport without its environment proxy.
func newTransport() *http.Transport {
	base, _ := http.DefaultTransport.(*http.Transport)
	if base == nil {
		return &http.Transport{}
	}
	t := base.Clone()
	t.Proxy = nil
	t.DialContext = (&net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext
	return t
}

// WithBaseURL sets the base URL for all requests made by this client.
// The base URL is prepended to the path specified in each Request.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the timeout for all requests made by this client.
// The default timeout is 30 seconds. Non-positive values keep the default.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHeader adds a default header to all requests made by this client.
// Headers set on individual requests will override these defaults.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithMaxBufferSize caps the number of response body bytes the client will
// buffer. Larger bodies fail with ErrResponseTooLarge. Non-positive values
// keep the default.
func WithMaxBufferSize(n int64) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxBufferSize = n
		}
	}
}

// WithProxy routes every request through proxyURL. User info on the URL is
// sent to the proxy as Proxy-Authorization, never to the target server.
// Local addresses are proxied too.
func WithProxy(proxyURL *url.URL) ClientOption {
	return func(c *Client) {
		if proxyURL == nil {
			return
		}
		c.proxyURL = proxyURL
		if c.transport != nil {
			c.transport.Proxy = http.ProxyURL(proxyURL)
		}
	}
}

// WithHTTPClient uses a copy of httpClient for this client. The caller's
// client and transport are never modified: an *http.Transport is cloned, and
// a nil Transport starts from the same defaults as NewClient.
//
// Proxy options need an *http.Transport. With any other RoundTripper,
// ProxyUnsupported reports true and requests are not proxied.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient == nil {
			return
		}
		own := *httpClient
		switch t := httpClient.Transport.(type) {
		case nil:
			c.transport = newTransport()
			own.Transport = c.transport
		case *http.Transport:
			c.transport = t.Clone()
			own.Transport = c.transport
		default:
			c.transport = nil
		}
		c.httpClient = &own
		if c.transport != nil && c.proxyURL != nil {
			c.transport.Proxy = http.ProxyURL(c.proxyURL)
		}
	}
}

// CanProxy reports whether WithProxy can take effect on a client built with
// WithHTTPClient(httpClient).
func CanProxy(httpClient *http.Client) bool {
	if httpClient == nil {
		return true
	}
	switch httpClient.Transport.(type) {
	case nil, *http.Transport:
		return true
	default:
		return false
	}
}

// BaseURL returns the base URL requests are resolved against.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetBaseURL replaces the base URL. Requests already in flight keep the old one.
func (c *Client) SetBaseURL(baseURL string) {
	c.mu.Lock()
	c.baseURL = baseURL
	c.mu.Unlock()
}

// ProxyURL returns the proxy requests are routed through, or nil.
func (c *Client) ProxyURL() *url.URL {
	if c.ProxyUnsupported() {
		return nil
	}
	return c.proxyURL
}

// ProxyUnsupported reports whether a proxy was requested but the underlying
// RoundTripper cannot be pointed at it.
func (c *Client) ProxyUnsupported() bool {
	return c.proxyURL != nil && c.transport == nil
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

// Close releases idle connections held by the transport. It is safe to call
// more than once and before any request was made.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.httpClient.CloseIdleConnections()
	})
	return nil
}

// Do executes an HTTP request and returns the response with detailed timing information.
// The request is built with the client's base URL and headers, and the provided Request
// configuration is applied on top.
//
// Any status code is returned as a Response; use Response.Err to turn non-2xx
// into a *StatusError. Failures to reach the server are *TransportError.
//
// Example:
//
//	req := http.NewRequest(http.MethodGet, "/users").
//	    WithQueryParam("limit", "10")
//
//	resp, err := client.Do(context.Background(), req)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Status: %d, TTFB: %v\n", resp.StatusCode, resp.Timing.TimeToFirstByte)
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	// Build the HTTP request
	httpReq, err := req.Build(c.BaseURL())
	if err != nil {
		return nil, err
	}

	// Add client headers (request headers can override these)
	for key, value := range c.headers {
		if httpReq.Header.Get(key) == "" {
			httpReq.Header.Set(key, value)
		}
	}

	method := httpReq.Method
	reqURL := httpReq.URL.String()

	// Initialize timing info
	timing := TimingInfo{
		StartTime: time.Now(),
	}

	// Create a trace to capture detailed timing information
	var dnsStart, connectStart, tlsHandshakeStart time.Time
	var dnsDone, connectDone bool
	lastPhaseEnd := timing.StartTime // end of the last completed phase

	trace := &httptrace.ClientTrace{
		DNSStart: func(info httptrace.DNSStartInfo) {
			dnsStart = time.Now()
		},
		DNSDone: func(info httptrace.DNSDoneInfo) {
			dnsEnd := time.Now()
			timing.DNSLookupTime = dnsEnd.Sub(dnsStart)
			dnsDone = true
			lastPhaseEnd = dnsEnd
		},
		ConnectStart: func(network, addr string) {
			if dnsDone || connectStart.IsZero() {
				connectStart = time.Now()
			}
		},
		ConnectDone: func(network, addr string, err error) {
			if err == nil {
				connectEnd := time.Now()
				timing.TCPConnectTime = connectEnd.Sub(connectStart)
				connectDone = true
				lastPhaseEnd = connectEnd
			}
		},
		TLSHandshakeStart: func() {
			if connectDone {
				tlsHandshakeStart = time.Now()
			}
		},
		TLSHandshakeDone: func(state tls.ConnectionState, err error) {
			if err == nil && !tlsHandshakeStart.IsZero() {
				tlsHandshakeEnd := time.Now()
				timing.TLSHandshakeTime = tlsHandshakeEnd.Sub(tlsHandshakeStart)
				lastPhaseEnd = tlsHandshakeEnd
			}
		},
		GotFirstResponseByte: func() {
			timing.TimeToFirstByte = time.Since(lastPhaseEnd)
		},
	}

	if ctx == nil {
		ctx = context.Background()
	}
	httpReq = httpReq.WithContext(httptrace.WithClientTrace(ctx, trace))

	// Execute the request
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Method: method, URL: reqURL, Err: err}
	}

	timing.TotalTime = time.Since(timing.StartTime)

	// Read and close the body
	contentTransferStart := time.Now()
	bodyBytes, err := readBody(httpResp.Body, c.maxBufferSize)
	httpResp.Body.Close()
	if err != nil {
		return nil, &TransportError{Method: method, URL: reqURL, Err: err}
	}

	timing.ContentTransferTime = time.Since(contentTransferStart)

	resp := &Response{
		Method:       method,
		URL:          reqURL,
		StatusCode:   httpResp.StatusCode,
		Status:       httpResp.Status,
		Headers:      httpResp.Header,
		Body:         io.NopCloser(bytes.NewReader(bodyBytes)),
		Timing:       timing,
		rawBody:      bodyBytes,
		parsed:       true,
	}

	return resp, nil
}

// readBody reads r in full, failing once more than limit bytes arrive.
func readBody(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 || limit == math.MaxInt64 {
		return io.ReadAll(r)
	}
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, ErrResponseTooLarge
	}
	return body, nil
}

// Get is a convenience method for making GET requests.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, NewRequest(MethodGet, path))
}

// Post is a convenience method for making POST requests with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, NewRequest(MethodPost, path).WithJSON(body))
}

// Put is a convenience method for making PUT requests with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, NewRequest(MethodPut, path).WithJSON(body))
}

// Delete is a convenience method for making DELETE requests with a JSON body.
func (c *Client) Delete(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, NewRequest(MethodDelete, path).WithJSON(body))
}
