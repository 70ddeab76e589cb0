// Package http provides the transport layer used by webapi executors: a
// configurable HTTP client with optional proxy routing, a bounded response
// buffer and detailed timing metrics, plus a fluent request builder.
//
// This package is designed for programmatic use and provides:
//   - A configurable HTTP client with functional options
//   - Explicit proxy wiring (environment proxies are never consulted)
//   - A response size ceiling enforced while reading the body
//   - Detailed timing information (DNS, TCP, TLS, TTFB)
//   - Typed errors for transport, status, decoding and configuration failures
//
// Basic Usage:
//
//	proxyURL, _ := url.Parse("http://10.0.0.1:3128")
//	client := http.NewClient(
//	    http.WithBaseURL("https://api.example.com"),
//	    http.WithTimeout(30*time.Second),
//	    http.WithProxy(proxyURL),
//	)
//	defer client.Close()
//
//	req := http.NewRequest(http.MethodGet, "/users").
//	    WithQueryParam("limit", "10")
//
//	resp, err := client.Do(context.Background(), req)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := resp.Err(); err != nil {
//	    log.Fatal(err) // *http.StatusError
//	}
//
// Methods:
//
// Method is a closed set. Only MethodGet, MethodPost, MethodPut and
// MethodDelete exist and the zero Method means GET, so a request can never
// carry a verb the client does not understand.
//
// Thread Safety:
//
// Client is safe for concurrent use. Multiple goroutines may invoke methods
// on a Client simultaneously. Close may be called any number of times.
package http
