// Package webapi performs typed JSON calls against an HTTP API, optionally
// through a proxy picked from a public proxy directory.
//
// An Executor is bound to one base URL and one transport. Each Call sends a
// single request and returns either the decoded result or one error; there
// is no retry, no fallback and no partial result.
//
// Basic Usage:
//
//	type User struct {
//	    ID   int    `json:"id"`
//	    Name string `json:"name"`
//	}
//
//	exec, err := webapi.New[User, User](ctx, webapi.Config{
//	    BaseURL: "https://api.example.com",
//	    Timeout: 10 * time.Second,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer exec.Close()
//
//	u, err := exec.Call(ctx, User{Name: "ada"}, "/users", http.MethodPost)
//
// Proxies:
//
// With UseProxy set and no explicit Proxy, New queries the directory at
// DirectoryURL once, picks the record with the lowest speed score and routes
// every request through it. If the directory cannot be reached or offers no
// usable record, New fails with a *ProxySelectionError; it never falls back
// to a direct connection.
//
//	exec, err := webapi.New[Result, Input](ctx, webapi.Config{
//	    BaseURL:  "https://api.example.com",
//	    UseProxy: true,
//	})
//
// Errors:
//
// Failures are typed so callers can branch with errors.As:
//   - *http.ConfigError: empty endpoint path or bad configuration (no I/O done)
//   - *http.TransportError: the target or proxy could not be reached
//   - *http.StatusError: a response outside 2xx, carrying the status code
//   - *http.DecodeError: a 2xx body that is not valid for the result type
//   - *ProxySelectionError: automatic proxy selection failed during New
package webapi
