package http

import (
	"errors"
	"io"
	"testing"
)

func TestRequest_Build(t *testing.T) {
	tests := []struct {
		name           string
		method         Method
		path           string
		baseURL        string
		headers        map[string]string
		queryParams    map[string]string
		body           interface{}
		expectedURL    string
		expectedMethod string
	}{
		{
			name:           "Simple GET request",
			method:         MethodGet,
			path:           "/users",
			baseURL:        "https://api.example.com",
			headers:        map[string]string{"Accept": "application/json"},
			expectedURL:    "https://api.example.com/users",
			expectedMethod: "GET",
		},
		{
			name:           "Zero method is GET",
			path:           "/users",
			baseURL:        "https://api.example.com",
			expectedURL:    "https://api.example.com/users",
			expectedMethod: "GET",
		},
		{
			name:           "Request with query parameters",
			method:         MethodGet,
			path:           "/users",
			baseURL:        "https://api.example.com",
			queryParams:    map[string]string{"page": "1", "limit": "10"},
			expectedURL:    "https://api.example.com/users?limit=10&page=1",
			expectedMethod: "GET",
		},
		{
			name:           "Request with path and trailing slash in base URL",
			method:         MethodGet,
			path:           "/users",
			baseURL:        "https://api.example.com/",
			expectedURL:    "https://api.example.com/users",
			expectedMethod: "GET",
		},
		{
			name:           "Relative path without leading slash",
			method:         MethodGet,
			path:           "users",
			baseURL:        "https://api.example.com/v1",
			expectedURL:    "https://api.example.com/v1/users",
			expectedMethod: "GET",
		},
		{
			name:           "Query string in path is kept verbatim",
			method:         MethodGet,
			path:           "api/proxy-list?limit=3&page=1&sort_by=lastChecked&sort_type=desc&speed=fast&protocols=http%2Chttps",
			baseURL:        "https://proxylist.geonode.com/",
			expectedURL:    "https://proxylist.geonode.com/api/proxy-list?limit=3&page=1&sort_by=lastChecked&sort_type=desc&speed=fast&protocols=http%2Chttps",
			expectedMethod: "GET",
		},
		{
			name:           "Absolute path ignores base URL",
			method:         MethodGet,
			path:           "https://other.example.com/ping",
			baseURL:        "https://api.example.com",
			expectedURL:    "https://other.example.com/ping",
			expectedMethod: "GET",
		},
		{
			name:           "Encoded slash stays encoded",
			method:         MethodGet,
			path:           "files/a%2Fb",
			baseURL:        "https://api.example.com/api",
			expectedURL:    "https://api.example.com/api/files/a%2Fb",
			expectedMethod: "GET",
		},
		{
			name:           "Escaped base path is kept",
			method:         MethodGet,
			path:           "b c",
			baseURL:        "https://api.example.com/a%2Fz",
			expectedURL:    "https://api.example.com/a%2Fz/b%20c",
			expectedMethod: "GET",
		},
		{
			name:           "Double slash is a path, not a host",
			method:         MethodGet,
			path:           "//evil/x",
			baseURL:        "https://api.example.com/api",
			expectedURL:    "https://api.example.com/api/evil/x",
			expectedMethod: "GET",
		},
		{
			name:           "POST request with body",
			method:         MethodPost,
			path:           "/users",
			baseURL:        "https://api.example.com",
			body:           map[string]string{"name": "John", "email": "john@example.com"},
			expectedURL:    "https://api.example.com/users",
			expectedMethod: "POST",
		},
		{
			name:           "DELETE request with body",
			method:         MethodDelete,
			path:           "/users/1",
			baseURL:        "https://api.example.com",
			body:           map[string]string{"reason": "duplicate"},
			expectedURL:    "https://api.example.com/users/1",
			expectedMethod: "DELETE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewRequest(tt.method, tt.path)

			for key, value := range tt.headers {
				req.WithHeader(key, value)
			}
			for key, value := range tt.queryParams {
				req.WithQueryParam(key, value)
			}
			if tt.body != nil {
				req.WithBody(tt.body)
			}

			httpReq, err := req.Build(tt.baseURL)
			if err != nil {
				t.Fatalf("Error building request: %v", err)
			}

			if httpReq.Method != tt.expectedMethod {
				t.Errorf("Expected method %s, got %s", tt.expectedMethod, httpReq.Method)
			}
			if httpReq.URL.String() != tt.expectedURL {
				t.Errorf("Expected URL %s, got %s", tt.expectedURL, httpReq.URL.String())
			}
			for key, value := range tt.headers {
				if httpReq.Header.Get(key) != value {
					t.Errorf("Expected header %s: %s, got %s", key, value, httpReq.Header.Get(key))
				}
			}

			if tt.body != nil {
				if httpReq.Header.Get("Content-Type") != ContentTypeJSON {
					t.Errorf("Expected Content-Type: %s, got %s", ContentTypeJSON, httpReq.Header.Get("Content-Type"))
				}
				if httpReq.Body == nil {
					t.Errorf("Expected body, got nil")
				}
			}
		})
	}
}

func TestRequest_BuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		baseURL string
		want    error
	}{
		{name: "empty path", path: "", baseURL: "https://api.example.com", want: ErrEmptyPath},
		{name: "blank base URL", path: "/users", baseURL: "   ", want: ErrNoBaseURL},
		{name: "relative path without base", path: "/users", baseURL: "", want: ErrNoBaseURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRequest(MethodGet, tt.path).Build(tt.baseURL)

			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Expected *ConfigError, got %T (%v)", err, err)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRequest_WithJSON(t *testing.T) {
	req := NewRequest(MethodPut, "/items/1").WithJSON(map[string]int{"a": 1})

	httpReq, err := req.Build("https://api.example.com")
	if err != nil {
		t.Fatalf("Error building request: %v", err)
	}
	body, _ := io.ReadAll(httpReq.Body)
	if string(body) != `{"a":1}` {
		t.Errorf("Expected body {\"a\":1}, got %s", body)
	}

	bad := NewRequest(MethodPost, "/items").WithJSON(func() {})
	if _, err := bad.Build("https://api.example.com"); err == nil {
		t.Errorf("Expected error for unmarshalable body")
	}
}

func TestRequest_WithMethods(t *testing.T) {
	req := NewRequest(MethodGet, "/test")
	req.WithHeader("X-Test", "test-value")
	if req.Headers["X-Test"] != "test-value" {
		t.Errorf("Expected header X-Test: test-value, got %s", req.Headers["X-Test"])
	}

	req = NewRequest(MethodGet, "/test")
	req.WithQueryParam("param", "value")
	if req.QueryParams.Get("param") != "value" {
		t.Errorf("Expected query param param=value, got %s", req.QueryParams.Get("param"))
	}

	req = NewRequest(MethodGet, "/test")
	req.WithQueryParams(map[string]string{
		"param1": "value1",
		"param2": "value2",
	})
	if req.QueryParams.Get("param1") != "value1" || req.QueryParams.Get("param2") != "value2" {
		t.Errorf("Expected query params param1=value1&param2=value2, got %s", req.QueryParams.Encode())
	}
}

func TestParseMethod(t *testing.T) {
	for _, name := range []string{"GET", "POST", "PUT", "DELETE"} {
		m, ok := ParseMethod(name)
		if !ok || m.String() != name {
			t.Errorf("ParseMethod(%q) = %v, %v", name, m, ok)
		}
	}
	if _, ok := ParseMethod("PATCH"); ok {
		t.Errorf("PATCH must not parse")
	}
	if MethodGet.HasBody() {
		t.Errorf("GET must not carry a body")
	}
	if !MethodDelete.HasBody() {
		t.Errorf("DELETE carries a body")
	}
}
