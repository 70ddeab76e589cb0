package webapi

import (
	nethttp "net/http"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/wesleyorama2/webapi/pkg/jsonschema"
)

// Option configures an Executor.
type Option func(*options)

type options struct {
	logger          *zap.Logger
	metrics         *Metrics
	schema          string
	limiter         *rate.Limiter
	requestIDHeader string
	headers         map[string]string
	httpClient      *nethttp.Client
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:  zap.NewNop(),
		headers: make(map[string]string),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics records every call and proxy selection in m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithResponseSchema validates every non-empty 2xx body against a JSON
// Schema before decoding. Violations surface as *http.DecodeError.
func WithResponseSchema(schema string) Option {
	return func(o *options) {
		o.schema = schema
	}
}

// WithRateLimit paces calls to rps per second with the given burst.
// Calls wait for a token; a cancelled context aborts the wait.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *options) {
		if rps <= 0 {
			o.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		o.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRequestID sends a fresh UUID under header on every call.
func WithRequestID(header string) Option {
	return func(o *options) {
		o.requestIDHeader = header
	}
}

// WithHeader adds a header to every call.
func WithHeader(key, value string) Option {
	return func(o *options) {
		o.headers[key] = value
	}
}

// WithHTTPClient builds calls on a copy of c; c itself is never modified.
// Proxying needs c.Transport to be nil or an *http.Transport, otherwise New
// fails with http.ErrProxyUnsupported when a proxy is requested.
func WithHTTPClient(c *nethttp.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

func (o *options) compileSchema() (*jsonschema.Schema, error) {
	if o.schema == "" {
		return nil, nil
	}
	return jsonschema.Compile(o.schema)
}
