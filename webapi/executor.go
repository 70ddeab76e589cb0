package webapi

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/wesleyorama2/webapi/http"
	"github.com/wesleyorama2/webapi/pkg/jsonschema"
	"github.com/wesleyorama2/webapi/proxy"
)

// Executor performs typed JSON calls against one base URL.
// Executor is safe for concurrent use by multiple goroutines.
type Executor[Result, Input any] struct {
	client   *http.Client
	selected *proxy.Record

	logger          *zap.Logger
	metrics         *Metrics
	schema          *jsonschema.Schema
	limiter         *rate.Limiter
	requestIDHeader string
}

// New builds an Executor from cfg.
//
// When cfg.UseProxy is set without cfg.Proxy, New performs exactly one
// directory lookup and blocks until it completes; failure to find a usable
// proxy is returned as a *ProxySelectionError. With cfg.Proxy set the
// directory is never consulted.
func New[Result, Input any](ctx context.Context, cfg Config, opts ...Option) (*Executor[Result, Input], error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg = cfg.withDefaults()
	o := newOptions(opts)

	schema, err := o.compileSchema()
	if err != nil {
		return nil, &http.ConfigError{Field: "response schema", Err: err}
	}

	e := &Executor[Result, Input]{
		logger:          o.logger,
		metrics:         o.metrics,
		schema:          schema,
		limiter:         o.limiter,
		requestIDHeader: o.requestIDHeader,
	}

	var proxyURL *url.URL
	if cfg.UseProxy && !http.CanProxy(o.httpClient) {
		return nil, &http.ConfigError{Field: "proxy", Err: http.ErrProxyUnsupported}
	}
	if cfg.UseProxy {
		proxyURL, e.selected, err = resolveProxy(ctx, cfg, o)
		if err != nil {
			return nil, err
		}
	}

	clientOpts := []http.ClientOption{
		http.WithHTTPClient(o.httpClient),
		http.WithBaseURL(cfg.BaseURL),
		http.WithTimeout(cfg.Timeout),
		http.WithMaxBufferSize(cfg.MaxBufferSize),
		http.WithProxy(proxyURL),
	}
	for key, value := range o.headers {
		clientOpts = append(clientOpts, http.WithHeader(key, value))
	}
	e.client = http.NewClient(clientOpts...)

	e.logger.Debug("executor ready",
		zap.String("base_url", cfg.BaseURL),
		zap.Duration("timeout", cfg.Timeout),
		zap.Bool("proxied", proxyURL != nil),
	)
	return e, nil
}

// resolveProxy returns the proxy URL to wire into the transport and, for
// directory lookups, the record it came from.
func resolveProxy(ctx context.Context, cfg Config, o *options) (*url.URL, *proxy.Record, error) {
	if cfg.Proxy != nil {
		u, err := cfg.Proxy.URL()
		if err != nil {
			return nil, nil, &http.ConfigError{Field: "proxy", Err: err}
		}
		o.logger.Info("using configured proxy", zap.String("proxy", u.Redacted()))
		return u, nil, nil
	}

	record, err := fetchFastest(ctx, cfg.DirectoryURL, cfg.Timeout, o.logger)
	if err == nil && record == nil {
		err = ErrNoProxy
	}
	if err != nil {
		o.metrics.RecordProxySelection(false)
		o.logger.Warn("proxy selection failed", zap.String("directory", cfg.DirectoryURL), zap.Error(err))
		return nil, nil, &ProxySelectionError{DirectoryURL: cfg.DirectoryURL, Err: err}
	}

	u, err := record.URL()
	if err != nil {
		o.metrics.RecordProxySelection(false)
		return nil, nil, &ProxySelectionError{DirectoryURL: cfg.DirectoryURL, Record: record, Err: err}
	}

	o.metrics.RecordProxySelection(true)
	o.logger.Info("selected proxy",
		zap.String("proxy", u.String()),
		zap.Float64("speed", record.Speed),
	)
	return u, record, nil
}

// Call sends one request to path and decodes the response into Result.
//
// GET sends no body. POST, PUT and DELETE send input as JSON; DELETE carries
// a body just like POST and PUT. An empty or null 2xx body yields the zero
// Result. On any error the zero Result is returned.
func (e *Executor[Result, Input]) Call(ctx context.Context, input Input, path string, method http.Method) (Result, error) {
	var zero Result
	if path == "" {
		return zero, &http.ConfigError{Field: "path", Err: http.ErrEmptyPath}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return zero, &http.TransportError{Method: method.String(), URL: path, Err: err}
		}
	}

	req := http.NewRequest(method, path).WithHeader("Accept", "application/json")
	if method.HasBody() {
		req.WithJSON(input)
	}
	if e.requestIDHeader != "" {
		req.WithHeader(e.requestIDHeader, uuid.NewString())
	}

	start := time.Now()
	resp, err := e.client.Do(ctx, req)
	if err != nil {
		e.metrics.RecordRequest(method.String(), 0, time.Since(start).Seconds())
		e.logger.Warn("call failed",
			zap.String("method", method.String()),
			zap.String("path", path),
			zap.Error(err),
		)
		return zero, err
	}
	e.metrics.RecordRequest(method.String(), resp.StatusCode, time.Since(start).Seconds())

	e.logger.Debug("call completed",
		zap.String("method", resp.Method),
		zap.String("url", resp.URL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("ttfb", resp.Timing.TimeToFirstByte),
		zap.Duration("total", resp.Timing.TotalTime),
	)

	if err := resp.Err(); err != nil {
		e.logger.Warn("call rejected", zap.String("url", resp.URL), zap.Int("status", resp.StatusCode))
		return zero, err
	}

	result, err := e.decode(resp)
	if err != nil {
		e.logger.Warn("decode failed", zap.String("url", resp.URL), zap.Error(err))
		return zero, err
	}
	return result, nil
}

func (e *Executor[Result, Input]) decode(resp *http.Response) (Result, error) {
	var out Result
	if resp.IsEmpty() {
		return out, nil
	}

	if e.schema != nil {
		body, _ := resp.GetBody()
		if err := e.schema.Validate(body); err != nil {
			return out, resp.DecodeErr(err)
		}
	}

	if err := resp.GetBodyAsJSON(&out); err != nil {
		var zero Result
		return zero, err
	}
	return out, nil
}

// Get calls path with GET.
func (e *Executor[Result, Input]) Get(ctx context.Context, path string) (Result, error) {
	var input Input
	return e.Call(ctx, input, path, http.MethodGet)
}

// Post calls path with POST and input as the JSON body.
func (e *Executor[Result, Input]) Post(ctx context.Context, input Input, path string) (Result, error) {
	return e.Call(ctx, input, path, http.MethodPost)
}

// Put calls path with PUT and input as the JSON body.
func (e *Executor[Result, Input]) Put(ctx context.Context, input Input, path string) (Result, error) {
	return e.Call(ctx, input, path, http.MethodPut)
}

// Delete calls path with DELETE and input as the JSON body.
func (e *Executor[Result, Input]) Delete(ctx context.Context, input Input, path string) (Result, error) {
	return e.Call(ctx, input, path, http.MethodDelete)
}

// BaseURL returns the current base URL.
func (e *Executor[Result, Input]) BaseURL() string {
	return e.client.BaseURL()
}

// SetBaseURL replaces the base URL used by later calls.
func (e *Executor[Result, Input]) SetBaseURL(baseURL string) {
	e.client.SetBaseURL(baseURL)
}

// ProxyURL returns the proxy every call goes through, or nil for direct calls.
func (e *Executor[Result, Input]) ProxyURL() *url.URL {
	return e.client.ProxyURL()
}

// SelectedProxy returns the directory record chosen during New, or nil when
// no directory lookup took place.
func (e *Executor[Result, Input]) SelectedProxy() *proxy.Record {
	if e.selected == nil {
		return nil
	}
	r := *e.selected
	return &r
}

// Close releases the transport. It may be called any number of times, from
// any state, and always returns nil. Results already returned stay valid.
func (e *Executor[Result, Input]) Close() error {
	if e == nil || e.client == nil {
		return nil
	}
	return e.client.Close()
}
