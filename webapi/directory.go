package webapi

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wesleyorama2/webapi/proxy"
)

// FetchFastestProxy queries the proxy directory at directoryURL (or
// DefaultDirectoryURL when empty) and returns its fastest record. It returns
// nil, nil when the directory lists no proxies. Request, status and decoding
// failures are returned as-is; nothing is cached or retried.
func FetchFastestProxy(ctx context.Context, directoryURL string, opts ...Option) (*proxy.Record, error) {
	o := newOptions(opts)
	if directoryURL == "" {
		directoryURL = DefaultDirectoryURL
	}
	return fetchFastest(ctx, directoryURL, DefaultTimeout, o.logger)
}

func fetchFastest(ctx context.Context, directoryURL string, timeout time.Duration, logger *zap.Logger) (*proxy.Record, error) {
	directory, err := New[proxy.DirectoryResult, struct{}](ctx, Config{
		BaseURL: directoryURL,
		Timeout: timeout,
	}, WithLogger(logger))
	if err != nil {
		return nil, err
	}
	defer directory.Close()

	result, err := directory.Get(ctx, DirectoryQuery)
	if err != nil {
		return nil, err
	}

	logger.Debug("proxy directory answered",
		zap.String("directory", directoryURL),
		zap.Int("candidates", len(result.Data)),
	)
	return proxy.SelectFastest(result.Data), nil
}
