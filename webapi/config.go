package webapi

import (
	"time"

	"github.com/wesleyorama2/webapi/http"
	"github.com/wesleyorama2/webapi/proxy"
)

const (
	// DefaultDirectoryURL is the proxy directory consulted when none is configured.
	DefaultDirectoryURL = "https://proxylist.geonode.com/"

	// DirectoryQuery asks the directory for three fast http/https proxies,
	// most recently checked first.
	DirectoryQuery = "api/proxy-list?limit=3&page=1&sort_by=lastChecked&sort_type=desc&speed=fast&protocols=http%2Chttps"

	DefaultTimeout       = http.DefaultTimeout
	DefaultMaxBufferSize = http.DefaultMaxBufferSize
)

// Config holds construction-time settings for an Executor.
type Config struct {
	// BaseURL is the address relative endpoint paths are resolved against.
	// It may be left empty and set later with SetBaseURL.
	BaseURL string `json:"baseUrl" yaml:"baseUrl"`

	// MaxBufferSize caps the response body size in bytes.
	MaxBufferSize int64 `json:"maxBufferSize,omitempty" yaml:"maxBufferSize,omitempty"`

	// Timeout bounds every request.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// UseProxy routes requests through Proxy, or through the fastest
	// directory proxy when Proxy is nil.
	UseProxy bool `json:"useProxy,omitempty" yaml:"useProxy,omitempty"`

	// Proxy overrides directory lookup. Ignored unless UseProxy is set.
	Proxy *proxy.Config `json:"proxy,omitempty" yaml:"proxy,omitempty"`

	// DirectoryURL overrides DefaultDirectoryURL.
	DirectoryURL string `json:"directoryUrl,omitempty" yaml:"directoryUrl,omitempty"`
}

// withDefaults fills zero fields with their defaults.
func (c Config) withDefaults() Config {
	if c.MaxBufferSize <= 0 {
		c.MaxBufferSize = DefaultMaxBufferSize
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.DirectoryURL == "" {
		c.DirectoryURL = DefaultDirectoryURL
	}
	return c
}
