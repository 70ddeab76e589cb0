package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/webapi/proxy"
	"github.com/wesleyorama2/webapi/webapi"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "WEBAPI_"

// Config represents a CLI configuration file.
type Config struct {
	BaseURL         string            `json:"baseUrl,omitempty" yaml:"baseUrl,omitempty"`
	Timeout         string            `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	MaxBufferSize   int64             `json:"maxBufferSize,omitempty" yaml:"maxBufferSize,omitempty"`
	UseProxy        bool              `json:"useProxy,omitempty" yaml:"useProxy,omitempty"`
	Proxy           *proxy.Config     `json:"proxy,omitempty" yaml:"proxy,omitempty"`
	DirectoryURL    string            `json:"directoryUrl,omitempty" yaml:"directoryUrl,omitempty"`
	Headers         map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	RequestIDHeader string            `json:"requestIdHeader,omitempty" yaml:"requestIdHeader,omitempty"`
	RateLimit       float64           `json:"rateLimit,omitempty" yaml:"rateLimit,omitempty"`
	Burst           int               `json:"burst,omitempty" yaml:"burst,omitempty"`
}

// LoadConfig loads a configuration from a file.
//
// The file format is determined by extension:
//   - .yaml, .yml -> YAML
//   - .json -> JSON
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses configuration data. Unknown or missing extensions are
// parsed as YAML.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config (unknown format %s): %w", ext, err)
		}
	}

	return &cfg, nil
}

// LoadEnvFiles loads .env files into the process environment. Missing files
// are skipped; variables already set are never overwritten.
func LoadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg with WEBAPI_* environment variables:
//
//	WEBAPI_BASE_URL, WEBAPI_TIMEOUT, WEBAPI_MAX_BUFFER_SIZE, WEBAPI_USE_PROXY,
//	WEBAPI_PROXY_URL, WEBAPI_PROXY_USER, WEBAPI_PROXY_PASS, WEBAPI_DIRECTORY_URL
func ApplyEnv(cfg *Config) error {
	if v, ok := lookupEnv("BASE_URL"); ok {
		cfg.BaseURL = v
	}
	if v, ok := lookupEnv("TIMEOUT"); ok {
		cfg.Timeout = v
	}
	if v, ok := lookupEnv("MAX_BUFFER_SIZE"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%sMAX_BUFFER_SIZE: %w", EnvPrefix, err)
		}
		cfg.MaxBufferSize = n
	}
	if v, ok := lookupEnv("USE_PROXY"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sUSE_PROXY: %w", EnvPrefix, err)
		}
		cfg.UseProxy = b
	}
	if v, ok := lookupEnv("PROXY_URL"); ok {
		cfg.proxyConfig().Address = v
	}
	if v, ok := lookupEnv("PROXY_USER"); ok {
		cfg.proxyConfig().Username = v
	}
	if v, ok := lookupEnv("PROXY_PASS"); ok {
		cfg.proxyConfig().Password = v
	}
	if v, ok := lookupEnv("DIRECTORY_URL"); ok {
		cfg.DirectoryURL = v
	}
	return nil
}

func lookupEnv(name string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func (c *Config) proxyConfig() *proxy.Config {
	if c.Proxy == nil {
		c.Proxy = &proxy.Config{}
	}
	return c.Proxy
}

// ExecutorConfig converts c into the executor's construction settings.
// A proxy section without an address leaves proxy selection to the directory.
func (c *Config) ExecutorConfig() (webapi.Config, error) {
	timeout, err := ParseDurationString(c.Timeout)
	if err != nil {
		return webapi.Config{}, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}

	out := webapi.Config{
		BaseURL:       c.BaseURL,
		MaxBufferSize: c.MaxBufferSize,
		Timeout:       timeout,
		UseProxy:      c.UseProxy,
		DirectoryURL:  c.DirectoryURL,
	}
	if c.Proxy != nil && c.Proxy.Address != "" {
		p := *c.Proxy
		out.Proxy = &p
	}
	return out, nil
}

// ParseDurationString parses a duration string.
//
// Supported formats:
//   - Standard Go duration: "30s", "2m", "500ms"
//   - Seconds as integer: "30" (treated as 30 seconds)
func ParseDurationString(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(s)
	if err == nil {
		return d, nil
	}

	seconds, convErr := strconv.Atoi(s)
	if convErr != nil {
		return 0, fmt.Errorf("invalid duration format: %s", s)
	}
	return time.Duration(seconds) * time.Second, nil
}
