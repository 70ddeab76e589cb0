package output

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/webapi/internal/stats"
	"github.com/wesleyorama2/webapi/proxy"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs in YAML format
	FormatYAML OutputFormat = "yaml"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// FormatProvider is an interface for different output formatters
type FormatProvider interface {
	FormatCall(c *Call) string
	FormatProxy(r *proxy.Record) string
	FormatSummary(s stats.Summary) string
}

// CallData represents the structured data of a call
type CallData struct {
	Method     string            `json:"method" yaml:"method"`
	URL        string            `json:"url" yaml:"url"`
	Proxy      string            `json:"proxy,omitempty" yaml:"proxy,omitempty"`
	Success    bool              `json:"success" yaml:"success"`
	StatusCode int               `json:"statusCode,omitempty" yaml:"statusCode,omitempty"`
	Error      string            `json:"error,omitempty" yaml:"error,omitempty"`
	DurationMs int64             `json:"durationMs" yaml:"durationMs"`
	Body       interface{}       `json:"body,omitempty" yaml:"body,omitempty"`
	Extracted  map[string]string `json:"extracted,omitempty" yaml:"extracted,omitempty"`
	Timestamp  string            `json:"timestamp" yaml:"timestamp"`
}

// ProxyData represents the structured data of a directory record
type ProxyData struct {
	URL       string   `json:"url,omitempty" yaml:"url,omitempty"`
	Address   string   `json:"ip" yaml:"ip"`
	Port      string   `json:"port" yaml:"port"`
	Protocols []string `json:"protocols" yaml:"protocols"`
	Speed     float64  `json:"speed" yaml:"speed"`
	Error     string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// SummaryData represents the latency summary of repeated calls
type SummaryData struct {
	Count  int64   `json:"count" yaml:"count"`
	Failed int64   `json:"failed" yaml:"failed"`
	MinMs  float64 `json:"minMs" yaml:"minMs"`
	MeanMs float64 `json:"meanMs" yaml:"meanMs"`
	P50Ms  float64 `json:"p50Ms" yaml:"p50Ms"`
	P90Ms  float64 `json:"p90Ms" yaml:"p90Ms"`
	P99Ms  float64 `json:"p99Ms" yaml:"p99Ms"`
	MaxMs  float64 `json:"maxMs" yaml:"maxMs"`
}

func newCallData(c *Call) CallData {
	data := CallData{
		Method:     c.Method,
		URL:        c.URL,
		Proxy:      c.Proxy,
		Success:    c.Err == nil,
		StatusCode: c.StatusCode,
		DurationMs: c.Duration.Milliseconds(),
		Extracted:  c.Extracted,
		Timestamp:  time.Now().Format(time.RFC3339),
	}
	if c.Err != nil {
		data.Error = c.Err.Error()
	}
	if len(c.Body) > 0 {
		var body interface{}
		if err := json.Unmarshal(c.Body, &body); err != nil {
			body = string(c.Body)
		}
		data.Body = body
	}
	return data
}

func newProxyData(r *proxy.Record) *ProxyData {
	if r == nil {
		return nil
	}
	data := &ProxyData{
		Address:   r.Address,
		Port:      r.Port,
		Protocols: r.Protocols,
		Speed:     r.Speed,
	}
	if u, err := r.URL(); err != nil {
		data.Error = err.Error()
	} else {
		data.URL = u.String()
	}
	return data
}

func newSummaryData(s stats.Summary) SummaryData {
	return SummaryData{
		Count:  s.Count,
		Failed: s.Failed,
		MinMs:  millis(s.Min),
		MeanMs: millis(s.Mean),
		P50Ms:  millis(s.P50),
		P90Ms:  millis(s.P90),
		P99Ms:  millis(s.P99),
		MaxMs:  millis(s.Max),
	}
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Pretty bool
}

func (f *JSONFormatter) marshal(v interface{}) string {
	var output []byte
	var err error
	if f.Pretty {
		output, err = json.MarshalIndent(v, "", "  ")
	} else {
		output, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Sprintf(`{"error":"Failed to marshal output: %s"}`+"\n", err)
	}
	return string(output) + "\n"
}

// FormatCall formats a call as JSON
func (f *JSONFormatter) FormatCall(c *Call) string {
	return f.marshal(newCallData(c))
}

// FormatProxy formats a directory record as JSON
func (f *JSONFormatter) FormatProxy(r *proxy.Record) string {
	return f.marshal(newProxyData(r))
}

// FormatSummary formats a latency summary as JSON
func (f *JSONFormatter) FormatSummary(s stats.Summary) string {
	return f.marshal(newSummaryData(s))
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct{}

func (f *YAMLFormatter) marshal(v interface{}) string {
	output, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: Failed to marshal output: %s\n", err)
	}
	return "---\n" + string(output)
}

// FormatCall formats a call as YAML
func (f *YAMLFormatter) FormatCall(c *Call) string {
	return f.marshal(newCallData(c))
}

// FormatProxy formats a directory record as YAML
func (f *YAMLFormatter) FormatProxy(r *proxy.Record) string {
	return f.marshal(newProxyData(r))
}

// FormatSummary formats a latency summary as YAML
func (f *YAMLFormatter) FormatSummary(s stats.Summary) string {
	return f.marshal(newSummaryData(s))
}

// GetFormatter returns a formatter for the specified format
func GetFormatter(format OutputFormat, verbose bool, noColor bool) FormatProvider {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Pretty: true}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return NewFormatter(verbose, noColor)
	}
}
