package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/wesleyorama2/webapi/internal/stats"
	"github.com/wesleyorama2/webapi/proxy"
)

// Call describes one executed CLI call.
type Call struct {
	Method     string
	URL        string
	Proxy      string
	Duration   time.Duration
	StatusCode int // 0 when no status is known
	Body       json.RawMessage
	Extracted  map[string]string
	Err        error
}

// Formatter is responsible for formatting calls in text format
type Formatter struct {
	Verbose bool
	NoColor bool
	scheme  *ColorScheme
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose, noColor bool) *Formatter {
	return &Formatter{
		Verbose: verbose,
		NoColor: noColor,
		scheme:  SchemeFor(noColor),
	}
}

// FormatCall formats a call and its outcome for display
func (f *Formatter) FormatCall(c *Call) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("▶ %s %s\n", f.scheme.Method.Sprint(c.Method), f.scheme.URL.Sprint(c.URL)))
	if c.Proxy != "" {
		buf.WriteString(fmt.Sprintf("  %s %s\n", f.scheme.Label.Sprint("via"), f.scheme.Proxy.Sprint(c.Proxy)))
	}

	if c.Err != nil {
		status := "FAILED"
		if c.StatusCode > 0 {
			status = fmt.Sprintf("%d", c.StatusCode)
		}
		buf.WriteString(fmt.Sprintf("◀ %s %s (%dms)\n",
			ErrorIcon(f.NoColor), f.statusColor(c.StatusCode).Sprint(status), c.Duration.Milliseconds()))
		buf.WriteString(fmt.Sprintf("  Error: %v\n", c.Err))
		return buf.String()
	}

	buf.WriteString(fmt.Sprintf("◀ %s %s (%dms)\n",
		SuccessIcon(f.NoColor), f.scheme.StatusOK.Sprint("OK"), c.Duration.Milliseconds()))

	if len(c.Body) > 0 {
		buf.WriteString("  Body:\n")
		buf.WriteString("  " + formatJSONString(string(c.Body)))
		buf.WriteString("\n")
	} else if f.Verbose {
		buf.WriteString("  Body: (empty)\n")
	}

	if len(c.Extracted) > 0 {
		buf.WriteString("  Extracted:\n")
		for _, name := range sortedKeys(c.Extracted) {
			buf.WriteString(fmt.Sprintf("    %s = %s\n", f.scheme.Label.Sprint(name), c.Extracted[name]))
		}
	}

	return buf.String()
}

// FormatProxy formats a directory record for display
func (f *Formatter) FormatProxy(r *proxy.Record) string {
	if r == nil {
		return fmt.Sprintf("%s no proxy available\n", ErrorIcon(f.NoColor))
	}

	var buf strings.Builder
	u, err := r.URL()
	if err != nil {
		buf.WriteString(fmt.Sprintf("%s %s (unusable: %v)\n", ErrorIcon(f.NoColor), r.String(), err))
	} else {
		buf.WriteString(fmt.Sprintf("%s %s\n", SuccessIcon(f.NoColor), f.scheme.Proxy.Sprint(u.String())))
	}
	buf.WriteString(fmt.Sprintf("  %s %s\n", f.scheme.Label.Sprint("Address:  "), r.Address))
	buf.WriteString(fmt.Sprintf("  %s %s\n", f.scheme.Label.Sprint("Port:     "), r.Port))
	buf.WriteString(fmt.Sprintf("  %s %s\n", f.scheme.Label.Sprint("Protocols:"), strings.Join(r.Protocols, ", ")))
	buf.WriteString(fmt.Sprintf("  %s %g\n", f.scheme.Label.Sprint("Speed:    "), r.Speed))
	return buf.String()
}

// FormatSummary formats the latency distribution of repeated calls
func (f *Formatter) FormatSummary(s stats.Summary) string {
	var buf strings.Builder

	buf.WriteString(f.scheme.Highlight.Sprint("Summary") + "\n")
	buf.WriteString(fmt.Sprintf("  Calls:  %d (%d failed)\n", s.Count, s.Failed))
	buf.WriteString(fmt.Sprintf("  Min:    %v\n", s.Min))
	buf.WriteString(fmt.Sprintf("  Mean:   %v\n", s.Mean))
	buf.WriteString(fmt.Sprintf("  P50:    %v\n", s.P50))
	buf.WriteString(fmt.Sprintf("  P90:    %v\n", s.P90))
	buf.WriteString(fmt.Sprintf("  P99:    %v\n", s.P99))
	buf.WriteString(fmt.Sprintf("  Max:    %v\n", s.Max))
	return buf.String()
}

func (f *Formatter) statusColor(code int) colorSprinter {
	switch {
	case code >= 300 && code < 400:
		return f.scheme.StatusWarn
	case code >= 200 && code < 300:
		return f.scheme.StatusOK
	default:
		return f.scheme.StatusError
	}
}

type colorSprinter interface {
	Sprint(a ...interface{}) string
}

// formatJSONString attempts to pretty-print a JSON string
func formatJSONString(s string) string {
	var prettyJSON bytes.Buffer
	err := json.Indent(&prettyJSON, []byte(s), "  ", "  ")
	if err != nil {
		return s
	}
	return prettyJSON.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
