package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/webapi/http"
	"github.com/wesleyorama2/webapi/internal/output"
	"github.com/wesleyorama2/webapi/internal/stats"
	"github.com/wesleyorama2/webapi/pkg/jsonpath"
	"github.com/wesleyorama2/webapi/webapi"
)

// newCallCommand builds the command for one HTTP method.
func newCallCommand(method http.Method) *cobra.Command {
	name := strings.ToLower(method.String())
	cmd := &cobra.Command{
		Use:   name + " URL",
		Short: fmt.Sprintf("Make a %s call to the specified URL", method),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(cmd, args[0], method)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayP("header", "H", []string{}, "HTTP headers to include (can be used multiple times)")
	if method.HasBody() {
		flags.StringP("data", "d", "", "JSON body to send (@file reads it from a file)")
	}
	flags.BoolP("verbose", "v", false, "Enable verbose output")
	flags.Int("repeat", 1, "Number of times to repeat the call; prints a latency summary when above 1")
	flags.StringArray("extract", []string{}, "Extract name=$.path from the result (can be used multiple times)")
	flags.String("schema", "", "JSON Schema file the result must satisfy")
	flags.String("request-id", "", "Header that carries a fresh request ID on every call")
	flags.Float64("rate", 0, "Maximum calls per second (0 means unlimited)")
	return cmd
}

func runCall(cmd *cobra.Command, target string, method http.Method) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	baseURL, path := resolveTarget(target, s.exec.BaseURL)
	s.exec.BaseURL = baseURL

	input, err := readInput(cmd)
	if err != nil {
		return err
	}
	extracts, err := parseExtracts(cmd)
	if err != nil {
		return err
	}
	repeat, _ := cmd.Flags().GetInt("repeat")
	if repeat < 1 {
		return fmt.Errorf("--repeat must be at least 1, got %d", repeat)
	}
	verbose, _ := cmd.Flags().GetBool("verbose")

	logger, err := newLogger(s.debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	opts, err := executorOptions(cmd, s, logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	executor, err := webapi.New[json.RawMessage, json.RawMessage](ctx, s.exec, opts...)
	if err != nil {
		return err
	}
	defer executor.Close()

	var via string
	if u := executor.ProxyURL(); u != nil {
		via = u.Redacted()
	}

	formatter := output.GetFormatter(s.format, verbose, s.noColor)
	out := cmd.OutOrStdout()
	recorder := stats.NewRecorder()
	failed := 0

	for i := 0; i < repeat; i++ {
		start := time.Now()
		result, err := executor.Call(ctx, input, path, method)
		elapsed := time.Since(start)
		recorder.Record(elapsed, err == nil)

		call := &output.Call{
			Method:   method.String(),
			URL:      displayURL(baseURL, path),
			Proxy:    via,
			Duration: elapsed,
			Body:     result,
			Err:      err,
		}
		if statusErr, ok := http.AsStatusError(err); ok {
			call.StatusCode = statusErr.StatusCode
		}
		if err == nil && len(extracts) > 0 {
			call.Extracted, call.Err = extract(result, extracts)
		}

		fmt.Fprint(out, formatter.FormatCall(call))
		if call.Err != nil {
			failed++
		}
		if ctx.Err() != nil {
			break
		}
	}

	if repeat > 1 {
		fmt.Fprint(out, formatter.FormatSummary(recorder.Summary()))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d calls failed", failed, repeat)
	}
	return nil
}

// resolveTarget splits target into base URL and path. When a base URL is
// configured, a target without a scheme is treated as a path below it.
func resolveTarget(target, configured string) (string, string) {
	if configured != "" && !strings.Contains(target, "://") {
		return configured, target
	}
	return parseURL(target)
}

func displayURL(baseURL, path string) string {
	if strings.Contains(path, "://") {
		return path
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// readInput returns the --data body, or nil for commands without one.
func readInput(cmd *cobra.Command) (json.RawMessage, error) {
	if cmd.Flags().Lookup("data") == nil {
		return nil, nil
	}
	data, _ := cmd.Flags().GetString("data")
	if data == "" {
		return nil, nil
	}
	if strings.HasPrefix(data, "@") {
		b, err := os.ReadFile(data[1:])
		if err != nil {
			return nil, fmt.Errorf("failed to read body: %w", err)
		}
		data = string(b)
	}
	if !json.Valid([]byte(data)) {
		return nil, fmt.Errorf("--data is not valid JSON")
	}
	return json.RawMessage(data), nil
}

func parseExtracts(cmd *cobra.Command) (map[string]string, error) {
	specs, _ := cmd.Flags().GetStringArray("extract")
	if len(specs) == 0 {
		return nil, nil
	}
	paths := make(map[string]string, len(specs))
	for _, spec := range specs {
		name, path, ok := strings.Cut(spec, "=")
		if !ok || strings.TrimSpace(name) == "" || strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("invalid --extract %q (want name=$.path)", spec)
		}
		paths[strings.TrimSpace(name)] = strings.TrimSpace(path)
	}
	return paths, nil
}

func extract(result json.RawMessage, paths map[string]string) (map[string]string, error) {
	if len(result) == 0 {
		return nil, fmt.Errorf("nothing to extract from an empty result")
	}
	return jsonpath.ExtractMultiple(result, paths)
}
