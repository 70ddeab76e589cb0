package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wesleyorama2/webapi/internal/config"
	"github.com/wesleyorama2/webapi/internal/output"
	"github.com/wesleyorama2/webapi/pkg/jsonschema"
	"github.com/wesleyorama2/webapi/proxy"
	"github.com/wesleyorama2/webapi/webapi"
)

// settings is the merged result of .env files, the config file, WEBAPI_*
// variables and flags, in increasing precedence.
type settings struct {
	file    *config.Config
	exec    webapi.Config
	format  output.OutputFormat
	noColor bool
	debug   bool
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	if err := config.LoadEnvFiles(); err != nil {
		return nil, err
	}

	cfg := &config.Config{}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg)

	if verrs := config.ValidateConfig(cfg); len(verrs) > 0 {
		errs := make([]error, len(verrs))
		for i, e := range verrs {
			errs[i] = e
		}
		return nil, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}

	execCfg, err := cfg.ExecutorConfig()
	if err != nil {
		return nil, err
	}

	formatName, _ := cmd.Flags().GetString("output")
	format, err := output.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}

	noColor, _ := cmd.Flags().GetBool("no-color")
	debug, _ := cmd.Flags().GetBool("debug")

	return &settings{
		file:    cfg,
		exec:    execCfg,
		format:  format,
		noColor: output.ShouldDisableColor(noColor, os.Stdout),
		debug:   debug,
	}, nil
}

// applyFlags copies explicitly set flags over cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("timeout") {
		d, _ := flags.GetDuration("timeout")
		cfg.Timeout = d.String()
	}
	if flags.Changed("max-buffer") {
		cfg.MaxBufferSize, _ = flags.GetInt64("max-buffer")
	}
	if flags.Changed("proxy") {
		cfg.UseProxy, _ = flags.GetBool("proxy")
	}
	if flags.Changed("directory") {
		cfg.DirectoryURL, _ = flags.GetString("directory")
	}

	for flag, field := range map[string]func(*proxy.Config) *string{
		"proxy-url":  func(p *proxy.Config) *string { return &p.Address },
		"proxy-user": func(p *proxy.Config) *string { return &p.Username },
		"proxy-pass": func(p *proxy.Config) *string { return &p.Password },
	} {
		if !flags.Changed(flag) {
			continue
		}
		if cfg.Proxy == nil {
			cfg.Proxy = &proxy.Config{}
		}
		*field(cfg.Proxy), _ = flags.GetString(flag)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if !debug {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

// executorOptions turns settings and call flags into executor options.
func executorOptions(cmd *cobra.Command, s *settings, logger *zap.Logger) ([]webapi.Option, error) {
	opts := []webapi.Option{webapi.WithLogger(logger)}

	for key, value := range s.file.Headers {
		opts = append(opts, webapi.WithHeader(key, value))
	}

	headers, _ := cmd.Flags().GetStringArray("header")
	for _, header := range headers {
		parts := strings.SplitN(header, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid header %q (want Name: value)", header)
		}
		opts = append(opts, webapi.WithHeader(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])))
	}

	requestID := s.file.RequestIDHeader
	if cmd.Flags().Changed("request-id") {
		requestID, _ = cmd.Flags().GetString("request-id")
	}
	if requestID != "" {
		opts = append(opts, webapi.WithRequestID(requestID))
	}

	rps, burst := s.file.RateLimit, s.file.Burst
	if cmd.Flags().Changed("rate") {
		rps, _ = cmd.Flags().GetFloat64("rate")
	}
	if rps > 0 {
		opts = append(opts, webapi.WithRateLimit(rps, burst))
	}

	if path, _ := cmd.Flags().GetString("schema"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema: %w", err)
		}
		if _, err := jsonschema.Compile(string(data)); err != nil {
			return nil, fmt.Errorf("invalid schema %s: %w", path, err)
		}
		opts = append(opts, webapi.WithResponseSchema(string(data)))
	}

	return opts, nil
}
