package config

import (
	"fmt"
	"net/url"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
}

// Error returns the error message
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) []ValidationError {
	var errors []ValidationError

	if config.BaseURL != "" && !isAbsoluteURL(config.BaseURL) {
		errors = append(errors, ValidationError{
			Path:    "baseUrl",
			Message: "must be an absolute URL",
		})
	}

	if config.DirectoryURL != "" && !isAbsoluteURL(config.DirectoryURL) {
		errors = append(errors, ValidationError{
			Path:    "directoryUrl",
			Message: "must be an absolute URL",
		})
	}

	if _, err := ParseDurationString(config.Timeout); err != nil {
		errors = append(errors, ValidationError{
			Path:    "timeout",
			Message: err.Error(),
		})
	}

	if config.MaxBufferSize < 0 {
		errors = append(errors, ValidationError{
			Path:    "maxBufferSize",
			Message: "must not be negative",
		})
	}

	if config.RateLimit < 0 {
		errors = append(errors, ValidationError{
			Path:    "rateLimit",
			Message: "must not be negative",
		})
	}

	if p := config.Proxy; p != nil {
		if p.Address != "" {
			if _, err := p.URL(); err != nil {
				errors = append(errors, ValidationError{
					Path:    "proxy.address",
					Message: err.Error(),
				})
			}
		}

		// Credentials are only sent as a pair.
		if (p.Username == "") != (p.Password == "") {
			errors = append(errors, ValidationError{
				Path:    "proxy",
				Message: "username and password must be set together",
			})
		}
	}

	return errors
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}
