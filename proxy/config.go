package proxy

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Config is an explicit proxy supplied by the caller.
type Config struct {
	// Address is a full scheme://host:port proxy URL.
	Address string `json:"address" yaml:"address"`

	// Username and Password are sent to the proxy, not the target server.
	// They are used only when both are set.
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
}

// HasCredentials reports whether both username and password are present.
func (c Config) HasCredentials() bool {
	return c.Username != "" && c.Password != ""
}

// URL parses Address and attaches credentials when both are present.
func (c Config) URL() (*url.URL, error) {
	addr := strings.TrimSpace(c.Address)
	if addr == "" {
		return nil, errors.New("proxy address is empty")
	}
	u, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy address %q: %w", c.Address, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("proxy address %q must be scheme://host:port", c.Address)
	}
	u.User = nil
	if c.HasCredentials() {
		u.User = url.UserPassword(c.Username, c.Password)
	}
	return u, nil
}
