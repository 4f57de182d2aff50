package proxy

import (
	"fmt"
	"net/url"

	"courier-tracker/internal/core/config"
)

// Settings contains outbound proxy configuration for adapters.
type Settings struct {
	Enabled  bool
	Hostname string
	Port     int
	Username string
	Password string
}

// FromConfig maps the proxy section of the app config.
func FromConfig(cfg config.ProxyConfig) Settings {
	return Settings{
		Enabled:  cfg.Enabled,
		Hostname: cfg.Hostname,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
	}
}

// HasProxy returns true if proxy is enabled and configured.
func (p Settings) HasProxy() bool {
	return p.Enabled && p.Hostname != "" && p.Port > 0
}

// HasCredentials returns true if the upstream proxy needs authentication.
func (p Settings) HasCredentials() bool {
	return p.HasProxy() && p.Username != "" && p.Password != ""
}

// HostPort returns the proxy address without credentials (e.g., "http://geo.iproyal.com:12321").
func (p Settings) HostPort() string {
	if !p.HasProxy() {
		return ""
	}
	return fmt.Sprintf("http://%s:%d", p.Hostname, p.Port)
}

// URL returns the proxy URL including credentials, or nil when no proxy is configured.
func (p Settings) URL() *url.URL {
	if !p.HasProxy() {
		return nil
	}
	u := &url.URL{
		Scheme: "http",
		Host:   fmt.Sprintf("%s:%d", p.Hostname, p.Port),
	}
	if p.Username != "" && p.Password != "" {
		u.User = url.UserPassword(p.Username, p.Password)
	}
	return u
}
