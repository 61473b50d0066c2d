// Package config defines client and sandbox configuration and its loader.
//
// Conventions:
// - Defaults live in New; Load layers a YAML file and OCTOFIT_* env on top.
// - Durations are configured in milliseconds and exposed through accessors.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Base URL fallbacks mirror the upstream deployment: a GitHub Codespace
// forwards port 8000, local runs talk to localhost.
const (
	codespaceURLFormat = "https://%s-8000.app.github.dev"
	localBaseURL       = "http://localhost:8000"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// BaseURL is the upstream API origin, without the /api suffix.
	// When empty it is derived from CodespaceName.
	BaseURL string `koanf:"base_url"`

	// CodespaceName is the GitHub Codespace hosting the upstream API.
	CodespaceName string `koanf:"codespace_name"`

	// RequestTimeoutMS bounds every upstream request.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// SaveCloseDelayMS is how long a successful edit stays visible before
	// the draft closes.
	SaveCloseDelayMS int `koanf:"save_close_delay_ms"`

	// RefreshIntervalMS is the re-mount period of the watch command.
	RefreshIntervalMS int `koanf:"refresh_interval_ms"`

	// MetricsAddr is where watch exposes Prometheus metrics. Empty disables it.
	MetricsAddr string `koanf:"metrics_addr"`

	// SandboxAddr is the listen address of the local upstream stand-in.
	SandboxAddr string `koanf:"sandbox_addr"`

	// SandboxEnvelope wraps sandbox list responses in {"count", "results"}.
	SandboxEnvelope bool `koanf:"sandbox_envelope"`

	// SandboxEmbedMembers serializes team members as partial user objects
	// instead of bare identifiers.
	SandboxEmbedMembers bool `koanf:"sandbox_embed_members"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		RequestTimeoutMS:    10_000,
		SaveCloseDelayMS:    900,
		RefreshIntervalMS:   10_000,
		MetricsAddr:         "",
		SandboxAddr:         ":8000",
		SandboxEnvelope:     false,
		SandboxEmbedMembers: true,
	}
}

// APIBaseURL returns the upstream origin, deriving it from the codespace
// name when no explicit base URL is configured.
func (c *Config) APIBaseURL() string {
	if u := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/"); u != "" {
		return u
	}
	if name := strings.TrimSpace(c.CodespaceName); name != "" {
		return fmt.Sprintf(codespaceURLFormat, name)
	}
	return localBaseURL
}

// RequestTimeout returns RequestTimeoutMS as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// SaveCloseDelay returns SaveCloseDelayMS as a duration.
func (c *Config) SaveCloseDelay() time.Duration {
	return time.Duration(c.SaveCloseDelayMS) * time.Millisecond
}

// RefreshInterval returns RefreshIntervalMS as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalMS) * time.Millisecond
}

// Validate reports the first invalid setting, wrapped with ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.RequestTimeoutMS <= 0:
		return fmt.Errorf("%w: request_timeout_ms must be positive", ErrInvalidConfig)
	case c.SaveCloseDelayMS < 0:
		return fmt.Errorf("%w: save_close_delay_ms must not be negative", ErrInvalidConfig)
	case c.RefreshIntervalMS <= 0:
		return fmt.Errorf("%w: refresh_interval_ms must be positive", ErrInvalidConfig)
	case strings.TrimSpace(c.SandboxAddr) == "":
		return fmt.Errorf("%w: sandbox_addr must not be empty", ErrInvalidConfig)
	}
	if u := strings.TrimSpace(c.BaseURL); u != "" &&
		!strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return fmt.Errorf("%w: base_url must start with http:// or https://", ErrInvalidConfig)
	}
	return nil
}
