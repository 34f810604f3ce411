package nethttp

import (
	"fmt"
	"time"

	"github.com/kbukum/oauth2http/validation"
	"github.com/kbukum/oauth2http/version"
)

const (
	defaultTimeout = 30 * time.Second
	// defaultMaxBodyBytes bounds response bodies; token endpoint replies are small.
	defaultMaxBodyBytes = 1 << 20
)

// Config configures the net/http transport.
type Config struct {
	// Timeout bounds a whole exchange, body included. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// TLS configures the client side of TLS. Nil uses system defaults.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Headers are added to every request unless the request already sets them.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// UserAgent is sent when the request has none. Defaults to oauth2http/<version>.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// HTTP2 enables HTTP/2 on the customised transport.
	HTTP2 bool `yaml:"http2" mapstructure:"http2"`

	// MaxBodyBytes caps the response body size. Defaults to 1 MiB.
	MaxBodyBytes int64 `yaml:"max_body_bytes" mapstructure:"max_body_bytes" validate:"gte=0"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = version.UserAgent()
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = defaultMaxBodyBytes
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("nethttp: %w", err)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("nethttp: timeout must be positive")
	}
	if err := c.TLS.Validate(); err != nil {
		return err
	}
	return nil
}
