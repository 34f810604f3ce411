package cmd

import (
	"fmt"
	"strings"

	"golang.org/x/oauth2"

	"github.com/kbukum/oauth2http/config"
	"github.com/kbukum/oauth2http/nethttp"
	"github.com/kbukum/oauth2http/validation"
)

const serviceName = "oauth2http"

// Config is the CLI configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	OAuth2    OAuth2Config    `yaml:"oauth2" mapstructure:"oauth2"`
	Transport nethttp.Config  `yaml:"transport" mapstructure:"transport"`
	Telemetry TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
}

// OAuth2Config describes the client registration and provider endpoints.
type OAuth2Config struct {
	ClientID      string   `yaml:"client_id" mapstructure:"client_id" validate:"required"`
	ClientSecret  string   `yaml:"client_secret" mapstructure:"client_secret"`
	AuthURL       string   `yaml:"auth_url" mapstructure:"auth_url" validate:"omitempty,url"`
	TokenURL      string   `yaml:"token_url" mapstructure:"token_url" validate:"required,url"`
	DeviceAuthURL string   `yaml:"device_auth_url" mapstructure:"device_auth_url" validate:"omitempty,url"`
	RevokeURL     string   `yaml:"revoke_url" mapstructure:"revoke_url" validate:"omitempty,url"`
	RedirectURL   string   `yaml:"redirect_url" mapstructure:"redirect_url" validate:"omitempty,url"`
	AuthStyle     string   `yaml:"auth_style" mapstructure:"auth_style" validate:"omitempty,oneof=auto header params"`
	Scopes        []string `yaml:"scopes" mapstructure:"scopes"`
}

// TelemetryConfig enables OTLP tracing and metrics.
type TelemetryConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Transport.ApplyDefaults()
	if c.OAuth2.AuthStyle == "" {
		c.OAuth2.AuthStyle = "auto"
	}
	if c.Telemetry.Endpoint == "" {
		c.Telemetry.Endpoint = "localhost:4318"
	}
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	v := validation.New()
	v.Merge("oauth2", validation.Struct(&c.OAuth2))
	v.Merge("telemetry", validation.Struct(&c.Telemetry))
	if err := v.Err(); err != nil {
		return err
	}
	return c.Transport.Validate()
}

// loadConfig reads config.yml, .env and OAUTH2HTTP_* variables.
func loadConfig(configFile, envFile string) (*Config, error) {
	var opts []config.LoaderOption
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}

	cfg := &Config{}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// OAuth2 returns the x/oauth2 client configuration.
func (c *OAuth2Config) OAuth2() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURL,
		Scopes:       c.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:       c.AuthURL,
			TokenURL:      c.TokenURL,
			DeviceAuthURL: c.DeviceAuthURL,
			AuthStyle:     authStyle(c.AuthStyle),
		},
	}
}

func authStyle(s string) oauth2.AuthStyle {
	switch strings.ToLower(s) {
	case "header":
		return oauth2.AuthStyleInHeader
	case "params":
		return oauth2.AuthStyleInParams
	default:
		return oauth2.AuthStyleAutoDetect
	}
}
