package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/tournevent/ongkir/pkg/rajaongkir"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// RajaOngkir
	APIKey       string            `envconfig:"RAJAONGKIR_API_KEY"`
	AccountTier  string            `envconfig:"RAJAONGKIR_ACCOUNT_TIER" default:"starter"`
	BaseURL      string            `envconfig:"RAJAONGKIR_BASE_URL"`
	// ExtraHeaders is parsed as name:value,name:value. envconfig splits each
	// pair on ":", so values containing a colon or a comma cannot be set here.
	ExtraHeaders map[string]string `envconfig:"RAJAONGKIR_EXTRA_HEADERS"`
	Timeout      time.Duration     `envconfig:"RAJAONGKIR_TIMEOUT" default:"30s"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"ongkir"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the RajaOngkir settings without building a client.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("RAJAONGKIR_API_KEY: %w", rajaongkir.ErrMissingAPIKey)
	}
	if _, err := rajaongkir.ParseAccountTier(c.AccountTier); err != nil {
		return fmt.Errorf("RAJAONGKIR_ACCOUNT_TIER: %w", err)
	}
	return nil
}

// ClientConfig maps the settings onto a RajaOngkir client configuration.
func (c *Config) ClientConfig() rajaongkir.Config {
	return rajaongkir.Config{
		APIKey:       c.APIKey,
		AccountTier:  rajaongkir.AccountTier(c.AccountTier),
		BaseURL:      c.BaseURL,
		ExtraHeaders: c.ExtraHeaders,
		Timeout:      c.Timeout,
	}
}

// Attributes returns OpenTelemetry attributes for this configuration.
// The API key is never included.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.String("rajaongkir.account_tier", c.AccountTier),
		attribute.Bool("rajaongkir.base_url_override", c.BaseURL != ""),
	}
}
