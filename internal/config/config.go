package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the SDK tooling.
type Config struct {
	// EasyPost API
	APIKey  string        `envconfig:"EASYPOST_API_KEY"`
	BaseURL string        `envconfig:"EASYPOST_BASE_URL" default:"https://api.easypost.com/v2"`
	Timeout time.Duration `envconfig:"EASYPOST_TIMEOUT" default:"30s"`

	// Webhook receiver
	Port          int    `envconfig:"PORT" default:"8080"`
	WebhookSecret string `envconfig:"EASYPOST_WEBHOOK_SECRET"`

	// Telemetry
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"tournevent-easypost"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.String("easypost.base_url", c.BaseURL),
	}
}
