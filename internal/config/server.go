package config

import (
	"fmt"
	"time"

	"github.com/upkeephq/upkeep/internal/env"
)

// ServerConfig holds all configuration for the server binary.
type ServerConfig struct {
	Database      DatabaseConfig
	HTTP          HTTPConfig
	Auth          AuthConfig
	Attachments   AttachmentsConfig
	Maintenance   MaintenanceConfig
	Observability ObservabilityConfig

	ShutdownTimeout time.Duration `env:"UPKEEP_SHUTDOWN_TIMEOUT"`
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Host              string        `env:"UPKEEP_HTTP_HOST"`
	Port              string        `env:"UPKEEP_HTTP_PORT"`
	ReadTimeout       time.Duration `env:"UPKEEP_HTTP_READ_TIMEOUT"`
	WriteTimeout      time.Duration `env:"UPKEEP_HTTP_WRITE_TIMEOUT"`
	IdleTimeout       time.Duration `env:"UPKEEP_HTTP_IDLE_TIMEOUT"`
	ReadHeaderTimeout time.Duration `env:"UPKEEP_HTTP_READ_HEADER_TIMEOUT"`
	MaxHeaderBytes    int           `env:"UPKEEP_HTTP_MAX_HEADER_BYTES"`
	MaxBodyBytes      int64         `env:"UPKEEP_HTTP_MAX_BODY_BYTES"`
}

// AuthConfig holds the shared keys guarding the API and cron endpoints.
type AuthConfig struct {
	// APIKey is the shared key required on /api requests.
	APIKey string `env:"UPKEEP_API_KEY"`

	// CronSecret guards the /internal/cron endpoints invoked by external schedulers.
	CronSecret string `env:"UPKEEP_CRON_SECRET"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("UPKEEP_API_KEY is required")
	}
	if c.CronSecret == "" {
		return fmt.Errorf("UPKEEP_CRON_SECRET is required")
	}
	return nil
}

// MaintenanceConfig holds maintenance service configuration.
type MaintenanceConfig struct {
	DefaultPageSize int           `env:"UPKEEP_DEFAULT_PAGE_SIZE"`
	MaxPageSize     int           `env:"UPKEEP_MAX_PAGE_SIZE"`
	ApplyTimeout    time.Duration `env:"UPKEEP_PACK_APPLY_TIMEOUT"`
}

// ObservabilityConfig holds observability configuration.
type ObservabilityConfig struct {
	OTelEnabled bool   `env:"UPKEEP_OTEL_ENABLED"`
	ServiceName string `env:"OTEL_SERVICE_NAME"`
}

// LoadServerConfig loads and validates server configuration from environment.
func LoadServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	return cfg, nil
}
