// Package config assembles the account service configuration from the
// environment and an optional YAML file.
package config

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	pkgconfig "github.com/lewisedginton/account_service/pkg/config"
	"github.com/lewisedginton/account_service/pkg/logger"
)

// Config is built once at process start and treated as read-only afterwards.
type Config struct {
	pkgconfig.CommonConfig `yaml:",inline"`

	ServiceName string `env:"SERVICE_NAME" yaml:"service_name" default:"account-service"`
	Version     string `env:"VERSION" yaml:"version" default:"dev"`

	HTTP     pkgconfig.HTTPServerConfig `yaml:"http"`
	Database pkgconfig.DatabaseConfig   `yaml:"database"`
	Metrics  pkgconfig.MetricsConfig    `yaml:"metrics"`
	Health   HealthConfig               `yaml:"health"`
	Security SecurityConfig             `yaml:"security"`
}

// HealthConfig tunes the /health and /ready endpoints
type HealthConfig struct {
	Timeout          time.Duration `env:"HEALTH_TIMEOUT" yaml:"timeout" default:"5s"`
	FailureThreshold int           `env:"HEALTH_FAILURE_THRESHOLD" yaml:"failure_threshold" default:"1"`
}

// Load reads path (when non-empty) and overlays the environment. A missing
// or unreadable file is an error; use LoadFromEnv for environment-only runs.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := pkgconfig.GetConfig(&cfg, path, false); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return &cfg, nil
}

// LoadFromEnv builds the configuration from environment variables and defaults.
func LoadFromEnv() (*Config, error) {
	return Load("")
}

// DatabaseURI returns DATABASE_URI verbatim when set, otherwise the URI
// composed from the DATABASE_* components on port 5432.
func (c *Config) DatabaseURI() string {
	return c.Database.ConnectionString()
}

// Validate checks the ambient settings. The security and database inputs
// are passed through uninterpreted and never fail validation.
func (c *Config) Validate() error {
	var result error

	if err := c.CommonConfig.Validate(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := c.HTTP.Validate(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := c.Database.Validate(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := c.Metrics.Validate(); err != nil {
		result = multierror.Append(result, err)
	}
	if c.Health.Timeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("health timeout must be greater than 0"))
	}

	return result
}

// LogConfig logs the effective configuration without secrets.
func (c *Config) LogConfig(log logger.Logger) {
	log.Info("Application configuration loaded",
		logger.StringField("service_name", c.ServiceName),
		logger.StringField("version", c.Version),
		logger.IntField("http_port", c.HTTP.Port),
		logger.StringField("log_level", c.CommonConfig.LogLevel),
		logger.StringField("log_format", c.LogFormat),
		logger.StringField("database_host", c.Database.Host),
		logger.BoolField("database_uri_override", c.Database.URI != ""),
		logger.BoolField("force_https", bool(c.Security.ForceHTTPS)),
		logger.Field("cors_origins", []string(c.Security.CORSOrigins)),
		logger.BoolField("metrics_exposed", c.Metrics.ExposeMetrics),
	)

	switch {
	case c.Security.UsesDefaultSecret():
		log.Warn("SECRET_KEY is the built-in placeholder; set it before deploying")
	case c.Security.UsesEmptySecret():
		log.Warn("SECRET_KEY is set but empty; set it before deploying")
	}
}
