// Package config loads the process configuration from config files and the
// environment using viper. A .env file is honoured when present.
package config

import (
	"strings"

	ierr "github.com/entrecon/entrecon/internal/errors"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DeploymentMode identifies how the binary is being run.
type DeploymentMode string

const (
	ModeLocal DeploymentMode = "local"
	ModeCLI   DeploymentMode = "cli"
)

type Configuration struct {
	Deployment DeploymentConfig `mapstructure:"deployment"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Connect    ConnectConfig    `mapstructure:"connect"`
	Google     GoogleConfig     `mapstructure:"google"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Sentry     SentryConfig     `mapstructure:"sentry"`
}

type DeploymentConfig struct {
	Mode DeploymentMode `mapstructure:"mode"`
}

type LoggingConfig struct {
	Level          string `mapstructure:"level"`
	FluentdEnabled bool   `mapstructure:"fluentd_enabled"`
	FluentdHost    string `mapstructure:"fluentd_host"`
	FluentdPort    int    `mapstructure:"fluentd_port"`
}

// ConnectConfig holds credentials for the commerce platform. The API key is
// passed through verbatim as the Authorization header of entitlement calls.
type ConnectConfig struct {
	APIKey string `mapstructure:"api_key" validate:"required"`
}

// GoogleConfig tunes the entitlement client transport.
type GoogleConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds" validate:"gte=0"`
}

type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type SentryConfig struct {
	DSN     string `mapstructure:"dsn"`
	Enabled bool   `mapstructure:"enabled"`
}

// NewConfig reads configuration from ./config/config.yaml (when present) and
// the ENTRECON_* environment, then validates it.
func NewConfig() (*Configuration, error) {
	// Load .env if present; ignore errors since env vars may come from
	// the actual environment.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.SetEnvPrefix("ENTRECON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, ierr.WithError(err).
				WithHint("Failed to read configuration file").
				Mark(ierr.ErrSystem)
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to unmarshal configuration").
			Mark(ierr.ErrSystem)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", string(ModeCLI))
	v.SetDefault("logging.level", "info")
	v.SetDefault("google.timeout_seconds", 30)
	v.SetDefault("cache.enabled", true)
}

// Validate checks required fields and value ranges.
func (c *Configuration) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return ierr.WithError(err).
			WithHint("Invalid configuration").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// GetDefaultConfig returns a configuration suitable for tests and early
// bootstrap, before NewConfig has run.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: ModeLocal},
		Logging:    LoggingConfig{Level: "debug"},
		Connect:    ConnectConfig{APIKey: "test-api-key"},
		Google:     GoogleConfig{TimeoutSeconds: 30},
		Cache:      CacheConfig{Enabled: true},
	}
}
