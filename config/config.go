package config

import (
	"fmt"

	"github.com/LoohanZinho/joraps/gateway"
	"github.com/LoohanZinho/joraps/kv"
	"github.com/LoohanZinho/joraps/logger"
	"github.com/LoohanZinho/joraps/media"
	"github.com/LoohanZinho/joraps/server"
)

// ServiceConfig contains the essential configuration fields every service needs.
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults applies default values to the base configuration.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Logging.ServiceName == "" && c.Name != "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()
}

// Validate validates the base configuration fields.
func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	validEnvs := []string{"development", "staging", "production"}
	found := false
	for _, v := range validEnvs {
		if c.Environment == v {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("config.environment must be one of [development, staging, production] (got: %s)", c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}

// StoreConfig holds persistence settings. State lives in local JSON files
// by default; setting a Redis address moves it there instead.
type StoreConfig struct {
	// DataDir is the directory holding the key-value state files
	// (transcription history, preference flags).
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`
	// StagingDir is the directory holding staged upload previews.
	StagingDir string `yaml:"staging_dir" mapstructure:"staging_dir"`
	// Redis, when its Addr is set, replaces the file-backed key-value
	// store.
	Redis kv.RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// ApplyDefaults fills in default store paths.
func (c *StoreConfig) ApplyDefaults() {
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
	if c.StagingDir == "" {
		c.StagingDir = "./data/staging"
	}
	c.Redis.ApplyDefaults()
}

// TracingConfig holds OpenTelemetry tracing configuration.
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// ApplyDefaults fills in tracing defaults.
func (c *TracingConfig) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
}

// Config is the full application configuration.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server  server.Config          `yaml:"server" mapstructure:"server"`
	Gateway gateway.Config         `yaml:"gateway" mapstructure:"gateway"`
	Capture media.ExecDeviceConfig `yaml:"capture" mapstructure:"capture"`
	Store   StoreConfig            `yaml:"store" mapstructure:"store"`
	Tracing TracingConfig          `yaml:"tracing" mapstructure:"tracing"`
}

// ApplyDefaults applies defaults to every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "joraps"
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Gateway.ApplyDefaults()
	c.Capture.ApplyDefaults()
	c.Store.ApplyDefaults()
	c.Tracing.ApplyDefaults()
}

// Validate validates every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("config.server: %w", err)
	}
	if err := c.Gateway.Validate(); err != nil {
		return fmt.Errorf("config.gateway: %w", err)
	}
	return nil
}
