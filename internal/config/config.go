package config

import (
	"strings"

	"github.com/connector-harness/connector-auth/internal/connectorauth"
	"github.com/connector-harness/connector-auth/pkg/logger"
	"github.com/connector-harness/connector-auth/pkg/metrics"
	"github.com/connector-harness/connector-auth/pkg/tracing"
)

// Config represents the complete harness configuration
type Config struct {
	// AuthFile is the connector auth TOML file. Empty defers to
	// CONNECTOR_AUTH_FILE_PATH at load time.
	AuthFile string `yaml:"auth_file"`

	// Features lists the build features to enable (e.g. dummy_connector)
	Features []string `yaml:"features" validate:"dive,required"`

	// Log configuration
	Log LogConfig `yaml:"log" validate:"required"`

	// Metrics configuration
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing configuration
	Tracing TracingConfig `yaml:"tracing"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	// Level is the log level (debug, info, warn, error)
	Level string `yaml:"level" validate:"required,oneof=debug info warn error"`

	// Format is the log format (json, console)
	Format string `yaml:"format" validate:"required,oneof=json console"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	// Enabled determines if load metrics are recorded
	Enabled bool `yaml:"enabled"`

	// Namespace prefixes every metric name
	Namespace string `yaml:"namespace" validate:"omitempty,metric_namespace"`
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector endpoint
	Endpoint string `yaml:"endpoint" validate:"required_if=Enabled true"`

	Insecure bool `yaml:"insecure"`

	// SamplingRatio is the ratio of traces to sample (0.0 to 1.0)
	SamplingRatio float64 `yaml:"sampling_ratio" validate:"min=0,max=1"`

	ServiceName string `yaml:"service_name" validate:"required"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	logDefaults := logger.DefaultConfig()
	tracingDefaults := tracing.DefaultConfig()
	return &Config{
		Log: LogConfig{
			Level:  string(logDefaults.Level),
			Format: string(logDefaults.Format),
		},
		Metrics: MetricsConfig{
			Enabled:   false,
			Namespace: metrics.DefaultConfig().Namespace,
		},
		Tracing: TracingConfig{
			Enabled:       tracingDefaults.Enabled,
			Endpoint:      tracingDefaults.Endpoint,
			Insecure:      tracingDefaults.Insecure,
			SamplingRatio: tracingDefaults.SamplingRatio,
			ServiceName:   tracingDefaults.ServiceName,
		},
	}
}

// Merge merges the given config into this config.
// Non-zero values from other take precedence.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.AuthFile != "" {
		c.AuthFile = other.AuthFile
	}
	if len(other.Features) > 0 {
		c.Features = append([]string(nil), other.Features...)
	}

	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.Format != "" {
		c.Log.Format = other.Log.Format
	}

	if other.Metrics.Namespace != "" {
		c.Metrics.Namespace = other.Metrics.Namespace
	}
	if other.Tracing.Endpoint != "" {
		c.Tracing.Endpoint = other.Tracing.Endpoint
	}
	if other.Tracing.ServiceName != "" {
		c.Tracing.ServiceName = other.Tracing.ServiceName
	}
}

// linkTimeFeatures returns the features compiled into the binary
var linkTimeFeatures = connectorauth.DefaultFeatures

// FeatureSet parses Features into the set the loaders consume. Configured
// features extend the ones enabled at link time and never remove them.
func (c *Config) FeatureSet() (connectorauth.Features, error) {
	configured, err := connectorauth.ParseFeatures(strings.Join(c.Features, ","))
	if err != nil {
		return connectorauth.Features{}, err
	}
	return linkTimeFeatures().Union(configured), nil
}

// Source returns the auth document source for AuthFile
func (c *Config) Source() connectorauth.Source {
	return connectorauth.NewFileSource(c.AuthFile)
}

// LoggerConfig converts the log section into a logger.Config
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:  logger.ParseLevel(c.Log.Level),
		Format: logger.ParseFormat(c.Log.Format),
	}
}

// MetricsConfig converts the metrics section into a metrics.Config
func (c *Config) MetricsConfig() metrics.Config {
	cfg := metrics.DefaultConfig()
	cfg.Namespace = c.Metrics.Namespace
	return cfg
}

// TracingConfig converts the tracing section into a tracing.Config
func (c *Config) TracingConfig(version string) tracing.Config {
	return tracing.Config{
		Enabled:        c.Tracing.Enabled,
		ServiceName:    c.Tracing.ServiceName,
		ServiceVersion: version,
		Endpoint:       c.Tracing.Endpoint,
		Insecure:       c.Tracing.Insecure,
		SamplingRatio:  c.Tracing.SamplingRatio,
	}
}
