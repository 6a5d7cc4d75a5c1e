package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/connector-harness/connector-auth/internal/connectorauth"
	"github.com/connector-harness/connector-auth/pkg/errors"
)

// EnvPrefix prefixes every environment variable read by the loader
const EnvPrefix = "CONNECTOR_AUTH_"

// LoadOption is a functional option for loading configuration
type LoadOption func(*loadOptions)

type loadOptions struct {
	configFile string
	fromEnv    bool
	overrides  *Config
}

// WithConfigFile specifies the config file path
func WithConfigFile(path string) LoadOption {
	return func(o *loadOptions) {
		o.configFile = path
	}
}

// WithEnv enables environment variable overrides
func WithEnv() LoadOption {
	return func(o *loadOptions) {
		o.fromEnv = true
	}
}

// WithOverrides merges cfg on top of file and environment values. The CLI
// passes its flags this way.
func WithOverrides(cfg *Config) LoadOption {
	return func(o *loadOptions) {
		o.overrides = cfg
	}
}

// Load loads configuration with the given options
func Load(opts ...LoadOption) (*Config, error) {
	options := &loadOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Start with default config
	config := DefaultConfig()

	// Fields missing from the file keep their defaults
	if options.configFile != "" {
		if err := loadFromFile(options.configFile, config); err != nil {
			return nil, err
		}
	}

	if options.fromEnv {
		if err := applyEnv(config); err != nil {
			return nil, err
		}
	}

	config.Merge(options.overrides)

	if err := Validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// loadFromFile decodes a YAML file on top of config
func loadFromFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(
			errors.ErrConfigLoadFailed,
			err,
			"failed to read config file",
		).WithField("path", path)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return errors.Wrap(
			errors.ErrConfigInvalid,
			err,
			"failed to parse config file",
		).WithField("path", path)
	}

	return nil
}

// applyEnv overrides config with the CONNECTOR_AUTH_* variables that are set
func applyEnv(config *Config) error {
	config.AuthFile = getEnv(connectorauth.EnvAuthFilePath, config.AuthFile)
	if features := getEnv(EnvPrefix+"FEATURES", ""); features != "" {
		config.Features = SplitList(features)
	}

	config.Log.Level = getEnv(EnvPrefix+"LOG_LEVEL", config.Log.Level)
	config.Log.Format = getEnv(EnvPrefix+"LOG_FORMAT", config.Log.Format)

	var err error
	if config.Metrics.Enabled, err = getBoolEnv(EnvPrefix+"METRICS_ENABLED", config.Metrics.Enabled); err != nil {
		return err
	}
	config.Metrics.Namespace = getEnv(EnvPrefix+"METRICS_NAMESPACE", config.Metrics.Namespace)

	if config.Tracing.Enabled, err = getBoolEnv(EnvPrefix+"TRACING_ENABLED", config.Tracing.Enabled); err != nil {
		return err
	}
	config.Tracing.Endpoint = getEnv(EnvPrefix+"TRACING_ENDPOINT", config.Tracing.Endpoint)
	if config.Tracing.Insecure, err = getBoolEnv(EnvPrefix+"TRACING_INSECURE", config.Tracing.Insecure); err != nil {
		return err
	}
	if config.Tracing.SamplingRatio, err = getFloatEnv(EnvPrefix+"TRACING_SAMPLING_RATIO", config.Tracing.SamplingRatio); err != nil {
		return err
	}
	config.Tracing.ServiceName = getEnv(EnvPrefix+"TRACING_SERVICE_NAME", config.Tracing.ServiceName)

	return nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnv gets a boolean environment variable with a default value
func getBoolEnv(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue, envError(key, err)
	}
	return boolVal, nil
}

// getFloatEnv gets a float environment variable with a default value
func getFloatEnv(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue, envError(key, err)
	}
	return floatVal, nil
}

func envError(key string, err error) error {
	return errors.Wrap(
		errors.ErrConfigInvalid,
		err,
		"invalid environment variable value",
	).WithField("variable", key)
}

// SplitList splits a comma-separated list, dropping empty items
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
