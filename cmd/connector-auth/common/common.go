package common

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/trace"

	"github.com/connector-harness/connector-auth/cmd/connector-auth/version"
	"github.com/connector-harness/connector-auth/internal/config"
	"github.com/connector-harness/connector-auth/internal/connectorauth"
	"github.com/connector-harness/connector-auth/pkg/errors"
	"github.com/connector-harness/connector-auth/pkg/logger"
	"github.com/connector-harness/connector-auth/pkg/metrics"
	"github.com/connector-harness/connector-auth/pkg/tracing"
)

// EnvPrefix is the viper prefix for flag environment variables
const EnvPrefix = "CONNECTOR_AUTH"

type Flags struct {
	ConfigFile string
	AuthFile   string
	Features   string
	LogLevel   string
	LogFormat  string

	// MetricsFile receives the load metrics in Prometheus text format
	MetricsFile string

	Output  string
	Strict  bool
	Address string

	// EnableMetrics is set by commands that always expose metrics
	EnableMetrics bool
}

// InitViper makes every flag readable from CONNECTOR_AUTH_<FLAG_NAME>.
// auth-file is the exception and reads CONNECTOR_AUTH_FILE_PATH, the
// variable the loaders use.
func InitViper() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("auth-file", connectorauth.EnvAuthFilePath)
}

// BindPersistentFlags binds the persistent flags of cmd to viper
func BindPersistentFlags(cmd *cobra.Command) {
	_ = viper.BindPFlags(cmd.PersistentFlags())
}

// BindCommandFlags binds the local flags of cmd to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// BindFlagsToViper copies values viper knows about (explicit flags or
// environment) into flags. Keys viper has no value for keep their current
// value.
func BindFlagsToViper(flags *Flags) {
	bindString := func(key string, target *string) {
		if viper.IsSet(key) {
			*target = viper.GetString(key)
		}
	}

	bindString("config", &flags.ConfigFile)
	bindString("auth-file", &flags.AuthFile)
	bindString("features", &flags.Features)
	bindString("log-level", &flags.LogLevel)
	bindString("log-format", &flags.LogFormat)
	bindString("metrics-file", &flags.MetricsFile)
	bindString("output", &flags.Output)
	bindString("address", &flags.Address)

	if viper.IsSet("strict") {
		flags.Strict = viper.GetBool("strict")
	}
}

// LoadConfig builds the harness configuration: defaults, then the config
// file, then the environment, then flags.
func LoadConfig(flags *Flags) (*config.Config, error) {
	overrides := &config.Config{
		AuthFile: flags.AuthFile,
		Features: config.SplitList(flags.Features),
		Log: config.LogConfig{
			Level:  flags.LogLevel,
			Format: flags.LogFormat,
		},
	}

	return config.Load(
		config.WithConfigFile(flags.ConfigFile),
		config.WithEnv(),
		config.WithOverrides(overrides),
	)
}

func CreateLogger(cfg *config.Config) (logger.Logger, error) {
	logCfg := cfg.LoggerConfig()
	// stdout is reserved for command output
	logCfg.Output = os.Stderr
	return logger.New(logCfg)
}

// Runtime bundles what a command needs to run a loader
type Runtime struct {
	Config *config.Config
	Logger logger.Logger
	Loader connectorauth.Loader

	registry    *prometheus.Registry
	tracing     *tracing.Provider
	metricsFile string
}

// NewRuntime loads the configuration and wires logging, metrics and tracing
// into a loader.
func NewRuntime(ctx context.Context, flags *Flags) (*Runtime, error) {
	BindFlagsToViper(flags)

	cfg, err := LoadConfig(flags)
	if err != nil {
		return nil, err
	}

	log, err := CreateLogger(cfg)
	if err != nil {
		return nil, err
	}

	features, err := cfg.FeatureSet()
	if err != nil {
		return nil, err
	}

	provider, err := tracing.NewProvider(ctx, cfg.TracingConfig(version.Version))
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, err, "failed to set up tracing")
	}

	rt := &Runtime{
		Config:      cfg,
		Logger:      log,
		tracing:     provider,
		metricsFile: flags.MetricsFile,
	}

	opts := []connectorauth.Option{
		connectorauth.WithSource(cfg.Source()),
		connectorauth.WithLogger(log),
		connectorauth.WithFeatures(features),
		connectorauth.WithTracer(provider.Tracer()),
	}
	if cfg.Metrics.Enabled || flags.MetricsFile != "" || flags.EnableMetrics {
		rt.registry = prometheus.NewRegistry()
		metricsCfg := cfg.MetricsConfig()
		metricsCfg.Registry = rt.registry
		opts = append(opts, connectorauth.WithMetrics(metrics.NewMetrics(metricsCfg)))
	}
	rt.Loader = connectorauth.NewLoader(opts...)

	log.Debug("Runtime ready",
		logger.Strings("features", features.List()),
		logger.Bool("metrics", rt.registry != nil),
		logger.Bool("tracing", cfg.Tracing.Enabled),
	)
	return rt, nil
}

// Gatherer returns the metrics registry, nil when metrics are off
func (r *Runtime) Gatherer() prometheus.Gatherer {
	if r.registry == nil {
		return nil
	}
	return r.registry
}

// Close writes the metrics file, flushes traces and syncs the logger
func (r *Runtime) Close(ctx context.Context) error {
	var firstErr error
	if r.metricsFile != "" && r.registry != nil {
		if err := prometheus.WriteToTextfile(r.metricsFile, r.registry); err != nil {
			firstErr = errors.Wrap(errors.ErrInternal, err, "failed to write metrics file").
				WithField("path", r.metricsFile)
		}
	}
	if err := r.tracing.Shutdown(ctx); err != nil && firstErr == nil {
		firstErr = errors.Wrap(errors.ErrInternal, err, "failed to flush traces")
	}
	_ = r.Logger.Sync()
	return firstErr
}

func SetupSignalHandler() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// StartSpan opens the span that parents every load of one command run
func (r *Runtime) StartSpan(ctx context.Context, command string) (context.Context, trace.Span) {
	return r.tracing.StartSpan(ctx, "connector-auth "+command)
}

// FormatError renders an error for the terminal. Application errors are
// redacted first; their remaining context fields follow the message in key
// order. The "errors" list is left to the commands that print it.
func FormatError(err error) string {
	var appErr *errors.Error
	if !errors.As(err, &appErr) {
		return err.Error()
	}

	redacted := appErr.Redact()
	msg := fmt.Sprintf("[%s] %s", redacted.Code, redacted.Error())

	keys := make([]string, 0, len(redacted.Fields))
	for k := range redacted.Fields {
		if k != "errors" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		msg += fmt.Sprintf(" %s=%v", k, redacted.Fields[k])
	}
	return msg
}
