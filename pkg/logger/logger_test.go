package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewZapLogger(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{
			name:   "default config",
			config: DefaultConfig(),
		},
		{
			name:   "debug level json format",
			config: Config{Level: DebugLevel, Format: JSONFormat},
		},
		{
			name:   "console format",
			config: Config{Level: InfoLevel, Format: ConsoleFormat},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewZapLogger(tt.config)
			assert.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := MustNew(Config{Level: DebugLevel, Format: JSONFormat, Output: &buf})

	log.With(String("loader", "classifier")).Info("loaded", Int("connectors", 3))
	require.NoError(t, log.Sync())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "loaded", entry["msg"])
	assert.Equal(t, "classifier", entry["loader"])
	assert.Equal(t, float64(3), entry["connectors"])
}

func TestLoggerMasksSensitiveFields(t *testing.T) {
	var buf bytes.Buffer
	log := MustNew(Config{Level: InfoLevel, Format: JSONFormat, Output: &buf})

	log.Info("entry",
		String("connector", "stripe"),
		String("api_key", "sk_test_abc"),
		String("api_secret", "shh"),
	)

	out := buf.String()
	assert.Contains(t, out, "stripe")
	assert.NotContains(t, out, "sk_test_abc")
	assert.NotContains(t, out, "shh")
	assert.Contains(t, out, RedactedPlaceholder)
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := MustNew(Config{Level: WarnLevel, Format: JSONFormat, Output: &buf})

	log.Info("hidden")
	log.Debug("hidden too")
	assert.Empty(t, buf.String())

	log.Warn("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	log := MustNew(Config{Level: InfoLevel, Format: JSONFormat, Output: &buf})

	// no span: same logger back
	assert.Equal(t, log, log.WithContext(context.Background()))

	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	log.WithContext(ctx).Info("traced")
	assert.Contains(t, buf.String(), span.SpanContext().TraceID().String())
}

func TestNopLogger(t *testing.T) {
	logger := Nop()
	require.NotNil(t, logger)

	assert.NotPanics(t, func() {
		logger.Debug("test message", String("key", "value"))
		logger.Info("test message", Bool("ok", true))
		logger.Warn("test message", Strings("list", []string{"a"}))
		logger.Error("test message", Int("n", 1))
	})
	assert.NoError(t, logger.Sync())
}

func TestParseLevelAndFormat(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("debug"))
	assert.Equal(t, ErrorLevel, ParseLevel("error"))
	assert.Equal(t, InfoLevel, ParseLevel("verbose"))
	assert.Equal(t, ConsoleFormat, ParseFormat("console"))
	assert.Equal(t, JSONFormat, ParseFormat("yaml"))
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, InfoLevel, config.Level)
	assert.Equal(t, JSONFormat, config.Format)
	assert.Nil(t, config.Output)
}
