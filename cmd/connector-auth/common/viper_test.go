package common

import (
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connector-harness/connector-auth/internal/connectorauth"
	"github.com/connector-harness/connector-auth/internal/testutil"
	"github.com/connector-harness/connector-auth/pkg/errors"
)

func TestInitViper(t *testing.T) {
	viper.Reset()
	InitViper()

	t.Setenv("CONNECTOR_AUTH_TEST_KEY", "test-value")

	// Viper should automatically read the env var
	value := viper.GetString("test-key")
	assert.Equal(t, "test-value", value, "Viper should read environment variable with prefix")
}

func TestInitViper_AuthFileUsesLoaderVariable(t *testing.T) {
	viper.Reset()
	InitViper()

	t.Setenv(connectorauth.EnvAuthFilePath, "/harness/sample_auth.toml")
	t.Setenv("CONNECTOR_AUTH_AUTH_FILE", "/ignored.toml")

	assert.Equal(t, "/harness/sample_auth.toml", viper.GetString("auth-file"))
}

func TestBindFlagsToViper(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		initial  *Flags
		expected *Flags
	}{
		{
			name: "bind log-level from env",
			envVars: map[string]string{
				"CONNECTOR_AUTH_LOG_LEVEL": "debug",
			},
			initial:  &Flags{LogLevel: "info"},
			expected: &Flags{LogLevel: "debug"},
		},
		{
			name: "bind features from env",
			envVars: map[string]string{
				"CONNECTOR_AUTH_FEATURES": "dummy_connector",
			},
			initial:  &Flags{},
			expected: &Flags{Features: "dummy_connector"},
		},
		{
			name: "multiple env vars",
			envVars: map[string]string{
				"CONNECTOR_AUTH_LOG_LEVEL":    "warn",
				"CONNECTOR_AUTH_LOG_FORMAT":   "console",
				"CONNECTOR_AUTH_FILE_PATH":    "/vault/secrets/auth.toml",
				"CONNECTOR_AUTH_METRICS_FILE": "/tmp/auth.prom",
			},
			initial: &Flags{},
			expected: &Flags{
				LogLevel:    "warn",
				LogFormat:   "console",
				AuthFile:    "/vault/secrets/auth.toml",
				MetricsFile: "/tmp/auth.prom",
			},
		},
		{
			name:     "no env vars keeps current values",
			envVars:  map[string]string{},
			initial:  &Flags{LogLevel: "info", LogFormat: "json"},
			expected: &Flags{LogLevel: "info", LogFormat: "json"},
		},
		{
			name: "empty env var keeps current value",
			envVars: map[string]string{
				"CONNECTOR_AUTH_LOG_LEVEL": "",
			},
			initial:  &Flags{LogLevel: "info"},
			expected: &Flags{LogLevel: "info"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(connectorauth.EnvAuthFilePath, "")
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			viper.Reset()
			InitViper()

			flags := tt.initial
			BindFlagsToViper(flags)

			assert.Equal(t, tt.expected, flags)
		})
	}
}

func TestBindCommandFlags(t *testing.T) {
	viper.Reset()
	InitViper()

	cmd := &cobra.Command{
		Use: "test",
	}

	var testFlag string
	cmd.Flags().StringVar(&testFlag, "test-flag", "", "test flag")

	err := BindCommandFlags(cmd)
	require.NoError(t, err)

	t.Setenv("CONNECTOR_AUTH_TEST_FLAG", "test-value")

	value := viper.GetString("test-flag")
	assert.Equal(t, "test-value", value)
}

func TestBindPersistentFlags(t *testing.T) {
	viper.Reset()
	InitViper()

	rootCmd := &cobra.Command{
		Use: "root",
	}

	var testFlag string
	rootCmd.PersistentFlags().StringVar(&testFlag, "persistent-flag", "", "persistent test flag")

	BindPersistentFlags(rootCmd)

	// An explicitly set flag wins over the environment
	t.Setenv("CONNECTOR_AUTH_PERSISTENT_FLAG", "persistent-value")
	assert.Equal(t, "persistent-value", viper.GetString("persistent-flag"))

	require.NoError(t, rootCmd.PersistentFlags().Set("persistent-flag", "from-flag"))
	assert.Equal(t, "from-flag", viper.GetString("persistent-flag"))
}

func TestLoadConfig(t *testing.T) {
	t.Setenv(connectorauth.EnvAuthFilePath, "/from/env.toml")
	t.Setenv("CONNECTOR_AUTH_LOG_LEVEL", "warn")

	cfg, err := LoadConfig(&Flags{
		Features:  "dummy_connector",
		LogFormat: "console",
	})
	require.NoError(t, err)

	assert.Equal(t, "/from/env.toml", cfg.AuthFile)
	assert.Equal(t, []string{"dummy_connector"}, cfg.Features)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)

	_, err = LoadConfig(&Flags{LogLevel: "loud"})
	assert.True(t, errors.Is(err, errors.ErrValidationFailed))
}

func TestNewRuntime(t *testing.T) {
	viper.Reset()
	InitViper()
	t.Setenv(connectorauth.EnvAuthFilePath, "")

	path := testutil.WriteAuthFile(t, testutil.SampleAuthTOML)
	ctx := context.Background()

	rt, err := NewRuntime(ctx, &Flags{AuthFile: path, Features: "dummy_connector", LogLevel: "error"})
	require.NoError(t, err)

	spanCtx, span := rt.StartSpan(ctx, "check")
	assert.True(t, span.SpanContext().IsValid())

	auth, err := rt.Loader.LoadAuthentication(spanCtx)
	require.NoError(t, err)
	assert.NotNil(t, auth.DummyConnector)
	span.End()

	assert.NoError(t, rt.Close(ctx))
}
