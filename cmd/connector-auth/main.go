package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/connector-harness/connector-auth/cmd/connector-auth/check"
	"github.com/connector-harness/connector-auth/cmd/connector-auth/common"
	"github.com/connector-harness/connector-auth/cmd/connector-auth/inspect"
	"github.com/connector-harness/connector-auth/cmd/connector-auth/serve"
	"github.com/connector-harness/connector-auth/cmd/connector-auth/version"
)

func newRootCommand() *cobra.Command {
	// Create shared flags struct
	flags := &common.Flags{}

	rootCmd := &cobra.Command{
		Use:   "connector-auth",
		Short: "Inspect and validate payment connector test credentials",
		Long: `connector-auth reads the connector authentication TOML file used by the
payment connector test harness and reports how each entry is classified and
whether the file matches the static per-connector record.

The file path comes from --auth-file or CONNECTOR_AUTH_FILE_PATH.
Credential values are never printed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	rootCmd.PersistentFlags().StringVar(&flags.ConfigFile, "config", "", "Path to harness config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&flags.AuthFile, "auth-file", "", "Path to connector auth TOML file (env: CONNECTOR_AUTH_FILE_PATH)")
	rootCmd.PersistentFlags().StringVar(&flags.Features, "features", "", "Comma-separated build features to enable (e.g. dummy_connector)")
	rootCmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flags.LogFormat, "log-format", "", "Log format (json, console)")
	rootCmd.PersistentFlags().StringVar(&flags.MetricsFile, "metrics-file", "", "Write load metrics to this file in Prometheus text format")

	common.InitViper()
	common.BindPersistentFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(version.NewCommand())
	rootCmd.AddCommand(inspect.NewCommand(flags))
	rootCmd.AddCommand(check.NewCommand(flags))
	rootCmd.AddCommand(serve.NewCommand(flags))

	return rootCmd
}

func main() {
	ctx, cancel := common.SetupSignalHandler()
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", common.FormatError(err))
		cancel()
		os.Exit(1)
	}
}
