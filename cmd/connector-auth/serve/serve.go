package serve

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/connector-harness/connector-auth/cmd/connector-auth/common"
	"github.com/connector-harness/connector-auth/internal/connectorauth"
	"github.com/connector-harness/connector-auth/pkg/health"
	"github.com/connector-harness/connector-auth/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func NewCommand(flags *common.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve readiness and metrics for the connector auth file",
		Long: `Run an HTTP server for harness deployments that mount the connector auth file.

/readyz loads the auth file through both loaders on every request and fails
while the file is missing, malformed or does not match the static connector
record. /metrics exposes the load metrics.

Examples:
  connector-auth serve --address :8080 --auth-file /harness/sample_auth.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.Address, "address", ":8080", "Address to listen on")

	// Bind flags to viper for environment variable support
	_ = common.BindCommandFlags(cmd)

	return cmd
}

func run(ctx context.Context, flags *common.Flags) (err error) {
	flags.EnableMetrics = true
	rt, err := common.NewRuntime(ctx, flags)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if closeErr := rt.Close(closeCtx); err == nil {
			err = closeErr
		}
	}()

	config := health.DefaultConfig()
	config.Address = flags.Address
	config.Logger = rt.Logger
	config.Gatherer = rt.Gatherer()

	server := health.NewServer(config)
	server.RegisterCheck("auth_file", AuthFileCheck(rt.Loader))

	if err := server.Start(); err != nil {
		return err
	}

	<-ctx.Done()
	rt.Logger.Info("Shutting down", logger.String("reason", ctx.Err().Error()))

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Stop(stopCtx)
}

// AuthFileCheck reports ready when both loaders can build their result from
// the current auth file
func AuthFileCheck(loader connectorauth.Loader) health.Check {
	return health.CombinedCheck(
		func(ctx context.Context) error {
			_, err := loader.LoadAuthentication(ctx)
			return err
		},
		func(ctx context.Context) error {
			_, err := loader.LoadAuthenticationMap(ctx)
			return err
		},
	)
}
