package check

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/connector-harness/connector-auth/cmd/connector-auth/common"
	"github.com/connector-harness/connector-auth/internal/connectorauth"
	"github.com/connector-harness/connector-auth/pkg/errors"
	"github.com/connector-harness/connector-auth/pkg/logger"
	"github.com/connector-harness/connector-auth/pkg/tracing"
)

func NewCommand(flags *common.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the connector auth file against the static connector record",
		Long: `Decode the connector auth file into the static per-connector record.

Every known connector entry must carry exactly the fields of its auth shape.
All mismatches are reported at once and the command exits non-zero.

With --strict, entries the classifier would read as a different kind than the
static record expects are reported as failures too.

Examples:
  connector-auth check --auth-file ./sample_auth.toml
  connector-auth check --features dummy_connector --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), flags)
		},
	}

	cmd.Flags().BoolVar(&flags.Strict, "strict", false, "Also fail when the classifier disagrees with the expected connector kind")

	// Bind flags to viper for environment variable support
	_ = common.BindCommandFlags(cmd)

	return cmd
}

func run(ctx context.Context, out, errOut io.Writer, flags *common.Flags) (err error) {
	rt, err := common.NewRuntime(ctx, flags)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := rt.Close(ctx); err == nil {
			err = closeErr
		}
	}()

	ctx, span := rt.StartSpan(ctx, "check")
	defer func() { tracing.EndSpan(span, err) }()

	auth, err := rt.Loader.LoadAuthentication(ctx)
	if err != nil {
		printShapeErrors(errOut, err)
		return err
	}

	configured := auth.Connectors()
	for _, name := range configured {
		kind, _ := connectorauth.ExpectedKind(name)
		fmt.Fprintf(out, "ok  %-18s %s\n", name, kind)
	}

	if flags.Strict {
		mismatches, err := classifierMismatches(ctx, rt.Loader, configured)
		if err != nil {
			return err
		}
		for _, m := range mismatches {
			fmt.Fprintf(errOut, "mismatch  %s\n", m)
		}
		if len(mismatches) > 0 {
			rt.Logger.Warn("Classifier disagrees with the static record",
				logger.Strings("mismatches", mismatches))
			return errors.New(
				errors.ErrAuthShapeMismatch,
				fmt.Sprintf("%d connector(s) classify differently than expected", len(mismatches)),
			).WithField("errors", mismatches)
		}
	}

	fmt.Fprintf(out, "%d connectors configured\n", len(configured))
	return nil
}

// classifierMismatches reloads the file through the classifier and lists the
// configured connectors whose classified kind differs from the expected one
func classifierMismatches(ctx context.Context, loader connectorauth.Loader, connectors []string) ([]string, error) {
	authMap, err := loader.LoadAuthenticationMap(ctx)
	if err != nil {
		return nil, err
	}

	var mismatches []string
	for _, name := range connectors {
		expected, _ := connectorauth.ExpectedKind(name)
		got, ok := authMap.Get(name)
		if !ok {
			continue
		}
		if got.Kind() != expected {
			mismatches = append(mismatches, fmt.Sprintf("%s: classified as %s, expected %s", name, got.Kind(), expected))
		}
	}
	return mismatches, nil
}

func printShapeErrors(w io.Writer, err error) {
	var appErr *errors.Error
	if !errors.As(err, &appErr) {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}

	fmt.Fprintf(w, "error: %s\n", appErr.Title)
	if appErr.Detail != "" {
		fmt.Fprintf(w, "  %s\n", appErr.Detail)
	}
	messages, _ := appErr.Fields["errors"].([]string)
	for _, msg := range messages {
		fmt.Fprintf(w, "  - %s\n", msg)
	}
}
