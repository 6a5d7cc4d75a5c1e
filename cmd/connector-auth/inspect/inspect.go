package inspect

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/connector-harness/connector-auth/cmd/connector-auth/common"
	"github.com/connector-harness/connector-auth/internal/authtype"
	"github.com/connector-harness/connector-auth/internal/connectorauth"
	"github.com/connector-harness/connector-auth/pkg/tracing"
)

// Entry describes one classified connector. It never carries credential
// values.
type Entry struct {
	Connector string   `json:"connector"`
	Kind      string   `json:"kind"`
	Fields    []string `json:"fields"`
	Expected  string   `json:"expected,omitempty"`
	Mismatch  bool     `json:"mismatch,omitempty"`
}

func NewCommand(flags *common.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Classify the entries of the connector auth file",
		Long: `Classify every entry of the connector auth file by the credential fields it carries.

Only connector names, auth kinds and field names are printed, never values.
Entries the static record knows about are compared against the kind it expects.

Examples:
  # Inspect the file named by CONNECTOR_AUTH_FILE_PATH
  connector-auth inspect

  # Inspect a specific file as JSON
  connector-auth inspect --auth-file ./sample_auth.toml --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().StringVarP(&flags.Output, "output", "o", "table", "Output format (table, json)")

	// Bind flags to viper for environment variable support
	_ = common.BindCommandFlags(cmd)

	return cmd
}

func run(ctx context.Context, out io.Writer, flags *common.Flags) (err error) {
	rt, err := common.NewRuntime(ctx, flags)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := rt.Close(ctx); err == nil {
			err = closeErr
		}
	}()

	ctx, span := rt.StartSpan(ctx, "inspect")
	defer func() { tracing.EndSpan(span, err) }()

	if flags.Output != "table" && flags.Output != "json" {
		return fmt.Errorf("unsupported output format: %s (must be one of: table, json)", flags.Output)
	}

	authMap, err := rt.Loader.LoadAuthenticationMap(ctx)
	if err != nil {
		return err
	}

	entries := BuildEntries(authMap)
	if flags.Output == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	return writeTable(out, entries)
}

// BuildEntries lists the classified connectors in name order
func BuildEntries(authMap *connectorauth.AuthenticationMap) []Entry {
	entries := make([]Entry, 0, authMap.Len())
	for _, name := range authMap.Connectors() {
		auth, _ := authMap.Get(name)
		entry := Entry{
			Connector: name,
			Kind:      string(auth.Kind()),
			Fields:    auth.Fields(),
		}
		if entry.Fields == nil {
			entry.Fields = []string{}
		}
		if expected, ok := connectorauth.ExpectedKind(name); ok {
			entry.Expected = string(expected)
			entry.Mismatch = expected != auth.Kind()
		}
		entries = append(entries, entry)
	}
	return entries
}

func writeTable(out io.Writer, entries []Entry) error {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "CONNECTOR\tKIND\tFIELDS\tEXPECTED")
	for _, e := range entries {
		expected := e.Expected
		switch {
		case expected == "":
			expected = "-"
		case e.Mismatch:
			expected += " (mismatch)"
		}
		fields := strings.Join(e.Fields, ",")
		if fields == "" {
			fields = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Connector, e.Kind, fields, expected)
	}

	noKey := 0
	for _, e := range entries {
		if e.Kind == string(authtype.KindNoKey) {
			noKey++
		}
	}
	fmt.Fprintf(w, "\n%d connectors, %d unrecognized\n", len(entries), noKey)
	return w.Flush()
}
