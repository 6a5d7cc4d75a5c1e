package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X ..."
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Print detailed version information including build metadata",
		Run:   runVersion,
	}
}

func runVersion(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Connector Auth\n")
	fmt.Fprintf(out, "  Version:    %s\n", Version)
	fmt.Fprintf(out, "  Commit:     %s\n", Commit)
	fmt.Fprintf(out, "  Build Time: %s\n", BuildTime)
	fmt.Fprintf(out, "  Go Version: %s\n", runtime.Version())
}
