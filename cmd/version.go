package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// version and commit are set via -ldflags at build time.
var (
	version = "(devel)"
	commit  = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "techterview %s", version)
		if commit != "" {
			fmt.Fprintf(cmd.OutOrStdout(), " (%s)", commit)
		}
		fmt.Fprintf(cmd.OutOrStdout(), " %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}
