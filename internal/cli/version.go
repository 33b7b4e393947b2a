package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/patchlint/internal/report"
)

// Set via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func init() {
	report.ToolVersion = version
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "patchlint %s (commit %s, built %s)\n", version, commit, date)
	},
}
