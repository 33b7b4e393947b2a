package cli

import (
	"errors"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sprite-ai/patchlint/internal/runner"
	"github.com/sprite-ai/patchlint/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse [dir]",
	Short: "Browse lint results in an interactive terminal UI",
	Long: `Lint every patch in dir, then open a terminal UI listing the patches
with their issues highlighted in place. Use "patchlint check" in scripts.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().String("pattern", "", "glob selecting patch files")
	browseCmd.Flags().StringSlice("skip", nil, "checks to skip: structure, braces, branding")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return errors.New("browse needs an interactive terminal; use \"patchlint check\" instead")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var f checkFlags
	if len(args) == 1 {
		f.Dir = args[0]
	}
	f.Pattern, _ = cmd.Flags().GetString("pattern")
	f.Skip, _ = cmd.Flags().GetStringSlice("skip")

	cfg, err = applyFlags(cfg, f)
	if err != nil {
		return err
	}

	summary, err := runner.Run(cmd.Context(), runner.Options{
		Dir:     cfg.Dir,
		Pattern: cfg.Pattern,
		Jobs:    cfg.Jobs,
		Lint:    cfg.LintOptions(),
		Logger:  withLogger(cfg),
	})
	if err != nil {
		return err
	}

	return tui.Run(summary)
}
