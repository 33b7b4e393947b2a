// Package cli wires the patchlint commands together.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sprite-ai/patchlint/internal/config"
	"github.com/sprite-ai/patchlint/internal/logging"
)

// ErrPatchesInvalid is returned by check when at least one patch has issues.
var ErrPatchesInvalid = errors.New("some patches need attention")

var (
	configPath string
	debug      bool
	logger     = logging.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "patchlint",
	Short: "Lint patch files before they are applied",
	Long: `patchlint checks a directory of patch files for a proper mail header,
file markers and hunks, balanced braces in added code and consistent
branding. Settings are read from .patchlint.toml, searched for upwards
from the working directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(debug)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		logger = l
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to "+config.FileName+" (default: search upwards)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging on stderr")

	rootCmd.AddCommand(checkCmd, bracesCmd, browseCmd, serveCmd, versionCmd)
}

// Execute runs the root command. A failed lint run is reported by the
// command itself, every other error is printed here.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, ErrPatchesInvalid) {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
	}
	_ = logger.Sync()
	return err
}

// loadConfig returns the --config file or the nearest one to the working
// directory, falling back to defaults.
func loadConfig() (config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, fmt.Errorf("getting working directory: %w", err)
	}
	return config.Discover(wd)
}

func withLogger(cfg config.Config) *zap.SugaredLogger {
	if cfg.Path != "" {
		return logger.With("config", cfg.Path)
	}
	return logger
}
