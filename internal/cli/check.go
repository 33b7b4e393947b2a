package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sprite-ai/patchlint/internal/cache"
	"github.com/sprite-ai/patchlint/internal/config"
	"github.com/sprite-ai/patchlint/internal/model"
	"github.com/sprite-ai/patchlint/internal/report"
	"github.com/sprite-ai/patchlint/internal/runner"
)

var checkCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Lint every patch in a directory and print a report",
	Long: `Lint every file matching the pattern in dir (default: the configured
directory, "patches") and print a per-file report followed by the result line.
Useful for CI and pre-commit hooks.

Exit codes:
  0 — every patch is valid
  1 — at least one patch has issues, or the run could not start`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringP("format", "f", "text", "output format: "+strings.Join(report.Formats, ", "))
	checkCmd.Flags().String("pattern", "", "glob selecting patch files (default \""+config.DefaultPattern+"\")")
	checkCmd.Flags().StringSlice("skip", nil, "checks to skip: structure, braces, branding")
	checkCmd.Flags().IntP("jobs", "j", 0, "files linted in parallel (0 = one per CPU)")
	checkCmd.Flags().Bool("cache", false, "reuse reports for unchanged patches")
	checkCmd.Flags().Bool("clear-cache", false, "drop cached reports before linting (implies --cache)")
	checkCmd.Flags().Bool("stat", false, "print per-patch diff stats instead of the report")
}

// checkFlags are the command-line overrides for one check run.
type checkFlags struct {
	Dir        string
	Format     string
	Pattern    string
	Skip       []string
	Jobs       int
	Cache      bool
	ClearCache bool
	Stat       bool
}

func runCheck(cmd *cobra.Command, args []string) error {
	var f checkFlags
	if len(args) == 1 {
		f.Dir = args[0]
	}
	f.Format, _ = cmd.Flags().GetString("format")
	f.Pattern, _ = cmd.Flags().GetString("pattern")
	f.Skip, _ = cmd.Flags().GetStringSlice("skip")
	f.Jobs, _ = cmd.Flags().GetInt("jobs")
	f.Cache, _ = cmd.Flags().GetBool("cache")
	f.ClearCache, _ = cmd.Flags().GetBool("clear-cache")
	f.Stat, _ = cmd.Flags().GetBool("stat")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	return executeCheck(cmd.Context(), cmd.OutOrStdout(), cfg, f, withLogger(cfg))
}

// applyFlags overlays explicitly set flags onto the loaded configuration.
func applyFlags(cfg config.Config, f checkFlags) (config.Config, error) {
	if f.Dir != "" {
		cfg.Dir = f.Dir
	}
	if f.Pattern != "" {
		cfg.Pattern = f.Pattern
	}
	if len(f.Skip) > 0 {
		cfg.Skip = f.Skip
	}
	if f.Jobs != 0 {
		cfg.Jobs = f.Jobs
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func executeCheck(ctx context.Context, out io.Writer, cfg config.Config, f checkFlags, log *zap.SugaredLogger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if f.Format != "" && !slices.Contains(report.Formats, f.Format) {
		return fmt.Errorf("unknown format %q (want one of %s)", f.Format, strings.Join(report.Formats, ", "))
	}

	cfg, err := applyFlags(cfg, f)
	if err != nil {
		return err
	}

	opts := runner.Options{
		Dir:     cfg.Dir,
		Pattern: cfg.Pattern,
		Jobs:    cfg.Jobs,
		Lint:    cfg.LintOptions(),
		Logger:  log,
	}
	if f.Cache || f.ClearCache {
		c, err := openCache()
		if err != nil {
			log.Warnw("cache disabled", "error", err)
		} else {
			opts.Cache = c
		}
		if f.ClearCache {
			if err := c.Clear(); err != nil {
				log.Warnw("clearing cache failed", "error", err)
			}
		}
	}

	log.Debugw("starting run", "dir", opts.Dir, "pattern", opts.Pattern, "jobs", opts.Jobs, "skip", cfg.Skip)

	summary, err := runner.Run(ctx, opts)
	if err != nil {
		return err
	}

	setColor(out)
	if f.Stat {
		printStat(out, summary)
	} else if err := report.Write(out, f.Format, summary); err != nil {
		return err
	}

	if !summary.OK() {
		return ErrPatchesInvalid
	}
	return nil
}

func openCache() (*cache.DiskCache, error) {
	dir, err := cache.DefaultDir()
	if err != nil {
		return nil, err
	}
	return cache.Open(dir)
}

// setColor turns colored output off unless out is a terminal.
func setColor(out io.Writer) {
	f, ok := out.(*os.File)
	color.NoColor = !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func printStat(out io.Writer, s *model.RunSummary) {
	for _, r := range s.Reports {
		status := "ok"
		if !r.Valid() {
			status = fmt.Sprintf("%d issue(s)", len(r.Issues))
		}
		fmt.Fprintf(out, "  %-50s %3d file(s) +%-4d -%-4d %s\n",
			r.Name, r.Stats.Files, r.Stats.Added, r.Stats.Deleted, status)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, s.ResultLine())
}
