// Package runner lints every patch file in a directory.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sprite-ai/patchlint/internal/cache"
	"github.com/sprite-ai/patchlint/internal/lint"
	"github.com/sprite-ai/patchlint/internal/logging"
	"github.com/sprite-ai/patchlint/internal/model"
	"github.com/sprite-ai/patchlint/internal/patch"
)

// Configuration errors. They abort a run before any file is linted.
var (
	ErrDirNotFound = errors.New("patches directory not found")
	ErrNoPatches   = errors.New("no patch files found")
)

// Options configures a run.
type Options struct {
	Dir     string
	Pattern string
	Jobs    int // <= 0 means GOMAXPROCS
	Lint    lint.Options
	Cache   *cache.DiskCache // optional
	Logger  *zap.SugaredLogger
}

// Discover returns the paths of files in dir matching pattern, sorted by name.
func Discover(dir, pattern string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDirNotFound, dir)
		}
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDirNotFound, dir)
	}

	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	var files []string
	for _, m := range matches {
		if fi, err := os.Stat(m); err == nil && fi.IsDir() {
			continue
		}
		files = append(files, m)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s matching %q", ErrNoPatches, dir, pattern)
	}

	sort.Slice(files, func(i, j int) bool {
		return filepath.Base(files[i]) < filepath.Base(files[j])
	})
	return files, nil
}

// Run lints every matching file in opts.Dir. Files are linted concurrently
// but the reports keep the sorted file order. An unreadable file becomes a
// report with a single read-error issue; only configuration errors and
// cancellation are returned as errors.
func Run(ctx context.Context, opts Options) (*model.RunSummary, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}

	files, err := Discover(opts.Dir, opts.Pattern)
	if err != nil {
		return nil, err
	}

	linter, err := lint.New(opts.Lint)
	if err != nil {
		return nil, err
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// each goroutine owns its own slot, so no locking
	reports := make([]model.FileReport, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = lintFile(linter, opts.Cache, log, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &model.RunSummary{Dir: opts.Dir, Reports: reports}, nil
}

func lintFile(linter *lint.Linter, c *cache.DiskCache, log *zap.SugaredLogger, path string) model.FileReport {
	name := filepath.Base(path)

	doc, err := patch.Load(path)
	if err != nil {
		log.Warnw("cannot read patch", "file", name, "error", err)
		return lint.ReadErrorReport(path, name, err)
	}

	var key cache.Key
	if c != nil {
		key = cache.KeyFor(doc.Name, doc.Text, linter.Options())
		report := model.FileReport{Path: doc.Path, Name: doc.Name}
		ok, err := c.Get(key, &report)
		if err != nil {
			log.Warnw("cache read failed", "file", name, "error", err)
		} else if ok {
			log.Debugw("linted patch", "file", name, "issues", len(report.Issues), "cached", true)
			return report
		}
	}

	report := linter.Lint(doc)
	log.Debugw("linted patch", "file", name, "issues", len(report.Issues), "cached", false)

	if c != nil {
		if err := c.Put(key, report); err != nil {
			log.Warnw("cache write failed", "file", name, "error", err)
		}
	}
	return report
}
