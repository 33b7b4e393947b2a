// Package config loads patchlint settings from .patchlint.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sprite-ai/patchlint/internal/lint"
)

// FileName is the configuration file looked up from the working directory upwards.
const FileName = ".patchlint.toml"

// Defaults for the runner.
const (
	DefaultDir     = "patches"
	DefaultPattern = "*.patch"
)

// Config is the full patchlint configuration.
type Config struct {
	Dir      string         `toml:"dir"`
	Pattern  string         `toml:"pattern"`
	Jobs     int            `toml:"jobs"`
	Skip     []string       `toml:"skip"`
	Branding BrandingConfig `toml:"branding"`
	Braces   BracesConfig   `toml:"braces"`

	// Path of the file the config was loaded from, empty for defaults.
	Path string `toml:"-"`
}

// BrandingConfig is the [branding] section.
type BrandingConfig struct {
	OldTerms    []string `toml:"old_terms"`
	Replacement string   `toml:"replacement"`
	FileFilter  string   `toml:"file_filter"`
}

// BracesConfig is the [braces] section.
type BracesConfig struct {
	CommentPrefixes []string `toml:"comment_prefixes"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	b := lint.DefaultBranding()
	return Config{
		Dir:     DefaultDir,
		Pattern: DefaultPattern,
		Branding: BrandingConfig{
			OldTerms:    b.OldTerms,
			Replacement: b.Replacement,
			FileFilter:  b.FileFilter,
		},
		Braces: BracesConfig{
			CommentPrefixes: append([]string(nil), lint.DefaultCommentPrefixes...),
		},
	}
}

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads a config file. Keys absent from the file keep their defaults.
// A relative dir is resolved against the directory holding the file.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("dir") && !filepath.IsAbs(cfg.Dir) {
		cfg.Dir = filepath.Join(filepath.Dir(path), cfg.Dir)
	}
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover finds and loads the nearest config file, falling back to defaults.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks the configuration for values the runner cannot use.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Pattern) == "" {
		return errors.New("pattern must not be empty")
	}
	if _, err := filepath.Match(c.Pattern, ""); err != nil {
		return fmt.Errorf("invalid pattern %q: %w", c.Pattern, err)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must be >= 0, got %d", c.Jobs)
	}
	if len(c.Branding.OldTerms) > 0 && strings.TrimSpace(c.Branding.Replacement) == "" {
		return errors.New("[branding].replacement is required when old_terms is set")
	}
	return lint.ValidateSkip(c.Skip)
}

// LintOptions converts the configuration into linter options.
func (c Config) LintOptions() lint.Options {
	return lint.Options{
		Branding: lint.Branding{
			OldTerms:    c.Branding.OldTerms,
			Replacement: c.Branding.Replacement,
			FileFilter:  c.Branding.FileFilter,
		},
		CommentPrefixes: c.Braces.CommentPrefixes,
		Skip:            c.Skip,
	}
}
