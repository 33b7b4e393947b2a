// Package lint implements the checks run against a single patch file.
package lint

import (
	"fmt"
	"sort"

	"github.com/sprite-ai/patchlint/internal/model"
	"github.com/sprite-ai/patchlint/internal/patch"
)

// Check names, usable with --skip.
const (
	NameStructure = "structure"
	NameBraces    = "braces"
	NameBranding  = "branding"
)

// Options configures a Linter.
type Options struct {
	Branding        Branding
	CommentPrefixes []string
	Skip            []string
}

// DefaultOptions returns the options used when no configuration is given.
func DefaultOptions() Options {
	return Options{
		Branding:        DefaultBranding(),
		CommentPrefixes: append([]string(nil), DefaultCommentPrefixes...),
	}
}

// Input is what every check sees for one patch file.
type Input struct {
	Doc   *patch.Document
	Lines []patch.Line
	Opts  *Options
}

// Check is a function that inspects a patch and returns issues.
type Check func(in *Input) []model.Issue

// Checks maps check names to their implementation.
var Checks = map[string]Check{
	NameStructure: func(in *Input) []model.Issue {
		return CheckStructure(in.Doc.Text)
	},
	NameBraces: func(in *Input) []model.Issue {
		issues, _ := ScanBraces(in.Lines, in.Opts.CommentPrefixes)
		return issues
	},
	NameBranding: func(in *Input) []model.Issue {
		return CheckBranding(in.Doc.Name, in.Lines, in.Opts.Branding)
	},
}

// CheckOrder is the order checks run and report in.
var CheckOrder = []string{NameStructure, NameBraces, NameBranding}

// ValidateSkip returns an error naming the first unknown check.
func ValidateSkip(skip []string) error {
	for _, s := range skip {
		if _, ok := Checks[s]; !ok {
			names := make([]string, 0, len(Checks))
			for n := range Checks {
				names = append(names, n)
			}
			sort.Strings(names)
			return fmt.Errorf("unknown check %q (known: %v)", s, names)
		}
	}
	return nil
}

// Linter runs the configured checks over patch documents. A Linter holds no
// per-file state and is safe for concurrent use.
type Linter struct {
	opts Options
	skip map[string]bool
}

// New creates a Linter.
func New(opts Options) (*Linter, error) {
	if err := ValidateSkip(opts.Skip); err != nil {
		return nil, err
	}
	l := &Linter{opts: opts, skip: make(map[string]bool)}
	for _, s := range opts.Skip {
		l.skip[s] = true
	}
	return l, nil
}

// Options returns the options the linter was built with.
func (l *Linter) Options() Options {
	return l.opts
}

// Lint runs every enabled check. Checks never short-circuit each other: a
// patch with a broken header is still scanned for braces and branding.
func (l *Linter) Lint(doc *patch.Document) model.FileReport {
	in := &Input{Doc: doc, Lines: doc.Classify(), Opts: &l.opts}

	report := model.FileReport{Path: doc.Path, Name: doc.Name}
	for _, name := range CheckOrder {
		if l.skip[name] {
			continue
		}
		report.Issues = append(report.Issues, Checks[name](in)...)
	}

	// stats are informational; patches go-gitdiff rejects simply have none
	if ds, err := patch.ParseFiles(doc.Text); err == nil {
		report.Stats = ds.Stats()
	}

	return report
}

// ReadErrorReport builds the report for a file that could not be read.
func ReadErrorReport(path, name string, err error) model.FileReport {
	return model.FileReport{
		Path: path,
		Name: name,
		Issues: []model.Issue{{
			Kind:     model.IssueIO,
			Message:  fmt.Sprintf("error reading file: %v", err),
			Severity: model.SeverityWarning,
		}},
	}
}
