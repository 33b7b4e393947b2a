// Package model defines the core data types shared across patchlint.
package model

import "fmt"

// Severity for issues. Every check currently reports SeverityWarning.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// IssueKind categorizes what went wrong with a patch file.
type IssueKind int

const (
	IssueIO IssueKind = iota
	IssueStructure
	IssueBraces
	IssueBranding
)

func (k IssueKind) String() string {
	switch k {
	case IssueIO:
		return "io"
	case IssueStructure:
		return "structure"
	case IssueBraces:
		return "braces"
	case IssueBranding:
		return "branding"
	default:
		return "unknown"
	}
}

// Issue is a single problem found in a patch file.
type Issue struct {
	Check    string // which check produced this
	Kind     IssueKind
	Line     int // 1-based line in the patch file, 0 if file-level
	Message  string
	Severity Severity
}

// FileLevel reports whether the issue applies to the file as a whole.
func (i Issue) FileLevel() bool {
	return i.Line <= 0
}

func (i Issue) String() string {
	if i.FileLevel() {
		return i.Message
	}
	return fmt.Sprintf("line %d: %s", i.Line, i.Message)
}

// DiffStats summarizes the file-level changes a patch describes.
type DiffStats struct {
	Files   int
	Added   int
	Deleted int
}

// FileReport collects every issue found in one patch file.
type FileReport struct {
	Path   string
	Name   string
	Issues []Issue
	Stats  DiffStats
}

// Valid reports whether the patch produced no issues.
func (r FileReport) Valid() bool {
	return len(r.Issues) == 0
}

// IssuesAt returns the issues attached to the given patch line.
func (r FileReport) IssuesAt(line int) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Line == line {
			out = append(out, i)
		}
	}
	return out
}

// RunSummary is the result of linting a directory of patches.
type RunSummary struct {
	Dir     string
	Reports []FileReport
}

// ValidCount returns the number of reports without issues.
func (s *RunSummary) ValidCount() int {
	n := 0
	for _, r := range s.Reports {
		if r.Valid() {
			n++
		}
	}
	return n
}

// TotalCount returns the number of patch files checked.
func (s *RunSummary) TotalCount() int {
	return len(s.Reports)
}

// OK reports whether at least one patch was checked and all of them are valid.
func (s *RunSummary) OK() bool {
	return s.TotalCount() > 0 && s.ValidCount() == s.TotalCount()
}

// IssueCount returns the total number of issues across all reports.
func (s *RunSummary) IssueCount() int {
	n := 0
	for _, r := range s.Reports {
		n += len(r.Issues)
	}
	return n
}

// ResultLine returns the one-line summary printed at the end of a run.
func (s *RunSummary) ResultLine() string {
	return fmt.Sprintf("Results: %d/%d patches valid", s.ValidCount(), s.TotalCount())
}
