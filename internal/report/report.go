// Package report renders run summaries for humans and tools.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/sprite-ai/patchlint/internal/model"
)

// Formats lists the supported output formats.
var Formats = []string{"text", "json", "markdown", "html", "sarif"}

// Write renders the summary in the named format.
func Write(w io.Writer, format string, s *model.RunSummary) error {
	switch format {
	case "", "text":
		return Text(w, s)
	case "json":
		return JSON(w, s)
	case "markdown":
		return Markdown(w, s)
	case "html":
		return HTML(w, s)
	case "sarif":
		return SARIF(w, s)
	default:
		return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

var (
	okColor     = color.New(color.FgGreen, color.Bold)
	failColor   = color.New(color.FgRed, color.Bold)
	lineColor   = color.New(color.FgCyan)
	headerColor = color.New(color.Bold)
)

// Text writes the per-file listing followed by the result line.
func Text(w io.Writer, s *model.RunSummary) error {
	for _, r := range s.Reports {
		fmt.Fprintf(w, "\nValidating: %s\n", headerColor.Sprint(r.Name))
		if r.Valid() {
			fmt.Fprintln(w, okColor.Sprint("No issues found"))
			continue
		}
		fmt.Fprintf(w, "Found %d issues:\n", len(r.Issues))
		for _, i := range r.Issues {
			fmt.Fprintf(w, "   • %s%s\n", location(i), i.Message)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 40))
	fmt.Fprintln(w, s.ResultLine())
	if s.OK() {
		fmt.Fprintln(w, okColor.Sprint("All patches are valid!"))
	} else {
		fmt.Fprintln(w, failColor.Sprint("Some patches need attention"))
	}
	return nil
}

func location(i model.Issue) string {
	if i.FileLevel() {
		return ""
	}
	return lineColor.Sprintf("line %d: ", i.Line)
}

// Markdown writes a table of issues suitable for a pull request comment.
func Markdown(w io.Writer, s *model.RunSummary) error {
	fmt.Fprintf(w, "## Patch Lint Report\n\n")
	fmt.Fprintf(w, "**%d/%d** patches valid, **%d** issues\n\n", s.ValidCount(), s.TotalCount(), s.IssueCount())

	if s.IssueCount() == 0 {
		fmt.Fprintln(w, "No issues found.")
		return nil
	}

	fmt.Fprintln(w, "| Check | Patch | Line | Message |")
	fmt.Fprintln(w, "|-------|-------|------|---------|")
	for _, r := range s.Reports {
		for _, i := range r.Issues {
			line := "-"
			if !i.FileLevel() {
				line = fmt.Sprintf("%d", i.Line)
			}
			fmt.Fprintf(w, "| %s | `%s` | %s | %s |\n", checkName(i), r.Name, line, i.Message)
		}
	}
	return nil
}

func checkName(i model.Issue) string {
	if i.Check != "" {
		return i.Check
	}
	return i.Kind.String()
}

// ByCheck counts issues per check name, sorted by name.
func ByCheck(s *model.RunSummary) []CheckCount {
	counts := make(map[string]int)
	for _, r := range s.Reports {
		for _, i := range r.Issues {
			counts[checkName(i)]++
		}
	}
	out := make([]CheckCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, CheckCount{Check: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Check < out[j].Check })
	return out
}

// CheckCount is the number of issues one check produced.
type CheckCount struct {
	Check string `json:"check"`
	Count int    `json:"count"`
}
