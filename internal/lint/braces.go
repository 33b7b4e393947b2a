package lint

import (
	"fmt"
	"strings"

	"github.com/sprite-ai/patchlint/internal/model"
	"github.com/sprite-ai/patchlint/internal/patch"
)

// DefaultCommentPrefixes mark added lines that are skipped by the brace scan.
// Only the start of the trimmed line is inspected, so trailing comments and
// multi-line strings still count.
var DefaultCommentPrefixes = []string{"//", "/*", "*"}

// ScanState is the running state of a brace scan over one patch file.
// Balance is shared by every hunk of the file and is never reset between
// hunks, so an opener in one hunk can be closed by a later one.
type ScanState struct {
	InsideDiff bool
	Balance    int
}

// Step feeds one classified line into the scan. It returns an issue when the
// line closes more braces than are open; the balance is then clamped to zero.
func (s *ScanState) Step(l patch.Line, commentPrefixes []string) (model.Issue, bool) {
	if l.Kind == patch.KindHunkMarker {
		s.InsideDiff = true
		return model.Issue{}, false
	}

	opens, closes, counted := countBraces(l, commentPrefixes)
	if !counted {
		return model.Issue{}, false
	}

	s.Balance += opens - closes
	if s.Balance < 0 {
		s.Balance = 0
		return bracesIssue(l.Number, "unmatched closing brace"), true
	}
	return model.Issue{}, false
}

// Finish reports braces still open at the end of the file.
func (s ScanState) Finish() (model.Issue, bool) {
	if s.Balance > 0 && s.InsideDiff {
		return bracesIssue(0, fmt.Sprintf("%d unclosed braces", s.Balance)), true
	}
	return model.Issue{}, false
}

// ScanBraces checks that the braces introduced by added lines balance out.
func ScanBraces(lines []patch.Line, commentPrefixes []string) ([]model.Issue, ScanState) {
	var issues []model.Issue
	var state ScanState

	for _, l := range lines {
		if issue, ok := state.Step(l, commentPrefixes); ok {
			issues = append(issues, issue)
		}
	}
	if issue, ok := state.Finish(); ok {
		issues = append(issues, issue)
	}

	return issues, state
}

// BraceStep records how one added line moved the brace balance.
type BraceStep struct {
	Line      int
	Text      string
	Open      int
	Close     int
	Balance   int // balance after this line, before clamping
	Unmatched bool
}

// TraceBraces returns a step for every counted added line that contains a
// brace, in file order. The balance follows the same clamping as ScanBraces.
func TraceBraces(lines []patch.Line, commentPrefixes []string) []BraceStep {
	var steps []BraceStep
	balance := 0

	for _, l := range lines {
		opens, closes, counted := countBraces(l, commentPrefixes)
		if !counted || opens+closes == 0 {
			continue
		}
		balance += opens - closes
		step := BraceStep{
			Line:    l.Number,
			Text:    strings.TrimSpace(l.Payload),
			Open:    opens,
			Close:   closes,
			Balance: balance,
		}
		if balance < 0 {
			step.Unmatched = true
			balance = 0
		}
		steps = append(steps, step)
	}

	return steps
}

// countBraces returns the braces on an added line. counted is false for
// lines that are not added code or that start with a comment marker.
func countBraces(l patch.Line, commentPrefixes []string) (opens, closes int, counted bool) {
	if l.Kind != patch.KindAdded {
		return 0, 0, false
	}
	trimmed := strings.TrimSpace(l.Payload)
	for _, p := range commentPrefixes {
		if p != "" && strings.HasPrefix(trimmed, p) {
			return 0, 0, false
		}
	}
	return strings.Count(l.Payload, "{"), strings.Count(l.Payload, "}"), true
}

func bracesIssue(line int, msg string) model.Issue {
	return model.Issue{
		Check:    NameBraces,
		Kind:     model.IssueBraces,
		Line:     line,
		Message:  msg,
		Severity: model.SeverityWarning,
	}
}
