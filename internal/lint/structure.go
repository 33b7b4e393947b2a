package lint

import (
	"strings"

	"github.com/sprite-ai/patchlint/internal/model"
)

// CheckStructure runs whole-document checks for the mail header, the file
// markers and at least one hunk. Every failing check yields its own issue.
func CheckStructure(text string) []model.Issue {
	var issues []model.Issue

	if !strings.HasPrefix(text, "From ") {
		issues = append(issues, structureIssue("missing proper patch header"))
	}
	if !strings.Contains(text, "---") || !strings.Contains(text, "+++") {
		issues = append(issues, structureIssue("missing file diff markers"))
	}
	if !strings.Contains(text, "@@") {
		issues = append(issues, structureIssue("missing diff sections"))
	}

	return issues
}

func structureIssue(msg string) model.Issue {
	return model.Issue{
		Check:    NameStructure,
		Kind:     model.IssueStructure,
		Message:  msg,
		Severity: model.SeverityWarning,
	}
}
