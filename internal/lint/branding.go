package lint

import (
	"fmt"
	"strings"

	"github.com/sprite-ai/patchlint/internal/model"
	"github.com/sprite-ai/patchlint/internal/patch"
)

// Branding configures the branding check.
type Branding struct {
	OldTerms    []string
	Replacement string
	FileFilter  string // case-insensitive substring of the patch file name
}

// DefaultBranding returns the built-in branding terms.
func DefaultBranding() Branding {
	return Branding{
		OldTerms:    []string{"Chromium", "BrowserOS", "Chrome"},
		Replacement: "PrivacyAgent",
		FileFilter:  "branding",
	}
}

// Applies reports whether the branding check runs for the named file.
func (b Branding) Applies(name string) bool {
	if len(b.OldTerms) == 0 {
		return false
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(b.FileFilter))
}

// CheckBranding flags added lines that mention an old term without also
// using the replacement term.
func CheckBranding(name string, lines []patch.Line, b Branding) []model.Issue {
	if !b.Applies(name) {
		return nil
	}

	var issues []model.Issue
	for _, l := range patch.OfKind(lines, patch.KindAdded) {
		if !containsAny(l.Payload, b.OldTerms) || strings.Contains(l.Payload, b.Replacement) {
			continue
		}
		issues = append(issues, model.Issue{
			Check:    NameBranding,
			Kind:     model.IssueBranding,
			Line:     l.Number,
			Message:  fmt.Sprintf("inconsistent branding — should use '%s'", b.Replacement),
			Severity: model.SeverityWarning,
		})
	}

	return issues
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if t != "" && strings.Contains(s, t) {
			return true
		}
	}
	return false
}
