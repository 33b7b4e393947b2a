package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sprite-ai/patchlint/internal/model"
	"github.com/sprite-ai/patchlint/internal/patch"
)

// renderedLine is a single line of patch text ready for display.
type renderedLine struct {
	Number  int // 1-based line in the patch file
	Kind    patch.Kind
	Content string // raw text (no trailing newline)

	// Syntax highlighted payload for diff content (no tokens = no highlighting)
	Code patch.HighlightedLine

	// Messages of the issues reported on this line
	Issues []string
}

func (rl renderedLine) hasIssue() bool {
	return len(rl.Issues) > 0
}

// renderDocument produces renderedLines for every line of a patch and
// attaches the report's line-level issues.
func renderDocument(doc *patch.Document, r model.FileReport) []renderedLine {
	lines := doc.Classify()
	highlighted := patch.HighlightPayloads(lines)

	out := make([]renderedLine, 0, len(lines))
	for i, l := range lines {
		rl := renderedLine{
			Number:  l.Number,
			Kind:    l.Kind,
			Content: l.Raw,
		}
		if l.Scannable() && i < len(highlighted) {
			rl.Code = highlighted[i]
		}
		for _, issue := range r.IssuesAt(l.Number) {
			rl.Issues = append(rl.Issues, issue.Message)
		}
		out = append(out, rl)
	}
	return out
}

// renderHighlightedContent renders payload tokens after the diff prefix.
func renderHighlightedContent(rl renderedLine, prefix string) string {
	if len(rl.Code.Tokens) == 0 {
		return prefix + strings.TrimPrefix(rl.Content, prefix)
	}

	var b strings.Builder
	b.WriteString(prefix)
	for _, tok := range rl.Code.Tokens {
		if tok.Color != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(tok.Color)).Render(tok.Text))
		} else {
			b.WriteString(tok.Text)
		}
	}
	return b.String()
}

// styleLine applies styling to a rendered line.
func styleLine(rl renderedLine, width int) string {
	num := lineNumberStyle.Render(fmt.Sprintf("%d", rl.Number))
	maxContent := width - 8
	if maxContent < 1 {
		maxContent = 1
	}

	if rl.hasIssue() {
		text := truncate(rl.Content, maxContent)
		note := issueNoteStyle.Render("  ← " + strings.Join(rl.Issues, "; "))
		return num + " " + issueLineStyle.Render(text) + note
	}

	var content string
	switch rl.Kind {
	case patch.KindHunkMarker:
		content = hunkHeaderStyle.Render(truncate(rl.Content, maxContent))
	case patch.KindFileMarker:
		content = fileMarkerStyle.Render(truncate(rl.Content, maxContent))
	case patch.KindHeaderMeta, patch.KindOther:
		content = headerLineStyle.Render(truncate(rl.Content, maxContent))
	case patch.KindAdded:
		content = addedLineStyle.Render(truncate(rl.Content, maxContent))
	case patch.KindRemoved:
		content = deletedLineStyle.Render(truncate(rl.Content, maxContent))
	default:
		// context lines get syntax highlighting instead
		content = renderHighlightedContent(rl, " ")
		if lipgloss.Width(content) > maxContent {
			content = " " + truncate(rl.Code.Plain(), maxContent-1)
		}
	}

	return num + " " + content
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) > max {
		return string(r[:max-1]) + "…"
	}
	return s
}

// truncateLeft keeps the tail of s, where patch names differ most.
func truncateLeft(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) > max {
		return "…" + string(r[len(r)-max+1:])
	}
	return s
}
