// Package tui implements the Bubble Tea browser for lint results.
package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sprite-ai/patchlint/internal/model"
	"github.com/sprite-ai/patchlint/internal/patch"
)

// Loader reads the patch behind a report.
type Loader func(path string) (*patch.Document, error)

// Model is the top-level Bubble Tea model for patchlint browse.
type Model struct {
	summary *model.RunSummary
	load    Loader

	// UI state
	width  int
	height int

	// Patch list
	fileIndex int // currently selected report

	// Patch viewport
	scrollOffset int
	viewHeight   int

	// Rendered lines for the current patch
	lines   []renderedLine
	loadErr error

	showHelp bool
}

// New creates a new TUI model over a run summary. A nil loader reads
// patches from disk.
func New(summary *model.RunSummary, load Loader) Model {
	if load == nil {
		load = patch.Load
	}
	m := Model{summary: summary, load: load}
	m.updateLines()
	return m
}

func (m *Model) current() (model.FileReport, bool) {
	if m.summary == nil || len(m.summary.Reports) == 0 {
		return model.FileReport{}, false
	}
	return m.summary.Reports[m.fileIndex], true
}

func (m *Model) updateLines() {
	m.lines, m.loadErr = nil, nil
	r, ok := m.current()
	if !ok {
		return
	}
	doc, err := m.load(r.Path)
	if err != nil {
		m.loadErr = err
		return
	}
	m.lines = renderDocument(doc, r)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewHeight = m.height - 4 // status bar + borders
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Down):
			m.scrollTo(m.scrollOffset + 1)

		case key.Matches(msg, keys.Up):
			m.scrollTo(m.scrollOffset - 1)

		case key.Matches(msg, keys.PageDown):
			m.scrollTo(m.scrollOffset + max(m.viewHeight/2, 1))

		case key.Matches(msg, keys.PageUp):
			m.scrollTo(m.scrollOffset - max(m.viewHeight/2, 1))

		case key.Matches(msg, keys.NextFile):
			if m.summary != nil && m.fileIndex < len(m.summary.Reports)-1 {
				m.fileIndex++
				m.scrollOffset = 0
				m.updateLines()
			}

		case key.Matches(msg, keys.PrevFile):
			if m.fileIndex > 0 {
				m.fileIndex--
				m.scrollOffset = 0
				m.updateLines()
			}

		case key.Matches(msg, keys.NextIssue):
			m.jumpForward(renderedLine.hasIssue)

		case key.Matches(msg, keys.PrevIssue):
			m.jumpBack(renderedLine.hasIssue)

		case key.Matches(msg, keys.NextHunk):
			m.jumpForward(isHunk)

		case key.Matches(msg, keys.PrevHunk):
			m.jumpBack(isHunk)

		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
		}
	}

	return m, nil
}

func isHunk(rl renderedLine) bool {
	return rl.Kind == patch.KindHunkMarker
}

func (m *Model) scrollTo(offset int) {
	if offset > len(m.lines)-1 {
		offset = len(m.lines) - 1
	}
	if offset < 0 {
		offset = 0
	}
	m.scrollOffset = offset
}

func (m *Model) jumpForward(match func(renderedLine) bool) {
	for i := m.scrollOffset + 1; i < len(m.lines); i++ {
		if match(m.lines[i]) {
			m.scrollOffset = i
			return
		}
	}
}

func (m *Model) jumpBack(match func(renderedLine) bool) {
	for i := m.scrollOffset - 1; i >= 0; i-- {
		if match(m.lines[i]) {
			m.scrollOffset = i
			return
		}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	// Layout: patch list on left, patch on right
	fileListWidth := m.fileListWidth()
	diffWidth := m.width - fileListWidth - 1

	fileList := m.renderFileList(fileListWidth, m.height-2)
	diffView := m.renderPatchView(diffWidth, m.height-2)

	main := lipgloss.JoinHorizontal(lipgloss.Top, fileList, " ", diffView)

	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m Model) fileListWidth() int {
	maxLen := 20
	if m.summary != nil {
		for _, r := range m.summary.Reports {
			if n := utf8.RuneCountInString(r.Name); n > maxLen {
				maxLen = n
			}
		}
	}
	w := maxLen + 8 // padding + mark + issue count
	if w > m.width/3 {
		w = m.width / 3
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) renderFileList(width, height int) string {
	var b strings.Builder

	if m.summary != nil {
		for i, r := range m.summary.Reports {
			maxName := width - 10
			name := truncateLeft(r.Name, maxName)

			mark := "✓"
			count := ""
			if !r.Valid() {
				mark = "✗"
				count = fmt.Sprintf("%d", len(r.Issues))
			}
			line := fmt.Sprintf("%s %-*s %s", mark, maxName, name, count)

			var style lipgloss.Style
			switch {
			case i == m.fileIndex:
				style = fileItemSelectedStyle
			case r.Valid():
				style = fileItemValidStyle
			default:
				style = fileItemInvalidStyle
			}

			b.WriteString(style.Width(width - 4).Render(line))
			if i < len(m.summary.Reports)-1 {
				b.WriteByte('\n')
			}
		}
	}

	innerHeight := height - 2 // borders
	return fileListStyle.Width(width).Height(innerHeight).Render(b.String())
}

func (m Model) renderPatchView(width, height int) string {
	innerHeight := height - 2
	r, ok := m.current()
	if !ok {
		return diffViewStyle.Width(width).Height(innerHeight).Render("No patches")
	}

	innerWidth := width - 4 // borders + padding

	var b strings.Builder
	b.WriteString(fileHeaderStyle.Render(r.Name))
	b.WriteByte('\n')

	// file-level issues sit above the patch text
	used := 2
	for _, issue := range r.IssuesAt(0) {
		b.WriteString(fileIssueStyle.Render("✗ " + issue.Message))
		b.WriteByte('\n')
		used++
	}

	if m.loadErr != nil {
		b.WriteString(fileIssueStyle.Render("cannot show patch: " + m.loadErr.Error()))
		return diffViewStyle.Width(width).Height(innerHeight).Render(b.String())
	}

	visibleLines := innerHeight - used
	if visibleLines < 1 {
		visibleLines = 1
	}

	end := min(m.scrollOffset+visibleLines, len(m.lines))
	for i := m.scrollOffset; i < end; i++ {
		b.WriteString(styleLine(m.lines[i], innerWidth))
		if i < end-1 {
			b.WriteByte('\n')
		}
	}

	return diffViewStyle.Width(width).Height(innerHeight).Render(b.String())
}

func (m Model) renderStatusBar() string {
	left := ""
	right := "? help "
	if m.summary != nil {
		left = fmt.Sprintf(" Patch %d/%d", m.fileIndex+1, m.summary.TotalCount())
		if len(m.lines) > 0 {
			left += fmt.Sprintf("  Line %d/%d", m.scrollOffset+1, len(m.lines))
		}
		right = m.summary.ResultLine() + "  " + right
	}

	gap := m.width - 2 - lipgloss.Width(left) - lipgloss.Width(right) // -2 for padding
	if gap < 0 {
		gap = 0
	}

	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(fileHeaderStyle.Render("patchlint — Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for _, k := range []key.Binding{
		keys.Up, keys.Down, keys.PageUp, keys.PageDown,
		keys.NextFile, keys.PrevFile,
		keys.NextIssue, keys.PrevIssue,
		keys.NextHunk, keys.PrevHunk,
		keys.Help, keys.Quit,
	} {
		h := k.Help()
		b.WriteString(fmt.Sprintf("  %s  %s\n", helpKeyStyle.Width(12).Render(h.Key), h.Desc))
	}

	b.WriteString("\n")
	b.WriteString(helpBarStyle.Render("Press ? to close help"))

	return b.String()
}

// Run starts the TUI application.
func Run(summary *model.RunSummary) error {
	m := New(summary, nil)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
