package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	PageDown  key.Binding
	PageUp    key.Binding
	NextFile  key.Binding
	PrevFile  key.Binding
	NextIssue key.Binding
	PrevIssue key.Binding
	NextHunk  key.Binding
	PrevHunk  key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("pgdn", "page down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("pgup", "page up"),
	),
	NextFile: key.NewBinding(
		key.WithKeys("n", "tab"),
		key.WithHelp("n/tab", "next patch"),
	),
	PrevFile: key.NewBinding(
		key.WithKeys("N", "shift+tab"),
		key.WithHelp("N/S-tab", "prev patch"),
	),
	NextIssue: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "next issue"),
	),
	PrevIssue: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "prev issue"),
	),
	NextHunk: key.NewBinding(
		key.WithKeys("}"),
		key.WithHelp("}", "next hunk"),
	),
	PrevHunk: key.NewBinding(
		key.WithKeys("{"),
		key.WithHelp("{", "prev hunk"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
