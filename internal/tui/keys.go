package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	New       key.Binding
	Edit      key.Binding
	Project   key.Binding
	Today     key.Binding
	More      key.Binding
	Less      key.Binding
	ResizeBeg key.Binding
	ResizeEnd key.Binding
	Report    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// resizeKeyMap is active while a bar edge is being moved.
type resizeKeyMap struct {
	Left   key.Binding
	Right  key.Binding
	Commit key.Binding
	Cancel key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k", "ctrl+p"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j", "ctrl+n"), key.WithHelp("↓/j", "down")),
		MoveUp:    key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move task up")),
		MoveDown:  key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move task down")),
		New:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		Edit:      key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit task")),
		Project:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "edit project")),
		Today:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "start today")),
		More:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "progress +10")),
		Less:      key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "progress -10")),
		ResizeBeg: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "resize start")),
		ResizeEnd: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "resize end")),
		Report:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "report")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func newResizeKeyMap() resizeKeyMap {
	return resizeKeyMap{
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "one day earlier")),
		Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "one day later")),
		Commit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "keep")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "restore")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.Edit, k.ResizeBeg, k.ResizeEnd, k.Today, k.Report, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.MoveUp, k.MoveDown},
		{k.New, k.Edit, k.Project, k.Today},
		{k.More, k.Less, k.ResizeBeg, k.ResizeEnd},
		{k.Report, k.Help, k.Quit},
	}
}

func (k resizeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Commit, k.Cancel}
}

func (k resizeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
