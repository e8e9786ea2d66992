package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Tab      key.Binding
	Enter    key.Binding
	Add      key.Binding
	Edit     key.Binding
	Done     key.Binding
	Delete   key.Binding
	Priority key.Binding
	Search   key.Binding
	Status   key.Binding
	Sort     key.Binding
	Calendar key.Binding
	Timer    key.Binding
	Today    key.Binding
	Start    key.Binding
	Skip     key.Binding
	Extend   key.Binding
	Reset    key.Binding
	ResetAll key.Binding
	Dismiss  key.Binding
	Help     key.Binding
	Quit     key.Binding
	Escape   key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev")),
	Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
	Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch view")),
	Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select/toggle")),
	Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
	Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit title")),
	Done:     key.NewBinding(key.WithKeys("x", " "), key.WithHelp("x", "advance status")),
	Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Priority: key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1-3", "priority high/med/low")),
	Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Status:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "status filter")),
	Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
	Calendar: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "calendar")),
	Timer:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "pomodoro")),
	Today:    key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "today")),
	Start:    key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "start/pause")),
	Skip:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "start work")),
	Extend:   key.NewBinding(key.WithKeys("+"), key.WithHelp("+", "extend break")),
	Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset phase")),
	ResetAll: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset session")),
	Dismiss:  key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "dismiss error")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
}

// ShortHelp is shown in the status bar
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Add, k.Edit, k.Done, k.Delete, k.Tab, k.Help, k.Quit}
}

// FullHelp is shown on the help screen
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Tab, k.Calendar, k.Timer, k.Escape},
		{k.Add, k.Edit, k.Done, k.Delete, k.Priority},
		{k.Search, k.Status, k.Sort, k.Dismiss},
		{k.Left, k.Right, k.Today},
		{k.Start, k.Skip, k.Extend, k.Reset, k.ResetAll},
		{k.Help, k.Quit},
	}
}
