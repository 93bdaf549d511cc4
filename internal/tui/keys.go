package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap is every binding of the console. Row actions only fire on tabs
// where the screen offers them.
type KeyMap struct {
	Up   key.Binding
	Down key.Binding

	NextTab key.Binding
	PrevTab key.Binding
	Section key.Binding // 1-6 jump to a sidebar entry.
	Sidebar key.Binding

	Add         key.Binding
	Edit        key.Binding
	Delete      key.Binding
	Assign      key.Binding
	Track       key.Binding
	SelfAssign  key.Binding
	ShowOnMap   key.Binding
	Maintenance key.Binding

	Refresh       key.Binding
	Export        key.Binding
	Notifications key.Binding
	Clear         key.Binding

	Submit key.Binding
	Cancel key.Binding
	Help   key.Binding
	Quit   key.Binding
}

var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	NextTab: key.NewBinding(
		key.WithKeys("tab", "l", "right"),
		key.WithHelp("tab", "next tab"),
	),
	PrevTab: key.NewBinding(
		key.WithKeys("shift+tab", "h", "left"),
		key.WithHelp("S-tab", "prev tab"),
	),
	Section: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5", "6"),
		key.WithHelp("1-6", "section"),
	),
	Sidebar: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "sidebar"),
	),
	Add: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Assign: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "assign"),
	),
	Track: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "track"),
	),
	SelfAssign: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "claim bin"),
	),
	ShowOnMap: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "show on map"),
	),
	Maintenance: key.NewBinding(
		key.WithKeys("M"),
		key.WithHelp("M", "maintenance"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r", "ctrl+r"),
		key.WithHelp("r", "refresh"),
	),
	Export: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "export"),
	),
	Notifications: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "notifications"),
	),
	Clear: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clear all"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
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

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Section, k.NextTab, k.Add, k.Edit, k.Delete, k.Refresh, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTab, k.PrevTab, k.Section, k.Sidebar},
		{k.Add, k.Edit, k.Delete, k.Assign, k.Track},
		{k.SelfAssign, k.ShowOnMap, k.Maintenance},
		{k.Refresh, k.Export, k.Notifications, k.Clear, k.Help, k.Quit},
	}
}
