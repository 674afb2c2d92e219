package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	Back    key.Binding
	NextTab key.Binding
	PrevTab key.Binding

	// Views
	Gallery key.Binding
	Profile key.Binding
	Admin   key.Binding

	// Actions
	Quit         key.Binding
	Help         key.Binding
	Filter       key.Binding
	Search       key.Binding
	Refresh      key.Binding
	Watchlist    key.Binding
	Play         key.Binding
	Theme        key.Binding
	Lookup       key.Binding
	Add          key.Binding
	Delete       key.Binding
	Maintenance  key.Binding
	Announce     key.Binding
	ClearHistory key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "l", "right"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "h", "left"),
			key.WithHelp("S-tab", "prev tab"),
		),

		Gallery: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "gallery"),
		),
		Profile: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "profile"),
		),
		Admin: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "admin"),
		),

		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Search: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "search omdb"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refetch seeds"),
		),
		Watchlist: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "watchlist"),
		),
		Play: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "watch trailer"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "next theme"),
		),
		Lookup: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "find title"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add preview"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Maintenance: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "maintenance"),
		),
		Announce: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "announcement"),
		),
		ClearHistory: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear searches"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Filter, k.Search, k.Watchlist, k.Profile, k.Admin, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter, k.Back, k.NextTab, k.PrevTab},
		{k.Gallery, k.Profile, k.Admin, k.Theme, k.Help, k.Quit},
		{k.Filter, k.Search, k.Refresh, k.Watchlist, k.Play},
		{k.Lookup, k.Add, k.Delete, k.Maintenance, k.Announce, k.ClearHistory},
	}
}
