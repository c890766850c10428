package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the ticket browser.
type KeyMap struct {
	// Result list.
	Up   key.Binding
	Down key.Binding

	// Pagination.
	NextPage  key.Binding
	PrevPage  key.Binding
	FirstPage key.Binding
	LastPage  key.Binding
	PageSize  key.Binding // Cycle through the allowed page sizes.

	// Inputs.
	FocusSearch key.Binding
	FocusFrom   key.Binding
	FocusTo     key.Binding
	FocusPrice  key.Binding
	NextInput   key.Binding
	PrevInput   key.Binding
	Submit      key.Binding
	Cancel      key.Binding

	// Filters and sort. ToggleType takes 1-5 in transport display order.
	ToggleType    key.Binding
	SortPrice     key.Binding
	SortDeparture key.Binding
	SortRating    key.Binding
	SortNewest    key.Binding
	ClearFilters  key.Binding

	History key.Binding
	Retry   key.Binding
	Help    key.Binding
	Quit    key.Binding
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
	NextPage: key.NewBinding(
		key.WithKeys("l", "right", "]"),
		key.WithHelp("l/→", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("h", "left", "["),
		key.WithHelp("h/←", "prev page"),
	),
	FirstPage: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "first page"),
	),
	LastPage: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "last page"),
	),
	PageSize: key.NewBinding(
		key.WithKeys("z"),
		key.WithHelp("z", "page size"),
	),
	FocusSearch: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	FocusFrom: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "from"),
	),
	FocusTo: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "to"),
	),
	FocusPrice: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "price"),
	),
	NextInput: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	PrevInput: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("S-tab", "prev field"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "search"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	ToggleType: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5"),
		key.WithHelp("1-5", "type"),
	),
	SortPrice: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "price"),
	),
	SortDeparture: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "departure"),
	),
	SortRating: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "rating"),
	),
	SortNewest: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "newest"),
	),
	ClearFilters: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clear all"),
	),
	History: key.NewBinding(
		key.WithKeys("H"),
		key.WithHelp("H", "history"),
	),
	Retry: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "retry"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more keys"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.FocusSearch, k.ToggleType, k.SortPrice, k.NextPage, k.PrevPage, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextPage, k.PrevPage, k.FirstPage, k.LastPage, k.PageSize},
		{k.FocusSearch, k.FocusFrom, k.FocusTo, k.FocusPrice, k.NextInput, k.Submit, k.Cancel},
		{k.ToggleType, k.SortPrice, k.SortDeparture, k.SortRating, k.SortNewest, k.ClearFilters},
		{k.History, k.Retry, k.Help, k.Quit},
	}
}
