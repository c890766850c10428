// Package tui is an interactive terminal browser for ticket listings.
// The Model renders a browse.Session and turns key presses into session
// operations; the session owns all query state.
package tui

import (
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dharmasatrya/ticketsearch/internal/browse"
	"github.com/dharmasatrya/ticketsearch/internal/querystate"
	"github.com/dharmasatrya/ticketsearch/internal/transport"
)

// FocusRegion identifies what receives keystrokes.
type FocusRegion int

const (
	FocusList FocusRegion = iota
	FocusSearch
	FocusFrom
	FocusTo
	FocusMinPrice
	FocusMaxPrice
	FocusHistory
)

// inputs are indexed by FocusRegion-1.
const inputCount = int(FocusMaxPrice)

// Notifier wakes the model when the session changed outside Update, from
// a debounce timer or a finished query. Notifications coalesce.
type Notifier chan struct{}

func NewNotifier() Notifier {
	return make(Notifier, 1)
}

func (n Notifier) Notify() {
	select {
	case n <- struct{}{}:
	default:
	}
}

type changeMsg struct{}

func waitForChange(n Notifier) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-n; !ok {
			return nil
		}
		return changeMsg{}
	}
}

type Model struct {
	session *browse.Session
	changes Notifier

	theme Theme
	keys  KeyMap
	help  help.Model

	view   browse.View
	focus  FocusRegion
	inputs [inputCount]textinput.Model

	cursor        int
	historyCursor int

	width  int
	height int
}

// NewModel wraps a started session. changes must be the notifier the
// session reports to.
func NewModel(session *browse.Session, changes Notifier) Model {
	model := Model{
		session: session,
		changes: changes,
		theme:   DefaultTheme,
		keys:    DefaultKeyMap,
		help:    help.New(),
	}

	prompts := [inputCount]struct{ prompt, placeholder string }{
		{"Search ", "title, city or operator"},
		{"From ", "any"},
		{"To ", "any"},
		{"৳ min ", "0"},
		{"max ", "any"},
	}
	for i, p := range prompts {
		input := textinput.New()
		input.Prompt = p.prompt
		input.Placeholder = p.placeholder
		input.CharLimit = 64
		if FocusRegion(i+1) >= FocusMinPrice {
			input.CharLimit = 10
		}
		model.inputs[i] = input
	}

	model.refresh()
	return model
}

func (model Model) Init() tea.Cmd {
	return waitForChange(model.changes)
}

func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.help.Width = message.Width
		return model, nil

	case changeMsg:
		model.refresh()
		return model, waitForChange(model.changes)

	case tea.KeyMsg:
		if message.Type == tea.KeyCtrlC {
			return model, tea.Quit
		}
		switch {
		case model.focus == FocusHistory:
			return model.handleHistoryKeys(message)
		case model.focus != FocusList:
			return model.handleInputKeys(message)
		default:
			return model.handleListKeys(message)
		}
	}
	return model, nil
}

func (model Model) handleListKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := model.keys

	switch {
	case key.Matches(message, keys.Quit):
		return model, tea.Quit

	case key.Matches(message, keys.Up):
		if model.cursor > 0 {
			model.cursor--
		}
	case key.Matches(message, keys.Down):
		if model.cursor < len(model.view.Tickets)-1 {
			model.cursor++
		}

	case key.Matches(message, keys.NextPage):
		model.session.NextPage()
	case key.Matches(message, keys.PrevPage):
		model.session.PrevPage()
	case key.Matches(message, keys.FirstPage):
		model.session.GoToPage(1)
	case key.Matches(message, keys.LastPage):
		if model.view.Pagination != nil && model.view.Pagination.TotalPages > 0 {
			model.session.GoToPage(model.view.Pagination.TotalPages)
		}
	case key.Matches(message, keys.PageSize):
		model.session.SetPageSize(nextPageSize(model.view.State.Page.PageSize))

	case key.Matches(message, keys.FocusSearch):
		return model.focusInput(FocusSearch)
	case key.Matches(message, keys.FocusFrom):
		return model.focusInput(FocusFrom)
	case key.Matches(message, keys.FocusTo):
		return model.focusInput(FocusTo)
	case key.Matches(message, keys.FocusPrice):
		return model.focusInput(FocusMinPrice)

	case key.Matches(message, keys.ToggleType):
		if i, err := strconv.Atoi(message.String()); err == nil && i >= 1 && i <= len(transport.All) {
			model.session.ToggleType(string(transport.All[i-1]))
		}
	case key.Matches(message, keys.SortPrice):
		model.session.ToggleSort(querystate.SortPrice)
	case key.Matches(message, keys.SortDeparture):
		model.session.ToggleSort(querystate.SortDepartureTime)
	case key.Matches(message, keys.SortRating):
		model.session.ToggleSort(querystate.SortRating)
	case key.Matches(message, keys.SortNewest):
		model.session.ToggleSort(querystate.SortCreatedAt)
	case key.Matches(message, keys.ClearFilters):
		model.session.ClearFilters()

	case key.Matches(message, keys.History):
		if len(model.view.History) > 0 {
			model.focus = FocusHistory
			model.historyCursor = 0
		}
	case key.Matches(message, keys.Retry):
		model.session.Refresh()
	case key.Matches(message, keys.Help):
		model.help.ShowAll = !model.help.ShowAll
	}

	model.refresh()
	return model, nil
}

func (model Model) handleInputKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := model.keys

	switch {
	case key.Matches(message, keys.Cancel):
		model.blur()
		return model, nil

	case key.Matches(message, keys.NextInput):
		next := model.focus + 1
		if next > FocusMaxPrice {
			next = FocusSearch
		}
		return model.focusInput(next)

	case key.Matches(message, keys.PrevInput):
		prev := model.focus - 1
		if prev < FocusSearch {
			prev = FocusMaxPrice
		}
		return model.focusInput(prev)

	case key.Matches(message, keys.Submit):
		if model.focus <= FocusTo {
			model.session.SubmitSearch()
		}
		model.blur()
		model.refresh()
		return model, nil
	}

	idx := int(model.focus) - 1
	var cmd tea.Cmd
	model.inputs[idx], cmd = model.inputs[idx].Update(message)
	value := model.inputs[idx].Value()

	switch model.focus {
	case FocusSearch:
		model.session.SetSearchText(value)
	case FocusFrom:
		model.session.SetFrom(value)
	case FocusTo:
		model.session.SetTo(value)
	case FocusMinPrice, FocusMaxPrice:
		model.session.SetPriceRange(
			parseBound(model.inputs[FocusMinPrice-1].Value()),
			parseBound(model.inputs[FocusMaxPrice-1].Value()),
		)
	}

	model.refresh()
	return model, cmd
}

func (model Model) handleHistoryKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := model.keys
	entries := model.view.History

	switch {
	case key.Matches(message, keys.Cancel), key.Matches(message, keys.History):
		model.focus = FocusList
	case key.Matches(message, keys.Up):
		if model.historyCursor > 0 {
			model.historyCursor--
		}
	case key.Matches(message, keys.Down):
		if model.historyCursor < len(entries)-1 {
			model.historyCursor++
		}
	case key.Matches(message, keys.Submit):
		if model.historyCursor < len(entries) {
			model.session.ApplyHistory(entries[model.historyCursor])
		}
		model.focus = FocusList
		model.refresh()
	}
	return model, nil
}

func (model Model) focusInput(region FocusRegion) (tea.Model, tea.Cmd) {
	model.blur()
	model.focus = region
	cmd := model.inputs[region-1].Focus()
	model.inputs[region-1].CursorEnd()
	return model, cmd
}

func (model *Model) blur() {
	for i := range model.inputs {
		model.inputs[i].Blur()
	}
	model.focus = FocusList
}

// refresh takes a new snapshot of the session and brings the idle inputs
// in line with it.
func (model *Model) refresh() {
	model.view = model.session.View()

	drafts := [inputCount]string{
		model.view.SearchDraft.FreeText,
		model.view.SearchDraft.From,
		model.view.SearchDraft.To,
		formatBound(model.view.MinPriceDraft),
		formatBound(model.view.MaxPriceDraft),
	}
	for i, value := range drafts {
		if model.inputs[i].Focused() || model.inputs[i].Value() == value {
			continue
		}
		// Equivalent spellings of the same bound stay as typed.
		if i+1 >= int(FocusMinPrice) && parseBound(model.inputs[i].Value()) == parseBound(value) {
			continue
		}
		model.inputs[i].SetValue(value)
	}

	if model.cursor >= len(model.view.Tickets) {
		model.cursor = max(len(model.view.Tickets)-1, 0)
	}
	if model.historyCursor >= len(model.view.History) {
		model.historyCursor = max(len(model.view.History)-1, 0)
	}
}

func nextPageSize(current int) int {
	i := slices.Index(querystate.PageSizes, current)
	return querystate.PageSizes[(i+1)%len(querystate.PageSizes)]
}

// parseBound reads a price input. Blank, unparsable or negative input
// means no bound.
func parseBound(raw string) querystate.Bound {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if raw == "" {
		return querystate.Bound{}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return querystate.Bound{}
	}
	return querystate.PriceBound(v)
}

func formatBound(b querystate.Bound) string {
	if !b.Valid {
		return ""
	}
	return strconv.FormatFloat(b.Value, 'f', -1, 64)
}
