package tui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dharmasatrya/ticketsearch/internal/fetch"
	"github.com/dharmasatrya/ticketsearch/internal/models"
	"github.com/dharmasatrya/ticketsearch/internal/querystate"
	"github.com/dharmasatrya/ticketsearch/internal/timezone"
	"github.com/dharmasatrya/ticketsearch/internal/transport"
	"github.com/dharmasatrya/ticketsearch/pkg/currency"
)

const listPath = "/tickets"

func (model Model) View() string {
	if model.width == 0 {
		return "Loading..."
	}

	sections := []string{
		model.renderAddressBar(),
		model.renderInputs(),
		model.renderControls(),
		model.renderSeparator(),
	}

	if status := model.renderStatus(); status != "" {
		sections = append(sections, status)
	}
	if model.focus == FocusHistory {
		sections = append(sections, model.renderHistory())
	} else if len(model.view.Tickets) > 0 {
		sections = append(sections, model.renderTickets())
	}
	if pager := model.renderPager(); pager != "" {
		sections = append(sections, pager)
	}

	sections = append(sections, model.renderSeparator(), model.renderHelp())
	return strings.Join(sections, "\n")
}

// renderAddressBar shows the canonical location the current state maps to.
func (model Model) renderAddressBar() string {
	location := listPath
	if encoded := model.view.Params.Encode(); encoded != "" {
		location += "?" + encoded
	}
	return lipgloss.NewStyle().
		Foreground(model.theme.AddressBar).
		MaxWidth(model.width).
		Render(location)
}

func (model Model) renderInputs() string {
	var fields []string
	for i := range model.inputs {
		field := model.inputs[i].View()
		if model.inputs[i].Focused() {
			field = lipgloss.NewStyle().Bold(true).Render(field)
		}
		fields = append(fields, field)
	}

	var pending []string
	if model.view.TypesPending {
		pending = append(pending, "type")
	}
	if model.view.SearchPending {
		pending = append(pending, "search")
	}
	if model.view.PricePending {
		pending = append(pending, "price")
	}

	line := strings.Join(fields[:FocusTo], "  ") + "   " + strings.Join(fields[FocusTo:], " ")
	if len(pending) > 0 {
		line += lipgloss.NewStyle().
			Foreground(model.theme.FaintText).
			Render("  (" + strings.Join(pending, ", ") + " pending)")
	}
	return line
}

// renderControls is the type chips, sort indicator and page size.
func (model Model) renderControls() string {
	state := model.view.State

	var chips []string
	for i, t := range transport.All {
		meta := t.Meta()
		label := fmt.Sprintf("%d %s %s", i+1, meta.Icon, meta.Label)
		style := lipgloss.NewStyle().Foreground(model.theme.TransportColor(string(t)))
		if slices.Contains(model.view.TypesDraft, string(t)) {
			style = style.Bold(true).Reverse(true)
			label = "[" + label + "]"
		} else {
			label = " " + label + " "
		}
		chips = append(chips, style.Render(label))
	}

	arrow := "↓"
	if state.Sort.Direction == querystate.Asc {
		arrow = "↑"
	}
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	sort := faint.Render("sort ") + sortLabel(state.Sort.Key) + " " + arrow
	size := faint.Render("per page ") + strconv.Itoa(state.Page.PageSize)

	return strings.Join(chips, " ") + "   " + sort + "   " + size
}

func sortLabel(k querystate.SortKey) string {
	switch k {
	case querystate.SortPrice:
		return "price"
	case querystate.SortRating:
		return "rating"
	case querystate.SortDepartureTime:
		return "departure"
	default:
		return "newest"
	}
}

func (model Model) renderStatus() string {
	view := model.view
	switch {
	case view.Status == fetch.StatusError:
		message := "Couldn't load tickets"
		if view.Err != nil {
			message += ": " + view.Err.Error()
		}
		return lipgloss.NewStyle().
			Foreground(model.theme.ErrorForeground).
			Background(model.theme.ErrorBackground).
			MaxWidth(model.width).
			Render(message + "  r retry")

	case view.Status == fetch.StatusFetching && len(view.Tickets) == 0:
		return lipgloss.NewStyle().Foreground(model.theme.FaintText).Render("Loading tickets...")

	case view.Empty:
		message := "No tickets match your search."
		if view.State.HasCriteria() {
			message += "  c clear all"
		}
		return lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(message)
	}
	return ""
}

func (model Model) renderTickets() string {
	lines := make([]string, 0, len(model.view.Tickets))
	for i, ticket := range model.view.Tickets {
		lines = append(lines, model.renderTicket(ticket, i == model.cursor))
	}
	return strings.Join(lines, "\n")
}

func (model Model) renderTicket(ticket models.Ticket, selected bool) string {
	meta := transport.Lookup(ticket.TransportType)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	price := lipgloss.NewStyle().Foreground(model.theme.Price).Render(currency.FormatBDT(ticket.Price))
	if ticket.SoldOut() {
		price = lipgloss.NewStyle().Foreground(model.theme.SoldOut).Render("sold out")
	}

	departure := timezone.FormatDeparture(ticket.NextDeparture(), ticket.From)
	rating := ""
	if ticket.Rating.Count > 0 {
		rating = fmt.Sprintf("★ %.1f (%d)", ticket.Rating.Average, ticket.Rating.Count)
	}

	line := fmt.Sprintf("%s %s  %s → %s  %s  %s  %s",
		lipgloss.NewStyle().Foreground(model.theme.TransportColor(ticket.TransportType)).Render(meta.Icon),
		ticket.Title,
		ticket.From,
		ticket.To,
		faint.Render(departure),
		price,
		faint.Render(rating),
	)

	style := lipgloss.NewStyle().Foreground(model.theme.NormalText).MaxWidth(model.width)
	if selected && model.focus == FocusList {
		style = style.
			Background(model.theme.SelectedBackground).
			Foreground(model.theme.SelectedForeground)
	}
	return style.Render(line)
}

// renderPager draws the page window with the current page highlighted,
// followed by the totals.
func (model Model) renderPager() string {
	pagination := model.view.Pagination
	if pagination == nil || pagination.TotalPages == 0 {
		return ""
	}

	current := model.view.State.Page.Page
	active := lipgloss.NewStyle().Foreground(model.theme.ActivePage).Bold(true)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	var slots []string
	for _, slot := range model.view.Window {
		switch {
		case slot.IsGap():
			slots = append(slots, faint.Render(slot.String()))
		case slot.Page == current:
			slots = append(slots, active.Render("["+slot.String()+"]"))
		default:
			slots = append(slots, slot.String())
		}
	}

	totals := faint.Render(fmt.Sprintf("Page %d of %d · %d tickets",
		current, pagination.TotalPages, pagination.TotalItems))
	return strings.Join(slots, " ") + "   " + totals
}

func (model Model) renderHistory() string {
	header := lipgloss.NewStyle().
		Foreground(model.theme.HeaderForeground).
		Bold(true).
		Render("Recent searches")

	lines := []string{header}
	for i, entry := range model.view.History {
		style := lipgloss.NewStyle().Foreground(model.theme.NormalText)
		if i == model.historyCursor {
			style = style.
				Background(model.theme.SelectedBackground).
				Foreground(model.theme.SelectedForeground)
		}
		lines = append(lines, style.Render("  "+entry.Label()))
	}
	return strings.Join(lines, "\n")
}

func (model Model) renderSeparator() string {
	return lipgloss.NewStyle().
		Foreground(model.theme.BorderColor).
		Render(strings.Repeat("─", model.width))
}

func (model Model) renderHelp() string {
	return lipgloss.NewStyle().
		Foreground(model.theme.HelpText).
		Render(model.help.View(model.keys))
}
