package handler

import (
	"github.com/dharmasatrya/ticketsearch/internal/models"
	"github.com/dharmasatrya/ticketsearch/internal/querystate"
	"github.com/dharmasatrya/ticketsearch/internal/timezone"
	"github.com/dharmasatrya/ticketsearch/internal/transport"
	"github.com/dharmasatrya/ticketsearch/pkg/currency"
)

// StateView is the query state as the browser controls read it.
type StateView struct {
	Search    querystate.SearchFacet `json:"search"`
	Types     []string               `json:"types"`
	MinPrice  *float64               `json:"minPrice"`
	MaxPrice  *float64               `json:"maxPrice"`
	SortBy    string                 `json:"sortBy"`
	SortOrder string                 `json:"sortOrder"`
	Page      int                    `json:"page"`
	PageSize  int                    `json:"pageSize"`
}

func newStateView(s querystate.State) StateView {
	v := StateView{
		Search:    s.Search,
		Types:     s.Filter.Types,
		SortBy:    string(s.Sort.Key),
		SortOrder: string(s.Sort.Direction),
		Page:      s.Page.Page,
		PageSize:  s.Page.PageSize,
	}
	if v.Types == nil {
		v.Types = []string{}
	}
	if s.Filter.MinPrice.Valid {
		v.MinPrice = &s.Filter.MinPrice.Value
	}
	if s.Filter.MaxPrice.Valid {
		v.MaxPrice = &s.Filter.MaxPrice.Value
	}
	return v
}

// QueryView pairs a state with its canonical address-bar form.
type QueryView struct {
	State  StateView         `json:"state"`
	Params querystate.Params `json:"params"`
	// Query is the canonical query string without the leading '?'.
	Query string `json:"query"`
}

func newQueryView(s querystate.State) QueryView {
	params := querystate.ToQueryParams(s)
	return QueryView{
		State:  newStateView(s),
		Params: params,
		Query:  params.Encode(),
	}
}

type TicketView struct {
	models.Ticket
	Transport      transport.Meta `json:"transport"`
	PriceLabel     string         `json:"priceLabel"`
	DepartureLabel string         `json:"departureLabel"`
	IsSoldOut      bool           `json:"soldOut"`
}

func newTicketView(t models.Ticket) TicketView {
	return TicketView{
		Ticket:         t,
		Transport:      transport.Lookup(t.TransportType),
		PriceLabel:     currency.FormatBDT(t.Price),
		DepartureLabel: timezone.FormatDeparture(t.NextDeparture(), t.From),
		IsSoldOut:      t.SoldOut(),
	}
}

type ListView struct {
	QueryView
	Tickets    []TicketView          `json:"tickets"`
	Pagination models.PaginationMeta `json:"pagination"`
	Window     []querystate.PageSlot `json:"window"`
	// Empty is set when the query ran fine and matched nothing.
	Empty bool `json:"empty"`
	// CanClear is set when an empty result has criteria to clear.
	CanClear bool `json:"canClear"`
	// Clamped is set when the requested page was past the end and the
	// last page was served instead.
	Clamped bool `json:"clamped"`
}

func newListView(s querystate.State, resp *models.TicketListResponse, clamped bool) ListView {
	tickets := make([]TicketView, len(resp.Data))
	for i, t := range resp.Data {
		tickets[i] = newTicketView(t)
	}

	window := querystate.ComputePageWindow(s.Page.Page, resp.Pagination.TotalPages, querystate.DefaultMaxVisible)
	if window == nil {
		window = []querystate.PageSlot{}
	}

	empty := len(resp.Data) == 0
	return ListView{
		QueryView:  newQueryView(s),
		Tickets:    tickets,
		Pagination: resp.Pagination,
		Window:     window,
		Empty:      empty,
		CanClear:   empty && s.HasCriteria(),
		Clamped:    clamped,
	}
}
