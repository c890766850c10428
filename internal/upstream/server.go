// Package upstream is a stand-in for the tickets API. It serves the
// embedded fixture tickets under the same routes and response shapes as
// the real backend.
package upstream

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/ticketsearch/internal/filter"
	"github.com/dharmasatrya/ticketsearch/internal/models"
	"github.com/dharmasatrya/ticketsearch/internal/querystate"
	"github.com/dharmasatrya/ticketsearch/internal/transport"
	"github.com/dharmasatrya/ticketsearch/internal/upstream/data"
)

const maxSuggestions = 5

type fixtureFile struct {
	Tickets []models.Ticket `json:"tickets"`
}

type Server struct {
	tickets []models.Ticket
}

// NewServer loads the embedded fixtures.
func NewServer() (*Server, error) {
	var f fixtureFile
	if err := json.Unmarshal(data.Tickets, &f); err != nil {
		return nil, err
	}
	return NewServerWithTickets(f.Tickets), nil
}

func NewServerWithTickets(tickets []models.Ticket) *Server {
	return &Server{tickets: tickets}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/tickets", s.ListTickets)
	e.GET("/tickets/types", s.Types)
	e.GET("/tickets/suggestions", s.Suggestions)
}

func (s *Server) ListTickets(c echo.Context) error {
	state := querystate.FromQueryParams(querystate.ParamsFromValues(c.QueryParams()))

	// Apply sorts in place.
	all := filter.Apply(slices.Clone(s.tickets), state)
	page, meta := filter.Paginate(all, state.Page)

	return c.JSON(http.StatusOK, models.TicketListResponse{
		Data:       page,
		Pagination: meta,
	})
}

func (s *Server) Types(c echo.Context) error {
	counts := make(map[string]int)
	for _, t := range s.tickets {
		counts[strings.ToLower(t.TransportType)]++
	}

	facets := make([]models.TypeFacet, 0, len(transport.All))
	for _, typ := range transport.All {
		facets = append(facets, models.TypeFacet{
			Value: string(typ),
			Label: typ.Meta().Label,
			Count: counts[string(typ)],
		})
	}
	return c.JSON(http.StatusOK, facets)
}

func (s *Server) Suggestions(c echo.Context) error {
	q := strings.ToLower(strings.TrimSpace(c.QueryParam("query")))

	out := models.Suggestions{From: []string{}, To: []string{}, Operators: []string{}}
	if q == "" {
		return c.JSON(http.StatusOK, out)
	}

	for _, t := range s.tickets {
		out.From = appendMatch(out.From, t.From, q)
		out.To = appendMatch(out.To, t.To, q)
		out.Operators = appendMatch(out.Operators, t.OperatorName, q)
	}
	return c.JSON(http.StatusOK, out)
}

func appendMatch(list []string, candidate, q string) []string {
	if len(list) >= maxSuggestions || !strings.Contains(strings.ToLower(candidate), q) {
		return list
	}
	if slices.Contains(list, candidate) {
		return list
	}
	return append(list, candidate)
}
