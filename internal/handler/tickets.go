package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dharmasatrya/ticketsearch/internal/querystate"
)

// ListTickets restores the state from the query string, runs it against
// the tickets API and returns the listing view model. A page past the
// end is pulled back to the last page with one more query.
func (h *Handler) ListTickets(c echo.Context) error {
	ctx := c.Request().Context()

	state := querystate.FromQueryParams(querystate.ParamsFromValues(c.QueryParams()))

	resp, err := h.api.ListTickets(ctx, querystate.ToQueryParams(state))
	if err != nil {
		return h.upstreamError(c, err)
	}

	clamped := false
	if total := resp.Pagination.TotalPages; total > 0 && state.Page.Page > total {
		h.logger.Debug("page past the end",
			zap.Int("page", state.Page.Page),
			zap.Int("totalPages", total),
		)
		state = querystate.Merge(state, querystate.PagePatch{Page: &total})
		if resp, err = h.api.ListTickets(ctx, querystate.ToQueryParams(state)); err != nil {
			return h.upstreamError(c, err)
		}
		clamped = true
	}

	h.metrics.ListRendered(len(resp.Data))
	return c.JSON(http.StatusOK, newListView(state, resp, clamped))
}

func (h *Handler) Types(c echo.Context) error {
	facets, err := h.api.Types(c.Request().Context())
	if err != nil {
		return h.upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, facets)
}

func (h *Handler) Suggestions(c echo.Context) error {
	s, err := h.api.Suggestions(c.Request().Context(), c.QueryParam("query"))
	if err != nil {
		return h.upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) Home(c echo.Context) error {
	return c.JSON(http.StatusOK, h.home.Build(c.Request().Context()))
}
