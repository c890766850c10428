package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/ticketsearch/internal/models"
	"github.com/dharmasatrya/ticketsearch/internal/querystate"
)

// MergeQuery folds one control's patch into the state described by the
// given params and answers with the next canonical query. Controls call
// it instead of editing the address bar themselves.
func (h *Handler) MergeQuery(c echo.Context) error {
	var req models.QueryMergeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid_request", "Failed to parse request body: "+err.Error())
	}

	kind := querystate.FacetKind(req.Facet)
	if !kind.Valid() {
		return badRequest(c, "validation_error", models.ErrUnknownFacet.Error())
	}

	patch, err := querystate.DecodePatch(kind, req.Patch)
	if err != nil {
		return badRequest(c, "validation_error", err.Error())
	}

	current := querystate.FromQueryParams(querystate.Params(req.Params))
	return c.JSON(http.StatusOK, newQueryView(querystate.Merge(current, patch)))
}
