package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dharmasatrya/ticketsearch/internal/history"
	"github.com/dharmasatrya/ticketsearch/internal/models"
)

// CookieConfig names the cookie that ties a browser to its history.
type CookieConfig struct {
	Name   string
	MaxAge time.Duration
}

func DefaultCookieConfig() CookieConfig {
	return CookieConfig{Name: "sid", MaxAge: 30 * 24 * time.Hour}
}

type historyResponse struct {
	Entries []history.Entry `json:"entries"`
}

func (h *Handler) GetHistory(c echo.Context) error {
	entries := h.loadHistory(c, h.sessionStore(c))
	return c.JSON(http.StatusOK, historyResponse{Entries: entries})
}

// AddHistory records a submitted search at the front of the session's
// history.
func (h *Handler) AddHistory(c echo.Context) error {
	var req models.HistoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid_request", "Failed to parse request body: "+err.Error())
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, "validation_error", err.Error())
	}

	store := h.sessionStore(c)
	entries := history.Record(history.Entry{
		FreeText:  req.FreeText,
		From:      req.From,
		To:        req.To,
		Timestamp: time.Now(),
	}, h.loadHistory(c, store))

	if err := store.Save(c.Request().Context(), entries); err != nil {
		h.logger.Warn("save search history", zap.Error(err))
	}
	return c.JSON(http.StatusOK, historyResponse{Entries: entries})
}

func (h *Handler) ClearHistory(c echo.Context) error {
	if err := h.sessionStore(c).Save(c.Request().Context(), []history.Entry{}); err != nil {
		h.logger.Warn("clear search history", zap.Error(err))
	}
	return c.NoContent(http.StatusNoContent)
}

// loadHistory treats an unreadable store as an empty history.
func (h *Handler) loadHistory(c echo.Context, store history.Store) []history.Entry {
	entries, err := store.Load(c.Request().Context())
	if err != nil {
		h.logger.Warn("load search history", zap.Error(err))
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	return entries
}

// sessionStore returns the store for the caller's session, issuing a
// new session cookie when the request carries none.
func (h *Handler) sessionStore(c echo.Context) history.Store {
	if cookie, err := c.Cookie(h.cookie.Name); err == nil {
		if id, err := uuid.Parse(cookie.Value); err == nil {
			return h.sessions.ForSession(id.String())
		}
	}

	id := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    id,
		Path:     "/",
		MaxAge:   int(h.cookie.MaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return h.sessions.ForSession(id)
}
