package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dharmasatrya/ticketsearch/internal/client"
	"github.com/dharmasatrya/ticketsearch/internal/history"
	"github.com/dharmasatrya/ticketsearch/internal/home"
	"github.com/dharmasatrya/ticketsearch/internal/metrics"
	"github.com/dharmasatrya/ticketsearch/internal/models"
)

type Handler struct {
	api      client.API
	home     *home.Builder
	sessions history.Sessions
	cookie   CookieConfig
	metrics  metrics.Recorder
	logger   *zap.Logger
}

type Config struct {
	API      client.API
	Home     *home.Builder
	Sessions history.Sessions
	Cookie   CookieConfig
	Metrics  metrics.Recorder
	Logger   *zap.Logger
}

func New(cfg Config) *Handler {
	h := &Handler{
		api:      cfg.API,
		home:     cfg.Home,
		sessions: cfg.Sessions,
		cookie:   cfg.Cookie,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
	}
	if h.home == nil {
		h.home = home.NewBuilder(cfg.API, home.DefaultConfig(), cfg.Logger)
	}
	if h.sessions == nil {
		h.sessions = history.NewMemorySessions()
	}
	if h.cookie.Name == "" {
		h.cookie = DefaultCookieConfig()
	}
	if h.metrics == nil {
		h.metrics = metrics.Nop{}
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	return h
}

// Register mounts every route on e.
func (h *Handler) Register(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.GET("/tickets", h.ListTickets)
	api.GET("/tickets/types", h.Types)
	api.GET("/tickets/suggestions", h.Suggestions)
	api.POST("/query", h.MergeQuery)
	api.GET("/history", h.GetHistory)
	api.POST("/history", h.AddHistory)
	api.DELETE("/history", h.ClearHistory)
	api.GET("/home", h.Home)

	e.GET("/health", HealthHandler)
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func badRequest(c echo.Context, kind, message string) error {
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   kind,
		Message: message,
		Code:    http.StatusBadRequest,
	})
}

// upstreamError maps a tickets API failure to 502, keeping the upstream
// message for the error banner.
func (h *Handler) upstreamError(c echo.Context, err error) error {
	h.logger.Warn("tickets API failed",
		zap.String("path", c.Path()),
		zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		zap.Error(err),
	)

	message := err.Error()
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		message = apiErr.Err.Error()
	}
	return c.JSON(http.StatusBadGateway, models.ErrorResponse{
		Error:   "upstream_error",
		Message: "Failed to load tickets: " + message,
		Code:    http.StatusBadGateway,
	})
}
