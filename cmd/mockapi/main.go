package main

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/dharmasatrya/ticketsearch/internal/config"
	"github.com/dharmasatrya/ticketsearch/internal/handler"
	"github.com/dharmasatrya/ticketsearch/internal/upstream"
	"github.com/dharmasatrya/ticketsearch/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	log := logger.Must(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()

	srv, err := upstream.NewServer()
	if err != nil {
		log.Fatal("Failed to load fixtures", zap.Error(err))
	}

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(handler.RequestLogger(log))

	faults := upstream.Faults{
		MinLatency:  cfg.MockAPI.MinLatency,
		MaxLatency:  cfg.MockAPI.MaxLatency,
		FailureRate: cfg.MockAPI.FailureRate,
	}
	if faults.Enabled() {
		e.Use(faults.Middleware())
	}

	srv.Register(e)
	e.GET("/health", handler.HealthHandler)

	log.Info("Starting mock tickets API",
		zap.String("addr", cfg.MockAPI.Addr()),
		zap.Duration("maxLatency", faults.MaxLatency),
		zap.Float64("failureRate", faults.FailureRate),
	)
	if err := e.Start(cfg.MockAPI.Addr()); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
