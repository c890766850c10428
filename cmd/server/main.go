package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dharmasatrya/ticketsearch/internal/cache"
	"github.com/dharmasatrya/ticketsearch/internal/client"
	"github.com/dharmasatrya/ticketsearch/internal/config"
	"github.com/dharmasatrya/ticketsearch/internal/handler"
	"github.com/dharmasatrya/ticketsearch/internal/history"
	"github.com/dharmasatrya/ticketsearch/internal/home"
	"github.com/dharmasatrya/ticketsearch/internal/metrics"
	"github.com/dharmasatrya/ticketsearch/internal/ratelimit"
	"github.com/dharmasatrya/ticketsearch/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	log := logger.Must(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(handler.RequestLogger(log))

	rateLimiter := ratelimit.New(ratelimit.DefaultConfig(), cfg.Upstream.Limits())

	var (
		responseCache cache.Cache
		sessions      history.Sessions
		redisClient   *redis.Client
	)
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedisClient(cfg.Cache.Redis())
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		responseCache = cache.NewRedisCache(redisClient, cfg.Cache.TTL)
		sessions = history.NewRedisSessions(redisClient, cfg.History.TTL)
		log.Info("Redis cache enabled",
			zap.String("addr", cfg.Cache.RedisHost),
			zap.Int("port", cfg.Cache.RedisPort),
			zap.Duration("ttl", cfg.Cache.TTL),
		)
	} else {
		responseCache = cache.NewNoOpCache()
		sessions = history.NewMemorySessions()
		log.Info("Cache disabled, search history kept in memory")
	}
	defer responseCache.Close()

	recorder := metrics.NewPrometheus()

	api, err := client.New(client.Config{
		BaseURL:     cfg.Upstream.BaseURL,
		Timeout:     cfg.Upstream.Timeout,
		RateLimiter: rateLimiter,
		Cache:       responseCache,
		Metrics:     recorder,
		Logger:      log.Named("client"),
		MaxRetries:  cfg.Upstream.MaxRetries,
		RetryDelays: cfg.Upstream.RetryDelays,
	})
	if err != nil {
		log.Fatal("Invalid tickets API configuration", zap.Error(err))
	}

	homeConfig := home.DefaultConfig()
	homeConfig.Timeout = cfg.Server.HomeTimeout

	h := handler.New(handler.Config{
		API:      api,
		Home:     home.NewBuilder(api, homeConfig, log.Named("home")),
		Sessions: sessions,
		Cookie:   handler.CookieConfig{Name: cfg.History.CookieName, MaxAge: cfg.History.TTL},
		Metrics:  recorder,
		Logger:   log,
	})
	h.Register(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      e,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("Starting ticket search server",
			zap.String("addr", cfg.Server.Addr()),
			zap.String("upstream", cfg.Upstream.BaseURL),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
}
