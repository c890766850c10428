package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/dharmasatrya/ticketsearch/internal/cache"
	"github.com/dharmasatrya/ticketsearch/internal/client"
	"github.com/dharmasatrya/ticketsearch/internal/ratelimit"
)

type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Cache    CacheConfig
	History  HistoryConfig
	Log      LogConfig
	MockAPI  MockAPIConfig
}

type ServerConfig struct {
	Host            string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	HomeTimeout     time.Duration `env:"HOME_TIMEOUT" envDefault:"3s"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// UpstreamConfig points at the tickets API and throttles each of its
// endpoints separately.
type UpstreamConfig struct {
	BaseURL string        `env:"TICKETS_API_URL" envDefault:"http://localhost:8081"`
	Timeout time.Duration `env:"TICKETS_API_TIMEOUT" envDefault:"5s"`

	// Retries are opt-in. With the default a failed query surfaces at
	// once and the user decides whether to retry.
	MaxRetries  int             `env:"TICKETS_API_MAX_RETRIES" envDefault:"0"`
	RetryDelays []time.Duration `env:"TICKETS_API_RETRY_DELAYS" envDefault:"100ms,200ms" envSeparator:","`

	TicketsRPS       float64 `env:"RATE_TICKETS_RPS" envDefault:"20"`
	TicketsBurst     int     `env:"RATE_TICKETS_BURST" envDefault:"30"`
	TypesRPS         float64 `env:"RATE_TYPES_RPS" envDefault:"5"`
	TypesBurst       int     `env:"RATE_TYPES_BURST" envDefault:"10"`
	SuggestionsRPS   float64 `env:"RATE_SUGGESTIONS_RPS" envDefault:"10"`
	SuggestionsBurst int     `env:"RATE_SUGGESTIONS_BURST" envDefault:"20"`
}

func (u UpstreamConfig) Limits() ratelimit.Limits {
	return ratelimit.Limits{
		client.EndpointTickets:     {RequestsPerSecond: u.TicketsRPS, BurstSize: u.TicketsBurst},
		client.EndpointTypes:       {RequestsPerSecond: u.TypesRPS, BurstSize: u.TypesBurst},
		client.EndpointSuggestions: {RequestsPerSecond: u.SuggestionsRPS, BurstSize: u.SuggestionsBurst},
	}
}

type CacheConfig struct {
	Enabled   bool          `env:"CACHE_ENABLED" envDefault:"true"`
	RedisHost string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort int           `env:"REDIS_PORT" envDefault:"6379"`
	Password  string        `env:"REDIS_PASSWORD" envDefault:""`
	DB        int           `env:"REDIS_DB" envDefault:"0"`
	TTL       time.Duration `env:"REDIS_TTL" envDefault:"1m"`
}

func (c CacheConfig) Redis() cache.RedisConfig {
	return cache.RedisConfig{
		Host:     c.RedisHost,
		Port:     strconv.Itoa(c.RedisPort),
		Password: c.Password,
		DB:       c.DB,
		TTL:      c.TTL,
	}
}

type HistoryConfig struct {
	// How long an idle browsing session keeps its search history.
	TTL        time.Duration `env:"HISTORY_TTL" envDefault:"720h"`
	CookieName string        `env:"HISTORY_COOKIE" envDefault:"sid"`
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	// json or console
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type MockAPIConfig struct {
	Port int `env:"MOCK_API_PORT" envDefault:"8081"`

	MinLatency  time.Duration `env:"MOCK_API_MIN_LATENCY" envDefault:"50ms"`
	MaxLatency  time.Duration `env:"MOCK_API_MAX_LATENCY" envDefault:"150ms"`
	FailureRate float64       `env:"MOCK_API_FAILURE_RATE" envDefault:"0"`
}

func (m MockAPIConfig) Addr() string {
	return fmt.Sprintf(":%d", m.Port)
}

// Load reads the configuration from the environment, after loading a
// .env file if one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}
