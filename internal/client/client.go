package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dharmasatrya/ticketsearch/internal/cache"
	"github.com/dharmasatrya/ticketsearch/internal/metrics"
	"github.com/dharmasatrya/ticketsearch/internal/models"
	"github.com/dharmasatrya/ticketsearch/internal/querystate"
	"github.com/dharmasatrya/ticketsearch/internal/ratelimit"
)

// Endpoint names, used for rate-limit buckets and metric labels.
const (
	EndpointTickets     = "tickets"
	EndpointTypes       = "types"
	EndpointSuggestions = "suggestions"
)

// DefaultLimits throttles the listing query least: it is the one every
// control change triggers. Types rarely change between page loads.
func DefaultLimits() ratelimit.Limits {
	return ratelimit.Limits{
		EndpointTickets:     {RequestsPerSecond: 20, BurstSize: 30},
		EndpointTypes:       {RequestsPerSecond: 5, BurstSize: 10},
		EndpointSuggestions: {RequestsPerSecond: 10, BurstSize: 20},
	}
}

// API is the read-only surface of the tickets backend.
type API interface {
	ListTickets(ctx context.Context, params querystate.Params) (*models.TicketListResponse, error)
	Types(ctx context.Context) ([]models.TypeFacet, error)
	Suggestions(ctx context.Context, query string) (*models.Suggestions, error)
}

type Config struct {
	BaseURL     string
	Timeout     time.Duration
	RateLimiter *ratelimit.EndpointLimiter
	Cache       cache.Cache
	Metrics     metrics.Recorder
	Logger      *zap.Logger
	HTTPClient  *http.Client

	// MaxRetries extra attempts are made after a transport error or a
	// 5xx answer. RetryDelays[i] is waited before retry i+1; the last
	// delay repeats.
	MaxRetries  int
	RetryDelays []time.Duration
}

type Client struct {
	baseURL *url.URL
	http    *http.Client
	limiter *ratelimit.EndpointLimiter
	cache   cache.Cache
	metrics metrics.Recorder
	logger  *zap.Logger
	retry   retryPolicy
}

func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse tickets API url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("tickets API url %q must be absolute", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	c := &Client{
		baseURL: base,
		http:    httpClient,
		limiter: cfg.RateLimiter,
		cache:   cfg.Cache,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
		retry:   newRetryPolicy(cfg.MaxRetries, cfg.RetryDelays),
	}
	if c.limiter == nil {
		c.limiter = ratelimit.New(ratelimit.DefaultConfig(), DefaultLimits())
	}
	if c.cache == nil {
		c.cache = cache.NewNoOpCache()
	}
	if c.metrics == nil {
		c.metrics = metrics.Nop{}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c, nil
}

func (c *Client) ListTickets(ctx context.Context, params querystate.Params) (*models.TicketListResponse, error) {
	key := cache.Key(EndpointTickets, params)

	var resp models.TicketListResponse
	if c.lookup(ctx, EndpointTickets, key, &resp) {
		return &resp, nil
	}

	if err := c.get(ctx, EndpointTickets, "/tickets", params.Values(), &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		resp.Data = []models.Ticket{}
	}

	c.store(ctx, key, resp)
	return &resp, nil
}

func (c *Client) Types(ctx context.Context) ([]models.TypeFacet, error) {
	key := cache.Key(EndpointTypes, nil)

	var facets []models.TypeFacet
	if c.lookup(ctx, EndpointTypes, key, &facets) {
		return facets, nil
	}

	if err := c.get(ctx, EndpointTypes, "/tickets/types", nil, &facets); err != nil {
		return nil, err
	}
	if facets == nil {
		facets = []models.TypeFacet{}
	}

	c.store(ctx, key, facets)
	return facets, nil
}

func (c *Client) Suggestions(ctx context.Context, query string) (*models.Suggestions, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &models.Suggestions{From: []string{}, To: []string{}, Operators: []string{}}, nil
	}
	key := cache.Key(EndpointSuggestions, map[string]string{"query": strings.ToLower(query)})

	var s models.Suggestions
	if c.lookup(ctx, EndpointSuggestions, key, &s) {
		return &s, nil
	}

	if err := c.get(ctx, EndpointSuggestions, "/tickets/suggestions", url.Values{"query": {query}}, &s); err != nil {
		return nil, err
	}

	c.store(ctx, key, s)
	return &s, nil
}

func (c *Client) lookup(ctx context.Context, namespace, key string, dest any) bool {
	hit := c.cache.Get(ctx, key, dest)
	c.metrics.CacheLookup(namespace, hit)
	return hit
}

func (c *Client) store(ctx context.Context, key string, value any) {
	if err := c.cache.Set(ctx, key, value); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values, dest any) (err error) {
	start := time.Now()
	defer func() {
		c.metrics.UpstreamRequest(endpoint, time.Since(start).Seconds(), err)
		if err != nil {
			c.logger.Warn("tickets API request failed",
				zap.String("endpoint", endpoint),
				zap.Duration("duration", time.Since(start)),
				zap.Error(err),
			)
			return
		}
		c.logger.Debug("tickets API request",
			zap.String("endpoint", endpoint),
			zap.String("query", query.Encode()),
			zap.Duration("duration", time.Since(start)),
		)
	}()

	if err := c.limiter.Wait(ctx, endpoint); err != nil {
		return NewAPIError(endpoint, 0, err)
	}

	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	u.RawQuery = query.Encode()

	return c.retry.do(ctx, func(attempt int) error {
		if attempt > 0 {
			c.logger.Debug("retrying tickets API request",
				zap.String("endpoint", endpoint),
				zap.Int("attempt", attempt+1),
			)
		}
		return c.fetch(ctx, endpoint, u.String(), dest)
	})
}

func (c *Client) fetch(ctx context.Context, endpoint, target string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return NewAPIError(endpoint, 0, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return NewAPIError(endpoint, 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return NewAPIError(endpoint, resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return NewAPIError(endpoint, resp.StatusCode, errors.New(errorMessage(resp.StatusCode, body)))
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return NewAPIError(endpoint, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func errorMessage(status int, body []byte) string {
	var e models.ErrorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return e.Message
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) < 200 {
		return text
	}
	return http.StatusText(status)
}
