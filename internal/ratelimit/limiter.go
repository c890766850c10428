// Package ratelimit throttles calls to the tickets API with one token
// bucket per endpoint.
package ratelimit

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/time/rate"
)

type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

// DefaultConfig is the bucket given to endpoints missing from the limits
// table.
func DefaultConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 10,
		BurstSize:         20,
	}
}

// Limits maps an endpoint name to its bucket.
type Limits map[string]RateLimitConfig

// EndpointLimiter holds one bucket per endpoint so a burst of suggestion
// lookups cannot starve the listing query. Buckets for endpoints in the
// limits table exist up front; any other endpoint shares the fallback
// configuration in a bucket of its own, created on first use.
type EndpointLimiter struct {
	fallback RateLimitConfig
	limits   Limits

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func New(fallback RateLimitConfig, limits Limits) *EndpointLimiter {
	l := &EndpointLimiter{
		fallback: fallback,
		limits:   make(Limits, len(limits)),
		limiters: make(map[string]*rate.Limiter, len(limits)),
	}
	for endpoint, cfg := range limits {
		l.limits[endpoint] = cfg
		l.limiters[endpoint] = newBucket(cfg)
	}
	return l
}

func newBucket(cfg RateLimitConfig) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize)
}

// Limit reports the bucket configuration an endpoint is throttled with.
func (l *EndpointLimiter) Limit(endpoint string) RateLimitConfig {
	if cfg, ok := l.limits[endpoint]; ok {
		return cfg
	}
	return l.fallback
}

// Endpoints lists the endpoints with a configured bucket, sorted.
func (l *EndpointLimiter) Endpoints() []string {
	endpoints := make([]string, 0, len(l.limits))
	for endpoint := range l.limits {
		endpoints = append(endpoints, endpoint)
	}
	slices.Sort(endpoints)
	return endpoints
}

func (l *EndpointLimiter) bucket(endpoint string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.limiters[endpoint]
	if !ok {
		b = newBucket(l.fallback)
		l.limiters[endpoint] = b
	}
	return b
}

// Allow takes a token without waiting.
func (l *EndpointLimiter) Allow(endpoint string) bool {
	return l.bucket(endpoint).Allow()
}

// Wait blocks until the endpoint's bucket has a token. It fails early
// when ctx would expire before one is available.
func (l *EndpointLimiter) Wait(ctx context.Context, endpoint string) error {
	if err := l.bucket(endpoint).Wait(ctx); err != nil {
		return fmt.Errorf("%s rate limit: %w", endpoint, err)
	}
	return nil
}
