package ratelimit

import (
	"context"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestEndpointsHaveSeparateBuckets(t *testing.T) {
	limiter := New(DefaultConfig(), Limits{
		"tickets":     {RequestsPerSecond: 1, BurstSize: 1},
		"suggestions": {RequestsPerSecond: 1, BurstSize: 1},
	})

	if !limiter.Allow("tickets") {
		t.Fatal("first tickets request should be allowed")
	}
	if limiter.Allow("tickets") {
		t.Error("second immediate tickets request should be throttled")
	}
	if !limiter.Allow("suggestions") {
		t.Error("suggestions bucket should be independent of tickets")
	}
}

func TestLimitFallsBackForUnknownEndpoint(t *testing.T) {
	types := RateLimitConfig{RequestsPerSecond: 5, BurstSize: 10}
	limiter := New(DefaultConfig(), Limits{"types": types})

	if got := limiter.Limit("types"); got != types {
		t.Errorf("types limit = %+v, want %+v", got, types)
	}
	if got := limiter.Limit("home"); got != DefaultConfig() {
		t.Errorf("unlisted endpoint should use the fallback, got %+v", got)
	}
	if got := limiter.Endpoints(); !slices.Equal(got, []string{"types"}) {
		t.Errorf("endpoints = %v", got)
	}

	for i := 0; i < DefaultConfig().BurstSize; i++ {
		if !limiter.Allow("home") {
			t.Fatalf("fallback bucket exhausted after %d requests", i)
		}
	}
	if limiter.Allow("home") {
		t.Error("fallback bucket should hold its burst size")
	}
}

func TestLimitsAreCopied(t *testing.T) {
	limits := Limits{"tickets": {RequestsPerSecond: 1, BurstSize: 1}}
	limiter := New(DefaultConfig(), limits)
	limits["tickets"] = RateLimitConfig{RequestsPerSecond: 100, BurstSize: 100}

	if got := limiter.Limit("tickets").BurstSize; got != 1 {
		t.Errorf("limiter should keep its own table, burst = %d", got)
	}
}

func TestWaitNamesEndpointOnExpiry(t *testing.T) {
	limiter := New(DefaultConfig(), Limits{"types": {RequestsPerSecond: 0.001, BurstSize: 1}})
	limiter.Allow("types")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx, "types")
	if err == nil {
		t.Fatal("expected Wait to fail once the bucket is empty and the context expires")
	}
	if !strings.HasPrefix(err.Error(), "types rate limit") {
		t.Errorf("error should name the endpoint, got %q", err)
	}
}
