package client

import (
	"context"
	"errors"
	"net/http"
	"time"
)

type retryPolicy struct {
	maxRetries int
	delays     []time.Duration
}

func newRetryPolicy(maxRetries int, delays []time.Duration) retryPolicy {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if maxRetries > 0 && len(delays) == 0 {
		delays = []time.Duration{100 * time.Millisecond}
	}
	return retryPolicy{maxRetries: maxRetries, delays: delays}
}

func (p retryPolicy) delay(attempt int) time.Duration {
	idx := attempt - 1
	if idx >= len(p.delays) {
		idx = len(p.delays) - 1
	}
	return p.delays[idx]
}

// do runs call until it succeeds, fails permanently or the retries run
// out, and returns the last error.
func (p retryPolicy) do(ctx context.Context, call func(attempt int) error) error {
	var lastErr error

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			if lastErr != nil {
				return lastErr
			}
			return ctx.Err()
		default:
		}

		if attempt > 0 {
			timer := time.NewTimer(p.delay(attempt))
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return lastErr
			}
		}

		err := call(attempt)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable(ctx, err) {
			return err
		}
	}

	return lastErr
}

// retryable reports whether err is worth another attempt: a transport
// failure or a 5xx answer, as long as the caller has not given up.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == 0 || apiErr.StatusCode >= http.StatusInternalServerError
}
