package upstream

import (
	"math/rand"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/ticketsearch/internal/models"
)

// Faults makes the mock API behave like a real backend under load: every
// request waits a random latency and a share of them fail with 503.
type Faults struct {
	MinLatency  time.Duration
	MaxLatency  time.Duration
	FailureRate float64
}

func (f Faults) Enabled() bool {
	return f.MaxLatency > 0 || f.FailureRate > 0
}

func (f Faults) latency() time.Duration {
	if f.MaxLatency <= f.MinLatency {
		return f.MinLatency
	}
	return f.MinLatency + time.Duration(rand.Int63n(int64(f.MaxLatency-f.MinLatency)))
}

// Middleware injects the configured latency and failures.
func (f Faults) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if d := f.latency(); d > 0 {
				select {
				case <-time.After(d):
				case <-c.Request().Context().Done():
					return c.Request().Context().Err()
				}
			}

			if f.FailureRate > 0 && rand.Float64() < f.FailureRate {
				return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
					Error:   "temporarily_unavailable",
					Message: "temporary service unavailable",
					Code:    http.StatusServiceUnavailable,
				})
			}

			return next(c)
		}
	}
}
