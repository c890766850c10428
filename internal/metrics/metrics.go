package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketsearch_upstream_requests_total",
			Help: "Total number of requests sent to the tickets API",
		},
		[]string{"endpoint", "outcome"},
	)

	upstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ticketsearch_upstream_duration_seconds",
			Help:    "Tickets API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"endpoint"},
	)

	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketsearch_cache_lookups_total",
			Help: "Response cache lookups by result",
		},
		[]string{"namespace", "result"},
	)

	listResultsCount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ticketsearch_list_results_count",
			Help:    "Number of tickets on a rendered listing page",
			Buckets: []float64{0, 1, 6, 12, 24, 48},
		},
	)
)

// Recorder is the narrow surface the client and handlers report through.
type Recorder interface {
	UpstreamRequest(endpoint string, seconds float64, err error)
	CacheLookup(namespace string, hit bool)
	ListRendered(items int)
}

type Prometheus struct{}

func NewPrometheus() *Prometheus {
	return &Prometheus{}
}

func (Prometheus) UpstreamRequest(endpoint string, seconds float64, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	upstreamRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	upstreamDuration.WithLabelValues(endpoint).Observe(seconds)
}

func (Prometheus) CacheLookup(namespace string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookupsTotal.WithLabelValues(namespace, result).Inc()
}

func (Prometheus) ListRendered(items int) {
	listResultsCount.Observe(float64(items))
}

// Nop discards everything; the terminal browser has nowhere to expose
// metrics.
type Nop struct{}

func (Nop) UpstreamRequest(string, float64, error) {}
func (Nop) CacheLookup(string, bool)               {}
func (Nop) ListRendered(int)                       {}
