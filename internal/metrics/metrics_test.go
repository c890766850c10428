package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// counterValue reads one labelled series of a counter vector from the
// default registry.
func counterValue(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	series:
		for _, metric := range family.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if labels[pair.GetName()] != pair.GetValue() {
					continue series
				}
			}
			return metric.GetCounter().GetValue()
		}
	}
	return 0
}

func TestPrometheusRecorder(t *testing.T) {
	recorder := NewPrometheus()
	okLabels := map[string]string{"endpoint": "tickets", "outcome": "ok"}
	errLabels := map[string]string{"endpoint": "tickets", "outcome": "error"}
	hitLabels := map[string]string{"namespace": "tickets", "result": "hit"}

	okBefore := counterValue(t, "ticketsearch_upstream_requests_total", okLabels)
	errBefore := counterValue(t, "ticketsearch_upstream_requests_total", errLabels)
	hitBefore := counterValue(t, "ticketsearch_cache_lookups_total", hitLabels)

	recorder.UpstreamRequest("tickets", 0.02, nil)
	recorder.UpstreamRequest("tickets", 0.5, errors.New("boom"))
	recorder.UpstreamRequest("tickets", 0.01, nil)
	recorder.CacheLookup("tickets", true)
	recorder.ListRendered(12)

	if got := counterValue(t, "ticketsearch_upstream_requests_total", okLabels) - okBefore; got != 2 {
		t.Errorf("expected 2 ok requests, got %v", got)
	}
	if got := counterValue(t, "ticketsearch_upstream_requests_total", errLabels) - errBefore; got != 1 {
		t.Errorf("expected 1 failed request, got %v", got)
	}
	if got := counterValue(t, "ticketsearch_cache_lookups_total", hitLabels) - hitBefore; got != 1 {
		t.Errorf("expected 1 cache hit, got %v", got)
	}
}

func TestNopSatisfiesRecorder(t *testing.T) {
	var recorder Recorder = Nop{}
	recorder.UpstreamRequest("types", 1, nil)
	recorder.CacheLookup("types", false)
	recorder.ListRendered(0)
}
