package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

func TestObserveRequestCountsByRouteAndStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)

	metrics.ObserveRequest(http.MethodPost, "/api/v1/reservations", http.StatusOK, 12*time.Millisecond)
	metrics.ObserveRequest(http.MethodPost, "/api/v1/reservations", http.StatusOK, 9*time.Millisecond)
	metrics.ObserveRequest(http.MethodPost, "/api/v1/reservations", http.StatusConflict, 4*time.Millisecond)

	family := gather(t, reg, "http_requests_total")
	if family == nil {
		t.Fatal("http_requests_total not registered")
	}

	counts := map[string]float64{}
	for _, m := range family.GetMetric() {
		counts[labelValue(m, "status")] = m.GetCounter().GetValue()
	}
	if counts["200"] != 2 {
		t.Fatalf("expected 2 ok requests, got %v", counts["200"])
	}
	if counts["409"] != 1 {
		t.Fatalf("expected 1 conflict request, got %v", counts["409"])
	}
}

func TestObserveRequestRecordsDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)

	metrics.ObserveRequest(http.MethodGet, "/api/v1/availability", http.StatusOK, 30*time.Millisecond)

	family := gather(t, reg, "http_request_duration_seconds")
	if family == nil {
		t.Fatal("http_request_duration_seconds not registered")
	}
	hist := family.GetMetric()[0].GetHistogram()
	if hist.GetSampleCount() != 1 {
		t.Fatalf("expected 1 sample, got %d", hist.GetSampleCount())
	}
	if got := hist.GetSampleSum(); got < 0.029 || got > 0.031 {
		t.Fatalf("unexpected sample sum %v", got)
	}
}

func TestUnmatchedRouteIsBucketed(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)

	metrics.ObserveRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	family := gather(t, reg, "http_requests_total")
	if got := labelValue(family.GetMetric()[0], "route"); got != "unmatched" {
		t.Fatalf("expected unmatched route label, got %q", got)
	}
}

func TestNilMetricsAreInert(t *testing.T) {
	var metrics *HTTPMetrics
	metrics.ObserveRequest(http.MethodGet, "/health/live", http.StatusOK, time.Millisecond)

	NewHTTPMetrics(nil).ObserveRequest(http.MethodGet, "/health/live", http.StatusOK, time.Millisecond)
}
