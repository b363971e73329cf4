package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ToolCallMetrics records metadata for dispatched webhook tool calls.
type ToolCallMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewToolCallMetrics registers the tool call metrics on the provided registerer.
func NewToolCallMetrics(reg prometheus.Registerer) *ToolCallMetrics {
	if reg == nil {
		return &ToolCallMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tool_call_duration_seconds",
		Help:    "Duration of webhook tool calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"function"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tool_call_success",
		Help: "Tool calls that produced a successful result.",
	}, []string{"function"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tool_call_failure",
		Help: "Tool calls whose result carried an error.",
	}, []string{"function"})
	reg.MustRegister(duration, success, failure)
	return &ToolCallMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration for the named function.
func (t *ToolCallMetrics) ObserveDuration(function string, duration time.Duration) {
	if t == nil || t.duration == nil {
		return
	}
	t.duration.WithLabelValues(normalizeLabel(function)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named function.
func (t *ToolCallMetrics) IncSuccess(function string) {
	if t == nil || t.success == nil {
		return
	}
	t.success.WithLabelValues(normalizeLabel(function)).Inc()
}

// IncFailure increments the failure counter for the named function.
func (t *ToolCallMetrics) IncFailure(function string) {
	if t == nil || t.failure == nil {
		return
	}
	t.failure.WithLabelValues(normalizeLabel(function)).Inc()
}

func normalizeLabel(function string) string {
	if function == "" {
		return "unknown"
	}
	return function
}
