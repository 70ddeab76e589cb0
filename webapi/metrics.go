package webapi

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors updated by executors.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ProxySelections *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg registers with prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "webapi",
				Name:      "requests_total",
				Help:      "Total number of calls by method and status code",
			},
			[]string{"method", "code"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "webapi",
				Name:      "request_duration_seconds",
				Help:      "Call latency histogram",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to ~16s
			},
			[]string{"method"},
		),
		ProxySelections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "webapi",
				Name:      "proxy_selections_total",
				Help:      "Automatic proxy selections by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// RecordRequest records one call. A zero statusCode means no response arrived.
func (m *Metrics) RecordRequest(method string, statusCode int, durationSeconds float64) {
	if m == nil {
		return
	}
	code := "error"
	if statusCode > 0 {
		code = strconv.Itoa(statusCode)
	}
	m.RequestsTotal.WithLabelValues(method, code).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(durationSeconds)
}

// RecordProxySelection records the outcome of a directory-based selection.
func (m *Metrics) RecordProxySelection(ok bool) {
	if m == nil {
		return
	}
	outcome := "selected"
	if !ok {
		outcome = "failed"
	}
	m.ProxySelections.WithLabelValues(outcome).Inc()
}
