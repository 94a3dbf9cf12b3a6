package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WorkerMetrics observes the enrichment pipeline: outcomes, latency and how
// often the rule-based fallback carried a record.
type WorkerMetrics struct {
	registry *prometheus.Registry

	enrichTotal    *prometheus.CounterVec
	enrichDuration *prometheus.HistogramVec
	enrichInFlight prometheus.Gauge
	fallbackTotal  *prometheus.CounterVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	enrichTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fbi",
			Subsystem: "worker",
			Name:      "feedback_enrich_total",
			Help:      "Total enriched feedback records by status.",
		},
		[]string{"service", "status"},
	)
	enrichDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fbi",
			Subsystem: "worker",
			Name:      "feedback_enrich_duration_seconds",
			Help:      "Feedback enrichment duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	enrichInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fbi",
			Subsystem: "worker",
			Name:      "feedback_enrich_in_flight",
			Help:      "Number of in-flight enrichment tasks.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	fallbackTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fbi",
			Subsystem: "worker",
			Name:      "feedback_fallback_total",
			Help:      "Enrichments that fell back to rule-based classification, by reason.",
		},
		[]string{"service", "reason"},
	)

	registry.MustRegister(enrichTotal, enrichDuration, enrichInFlight, fallbackTotal)

	return &WorkerMetrics{
		registry:       registry,
		enrichTotal:    enrichTotal,
		enrichDuration: enrichDuration,
		enrichInFlight: enrichInFlight,
		fallbackTotal:  fallbackTotal,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartEnrichment() {
	m.enrichInFlight.Inc()
}

func (m *WorkerMetrics) FinishEnrichment(service string, duration time.Duration, err error, fallbackReason string) {
	m.enrichInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.enrichTotal.WithLabelValues(service, status).Inc()
	m.enrichDuration.WithLabelValues(service, status).Observe(duration.Seconds())
	if fallbackReason != "" {
		m.fallbackTotal.WithLabelValues(service, fallbackReason).Inc()
	}
}
