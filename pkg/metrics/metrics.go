// Package metrics holds the Prometheus collectors for MacroMoney.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all Prometheus metrics.
// A nil *Registry is valid and records nothing.
type Registry struct {
	reg *prometheus.Registry

	Analyses      *prometheus.CounterVec
	GateDecisions *prometheus.CounterVec
	Severity      prometheus.Histogram
	AnalysisTime  *prometheus.HistogramVec

	EmbeddingRequests *prometheus.CounterVec
	EmbeddingDuration *prometheus.HistogramVec
	EmbeddingCache    *prometheus.CounterVec

	HTTPRequests *prometheus.CounterVec
}

// New creates a registry with all MacroMoney collectors plus Go runtime collectors
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		Analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "macromoney_analyses_total",
				Help: "Total number of headline analyses by strategy and tier",
			},
			[]string{"strategy", "tier"},
		),

		GateDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "macromoney_gate_decisions_total",
				Help: "Horizon gate outcomes (pass/fail)",
			},
			[]string{"result"},
		),

		Severity: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "macromoney_severity",
				Help:    "Distribution of severity scores for macro headlines",
				Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
			},
		),

		AnalysisTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "macromoney_analysis_duration_seconds",
				Help:    "Duration of analyze() by strategy",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"strategy"},
		),

		EmbeddingRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "macromoney_embedding_requests_total",
				Help: "Embedding provider calls by provider and status",
			},
			[]string{"provider", "status"},
		),

		EmbeddingDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "macromoney_embedding_duration_seconds",
				Help:    "Embedding provider latency",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
			},
			[]string{"provider"},
		),

		EmbeddingCache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "macromoney_embedding_cache_total",
				Help: "Embedding cache lookups by result (hit/miss/error)",
			},
			[]string{"result"},
		),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "macromoney_http_requests_total",
				Help: "HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "status"},
		),
	}

	r.reg.MustRegister(
		r.Analyses,
		r.GateDecisions,
		r.Severity,
		r.AnalysisTime,
		r.EmbeddingRequests,
		r.EmbeddingDuration,
		r.EmbeddingCache,
		r.HTTPRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// Handler returns the /metrics HTTP handler
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry (tests)
func (r *Registry) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.reg
}

// RecordAnalysis records one analyze() outcome.
// gate is "pass", "fail" or "" when the gate was not evaluated.
func (r *Registry) RecordAnalysis(strategy, tier string, severity float64, gate string, d time.Duration) {
	if r == nil {
		return
	}
	r.Analyses.WithLabelValues(strategy, tier).Inc()
	r.AnalysisTime.WithLabelValues(strategy).Observe(d.Seconds())
	if gate != "" {
		r.GateDecisions.WithLabelValues(gate).Inc()
		r.Severity.Observe(severity)
	}
}

// RecordEmbedding records one provider call
func (r *Registry) RecordEmbedding(provider, status string, d time.Duration) {
	if r == nil {
		return
	}
	r.EmbeddingRequests.WithLabelValues(provider, status).Inc()
	r.EmbeddingDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// RecordCache records an embedding cache lookup
func (r *Registry) RecordCache(result string) {
	if r == nil {
		return
	}
	r.EmbeddingCache.WithLabelValues(result).Inc()
}

// RecordHTTP records one served request
func (r *Registry) RecordHTTP(method, route, status string) {
	if r == nil {
		return
	}
	r.HTTPRequests.WithLabelValues(method, route, status).Inc()
}
