// Package metrics exposes Prometheus instrumentation for the relay.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"mediarelay/internal/core/domain"
)

// Outcome labels for the extractions counter.
const (
	OutcomeSuccess   = "success"
	OutcomeExhausted = "exhausted"
	OutcomeInvalid   = "invalid"
)

// Metrics holds the relay's collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	extractions *prometheus.CounterVec
	duration    prometheus.Histogram
}

// New creates the registry and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mediarelay_extractions_total",
			Help: "Extraction requests by platform, winning extractor and outcome.",
		}, []string{"platform", "extractor", "outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mediarelay_extraction_duration_seconds",
			Help:    "Wall-clock duration of one extraction request.",
			Buckets: []float64{0.5, 1, 2.5, 5, 15, 30, 60, 120, 240},
		}),
	}
	m.Registry.MustRegister(
		m.extractions,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveExtraction records one finished request. extractor is empty when no
// tool produced a result.
func (m *Metrics) ObserveExtraction(platform domain.Platform, extractor domain.ExtractorName, outcome string, elapsed time.Duration) {
	m.extractions.WithLabelValues(string(platform), string(extractor), outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
}
