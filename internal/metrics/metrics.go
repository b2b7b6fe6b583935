// Package metrics records extraction and normalization telemetry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder receives engine telemetry. Implementations must be safe for
// concurrent use.
type Recorder interface {
	// RecordCandidates counts raw matches produced by one pattern.
	RecordCandidates(pattern string, n int)
	// RecordVeto counts a candidate removed by the blacklist.
	RecordVeto(category string)
	// RecordAccepted counts candidates surviving selection.
	RecordAccepted(category string, n int)
	// RecordNormalization counts a normalized variant by result category.
	RecordNormalization(category string)
	// ObserveExtraction records the wall time of one recognize call.
	ObserveExtraction(d time.Duration)
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordCandidates(string, int)    {}
func (Nop) RecordVeto(string)               {}
func (Nop) RecordAccepted(string, int)      {}
func (Nop) RecordNormalization(string)      {}
func (Nop) ObserveExtraction(time.Duration) {}

const namespace = "varnorm"

// Prometheus is a Recorder backed by client_golang collectors.
type Prometheus struct {
	candidates     *prometheus.CounterVec
	vetoes         *prometheus.CounterVec
	accepted       *prometheus.CounterVec
	normalizations *prometheus.CounterVec
	latency        prometheus.Histogram
}

// NewPrometheus creates the collectors and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		candidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "extract",
			Name:      "candidates_total",
			Help:      "Raw pattern matches before overlap resolution, by pattern.",
		}, []string{"pattern"}),
		vetoes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "extract",
			Name:      "vetoes_total",
			Help:      "Candidates vetoed by the blacklist, by category.",
		}, []string{"category"}),
		accepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "extract",
			Name:      "accepted_total",
			Help:      "Candidates accepted after scoring and deduplication, by category.",
		}, []string{"category"}),
		normalizations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "normalize",
			Name:      "variants_total",
			Help:      "Normalized variants by result category.",
		}, []string{"category"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "extract",
			Name:      "duration_seconds",
			Help:      "Wall time of one recognize call.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
	}
	reg.MustRegister(p.candidates, p.vetoes, p.accepted, p.normalizations, p.latency)
	return p
}

func (p *Prometheus) RecordCandidates(pattern string, n int) {
	if n > 0 {
		p.candidates.WithLabelValues(pattern).Add(float64(n))
	}
}

func (p *Prometheus) RecordVeto(category string) {
	p.vetoes.WithLabelValues(category).Inc()
}

func (p *Prometheus) RecordAccepted(category string, n int) {
	if n > 0 {
		p.accepted.WithLabelValues(category).Add(float64(n))
	}
}

func (p *Prometheus) RecordNormalization(category string) {
	p.normalizations.WithLabelValues(category).Inc()
}

func (p *Prometheus) ObserveExtraction(d time.Duration) {
	p.latency.Observe(d.Seconds())
}

// WriteFile writes every metric gathered by g to path in the Prometheus
// text format, for node_exporter's textfile collector.
func WriteFile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
