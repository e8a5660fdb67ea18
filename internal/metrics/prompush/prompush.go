// Package prompush pushes run metrics to a Prometheus Pushgateway.
//
// A CLI run is too short-lived to be scraped, so the registry is pushed once
// when the run ends.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/vvka-141/rawload/internal/metrics"
)

// DefaultJob is the Pushgateway job used when none is configured.
const DefaultJob = "rawload"

// Backend is a metrics.Backend collecting into a private registry.
type Backend struct {
	gatewayURL string
	job        string
	reg        *prometheus.Registry

	files        *prometheus.CounterVec
	fileDuration *prometheus.SummaryVec
	chunks       *prometheus.CounterVec
	rows         *prometheus.CounterVec
}

var _ metrics.Backend = (*Backend)(nil)

// NewBackend creates a backend pushing to gatewayURL under job.
func NewBackend(job, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if job == "" {
		job = DefaultJob
	}

	b := &Backend{
		gatewayURL: gatewayURL,
		job:        job,
		reg:        prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.FilesTotal,
			Help: "Source files processed, by status.",
		}, []string{"status"}),
		fileDuration: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Name:       metrics.FileDurationSeconds,
			Help:       "Time to load one source file, by status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}, []string{"status"}),
		chunks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.ChunksTotal,
			Help: "Insert chunks attempted, by status.",
		}, []string{"status"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.RowsTotal,
			Help: "Rows inserted or lost in failed chunks.",
		}, []string{"kind"}),
	}

	for _, c := range []prometheus.Collector{b.files, b.fileDuration, b.chunks, b.rows} {
		if err := b.reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register collector: %w", err)
		}
	}
	return b, nil
}

// IncCounter drops the table label; per-table series belong in the database, not the gateway.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.FilesTotal:
		b.files.WithLabelValues(labels["status"]).Add(delta)
	case metrics.ChunksTotal:
		b.chunks.WithLabelValues(labels["status"]).Add(delta)
	case metrics.RowsTotal:
		b.rows.WithLabelValues(labels["kind"]).Add(delta)
	}
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name == metrics.FileDurationSeconds {
		b.fileDuration.WithLabelValues(labels["status"]).Observe(value)
	}
}

// Flush pushes the registry, replacing the job's previous group.
func (b *Backend) Flush() error {
	if err := push.New(b.gatewayURL, b.job).Gatherer(b.reg).Push(); err != nil {
		return fmt.Errorf("prompush: push to %s: %w", b.gatewayURL, err)
	}
	return nil
}
