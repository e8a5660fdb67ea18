package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvka-141/rawload/internal/config"
	"github.com/vvka-141/rawload/internal/metrics"
	"github.com/vvka-141/rawload/internal/metrics/datadog"
	"github.com/vvka-141/rawload/internal/metrics/prompush"
	"github.com/vvka-141/rawload/pkg/rawload"
)

const (
	metricsPrometheus = "prometheus"
	metricsDatadog    = "datadog"
)

type metricsFlags struct {
	backend    string
	pushURL    string
	statsdAddr string
}

func bindMetricsFlags(cmd *cobra.Command, f *metricsFlags) {
	flags := cmd.Flags()
	flags.StringVar(&f.backend, "metrics", "",
		"Report run metrics to: prometheus|datadog (default: none)")
	flags.StringVar(&f.pushURL, "metrics-push-url", "",
		"Prometheus Pushgateway URL, e.g. http://pushgateway:9091")
	flags.StringVar(&f.statsdAddr, "metrics-statsd-addr", "",
		"DogStatsD agent address (default: 127.0.0.1:8125)")
}

// newMetricsBackend builds the backend selected by flags, falling back to
// rawload.yaml. A nil backend means metrics are off.
func newMetricsBackend(f metricsFlags, projectCfg *config.ProjectConfig) (metrics.Backend, error) {
	var mc config.MetricsConfig
	if projectCfg != nil {
		mc = projectCfg.Metrics
	}

	backend := firstSet(f.backend, mc.Backend)
	switch backend {
	case "", "none":
		return nil, nil
	case metricsPrometheus:
		return prompush.NewBackend(mc.Job, firstSet(f.pushURL, mc.PushURL))
	case metricsDatadog:
		return datadog.NewBackend(datadog.Config{
			Addr:      firstSet(f.statsdAddr, mc.StatsdAddr, "127.0.0.1:8125"),
			Namespace: mc.Namespace,
		})
	default:
		return nil, fmt.Errorf("unknown metrics backend %q (want prometheus or datadog): %w", backend, rawload.ErrInvalidConfig)
	}
}

// setupMetrics installs the selected backend. The returned function flushes
// it and restores the no-op backend; flush failures only warn.
func setupMetrics(f metricsFlags, projectCfg *config.ProjectConfig, logger rawload.Logger) (func(), error) {
	backend, err := newMetricsBackend(f, projectCfg)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	if backend == nil {
		return func() {}, nil
	}

	metrics.SetBackend(backend)
	return func() {
		if err := metrics.Flush(); err != nil {
			logger.Warn("Failed to flush metrics: %v", err)
		}
		metrics.SetBackend(nil)
	}, nil
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
