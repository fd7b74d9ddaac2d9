package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for batch runs and evaluations.
// A Metrics built from a disabled config is a no-op.
type Metrics struct {
	config MetricsConfig

	// Run metrics
	runsCompleted *prometheus.CounterVec
	runDuration   prometheus.Histogram
	activeRuns    prometheus.Gauge

	// Machine metrics
	machinesEvaluated  *prometheus.CounterVec
	evaluationDuration prometheus.Histogram

	// Beverage metrics
	beveragesEvaluated *prometheus.CounterVec
	rejections         *prometheus.CounterVec

	// Error metrics
	fileErrors *prometheus.CounterVec

	registry *prometheus.Registry
	server   *http.Server
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	buckets := cfg.DefaultHistogramBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		runsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_completed_total",
				Help:      "Total number of batch runs completed",
			},
			[]string{"status"},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of batch runs in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
		activeRuns: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_runs",
				Help:      "Current number of active batch runs",
			},
		),

		machinesEvaluated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "machines_evaluated_total",
				Help:      "Total number of machine records processed",
			},
			[]string{"status"},
		),
		evaluationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "evaluation_duration_seconds",
				Help:      "Duration of a single machine evaluation in seconds",
				Buckets:   buckets,
			},
		),

		beveragesEvaluated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "beverages_evaluated_total",
				Help:      "Total number of beverages evaluated",
			},
			[]string{"outcome"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "beverage_rejections_total",
				Help:      "Total number of beverages that could not be prepared, by reason",
			},
			[]string{"reason"},
		),

		fileErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "file_errors_total",
				Help:      "Total number of input files skipped because of an error, by stage",
			},
			[]string{"stage"},
		),
	}

	registry.MustRegister(
		m.runsCompleted,
		m.runDuration,
		m.activeRuns,
		m.machinesEvaluated,
		m.evaluationDuration,
		m.beveragesEvaluated,
		m.rejections,
		m.fileErrors,
	)

	return m, nil
}

// Run Metrics

// RecordRunStarted marks a batch run as active.
func (m *Metrics) RecordRunStarted() {
	if m.activeRuns == nil {
		return
	}
	m.activeRuns.Inc()
}

// RecordRunCompleted records a completed run with its status and duration.
func (m *Metrics) RecordRunCompleted(status string, duration time.Duration) {
	if m.runsCompleted == nil {
		return
	}
	m.runsCompleted.WithLabelValues(status).Inc()
	m.runDuration.Observe(duration.Seconds())
	m.activeRuns.Dec()
}

// Machine Metrics

// RecordMachineEvaluated records one processed machine record.
func (m *Metrics) RecordMachineEvaluated(status string, duration time.Duration) {
	if m.machinesEvaluated == nil {
		return
	}
	m.machinesEvaluated.WithLabelValues(status).Inc()
	m.evaluationDuration.Observe(duration.Seconds())
}

// Beverage Metrics

// RecordBeverage records one beverage outcome. reason is empty for prepared
// beverages.
func (m *Metrics) RecordBeverage(prepared bool, reason string) {
	if m.beveragesEvaluated == nil {
		return
	}
	if prepared {
		m.beveragesEvaluated.WithLabelValues("prepared").Inc()
		return
	}
	m.beveragesEvaluated.WithLabelValues("rejected").Inc()
	m.rejections.WithLabelValues(reason).Inc()
}

// Error Metrics

// RecordFileError records an input skipped at the given stage.
func (m *Metrics) RecordFileError(stage string) {
	if m.fileErrors == nil {
		return
	}
	m.fileErrors.WithLabelValues(stage).Inc()
}

// Timer provides a convenient way to time operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Registry returns the Prometheus registry, or nil when metrics are disabled.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// StartMetricsServer starts an HTTP server exposing metrics when enabled and
// a listen address is configured. errFn receives serve errors.
func (m *Metrics) StartMetricsServer(errFn func(error)) error {
	if !m.config.Enabled || m.config.ListenAddress == "" {
		return nil
	}

	path := m.config.Path
	if path == "" {
		path = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(path, m.Handler())

	m.server = &http.Server{
		Addr:              m.config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := m.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) && errFn != nil {
			errFn(err)
		}
	}()

	return nil
}

// Shutdown stops the metrics server if it was started.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m.server == nil {
		return nil
	}
	return m.server.Shutdown(ctx)
}
