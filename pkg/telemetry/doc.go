// Package telemetry provides logging, tracing and metrics for vendcheck.
//
// Structured logging uses zerolog, tracing uses OpenTelemetry with stdout or
// OTLP/gRPC exporters, and metrics use a dedicated Prometheus registry that
// can be served over HTTP.
//
// # Usage
//
//	cfg := telemetry.DefaultConfig()
//	cfg.Metrics.ListenAddress = ":9090"
//
//	tel, err := telemetry.NewTelemetry(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tel.Shutdown(context.Background())
//
//	if err := tel.StartMetricsServer(); err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx = tel.WithContext(ctx)
//
// # Logging
//
//	logger := tel.Logger.NewComponentLogger("batch").WithRunID(runID)
//	logger.WithInput("machine_1.json").Info("Report written")
//
// # Tracing
//
// A batch run opens a "batch.run" span and each input record a
// "machine.evaluate" span under it:
//
//	ctx, span := tel.Tracer.StartRunSpan(ctx, runID)
//	defer span.End()
//
// # Metrics
//
//   - vendcheck_runs_completed_total{status}
//   - vendcheck_run_duration_seconds
//   - vendcheck_active_runs
//   - vendcheck_machines_evaluated_total{status}
//   - vendcheck_evaluation_duration_seconds
//   - vendcheck_beverages_evaluated_total{outcome}
//   - vendcheck_beverage_rejections_total{reason}
//   - vendcheck_file_errors_total{stage}
//
// A disabled MetricsConfig yields a Metrics whose record methods do nothing.
package telemetry
