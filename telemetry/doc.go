// Package telemetry wires logging, tracing and metrics for waterflow.
//
// Logging uses log/slog. NewLogger builds a text or JSON handler and
// LoggerWithTrace adds trace_id/span_id from the active span.
//
// Tracing and metrics use OpenTelemetry. The flow and analysis packages
// hold package-level tracers and meters obtained from the otel globals;
// Init installs providers with stdout or Prometheus exporters, so nothing
// is exported until Init is called.
package telemetry
