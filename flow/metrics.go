package flow

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Package-level tracer and meter for flow operations.
var (
	tracer = otel.Tracer("waterflow/flow")
	meter  = otel.Meter("waterflow/flow")
)

// Instruments for max-flow runs and scenarios.
var (
	runDuration    metric.Float64Histogram
	augmentations  metric.Int64Counter
	retractedPaths metric.Int64Counter
	scenarios      metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the instruments. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		runDuration, err = meter.Float64Histogram(
			"waterflow_maxflow_duration_seconds",
			metric.WithDescription("Duration of Edmonds–Karp runs"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		augmentations, err = meter.Int64Counter(
			"waterflow_augmentations_total",
			metric.WithDescription("Augmenting paths applied"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		retractedPaths, err = meter.Int64Counter(
			"waterflow_retracted_paths_total",
			metric.WithDescription("Logged paths retracted by incremental scenarios"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		scenarios, err = meter.Int64Counter(
			"waterflow_scenarios_total",
			metric.WithDescription("What-if scenarios evaluated"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordRun records one fresh or resumed Edmonds–Karp run.
func recordRun(ctx context.Context, mode string, d time.Duration, count int) {
	if err := initMetrics(); err != nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("mode", mode))
	runDuration.Record(ctx, d.Seconds(), attrs)
	augmentations.Add(ctx, int64(count), attrs)
}

// recordScenario records one MaxFlowExcluding call.
func recordScenario(ctx context.Context, s Strategy, retracted int) {
	if err := initMetrics(); err != nil {
		return
	}
	scenarios.Add(ctx, 1, metric.WithAttributes(attribute.String("strategy", s.String())))
	if retracted > 0 {
		retractedPaths.Add(ctx, int64(retracted))
	}
}
