package analysis

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	tracer = otel.Tracer("waterflow/analysis")
	meter  = otel.Meter("waterflow/analysis")
)

var (
	balanceAttempts    metric.Int64Counter
	criticalCandidates metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the instruments. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		balanceAttempts, err = meter.Int64Counter(
			"waterflow_balance_attempts_total",
			metric.WithDescription("Tentative capacity reductions evaluated by Balance"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		criticalCandidates, err = meter.Int64Counter(
			"waterflow_critical_candidates_total",
			metric.WithDescription("Candidate pipes tested by CriticalEdges"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func recordBalance(ctx context.Context, p Policy, attempts int) {
	if err := initMetrics(); err != nil {
		return
	}
	balanceAttempts.Add(ctx, int64(attempts), metric.WithAttributes(attribute.String("policy", p.String())))
}

func recordCritical(ctx context.Context, candidates int) {
	if err := initMetrics(); err != nil {
		return
	}
	criticalCandidates.Add(ctx, int64(candidates))
}
