package flow

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/waterflow/bfs"
	"github.com/katalvlaran/waterflow/telemetry"
)

// MaxFlow computes the maximum flow from every source to every sink using
// Edmonds–Karp (BFS for shortest augmenting paths) through the synthetic
// super-source and super-sink.
//
// A fresh run refreshes feeder and drain capacities from the node payload,
// resets all flows to zero and clears the path log. With logPaths every
// augmentation is appended to the log and indexed on each edge it used and
// that edge's reverse, which is what MaxFlowExcluding(Incremental) retracts.
//
// The context is checked between augmentations only: a cancelled run
// returns ctx.Err() and leaves a valid, possibly non-maximal, flow.
//
// Complexity: O(V · E²)
// Memory:     O(V + E) plus O(P · L) for a log of P paths of length L.
func (n *Network) MaxFlow(ctx context.Context, logPaths bool) (float64, error) {
	ctx, span := tracer.Start(ctx, "Network.MaxFlow",
		trace.WithAttributes(
			attribute.Bool("flow.log_paths", logPaths),
			attribute.Int("graph.node_count", n.g.NodeCount()),
			attribute.Int("graph.edge_count", n.g.EdgeCount()),
		),
	)
	defer span.End()
	start := time.Now()

	// 1) Synthetic terminals with current capacities
	if err := n.ensureTerminals(true); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "terminals")
		return 0, err
	}

	// 2) Fresh state
	n.g.ResetFlows()
	n.logging = logPaths
	n.clearLog()

	// 3) Augment until the super-sink is unreachable
	count, err := n.augment(ctx)
	value := n.Value()
	recordRun(ctx, "fresh", time.Since(start), count)
	span.SetAttributes(
		attribute.Int("flow.augmentations", count),
		attribute.Float64("flow.value", value),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "interrupted")
	}
	telemetry.LoggerWithTrace(ctx, n.logger).Debug("maxflow: complete",
		slog.Float64("value", value),
		slog.Int("augmentations", count),
		slog.Bool("logged", logPaths),
	)

	return value, err
}

// Resume continues Edmonds–Karp from the current flows without resetting
// them or the path log, and returns the resulting total. Feeder and drain
// capacities are not refreshed, so the current flows stay within bounds.
func (n *Network) Resume(ctx context.Context) (float64, error) {
	ctx, span := tracer.Start(ctx, "Network.Resume")
	defer span.End()
	start := time.Now()

	if err := n.ensureTerminals(false); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "terminals")
		return 0, err
	}
	before := n.Value()
	count, err := n.augment(ctx)
	value := n.Value()
	recordRun(ctx, "resume", time.Since(start), count)
	span.SetAttributes(
		attribute.Int("flow.augmentations", count),
		attribute.Float64("flow.value", value),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "interrupted")
	}
	telemetry.LoggerWithTrace(ctx, n.logger).Debug("maxflow: resumed",
		slog.Float64("from", before),
		slog.Float64("value", value),
		slog.Int("augmentations", count),
	)

	return value, err
}

// augment runs search+reduce until no augmenting path remains and returns
// the number of augmentations applied.
func (n *Network) augment(ctx context.Context) (int, error) {
	count := 0
	for {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		res, err := bfs.Search(n.g, n.superSource, n.superSink, bfs.WithEpsilon(n.eps))
		if err != nil {
			return count, err
		}
		steps, ok := res.PathTo(n.superSink)
		if !ok {
			return count, nil
		}
		path, ok := Reduce(n.g, steps, n.eps)
		if !ok {
			return count, nil
		}
		if n.logging {
			n.appendPath(path)
		}
		count++
	}
}
