package flow

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/waterflow/core"
	"github.com/katalvlaran/waterflow/telemetry"
)

// MaxFlowExcluding returns the maximum flow of the network with the edges
// and nodes of ex removed.
//
// Targets are the listed edges, their reverse pairs, and every edge incident
// to a listed node.
//
//   - Incremental: restore (or compute) the logged baseline, retract every
//     logged path on a target plus the paths needed to keep flows in bounds,
//     hide the targets and resume Edmonds–Karp from what is left.
//   - BruteForce: hide the targets and recompute from zero.
//
// Both strategies restore the hidden flags that were in effect before the
// call. The resulting flows stay on the graph, so SinkSupply and Supplies
// describe the scenario until the next run or Load.
//
// Returns a wrapped core.ErrEdgeNotFound / core.ErrNodeNotFound for unknown
// targets and ErrUnknownStrategy for an invalid strategy.
func (n *Network) MaxFlowExcluding(ctx context.Context, ex Exclusion, strategy Strategy) (float64, error) {
	ctx, span := tracer.Start(ctx, "Network.MaxFlowExcluding",
		trace.WithAttributes(
			attribute.String("flow.strategy", strategy.String()),
			attribute.Int("flow.excluded_edges", len(ex.Edges)),
			attribute.Int("flow.excluded_nodes", len(ex.Nodes)),
		),
	)
	defer span.End()

	targets, err := n.resolve(ex)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolve")
		return 0, err
	}

	var (
		value     float64
		retracted int
	)
	switch strategy {
	case Incremental:
		value, retracted, err = n.incremental(ctx, targets, ex.Nodes)
	case BruteForce:
		value, err = n.bruteForce(ctx, targets, ex.Nodes)
	default:
		err = fmt.Errorf("%w: %d", ErrUnknownStrategy, strategy)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "scenario")
		return 0, err
	}

	recordScenario(ctx, strategy, retracted)
	span.SetAttributes(
		attribute.Int("flow.targets", len(targets)),
		attribute.Int("flow.retracted_paths", retracted),
		attribute.Float64("flow.value", value),
	)
	telemetry.LoggerWithTrace(ctx, n.logger).Debug("scenario: complete",
		slog.String("strategy", strategy.String()),
		slog.Int("targets", len(targets)),
		slog.Int("retracted", retracted),
		slog.Float64("value", value),
	)

	return value, nil
}

// resolve expands an Exclusion into a sorted, duplicate-free edge list.
func (n *Network) resolve(ex Exclusion) ([]core.EdgeID, error) {
	set := make(map[core.EdgeID]struct{})
	add := func(id core.EdgeID) {
		set[id] = struct{}{}
		if rev := n.g.Edge(id).Reverse(); rev != core.NoEdge {
			set[rev] = struct{}{}
		}
	}
	for _, id := range ex.Edges {
		if n.g.Edge(id) == nil {
			return nil, fmt.Errorf("flow: exclude edge %d: %w", id, core.ErrEdgeNotFound)
		}
		add(id)
	}
	for _, key := range ex.Nodes {
		node := n.g.FindNode(key)
		if node == nil {
			return nil, fmt.Errorf("flow: exclude node %q: %w", key, core.ErrNodeNotFound)
		}
		for _, id := range node.Out() {
			add(id)
		}
		for _, id := range node.In() {
			add(id)
		}
	}

	out := make([]core.EdgeID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out, nil
}

func (n *Network) incremental(ctx context.Context, targets []core.EdgeID, nodes []string) (float64, int, error) {
	// 1) Baseline flows and log
	if err := n.EnsureBaseline(ctx); err != nil {
		return 0, 0, err
	}

	vis := n.g.SaveVisibility()
	defer n.g.RestoreVisibility(vis)

	// 2-3) Retract every path on a target, closed under the bounds
	retracted := n.retract(targets)

	// 4) Hide
	n.hide(targets, nodes)

	// 5) Reroute only what was displaced
	value, err := n.Resume(ctx)

	return value, retracted, err
}

func (n *Network) bruteForce(ctx context.Context, targets []core.EdgeID, nodes []string) (float64, error) {
	vis := n.g.SaveVisibility()
	defer n.g.RestoreVisibility(vis)

	n.hide(targets, nodes)

	return n.MaxFlow(ctx, false)
}

// hide marks resolved targets and nodes hidden; both were validated by resolve.
func (n *Network) hide(targets []core.EdgeID, nodes []string) {
	for _, id := range targets {
		_ = n.g.HideEdge(id)
	}
	for _, key := range nodes {
		_ = n.g.HideNode(key)
	}
}
