package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/waterflow/core"
	"github.com/katalvlaran/waterflow/flow"
	"github.com/katalvlaran/waterflow/telemetry"
)

// CriticalEdges returns the pipes whose single removal strictly lowers the
// supply of the sink sinkKey below its baseline value.
//
// Steps:
//  1. EnsureBaseline: a logged max flow, stored as the snapshot.
//  2. Candidates: the real (non-synthetic) edges of every logged path that
//     ends in this sink's drain, one per reverse pair (the lower ID).
//  3. Each candidate runs MaxFlowExcluding(Incremental), which starts from
//     the stored baseline, and is critical when the sink then receives less
//     than its stored supply minus epsilon.
//  4. The baseline is loaded back before returning.
//
// Returns ErrUnknownSink for a key that is not a sink. The result is sorted
// by edge ID and empty when no path reaches the sink.
//
// Complexity: O(C · V · E²) for C candidates in the worst case.
func CriticalEdges(ctx context.Context, n *flow.Network, sinkKey string) (critical []*core.Edge, err error) {
	if n == nil {
		return nil, ErrNilNetwork
	}
	g := n.Graph()
	sink := g.FindNode(sinkKey)
	if sink == nil || sink.Role != core.RoleSink {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSink, sinkKey)
	}

	ctx, span := tracer.Start(ctx, "analysis.CriticalEdges",
		trace.WithAttributes(attribute.String("sink.key", sinkKey)))
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "critical edges")
		}
	}()

	if err := n.EnsureBaseline(ctx); err != nil {
		return nil, err
	}
	baseline, _ := n.StoredSinkSupply(sinkKey)
	candidates := candidatesFor(n, sink.ID())
	recordCritical(ctx, len(candidates))
	span.SetAttributes(
		attribute.Float64("sink.baseline", baseline),
		attribute.Int("critical.candidates", len(candidates)),
	)

	logger := telemetry.LoggerWithTrace(ctx, n.Logger())
	for _, c := range candidates {
		if _, err := n.MaxFlowExcluding(ctx, flow.ExcludeEdges(c), flow.Incremental); err != nil {
			_ = n.Load()
			return nil, err
		}
		supplied, _ := n.SinkSupply(sinkKey)
		if supplied < baseline-n.Epsilon() {
			critical = append(critical, g.Edge(c))
			span.AddEvent("critical", trace.WithAttributes(attribute.String("edge", g.EdgeLabel(c))))
		}
		logger.Debug("critical: candidate",
			slog.String("edge", g.EdgeLabel(c)),
			slog.Float64("supplied", supplied),
			slog.Float64("baseline", baseline),
		)
	}
	if err := n.Load(); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("critical.count", len(critical)))

	return critical, nil
}

// candidatesFor collects the real edges of logged paths that end in the
// drain of sink, keyed by the lower ID of each reverse pair, sorted.
func candidatesFor(n *flow.Network, sink core.NodeID) []core.EdgeID {
	g := n.Graph()
	drain := n.DrainEdge(sink)
	if drain == core.NoEdge {
		return nil
	}
	seen := make(map[core.EdgeID]struct{})
	for _, p := range n.Paths() {
		if len(p.Steps) == 0 || p.Steps[len(p.Steps)-1].Edge != drain {
			continue
		}
		for _, st := range p.Steps {
			if n.IsSynthetic(st.Edge) {
				continue
			}
			id := st.Edge
			if rev := g.Edge(id).Reverse(); rev != core.NoEdge && rev < id {
				id = rev
			}
			seen[id] = struct{}{}
		}
	}
	out := make([]core.EdgeID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// CriticalEdgesAll runs CriticalEdges for every sink and maps each sink key
// to its critical pipes. Sinks without any are present with an empty slice.
func CriticalEdgesAll(ctx context.Context, n *flow.Network) (map[string][]*core.Edge, error) {
	if n == nil {
		return nil, ErrNilNetwork
	}
	sinks := n.Graph().NodesByRole(core.RoleSink)
	out := make(map[string][]*core.Edge, len(sinks))
	for _, s := range sinks {
		edges, err := CriticalEdges(ctx, n, s.Key)
		if err != nil {
			return nil, fmt.Errorf("analysis: sink %s: %w", s.Key, err)
		}
		if edges == nil {
			edges = []*core.Edge{}
		}
		out[s.Key] = edges
	}

	return out, nil
}
