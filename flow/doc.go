// Package flow computes maximum flows over a water network and answers
// what-if questions about it.
//
// A Network wraps a *core.Graph and adds two synthetic nodes: a super-source
// feeding every source through an edge of capacity MaxOutput, and a
// super-sink drained by every sink through an edge of capacity Demand. The
// multi-source, multi-sink problem then becomes a single-pair max flow.
//
// # Edmonds–Karp
//
//   - Method: breadth-first search (package bfs) for the shortest residual
//     path, Reduce to push its bottleneck, repeat until the super-sink is
//     unreachable.
//   - Time:   O(V · E²).
//   - Memory: O(V + E), plus the path log when enabled.
//
// MaxFlow(ctx, true) records every augmentation in a path log and indexes it
// per edge. Edges never point at paths: the Network keeps an EdgeID → path
// index table, so there is no reference cycle between the two.
//
// # Snapshots
//
// Store keeps a cloned graph and a copy of the log as a restore point; Load
// puts the stored flows back. After the first Store only the flow vector is
// copied, unless the topology or capacities changed.
//
// # Scenarios
//
// MaxFlowExcluding answers "what is the max flow without these edges or
// nodes" with one of two strategies:
//
//   - Incremental retracts only the logged paths that used a removed edge
//     (closed so that every remaining flow stays within bounds) and resumes
//     Edmonds–Karp, keeping the rest of the assignment.
//   - BruteForce recomputes from zero with the targets hidden.
//
// Both give the same value; the incremental one usually reroutes far less.
//
// # Example
//
//	g := core.NewGraph()
//	_ = g.AddNode(core.NewSource("R", 10))
//	_ = g.AddNode(core.NewSink("C", 6))
//	_, _ = g.AddEdge("R", "C", 8)
//	n, _ := flow.NewNetwork(g)
//	v, _ := n.MaxFlow(ctx, true) // 6
//
// # Observability
//
// Runs and scenarios open OpenTelemetry spans on the "waterflow/flow" tracer,
// record instruments on the matching meter, and log at debug level through
// the logger given to WithLogger.
package flow
