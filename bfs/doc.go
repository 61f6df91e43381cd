// Package bfs provides breadth-first search over the residual network of a
// core.Graph, the search step of Edmonds–Karp.
//
// What
//
//   - Explore nodes in non-decreasing hop count from a source node.
//   - A forward step u→v needs a visible edge with capacity − flow > Epsilon.
//   - A backward step from u to v uses an incoming edge v→u whose flow > Epsilon,
//     so existing flow can be cancelled and rerouted.
//   - Hidden nodes and edges are never traversed.
//   - Returns a Result with the visit Order, Reached, ParentOf and PathTo.
//
// Determinism
//
//	Outgoing edges are tried before incoming ones, each in insertion order,
//	and the first step that discovers a node wins. The same graph state
//	always yields the same path.
//
// Options
//
//	WithContext(ctx)   // cancellation, checked once per dequeue
//	WithEpsilon(eps)   // saturation threshold (default 1e-9)
//	WithEarlyExit(b)   // stop once the target is discovered (default true)
//	WithOnVisit(fn)    // hook on every dequeued node
//
// Complexity: O(V + E) time, O(V) memory.
package bfs
