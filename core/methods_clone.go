// File: methods_clone.go
// Role: Deep copies of a Graph for restore points.
// Determinism:
//   - Clone keeps every NodeID and EdgeID, including removed slots, so flow
//     vectors and visibility masks are interchangeable between the two graphs.

package core

// Clone returns a deep copy of the Graph: nodes with their payload and
// adjacency, edges with capacity, flow, pairing and hidden flags, and both
// version counters.
//
// Complexity: O(V + E)
func (g *Graph) Clone() *Graph {
	clone := &Graph{
		nodes:         make([]*Node, len(g.nodes)),
		edges:         make([]*Edge, len(g.edges)),
		index:         make(map[string]NodeID, len(g.index)),
		liveNodes:     g.liveNodes,
		liveEdges:     g.liveEdges,
		structVersion: g.structVersion,
		capVersion:    g.capVersion,
	}
	for i, n := range g.nodes {
		if n == nil {
			continue
		}
		cp := *n
		cp.out = append([]EdgeID(nil), n.out...)
		cp.in = append([]EdgeID(nil), n.in...)
		clone.nodes[i] = &cp
		clone.index[cp.Key] = cp.id
	}
	for i, e := range g.edges {
		if e == nil {
			continue
		}
		cp := *e
		clone.edges[i] = &cp
	}

	return clone
}
