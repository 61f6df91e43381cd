package core

import (
	"fmt"
	"math"
)

// AddEdge creates a one-way edge srcKey→dstKey with the given capacity.
//
// Steps:
//  1. Resolve both endpoints (ErrNodeNotFound).
//  2. Validate capacity (ErrNegativeCapacity) and endpoints (ErrSelfLoop).
//  3. Append to the edge arena, the origin's outgoing list and the
//     destination's incoming list.
//
// Complexity: O(1) amortized.
func (g *Graph) AddEdge(srcKey, dstKey string, capacity float64) (EdgeID, error) {
	src, dst, err := g.endpoints(srcKey, dstKey, capacity)
	if err != nil {
		return NoEdge, err
	}

	return g.appendEdge(src, dst, capacity), nil
}

// AddBidirectionalEdge creates the two directed edges of an undirected pipe
// and links them as mutual reverses. Both sides share the same capacity.
//
// Complexity: O(1) amortized.
func (g *Graph) AddBidirectionalEdge(srcKey, dstKey string, capacity float64) (EdgeID, EdgeID, error) {
	src, dst, err := g.endpoints(srcKey, dstKey, capacity)
	if err != nil {
		return NoEdge, NoEdge, err
	}

	fwd := g.appendEdge(src, dst, capacity)
	rev := g.appendEdge(dst, src, capacity)
	g.edges[fwd].reverse = rev
	g.edges[rev].reverse = fwd

	return fwd, rev, nil
}

func (g *Graph) endpoints(srcKey, dstKey string, capacity float64) (*Node, *Node, error) {
	src := g.FindNode(srcKey)
	if src == nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrNodeNotFound, srcKey)
	}
	dst := g.FindNode(dstKey)
	if dst == nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrNodeNotFound, dstKey)
	}
	if src == dst {
		return nil, nil, fmt.Errorf("%w: %q", ErrSelfLoop, srcKey)
	}
	if capacity < 0 || math.IsNaN(capacity) {
		return nil, nil, fmt.Errorf("%w: %s→%s %g", ErrNegativeCapacity, srcKey, dstKey, capacity)
	}

	return src, dst, nil
}

func (g *Graph) appendEdge(src, dst *Node, capacity float64) EdgeID {
	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, &Edge{
		id:       id,
		from:     src.id,
		to:       dst.id,
		capacity: capacity,
		reverse:  NoEdge,
	})
	src.out = append(src.out, id)
	dst.in = append(dst.in, id)
	g.liveEdges++
	g.structVersion++

	return id
}

// Edge returns the edge with the given ID, or nil if out of range or removed.
// Complexity: O(1).
func (g *Graph) Edge(id EdgeID) *Edge {
	if id < 0 || int(id) >= len(g.edges) {
		return nil
	}

	return g.edges[id]
}

// RemoveEdge deletes the edge from the arena and from both adjacency lists.
// A paired partner stays in the graph as a one-way edge.
//
// Complexity: O(deg(from) + deg(to)).
func (g *Graph) RemoveEdge(id EdgeID) error {
	if g.Edge(id) == nil {
		return fmt.Errorf("%w: %d", ErrEdgeNotFound, id)
	}
	g.removeEdge(id)

	return nil
}

func (g *Graph) removeEdge(id EdgeID) {
	e := g.edges[id]
	if e.reverse != NoEdge {
		if r := g.Edge(e.reverse); r != nil {
			r.reverse = NoEdge
			r.flow = 0
		}
	}
	if n := g.Node(e.from); n != nil {
		n.out = dropEdgeID(n.out, id)
	}
	if n := g.Node(e.to); n != nil {
		n.in = dropEdgeID(n.in, id)
	}
	g.edges[id] = nil
	g.liveEdges--
	g.structVersion++
}

// dropEdgeID removes id from list preserving order.
func dropEdgeID(list []EdgeID, id EdgeID) []EdgeID {
	for i, v := range list {
		if v == id {
			return append(list[:i:i], list[i+1:]...)
		}
	}

	return list
}

// FindEdge returns the first live edge srcKey→dstKey in insertion order,
// or nil if either node or the edge is absent.
//
// Complexity: O(deg(src)).
func (g *Graph) FindEdge(srcKey, dstKey string) *Edge {
	src, dst := g.FindNode(srcKey), g.FindNode(dstKey)
	if src == nil || dst == nil {
		return nil
	}
	for _, eid := range src.out {
		if e := g.edges[eid]; e.to == dst.id {
			return e
		}
	}

	return nil
}

// Edges returns all live edges ordered by EdgeID.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, g.liveEdges)
	for _, e := range g.edges {
		if e != nil {
			out = append(out, e)
		}
	}

	return out
}

// Synthetic reports whether the edge touches a super-source or super-sink.
func (g *Graph) Synthetic(id EdgeID) bool {
	e := g.Edge(id)
	if e == nil {
		return false
	}

	return g.nodes[e.from].Role.Synthetic() || g.nodes[e.to].Role.Synthetic()
}

// EdgeLabel renders an edge as "FROM→TO" using node keys.
func (g *Graph) EdgeLabel(id EdgeID) string {
	e := g.Edge(id)
	if e == nil {
		return fmt.Sprintf("edge#%d", id)
	}

	return g.nodes[e.from].Key + "→" + g.nodes[e.to].Key
}
