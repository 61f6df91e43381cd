package core

import "fmt"

// Visibility is a saved copy of every hidden flag in a Graph.
// Take one with SaveVisibility and put it back with RestoreVisibility.
type Visibility struct {
	nodes []bool
	edges []bool
}

// HideNode excludes the node with the given key from traversal.
func (g *Graph) HideNode(key string) error {
	n := g.FindNode(key)
	if n == nil {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, key)
	}
	n.hidden = true

	return nil
}

// HideEdge excludes the edge from traversal. Its reverse pair, if any, stays
// visible; callers hiding a bidirectional pipe hide both sides.
func (g *Graph) HideEdge(id EdgeID) error {
	e := g.Edge(id)
	if e == nil {
		return fmt.Errorf("%w: %d", ErrEdgeNotFound, id)
	}
	e.hidden = true

	return nil
}

// UnhideAll clears every hidden flag. Complexity: O(V + E).
func (g *Graph) UnhideAll() {
	for _, n := range g.nodes {
		if n != nil {
			n.hidden = false
		}
	}
	for _, e := range g.edges {
		if e != nil {
			e.hidden = false
		}
	}
}

// Visible reports whether the edge and both of its endpoints are not hidden.
func (g *Graph) Visible(id EdgeID) bool {
	e := g.Edge(id)
	if e == nil || e.hidden {
		return false
	}

	return !g.nodes[e.from].hidden && !g.nodes[e.to].hidden
}

// SaveVisibility records the hidden flags of every node and edge.
func (g *Graph) SaveVisibility() Visibility {
	v := Visibility{
		nodes: make([]bool, len(g.nodes)),
		edges: make([]bool, len(g.edges)),
	}
	for i, n := range g.nodes {
		if n != nil {
			v.nodes[i] = n.hidden
		}
	}
	for i, e := range g.edges {
		if e != nil {
			v.edges[i] = e.hidden
		}
	}

	return v
}

// RestoreVisibility puts back flags saved by SaveVisibility. Nodes and edges
// created after the save are left visible.
func (g *Graph) RestoreVisibility(v Visibility) {
	for i, n := range g.nodes {
		if n == nil {
			continue
		}
		n.hidden = i < len(v.nodes) && v.nodes[i]
	}
	for i, e := range g.edges {
		if e == nil {
			continue
		}
		e.hidden = i < len(v.edges) && v.edges[i]
	}
}

// Equal reports whether two masks hide exactly the same nodes and edges.
func (v Visibility) Equal(o Visibility) bool {
	return equalMask(v.nodes, o.nodes) && equalMask(v.edges, o.edges)
}

// equalMask compares masks, treating slots past the shorter one as visible.
func equalMask(a, b []bool) bool {
	if len(a) < len(b) {
		a, b = b, a
	}
	for i, hidden := range a {
		if hidden != (i < len(b) && b[i]) {
			return false
		}
	}

	return true
}
