package core

import (
	"fmt"
	"sort"
)

// AddNode inserts n and assigns its NodeID.
//
// Returns ErrNilNode, ErrEmptyKey, or ErrDuplicateKey if a node with the same
// key is already present; the graph is unchanged in every error case.
// A node may belong to one Graph only.
//
// Complexity: O(1) amortized.
func (g *Graph) AddNode(n *Node) error {
	if n == nil {
		return ErrNilNode
	}
	if n.Key == "" {
		return ErrEmptyKey
	}
	if _, ok := g.index[n.Key]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, n.Key)
	}

	n.id = NodeID(len(g.nodes))
	n.hidden = false
	n.out = nil
	n.in = nil
	g.nodes = append(g.nodes, n)
	g.index[n.Key] = n.id
	g.liveNodes++
	g.structVersion++

	return nil
}

// FindNode returns the node with the given key, or nil if absent.
// Complexity: O(1).
func (g *Graph) FindNode(key string) *Node {
	id, ok := g.index[key]
	if !ok {
		return nil
	}

	return g.nodes[id]
}

// Node returns the node with the given ID, or nil if out of range or removed.
// Complexity: O(1).
func (g *Graph) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil
	}

	return g.nodes[id]
}

// RemoveNode deletes the node with the given key together with every edge
// incident to it. Paired partners of removed edges become one-way edges.
//
// Complexity: O(deg(v) · deg(neighbor)) for adjacency cleanup.
func (g *Graph) RemoveNode(key string) error {
	n := g.FindNode(key)
	if n == nil {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, key)
	}

	// Copy the lists: removeEdge rewrites them while we iterate.
	incident := make([]EdgeID, 0, len(n.out)+len(n.in))
	incident = append(incident, n.out...)
	incident = append(incident, n.in...)
	for _, eid := range incident {
		if g.Edge(eid) != nil {
			g.removeEdge(eid)
		}
	}

	delete(g.index, key)
	g.nodes[n.id] = nil
	g.liveNodes--
	g.structVersion++

	return nil
}

// Nodes returns all live nodes ordered by NodeID.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, g.liveNodes)
	for _, n := range g.nodes {
		if n != nil {
			out = append(out, n)
		}
	}

	return out
}

// NodesByRole returns the live nodes with the given role, sorted by key.
func (g *Graph) NodesByRole(role Role) []*Node {
	out := make([]*Node, 0)
	for _, n := range g.nodes {
		if n != nil && n.Role == role {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })

	return out
}
