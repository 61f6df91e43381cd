package core

import (
	"fmt"
	"math"
)

// Push adds amount to the flow of edge id and subtracts it from the reverse
// pair, keeping flow(e) == -flow(reverse(e)). A negative amount cancels flow.
// Push is the only way flows change outside ResetFlows and SetFlows.
//
// Complexity: O(1).
func (g *Graph) Push(id EdgeID, amount float64) {
	e := g.edges[id]
	e.flow += amount
	if e.reverse != NoEdge {
		g.edges[e.reverse].flow = -e.flow
	}
}

// ResetFlows sets every edge flow to zero. Complexity: O(E).
func (g *Graph) ResetFlows() {
	for _, e := range g.edges {
		if e != nil {
			e.flow = 0
		}
	}
}

// SetCapacity changes the capacity of edge id and of its reverse pair.
// Flows are left untouched; callers recompute them afterwards.
func (g *Graph) SetCapacity(id EdgeID, capacity float64) error {
	e := g.Edge(id)
	if e == nil {
		return fmt.Errorf("%w: %d", ErrEdgeNotFound, id)
	}
	if capacity < 0 || math.IsNaN(capacity) {
		return fmt.Errorf("%w: %s %g", ErrNegativeCapacity, g.EdgeLabel(id), capacity)
	}
	if e.capacity == capacity {
		return nil
	}
	e.capacity = capacity
	if e.reverse != NoEdge {
		g.edges[e.reverse].capacity = capacity
	}
	g.capVersion++

	return nil
}

// Flows returns a copy of all edge flows indexed by EdgeID.
// Removed slots hold zero.
func (g *Graph) Flows() []float64 {
	out := make([]float64, len(g.edges))
	for i, e := range g.edges {
		if e != nil {
			out[i] = e.flow
		}
	}

	return out
}

// SetFlows overwrites all edge flows from a vector produced by Flows on this
// graph or on a structurally identical clone.
func (g *Graph) SetFlows(flows []float64) error {
	if len(flows) != len(g.edges) {
		return fmt.Errorf("%w: got %d, want %d", ErrFlowsLength, len(flows), len(g.edges))
	}
	for i, e := range g.edges {
		if e != nil {
			e.flow = flows[i]
		}
	}

	return nil
}

// Outflow sums the positive flows leaving node id.
// Negative flows on paired edges are the mirror of an incoming flow and
// are already counted by Inflow.
func (g *Graph) Outflow(id NodeID) float64 {
	n := g.Node(id)
	if n == nil {
		return 0
	}
	var sum float64
	for _, eid := range n.out {
		if f := g.edges[eid].flow; f > 0 {
			sum += f
		}
	}

	return sum
}

// Inflow sums the positive flows entering node id.
func (g *Graph) Inflow(id NodeID) float64 {
	n := g.Node(id)
	if n == nil {
		return 0
	}
	var sum float64
	for _, eid := range n.in {
		if f := g.edges[eid].flow; f > 0 {
			sum += f
		}
	}

	return sum
}
