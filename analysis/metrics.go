package analysis

import (
	"github.com/katalvlaran/waterflow/core"
	"github.com/katalvlaran/waterflow/flow"
)

// ComputeMetrics reports the spread of idle capacity over the network's
// current flows.
//
// Counted edges are visible, do not touch a synthetic terminal and carry no
// negative flow beyond the network's epsilon. A zero-flow pipe pair is
// counted once: on the side with the lower ID, or on the only visible side.
// An empty set yields the zero Metrics.
//
// Complexity: O(E).
func ComputeMetrics(n *flow.Network) Metrics {
	if n == nil {
		return Metrics{}
	}
	g, eps := n.Graph(), n.Epsilon()

	var idle []float64
	for _, e := range g.Edges() {
		id := e.ID()
		if !g.Visible(id) || n.IsSynthetic(id) || e.Flow() < -eps {
			continue
		}
		if rev := e.Reverse(); rev != core.NoEdge && e.Flow() <= eps && g.Visible(rev) && rev < id {
			continue
		}
		idle = append(idle, e.Capacity()-e.Flow())
	}

	return summarize(idle)
}

// summarize computes max, mean and population variance; max starts at zero.
func summarize(v []float64) Metrics {
	if len(v) == 0 {
		return Metrics{}
	}
	m := Metrics{Count: len(v)}
	for _, x := range v {
		m.Mean += x
		if x > m.Max {
			m.Max = x
		}
	}
	m.Mean /= float64(len(v))
	for _, x := range v {
		d := x - m.Mean
		m.Variance += d * d
	}
	m.Variance /= float64(len(v))

	return m
}
