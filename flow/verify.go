package flow

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/waterflow/core"
)

// ErrInvariant is returned by Verify when the current flows are not a valid
// flow assignment.
var ErrInvariant = errors.New("flow: invariant violated")

// Verify checks the current flows against the network invariants:
//
//   - reverse symmetry: flow(e) == -flow(reverse(e));
//   - capacity bounds: one-way edges in [0, capacity], paired edges in
//     [-capacity(reverse), capacity];
//   - conservation at every non-synthetic node;
//   - super-source outflow equals super-sink inflow.
//
// tol bounds the accepted floating-point error; tol ≤ 0 uses 1e-6.
// All violations are joined into one error wrapping ErrInvariant.
func (n *Network) Verify(tol float64) error {
	if tol <= 0 {
		tol = 1e-6
	}
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvariant}, args...)...))
	}

	for _, e := range n.g.Edges() {
		lower := 0.0
		if rev := e.Reverse(); rev != core.NoEdge {
			r := n.g.Edge(rev)
			if math.Abs(e.Flow()+r.Flow()) > tol {
				fail("asymmetric pair %s: %g vs %g", n.g.EdgeLabel(e.ID()), e.Flow(), r.Flow())
			}
			lower = -r.Capacity()
		}
		if e.Flow() < lower-tol || e.Flow() > e.Capacity()+tol {
			fail("%s flow %g outside [%g, %g]", n.g.EdgeLabel(e.ID()), e.Flow(), lower, e.Capacity())
		}
	}

	for _, node := range n.g.Nodes() {
		if node.Role.Synthetic() {
			continue
		}
		in, out := n.g.Inflow(node.ID()), n.g.Outflow(node.ID())
		if math.Abs(in-out) > tol {
			fail("node %s not conserved: in %g, out %g", node.Key, in, out)
		}
	}

	if n.superSource != core.NoNode && n.superSink != core.NoNode {
		out, in := n.g.Outflow(n.superSource), n.g.Inflow(n.superSink)
		if math.Abs(out-in) > tol {
			fail("super-source emits %g, super-sink absorbs %g", out, in)
		}
	}

	return errors.Join(errs...)
}

// LoggedFlow returns the flow of edge id implied by the path log: the sum of
// the contributions of every logged path on the edge or its reverse. With
// logging on it equals the edge's flow.
func (n *Network) LoggedFlow(id core.EdgeID) float64 {
	e := n.g.Edge(id)
	if e == nil || int(id) >= len(n.edgePaths) {
		return 0
	}
	var sum float64
	for _, pi := range n.edgePaths[id] {
		p := n.paths[pi]
		for _, st := range p.Steps {
			switch {
			case st.Edge == id:
				sum += signed(st, p.Bottleneck)
			case st.Edge == e.Reverse():
				sum -= signed(st, p.Bottleneck)
			}
		}
	}

	return sum
}
