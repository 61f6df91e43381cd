package flow

import (
	"sort"

	"github.com/katalvlaran/waterflow/core"
)

// Paths returns a copy of the augmenting-path log in application order.
func (n *Network) Paths() []AugmentingPath {
	return append([]AugmentingPath(nil), n.paths...)
}

// PathsThrough returns the logged paths that use edge id or its reverse.
func (n *Network) PathsThrough(id core.EdgeID) []AugmentingPath {
	if id < 0 || int(id) >= len(n.edgePaths) {
		return nil
	}
	out := make([]AugmentingPath, 0, len(n.edgePaths[id]))
	for _, pi := range n.edgePaths[id] {
		out = append(out, n.paths[pi])
	}

	return out
}

// Logging reports whether the current flows were produced with path logging.
func (n *Network) Logging() bool { return n.logging }

func (n *Network) clearLog() {
	n.paths = nil
	n.edgePaths = nil
}

func (n *Network) appendPath(p AugmentingPath) {
	n.paths = append(n.paths, p)
	n.register(len(n.paths) - 1)
}

// register indexes path pi on every edge it used and on that edge's reverse.
func (n *Network) register(pi int) {
	if slots := n.g.EdgeSlots(); len(n.edgePaths) < slots {
		grown := make([][]int, slots)
		copy(grown, n.edgePaths)
		n.edgePaths = grown
	}
	for _, st := range n.paths[pi].Steps {
		n.edgePaths[st.Edge] = appendOnce(n.edgePaths[st.Edge], pi)
		if rev := n.g.Edge(st.Edge).Reverse(); rev != core.NoEdge {
			n.edgePaths[rev] = appendOnce(n.edgePaths[rev], pi)
		}
	}
}

// appendOnce appends pi unless it is already the last entry; paths are
// registered in increasing order so that check is enough.
func appendOnce(list []int, pi int) []int {
	if k := len(list); k > 0 && list[k-1] == pi {
		return list
	}

	return append(list, pi)
}

// reindex rebuilds edgePaths from the current log.
func (n *Network) reindex() {
	n.edgePaths = make([][]int, n.g.EdgeSlots())
	for pi := range n.paths {
		n.register(pi)
	}
}

// retract removes from the graph and from the log every path that uses one of
// targets, together with every further path needed to keep the remaining
// flows within their bounds.
//
// Steps:
//  1. Select the paths indexed on the targets and accumulate, per edge, the
//     Push amount that undoes them.
//  2. Simulate the post-retraction flow of every touched edge. An edge that
//     would leave [lower, capacity] selects every path indexed on it.
//  3. Repeat 2 until no edge is out of bounds or nothing new is selected.
//  4. Apply the accumulated amounts, drop selected paths, rebuild the index.
//
// The graph is only written in step 4, so no out-of-bounds flow is ever
// observable.
func (n *Network) retract(targets []core.EdgeID) int {
	delta := make(map[core.EdgeID]float64)
	selected := 0
	selectEdge := func(id core.EdgeID) bool {
		if id < 0 || int(id) >= len(n.edgePaths) {
			return false
		}
		added := false
		for _, pi := range n.edgePaths[id] {
			p := &n.paths[pi]
			if p.selected {
				continue
			}
			p.selected = true
			selected++
			added = true
			for _, st := range p.Steps {
				delta[st.Edge] -= signed(st, p.Bottleneck)
			}
		}
		return added
	}

	// 1) Targets
	for _, t := range targets {
		selectEdge(t)
	}
	if selected == 0 {
		return 0
	}

	// 2-3) Closure
	for {
		var bad []core.EdgeID
		for id := range delta {
			if !n.withinBounds(id, delta) {
				bad = append(bad, id)
			}
		}
		if len(bad) == 0 {
			break
		}
		added := false
		for _, id := range bad {
			if selectEdge(id) {
				added = true
			}
			if rev := n.g.Edge(id).Reverse(); rev != core.NoEdge && selectEdge(rev) {
				added = true
			}
		}
		if !added {
			break
		}
	}

	// 4) Apply in EdgeID order so float accumulation is reproducible.
	ids := make([]core.EdgeID, 0, len(delta))
	for id := range delta {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		n.g.Push(id, delta[id])
	}

	kept := n.paths[:0]
	for _, p := range n.paths {
		if !p.selected {
			kept = append(kept, p)
		}
	}
	n.paths = kept
	n.reindex()

	return selected
}

// withinBounds checks the simulated flow of edge id after applying delta.
// A one-way edge must stay in [0, capacity]; a paired edge may go down to
// −capacity(reverse), which is its partner carrying the water.
func (n *Network) withinBounds(id core.EdgeID, delta map[core.EdgeID]float64) bool {
	e := n.g.Edge(id)
	f := e.Flow() + delta[id]
	lower := 0.0
	if rev := e.Reverse(); rev != core.NoEdge {
		f -= delta[rev]
		lower = -n.g.Edge(rev).Capacity()
	}

	return f >= lower-n.eps && f <= e.Capacity()+n.eps
}
