package flow

import (
	"math"

	"github.com/katalvlaran/waterflow/bfs"
	"github.com/katalvlaran/waterflow/core"
)

// Reduce turns a residual path into an augmentation and applies it to g.
//
// The bottleneck is the minimum over the steps of capacity − flow for a
// forward step and of flow for a backward step. Forward steps gain the
// bottleneck, backward steps lose it; Graph.Push mirrors both on the reverse
// pair. ok is false, and g is unchanged, for an empty path or a bottleneck
// not above eps.
//
// Complexity: O(len(steps))
func Reduce(g *core.Graph, steps []bfs.Step, eps float64) (path AugmentingPath, ok bool) {
	if len(steps) == 0 {
		return AugmentingPath{}, false
	}

	// 1) Bottleneck
	b := math.Inf(1)
	for _, st := range steps {
		e := g.Edge(st.Edge)
		r := e.Flow()
		if st.Forward {
			r = e.Residual()
		}
		if r < b {
			b = r
		}
	}
	if b <= eps {
		return AugmentingPath{}, false
	}

	// 2) Apply
	for _, st := range steps {
		g.Push(st.Edge, signed(st, b))
	}

	return AugmentingPath{Steps: append([]bfs.Step(nil), steps...), Bottleneck: b}, true
}

// signed returns the Push amount a step contributes for bottleneck b.
func signed(st bfs.Step, b float64) float64 {
	if st.Forward {
		return b
	}

	return -b
}
