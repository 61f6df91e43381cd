package bfs

import (
	"fmt"

	"github.com/katalvlaran/waterflow/core"
)

// walker encapsulates mutable search state.
type walker struct {
	graph  *core.Graph
	opts   Options
	target core.NodeID
	queue  []core.NodeID
	res    *Result
	done   bool
}

// Search runs a residual breadth-first search on g from source towards sink.
//
// From a node u the walker first tries every outgoing edge u→v that is
// visible and has capacity − flow > Epsilon (forward step), then every
// incoming edge v→u that is visible and carries flow > Epsilon (backward
// step, cancelling that flow). The first step that discovers a node is kept,
// so ties follow adjacency order.
//
// A hidden source yields a result in which nothing but the source is reached.
// Returns ErrGraphNil, ErrNodeNotFound, ErrOptionViolation, ctx.Err() on
// cancellation, or a wrapped OnVisit error.
//
// Complexity: O(V + E)
func Search(g *core.Graph, source, sink core.NodeID, opts ...Option) (*Result, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	src := g.Node(source)
	if src == nil {
		return nil, fmt.Errorf("%w: source %d", ErrNodeNotFound, source)
	}
	if g.Node(sink) == nil {
		return nil, fmt.Errorf("%w: sink %d", ErrNodeNotFound, sink)
	}

	n := g.NodeSlots()
	w := &walker{
		graph:  g,
		opts:   o,
		target: sink,
		queue:  make([]core.NodeID, 0, n),
		res: &Result{
			Order:   make([]core.NodeID, 0, n),
			source:  source,
			reached: make([]bool, n),
			parent:  make([]Step, n),
		},
	}
	w.res.graph = g
	w.res.reached[source] = true
	if src.Hidden() {
		return w.res, nil
	}
	w.queue = append(w.queue, source)

	return w.res, w.loop()
}

// loop processes the queue until empty, target found, error, or cancellation.
func (w *walker) loop() error {
	for len(w.queue) > 0 && !w.done {
		select {
		case <-w.opts.Ctx.Done():
			return w.opts.Ctx.Err()
		default:
		}

		u := w.queue[0]
		w.queue = w.queue[1:]
		w.res.Order = append(w.res.Order, u)
		if err := w.opts.OnVisit(u); err != nil {
			return fmt.Errorf("bfs: OnVisit error at %d: %w", u, err)
		}
		w.expand(u)
	}

	return nil
}

// expand discovers unseen neighbors of u over residual forward and backward steps.
func (w *walker) expand(u core.NodeID) {
	node := w.graph.Node(u)
	eps := w.opts.Epsilon

	for _, eid := range node.Out() {
		e := w.graph.Edge(eid)
		v := e.To()
		if w.res.reached[v] || !w.graph.Visible(eid) || e.Residual() <= eps {
			continue
		}
		if w.discover(v, Step{Edge: eid, Forward: true}) {
			return
		}
	}
	for _, eid := range node.In() {
		e := w.graph.Edge(eid)
		v := e.From()
		if w.res.reached[v] || !w.graph.Visible(eid) || e.Flow() <= eps {
			continue
		}
		if w.discover(v, Step{Edge: eid, Forward: false}) {
			return
		}
	}
}

// discover records v's parent step and enqueues it.
// It reports true when the search should stop.
func (w *walker) discover(v core.NodeID, via Step) bool {
	w.res.reached[v] = true
	w.res.parent[v] = via
	w.queue = append(w.queue, v)
	if v == w.target && w.opts.EarlyExit {
		w.done = true
	}

	return w.done
}

// PathTo reconstructs the steps from the source to dest in travel order.
// ok is false if dest was not reached. The source itself yields an empty path.
func (r *Result) PathTo(dest core.NodeID) (steps []Step, ok bool) {
	if !r.Reached(dest) {
		return nil, false
	}
	// build reversed path
	for cur := dest; cur != r.source; {
		st := r.parent[cur]
		steps = append(steps, st)
		e := r.graph.Edge(st.Edge)
		if st.Forward {
			cur = e.From()
		} else {
			cur = e.To()
		}
	}
	// reverse to get source → dest
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}

	return steps, true
}
