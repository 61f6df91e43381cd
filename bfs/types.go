// Package bfs provides tunable options and error definitions
// for residual breadth-first search over a core.Graph.
package bfs

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/waterflow/core"
)

// Sentinel errors for BFS execution.
var (
	// ErrGraphNil is returned if a nil graph pointer is passed.
	ErrGraphNil = errors.New("bfs: graph is nil")

	// ErrNodeNotFound is returned when the start or target ID is absent.
	ErrNodeNotFound = errors.New("bfs: node not found")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("bfs: invalid option supplied")
)

// DefaultEpsilon is the residual threshold below which an edge is saturated.
const DefaultEpsilon = 1e-9

// Option configures Search via functional arguments.
// An invalid Option is recorded and surfaced as ErrOptionViolation.
type Option func(*Options)

// Options holds parameters and callbacks to customize a residual search.
type Options struct {
	// Ctx allows cancellation and deadlines.
	Ctx context.Context

	// Epsilon: residual capacities and flows ≤ Epsilon are treated as zero.
	Epsilon float64

	// EarlyExit stops the search as soon as the target is discovered.
	EarlyExit bool

	// OnVisit is called when a node is dequeued. Returning an error aborts
	// the search and propagates that error.
	OnVisit func(id core.NodeID) error

	err error
}

// DefaultOptions returns Options with:
//   - context.Background()
//   - Epsilon = DefaultEpsilon
//   - EarlyExit enabled
//   - a no-op OnVisit hook.
func DefaultOptions() Options {
	return Options{
		Ctx:       context.Background(),
		Epsilon:   DefaultEpsilon,
		EarlyExit: true,
		OnVisit:   func(core.NodeID) error { return nil },
	}
}

// WithContext sets a custom context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithEpsilon sets the saturation threshold.
//
//	eps > 0: use eps
//	eps == 0: keep the default
//	eps < 0: invalid option → ErrOptionViolation
func WithEpsilon(eps float64) Option {
	return func(o *Options) {
		switch {
		case eps < 0:
			o.err = fmt.Errorf("%w: epsilon cannot be negative (%g)", ErrOptionViolation, eps)
		case eps > 0:
			o.Epsilon = eps
		}
	}
}

// WithEarlyExit toggles stopping once the target is reached.
// Disable it to compute the full residual reachability set.
func WithEarlyExit(on bool) Option {
	return func(o *Options) { o.EarlyExit = on }
}

// WithOnVisit registers a callback to run on visit.
func WithOnVisit(fn func(id core.NodeID) error) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnVisit = fn
		}
	}
}

// Step is one hop of a residual path: the edge used, and whether it was
// traversed along its direction (Forward) or against it to cancel flow.
type Step struct {
	Edge    core.EdgeID
	Forward bool
}

// Result holds the outcome of a residual search:
//   - Order: nodes in dequeue sequence.
//   - parent: the step that first discovered each node, indexed by NodeID.
type Result struct {
	Order []core.NodeID

	graph   *core.Graph
	source  core.NodeID
	reached []bool
	parent  []Step
}

// Reached reports whether id was discovered.
func (r *Result) Reached(id core.NodeID) bool {
	return id >= 0 && int(id) < len(r.reached) && r.reached[id]
}

// ParentOf returns the step that discovered id. ok is false for the source
// and for nodes that were not reached.
func (r *Result) ParentOf(id core.NodeID) (Step, bool) {
	if !r.Reached(id) || id == r.source {
		return Step{Edge: core.NoEdge}, false
	}

	return r.parent[id], true
}
