package flow

import (
	"context"
	"log/slog"

	"github.com/katalvlaran/waterflow/core"
	"github.com/katalvlaran/waterflow/telemetry"
)

// snapshot is the restore point of a Network.
type snapshot struct {
	graph      *core.Graph
	paths      []AugmentingPath
	logged     bool
	capVersion uint64
	visibility core.Visibility
}

// Store records the current flows and path log as the restore point.
//
// The first call, and any call after nodes, edges or capacities changed,
// deep-clones the graph. Otherwise only the flow vector is copied into the
// existing clone.
//
// Complexity: O(V + E) for a clone, O(E) for a flow refresh.
func (n *Network) Store() {
	if n.snap == nil || n.snap.graph.Version() != n.g.Version() || n.snap.capVersion != n.g.CapacityVersion() {
		n.snap = &snapshot{graph: n.g.Clone(), capVersion: n.g.CapacityVersion()}
	} else {
		// Same version, so the vectors have the same length.
		_ = n.snap.graph.SetFlows(n.g.Flows())
	}
	n.snap.paths = append([]AugmentingPath(nil), n.paths...)
	n.snap.logged = n.logging
	n.snap.visibility = n.g.SaveVisibility()
}

// Load copies the stored flows and path log back onto the graph.
// Capacities and hidden flags are not touched.
//
// Returns ErrNoSnapshot before the first Store, or ErrStaleSnapshot if nodes
// or edges were added or removed since.
func (n *Network) Load() error {
	if n.snap == nil {
		return ErrNoSnapshot
	}
	if n.snap.graph.Version() != n.g.Version() {
		return ErrStaleSnapshot
	}
	if err := n.g.SetFlows(n.snap.graph.Flows()); err != nil {
		return err
	}
	n.paths = append([]AugmentingPath(nil), n.snap.paths...)
	n.logging = n.snap.logged
	n.reindex()

	return nil
}

// Snapshot returns the stored graph, or nil before the first Store.
// It must be treated as read-only.
func (n *Network) Snapshot() *core.Graph {
	if n.snap == nil {
		return nil
	}

	return n.snap.graph
}

// StoredSinkSupply returns a sink's supply as recorded in the snapshot.
func (n *Network) StoredSinkSupply(key string) (float64, bool) {
	if n.snap == nil {
		return 0, false
	}
	node := n.g.FindNode(key)
	if node == nil || node.Role != core.RoleSink {
		return 0, false
	}
	eid := n.DrainEdge(node.ID())
	if e := n.snap.graph.Edge(eid); e != nil {
		return e.Flow(), true
	}

	return 0, true
}

// EnsureBaseline puts the graph in its logged maximum-flow state.
//
// If the snapshot holds a logged run taken under the current topology,
// capacities and hidden flags, it is loaded. Otherwise a logged MaxFlow runs
// and is stored. Either way the graph ends with baseline flows and log.
func (n *Network) EnsureBaseline(ctx context.Context) error {
	if err := n.ensureTerminals(true); err != nil {
		return err
	}
	if n.baselineValid() {
		return n.Load()
	}
	if _, err := n.MaxFlow(ctx, true); err != nil {
		return err
	}
	n.Store()
	telemetry.LoggerWithTrace(ctx, n.logger).Debug("baseline: stored",
		slog.Float64("value", n.Value()),
		slog.Int("paths", len(n.paths)),
	)

	return nil
}

func (n *Network) baselineValid() bool {
	s := n.snap
	return s != nil &&
		s.logged &&
		s.graph.Version() == n.g.Version() &&
		s.capVersion == n.g.CapacityVersion() &&
		s.visibility.Equal(n.g.SaveVisibility())
}
