package flow

import (
	"fmt"
	"log/slog"

	"github.com/katalvlaran/waterflow/core"
)

// Network runs maximum-flow analyses over a core.Graph.
//
// It owns the synthetic super-source and super-sink, the augmenting-path
// log with its per-edge index, and the snapshot used as a restore point.
// Like core.Graph it is not safe for concurrent use.
type Network struct {
	g      *core.Graph
	eps    float64
	logger *slog.Logger

	superSource core.NodeID
	superSink   core.NodeID
	feeders     map[core.NodeID]core.EdgeID // source → super-source edge
	drains      map[core.NodeID]core.EdgeID // sink → super-sink edge
	ceilings    map[core.NodeID]float64     // pinned drain capacities

	logging   bool
	paths     []AugmentingPath
	edgePaths [][]int // EdgeID → indices into paths

	snap *snapshot
}

// NewNetwork wraps g. The synthetic terminals are created on the first run.
//
// Returns ErrGraphNil, or ErrReservedKey if g holds a non-synthetic node
// under SuperSourceKey or SuperSinkKey.
func NewNetwork(g *core.Graph, opts ...Option) (*Network, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	n := &Network{
		g:           g,
		eps:         DefaultEpsilon,
		logger:      slog.Default(),
		superSource: core.NoNode,
		superSink:   core.NoNode,
		feeders:     make(map[core.NodeID]core.EdgeID),
		drains:      make(map[core.NodeID]core.EdgeID),
		ceilings:    make(map[core.NodeID]float64),
	}
	for _, opt := range opts {
		opt(n)
	}
	for key, role := range map[string]core.Role{SuperSourceKey: core.RoleSuperSource, SuperSinkKey: core.RoleSuperSink} {
		if node := g.FindNode(key); node != nil && node.Role != role {
			return nil, fmt.Errorf("%w: %q has role %s", ErrReservedKey, key, node.Role)
		}
	}

	return n, nil
}

// Graph returns the analyzed graph.
func (n *Network) Graph() *core.Graph { return n.g }

// Logger returns the logger given to WithLogger, or slog.Default().
func (n *Network) Logger() *slog.Logger { return n.logger }

// Epsilon returns the zero tolerance in use.
func (n *Network) Epsilon() float64 { return n.eps }

// SuperSource returns the synthetic source, or core.NoNode before the first run.
func (n *Network) SuperSource() core.NodeID { return n.superSource }

// SuperSink returns the synthetic sink, or core.NoNode before the first run.
func (n *Network) SuperSink() core.NodeID { return n.superSink }

// ensureTerminals creates the synthetic nodes and connects every source and
// sink that has no feeder or drain edge yet. With resync, existing feeder and
// drain capacities are refreshed from the node payload (or pinned ceiling).
func (n *Network) ensureTerminals(resync bool) error {
	var err error
	if n.superSource, err = n.adoptTerminal(SuperSourceKey, core.RoleSuperSource, n.superSource, n.feeders, true); err != nil {
		return err
	}
	if n.superSink, err = n.adoptTerminal(SuperSinkKey, core.RoleSuperSink, n.superSink, n.drains, false); err != nil {
		return err
	}

	for _, src := range n.g.NodesByRole(core.RoleSource) {
		if err := n.connect(n.feeders, src, src.Source.MaxOutput, SuperSourceKey, src.Key, resync); err != nil {
			return err
		}
	}
	for _, sink := range n.g.NodesByRole(core.RoleSink) {
		capacity := sink.Sink.Demand
		if c, ok := n.ceilings[sink.ID()]; ok {
			capacity = c
		}
		if err := n.connect(n.drains, sink, capacity, sink.Key, SuperSinkKey, resync); err != nil {
			return err
		}
	}

	return nil
}

// adoptTerminal returns the synthetic node for key, creating it if absent and
// indexing its existing edges when the graph already carries one.
func (n *Network) adoptTerminal(
	key string,
	role core.Role,
	current core.NodeID,
	edges map[core.NodeID]core.EdgeID,
	outgoing bool,
) (core.NodeID, error) {
	if current != core.NoNode && n.g.Node(current) != nil {
		return current, nil
	}
	node := n.g.FindNode(key)
	if node == nil {
		node = &core.Node{Key: key, Role: role}
		if err := n.g.AddNode(node); err != nil {
			return core.NoNode, fmt.Errorf("flow: add %s: %w", role, err)
		}
		return node.ID(), nil
	}
	if node.Role != role {
		return core.NoNode, fmt.Errorf("%w: %q has role %s", ErrReservedKey, key, node.Role)
	}
	list := node.In()
	if outgoing {
		list = node.Out()
	}
	for _, eid := range list {
		e := n.g.Edge(eid)
		other := e.From()
		if outgoing {
			other = e.To()
		}
		edges[other] = eid
	}

	return node.ID(), nil
}

// connect makes sure node has its feeder or drain edge with the given capacity.
func (n *Network) connect(edges map[core.NodeID]core.EdgeID, node *core.Node, capacity float64, from, to string, resync bool) error {
	if capacity < 0 {
		capacity = 0
	}
	if eid, ok := edges[node.ID()]; ok && n.g.Edge(eid) != nil {
		if !resync {
			return nil
		}
		return n.g.SetCapacity(eid, capacity)
	}
	eid, err := n.g.AddEdge(from, to, capacity)
	if err != nil {
		return fmt.Errorf("flow: connect %s: %w", node.Key, err)
	}
	edges[node.ID()] = eid

	return nil
}

// Value returns the flow currently leaving the super-source.
func (n *Network) Value() float64 {
	if n.superSource == core.NoNode {
		return 0
	}

	return n.g.Outflow(n.superSource)
}

// SinkSupply returns the flow delivered to the sink with the given key.
// ok is false when the key is unknown or names another role.
func (n *Network) SinkSupply(key string) (supplied float64, ok bool) {
	node := n.g.FindNode(key)
	if node == nil || node.Role != core.RoleSink {
		return 0, false
	}

	return n.terminalFlow(n.drains, node.ID()), true
}

// SourceDelivery returns the flow leaving the source with the given key.
// ok is false when the key is unknown or names another role.
func (n *Network) SourceDelivery(key string) (delivered float64, ok bool) {
	node := n.g.FindNode(key)
	if node == nil || node.Role != core.RoleSource {
		return 0, false
	}

	return n.terminalFlow(n.feeders, node.ID()), true
}

func (n *Network) terminalFlow(edges map[core.NodeID]core.EdgeID, id core.NodeID) float64 {
	eid, ok := edges[id]
	if !ok {
		return 0
	}
	e := n.g.Edge(eid)
	if e == nil {
		return 0
	}

	return e.Flow()
}

// Supplies reports the delivered flow of every sink, sorted by key.
func (n *Network) Supplies() []Supply {
	sinks := n.g.NodesByRole(core.RoleSink)
	out := make([]Supply, 0, len(sinks))
	for _, s := range sinks {
		out = append(out, Supply{
			Key:      s.Key,
			City:     s.Sink.City,
			Demand:   s.Sink.Demand,
			Supplied: n.terminalFlow(n.drains, s.ID()),
		})
	}

	return out
}

// DrainEdge returns the sink→super-sink edge of the given sink, or core.NoEdge.
func (n *Network) DrainEdge(sink core.NodeID) core.EdgeID {
	if eid, ok := n.drains[sink]; ok && n.g.Edge(eid) != nil {
		return eid
	}

	return core.NoEdge
}

// IsSynthetic reports whether the edge is a feeder or drain edge.
func (n *Network) IsSynthetic(id core.EdgeID) bool { return n.g.Synthetic(id) }

// PinSinkCeilings caps every sink at the supply it currently receives.
// Later runs cannot route more water to a sink than it gets now, so a
// what-if query shows who loses water instead of who could absorb it.
func (n *Network) PinSinkCeilings() {
	for _, s := range n.g.NodesByRole(core.RoleSink) {
		n.ceilings[s.ID()] = n.terminalFlow(n.drains, s.ID())
	}
}

// ReleaseSinkCeilings returns every sink to its declared demand.
func (n *Network) ReleaseSinkCeilings() {
	clear(n.ceilings)
}

// Pinned reports whether sink ceilings are in effect.
func (n *Network) Pinned() bool { return len(n.ceilings) > 0 }
