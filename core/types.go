// Package core defines the Node, Edge and Graph types of a water
// distribution network and the primitives to build, query, hide and clone it.
//
// Nodes and edges live in arenas indexed by NodeID and EdgeID. A key index maps
// each node's unique string key to its NodeID, so lookups are O(1).
//
// Errors:
//
//	ErrNilNode          - node pointer is nil.
//	ErrEmptyKey         - node key is the empty string.
//	ErrDuplicateKey     - a node with the same key already exists.
//	ErrNodeNotFound     - requested node does not exist.
//	ErrEdgeNotFound     - requested edge does not exist.
//	ErrNegativeCapacity - capacity below zero.
//	ErrSelfLoop         - edge from a node to itself.
//	ErrFlowsLength      - flow vector does not match the edge arena.
package core

import (
	"errors"
)

// Sentinel errors for core graph operations.
var (
	// ErrNilNode indicates a nil *Node was passed to AddNode.
	ErrNilNode = errors.New("core: node is nil")

	// ErrEmptyKey indicates that the provided Node has an empty key.
	ErrEmptyKey = errors.New("core: node key is empty")

	// ErrDuplicateKey indicates that a node with the same key is already present.
	ErrDuplicateKey = errors.New("core: duplicate node key")

	// ErrNodeNotFound indicates an operation referenced a non-existent node.
	ErrNodeNotFound = errors.New("core: node not found")

	// ErrEdgeNotFound indicates an operation referenced a non-existent edge.
	ErrEdgeNotFound = errors.New("core: edge not found")

	// ErrNegativeCapacity indicates a capacity below zero.
	ErrNegativeCapacity = errors.New("core: negative capacity")

	// ErrSelfLoop indicates an edge whose endpoints coincide.
	ErrSelfLoop = errors.New("core: self-loop not allowed")

	// ErrFlowsLength indicates a flow vector of the wrong length.
	ErrFlowsLength = errors.New("core: flow vector length mismatch")
)

// NodeID indexes the node arena of a Graph.
type NodeID int

// EdgeID indexes the edge arena of a Graph.
type EdgeID int

// NoNode and NoEdge are the "absent" values of NodeID and EdgeID.
const (
	NoNode NodeID = -1
	NoEdge EdgeID = -1
)

// Role tags a node with its part in the network.
type Role uint8

const (
	// RoleTransfer is an intermediate point such as a pumping station.
	RoleTransfer Role = iota
	// RoleSource is a reservoir with a bounded output rate.
	RoleSource
	// RoleSink is a delivery site with a bounded demand.
	RoleSink
	// RoleSuperSource is the synthetic node feeding every source.
	RoleSuperSource
	// RoleSuperSink is the synthetic node drained by every sink.
	RoleSuperSink
)

// String returns the lower-case role name.
func (r Role) String() string {
	switch r {
	case RoleTransfer:
		return "transfer"
	case RoleSource:
		return "source"
	case RoleSink:
		return "sink"
	case RoleSuperSource:
		return "super-source"
	case RoleSuperSink:
		return "super-sink"
	default:
		return "unknown"
	}
}

// Synthetic reports whether r marks a super-source or super-sink.
func (r Role) Synthetic() bool {
	return r == RoleSuperSource || r == RoleSuperSink
}

// SourceInfo is the payload of a RoleSource node.
type SourceInfo struct {
	// Name is the human-readable reservoir name.
	Name string
	// Municipality is where the reservoir is located.
	Municipality string
	// MaxOutput bounds the rate the source can deliver.
	MaxOutput float64
}

// SinkInfo is the payload of a RoleSink node.
type SinkInfo struct {
	// City is the human-readable name of the delivery site.
	City string
	// Demand bounds the rate the sink can absorb.
	Demand float64
	// Population served by the sink.
	Population int
}

// Node is a vertex of the network.
//
// Key, Role and the role payload are set by the caller before AddNode.
// The identifier, hidden flag and adjacency lists are owned by the Graph.
type Node struct {
	// Key uniquely identifies this Node within its Graph.
	Key string

	// Role distinguishes sources, transfer points and sinks.
	Role Role

	// Source is meaningful only when Role == RoleSource.
	Source SourceInfo

	// Sink is meaningful only when Role == RoleSink.
	Sink SinkInfo

	id     NodeID
	hidden bool
	out    []EdgeID
	in     []EdgeID
}

// NewSource returns a source node with the given maximum output.
func NewSource(key string, maxOutput float64) *Node {
	return &Node{Key: key, Role: RoleSource, Source: SourceInfo{MaxOutput: maxOutput}, id: NoNode}
}

// NewTransfer returns a transfer node.
func NewTransfer(key string) *Node {
	return &Node{Key: key, Role: RoleTransfer, id: NoNode}
}

// NewSink returns a sink node with the given demand.
func NewSink(key string, demand float64) *Node {
	return &Node{Key: key, Role: RoleSink, Sink: SinkInfo{Demand: demand}, id: NoNode}
}

// ID returns the arena index assigned by AddNode, or NoNode before insertion.
func (n *Node) ID() NodeID { return n.id }

// Hidden reports whether the node is excluded from traversal.
func (n *Node) Hidden() bool { return n.hidden }

// Out returns the IDs of the node's outgoing edges in insertion order.
// The slice is owned by the Graph and must not be modified.
func (n *Node) Out() []EdgeID { return n.out }

// In returns the IDs of the node's incoming edges in insertion order.
// The slice is owned by the Graph and must not be modified.
func (n *Node) In() []EdgeID { return n.in }

// Edge is a directed, capacitated connection between two nodes.
//
// A bidirectional pipe is modeled as two edges that name each other as
// Reverse; Graph.Push keeps flow(e) == -flow(Reverse(e)).
type Edge struct {
	id       EdgeID
	from, to NodeID
	capacity float64
	flow     float64
	reverse  EdgeID
	hidden   bool
	removed  bool
}

// ID returns the arena index of the edge.
func (e *Edge) ID() EdgeID { return e.id }

// From returns the origin node ID.
func (e *Edge) From() NodeID { return e.from }

// To returns the destination node ID.
func (e *Edge) To() NodeID { return e.to }

// Capacity returns the edge capacity.
func (e *Edge) Capacity() float64 { return e.capacity }

// Flow returns the signed flow currently assigned to the edge.
func (e *Edge) Flow() float64 { return e.flow }

// Residual returns capacity − flow.
func (e *Edge) Residual() float64 { return e.capacity - e.flow }

// Reverse returns the paired edge, or NoEdge for a one-way pipe.
func (e *Edge) Reverse() EdgeID { return e.reverse }

// Paired reports whether the edge is one side of a bidirectional pipe.
func (e *Edge) Paired() bool { return e.reverse != NoEdge }

// Hidden reports whether the edge itself is hidden. Use Graph.Visible to
// also account for hidden endpoints.
func (e *Edge) Hidden() bool { return e.hidden }

// GraphOption configures a Graph before creation.
type GraphOption func(g *Graph)

// WithCapacityHint preallocates the node and edge arenas.
func WithCapacityHint(nodes, edges int) GraphOption {
	return func(g *Graph) {
		if nodes > 0 {
			g.nodes = make([]*Node, 0, nodes)
			g.index = make(map[string]NodeID, nodes)
		}
		if edges > 0 {
			g.edges = make([]*Edge, 0, edges)
		}
	}
}

// Graph is the in-memory network.
//
// Graph is not safe for concurrent use: flows, capacities and hidden flags
// are mutated by every analysis, so a Graph must be owned by one goroutine.
type Graph struct {
	nodes []*Node
	edges []*Edge
	index map[string]NodeID

	liveNodes int
	liveEdges int

	// structVersion counts node/edge insertions and removals.
	structVersion uint64
	// capVersion counts capacity changes.
	capVersion uint64
}

// NewGraph creates an empty Graph with the given options applied.
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{}
	for _, opt := range opts {
		opt(g)
	}
	if g.index == nil {
		g.index = make(map[string]NodeID)
	}

	return g
}

// Version returns a counter that changes whenever a node or edge is added or removed.
func (g *Graph) Version() uint64 { return g.structVersion }

// CapacityVersion returns a counter that changes whenever a capacity changes.
func (g *Graph) CapacityVersion() uint64 { return g.capVersion }

// NodeCount returns the number of live nodes. Complexity: O(1).
func (g *Graph) NodeCount() int { return g.liveNodes }

// EdgeCount returns the number of live edges. Complexity: O(1).
func (g *Graph) EdgeCount() int { return g.liveEdges }

// EdgeSlots returns the size of the edge arena, including removed slots.
// Vectors indexed by EdgeID (flows, per-edge tables) use this length.
func (g *Graph) EdgeSlots() int { return len(g.edges) }

// NodeSlots returns the size of the node arena, including removed slots.
func (g *Graph) NodeSlots() int { return len(g.nodes) }
