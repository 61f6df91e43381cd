package flow

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/waterflow/bfs"
	"github.com/katalvlaran/waterflow/core"
)

// Sentinel errors for flow operations.
var (
	// ErrGraphNil is returned by NewNetwork for a nil graph.
	ErrGraphNil = errors.New("flow: graph is nil")

	// ErrReservedKey is returned when the graph already holds a node with a
	// key reserved for the synthetic super-source or super-sink.
	ErrReservedKey = errors.New("flow: reserved node key in use")

	// ErrNoSnapshot is returned by Load before any Store.
	ErrNoSnapshot = errors.New("flow: no snapshot stored")

	// ErrStaleSnapshot is returned by Load when nodes or edges were added or
	// removed since the snapshot was stored.
	ErrStaleSnapshot = errors.New("flow: snapshot does not match topology")

	// ErrUnknownStrategy is returned for a Strategy value outside the enum.
	ErrUnknownStrategy = errors.New("flow: unknown strategy")

	// ErrNotSink is returned when a sink query names a node of another role.
	ErrNotSink = errors.New("flow: node is not a sink")
)

// Keys of the synthetic terminals created by a Network.
const (
	SuperSourceKey = "__super_source__"
	SuperSinkKey   = "__super_sink__"
)

// DefaultEpsilon is the tolerance below which a flow or residual is zero.
const DefaultEpsilon = 1e-9

// Strategy selects how MaxFlowExcluding recomputes the flow.
type Strategy uint8

const (
	// Incremental retracts the logged paths that use the excluded edges and
	// resumes Edmonds–Karp from the remaining flow.
	Incremental Strategy = iota
	// BruteForce hides the excluded edges and recomputes from zero.
	BruteForce
)

// String returns "incremental" or "brute-force".
func (s Strategy) String() string {
	switch s {
	case Incremental:
		return "incremental"
	case BruteForce:
		return "brute-force"
	default:
		return fmt.Sprintf("strategy(%d)", uint8(s))
	}
}

// ParseStrategy is the inverse of Strategy.String.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "incremental", "":
		return Incremental, nil
	case "brute-force", "bruteforce":
		return BruteForce, nil
	default:
		return Incremental, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// AugmentingPath is one augmentation applied by Edmonds–Karp: the residual
// steps from the super-source to the super-sink and the amount pushed.
type AugmentingPath struct {
	Steps      []bfs.Step
	Bottleneck float64

	selected bool
}

// Supply describes the water delivered to one sink.
type Supply struct {
	Key      string
	City     string
	Demand   float64
	Supplied float64
}

// Deficit returns Demand − Supplied, never below zero.
func (s Supply) Deficit() float64 {
	if d := s.Demand - s.Supplied; d > 0 {
		return d
	}

	return 0
}

// Option configures a Network.
type Option func(*Network)

// WithEpsilon sets the zero tolerance. Non-positive values keep the default.
func WithEpsilon(eps float64) Option {
	return func(n *Network) {
		if eps > 0 {
			n.eps = eps
		}
	}
}

// WithLogger sets the logger used for debug output. nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(n *Network) {
		if l != nil {
			n.logger = l
		}
	}
}

// Exclusion names the edges and nodes removed for a what-if query.
type Exclusion struct {
	Edges []core.EdgeID
	Nodes []string
}

// ExcludeEdges returns an Exclusion of the given edges.
func ExcludeEdges(ids ...core.EdgeID) Exclusion {
	return Exclusion{Edges: ids}
}

// ExcludeNodes returns an Exclusion of the nodes with the given keys.
func ExcludeNodes(keys ...string) Exclusion {
	return Exclusion{Nodes: keys}
}
