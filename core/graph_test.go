package core_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/waterflow/core"
)

// GraphSuite covers node and edge lifecycle on a small network.
type GraphSuite struct {
	suite.Suite
	g *core.Graph
}

// SetupTest builds R → T → {S1, S2} with a bidirectional T–S2 pipe.
func (s *GraphSuite) SetupTest() {
	s.g = core.NewGraph(core.WithCapacityHint(4, 4))
	require.NoError(s.T(), s.g.AddNode(core.NewSource("R", 10)))
	require.NoError(s.T(), s.g.AddNode(core.NewTransfer("T")))
	require.NoError(s.T(), s.g.AddNode(core.NewSink("S1", 6)))
	require.NoError(s.T(), s.g.AddNode(core.NewSink("S2", 6)))
	_, err := s.g.AddEdge("R", "T", 10)
	require.NoError(s.T(), err)
	_, err = s.g.AddEdge("T", "S1", 4)
	require.NoError(s.T(), err)
	_, _, err = s.g.AddBidirectionalEdge("T", "S2", 10)
	require.NoError(s.T(), err)
}

// TestFindNode: keys resolve in O(1), unknown keys yield nil.
func (s *GraphSuite) TestFindNode() {
	n := s.g.FindNode("T")
	require.NotNil(s.T(), n)
	require.Equal(s.T(), core.RoleTransfer, n.Role)
	require.Equal(s.T(), core.NodeID(1), n.ID())
	require.Nil(s.T(), s.g.FindNode("nope"))
	require.Equal(s.T(), 4, s.g.NodeCount())
	require.Equal(s.T(), 4, s.g.EdgeCount())
}

// TestAddNodeErrors: duplicate, empty and nil nodes are rejected.
func (s *GraphSuite) TestAddNodeErrors() {
	require.ErrorIs(s.T(), s.g.AddNode(core.NewTransfer("T")), core.ErrDuplicateKey)
	require.ErrorIs(s.T(), s.g.AddNode(core.NewTransfer("")), core.ErrEmptyKey)
	require.ErrorIs(s.T(), s.g.AddNode(nil), core.ErrNilNode)
	require.Equal(s.T(), 4, s.g.NodeCount())
}

// TestAddEdgeErrors: unknown endpoints, loops and negative capacities.
func (s *GraphSuite) TestAddEdgeErrors() {
	_, err := s.g.AddEdge("R", "X", 1)
	require.True(s.T(), errors.Is(err, core.ErrNodeNotFound))
	_, err = s.g.AddEdge("T", "T", 1)
	require.ErrorIs(s.T(), err, core.ErrSelfLoop)
	_, _, err = s.g.AddBidirectionalEdge("R", "T", -1)
	require.ErrorIs(s.T(), err, core.ErrNegativeCapacity)
}

// TestAdjacency: edges are appended to both endpoint lists.
func (s *GraphSuite) TestAdjacency() {
	t := s.g.FindNode("T")
	require.Len(s.T(), t.Out(), 2) // T→S1, T→S2
	require.Len(s.T(), t.In(), 2)  // R→T, S2→T

	e := s.g.FindEdge("T", "S2")
	require.NotNil(s.T(), e)
	require.True(s.T(), e.Paired())
	rev := s.g.Edge(e.Reverse())
	require.Equal(s.T(), e.ID(), rev.Reverse())
	require.Equal(s.T(), "S2→T", s.g.EdgeLabel(rev.ID()))
	require.Nil(s.T(), s.g.FindEdge("S1", "T"))
}

// TestPushMirrorsReverse: one mutation updates both sides of a pair.
func (s *GraphSuite) TestPushMirrorsReverse() {
	e := s.g.FindEdge("T", "S2")
	s.g.Push(e.ID(), 3)
	require.Equal(s.T(), 3.0, e.Flow())
	require.Equal(s.T(), -3.0, s.g.Edge(e.Reverse()).Flow())

	s.g.Push(e.Reverse(), 5)
	require.Equal(s.T(), -2.0, e.Flow())
	require.Equal(s.T(), 2.0, s.g.Edge(e.Reverse()).Flow())
	require.Equal(s.T(), 12.0, e.Residual())
}

// TestSetCapacityMirrors: capacity changes apply to both sides and bump the version.
func (s *GraphSuite) TestSetCapacityMirrors() {
	e := s.g.FindEdge("T", "S2")
	v := s.g.CapacityVersion()
	require.NoError(s.T(), s.g.SetCapacity(e.ID(), 7))
	require.Equal(s.T(), 7.0, s.g.Edge(e.Reverse()).Capacity())
	require.Greater(s.T(), s.g.CapacityVersion(), v)
	require.ErrorIs(s.T(), s.g.SetCapacity(e.ID(), -1), core.ErrNegativeCapacity)
	require.ErrorIs(s.T(), s.g.SetCapacity(99, 1), core.ErrEdgeNotFound)
}

// TestFlowsRoundTrip: a flow vector restores the exact assignment.
func (s *GraphSuite) TestFlowsRoundTrip() {
	s.g.Push(s.g.FindEdge("R", "T").ID(), 4)
	s.g.Push(s.g.FindEdge("T", "S1").ID(), 4)
	saved := s.g.Flows()

	s.g.ResetFlows()
	require.Zero(s.T(), s.g.FindEdge("R", "T").Flow())
	require.NoError(s.T(), s.g.SetFlows(saved))
	require.Equal(s.T(), 4.0, s.g.FindEdge("T", "S1").Flow())
	require.ErrorIs(s.T(), s.g.SetFlows(saved[:1]), core.ErrFlowsLength)

	t := s.g.FindNode("T").ID()
	require.Equal(s.T(), 4.0, s.g.Inflow(t))
	require.Equal(s.T(), 4.0, s.g.Outflow(t))
}

// TestVisibilityMask: a saved mask survives UnhideAll and further hiding.
func (s *GraphSuite) TestVisibilityMask() {
	e := s.g.FindEdge("T", "S1")
	require.NoError(s.T(), s.g.HideEdge(e.ID()))
	require.False(s.T(), s.g.Visible(e.ID()))
	mask := s.g.SaveVisibility()

	require.NoError(s.T(), s.g.HideNode("S2"))
	require.False(s.T(), s.g.Visible(s.g.FindEdge("T", "S2").ID()))
	s.g.UnhideAll()
	require.True(s.T(), s.g.Visible(e.ID()))

	s.g.RestoreVisibility(mask)
	require.True(s.T(), e.Hidden())
	require.False(s.T(), s.g.FindNode("S2").Hidden())
	require.ErrorIs(s.T(), s.g.HideNode("missing"), core.ErrNodeNotFound)
}

// TestRemoveNode drops incident edges and unlinks nothing else.
func (s *GraphSuite) TestRemoveNode() {
	v := s.g.Version()
	require.NoError(s.T(), s.g.RemoveNode("S2"))
	require.Nil(s.T(), s.g.FindNode("S2"))
	require.Equal(s.T(), 3, s.g.NodeCount())
	require.Equal(s.T(), 2, s.g.EdgeCount())
	require.Len(s.T(), s.g.FindNode("T").Out(), 1)
	require.Len(s.T(), s.g.FindNode("T").In(), 1)
	require.Greater(s.T(), s.g.Version(), v)
	require.ErrorIs(s.T(), s.g.RemoveNode("S2"), core.ErrNodeNotFound)

	// Arena slots stay stable.
	require.Equal(s.T(), 4, s.g.NodeSlots())
	require.Equal(s.T(), 4, s.g.EdgeSlots())
}

// TestRemoveEdgeUnlinksPartner: the partner survives as a one-way edge.
func (s *GraphSuite) TestRemoveEdgeUnlinksPartner() {
	e := s.g.FindEdge("T", "S2")
	rev := e.Reverse()
	require.NoError(s.T(), s.g.RemoveEdge(e.ID()))
	require.Nil(s.T(), s.g.Edge(e.ID()))
	require.False(s.T(), s.g.Edge(rev).Paired())
	require.ErrorIs(s.T(), s.g.RemoveEdge(e.ID()), core.ErrEdgeNotFound)
}

// TestNodesByRole returns sorted role subsets.
func (s *GraphSuite) TestNodesByRole() {
	sinks := s.g.NodesByRole(core.RoleSink)
	require.Len(s.T(), sinks, 2)
	require.Equal(s.T(), "S1", sinks[0].Key)
	require.Equal(s.T(), "S2", sinks[1].Key)
	require.Len(s.T(), s.g.NodesByRole(core.RoleSuperSink), 0)
	require.Equal(s.T(), "super-source", core.RoleSuperSource.String())
	require.True(s.T(), core.RoleSuperSink.Synthetic())
}

// TestClone: the copy is deep and keeps identifiers.
func (s *GraphSuite) TestClone() {
	e := s.g.FindEdge("T", "S2")
	s.g.Push(e.ID(), 2)
	require.NoError(s.T(), s.g.HideNode("S1"))

	c := s.g.Clone()
	require.Equal(s.T(), s.g.Version(), c.Version())
	ce := c.Edge(e.ID())
	require.Equal(s.T(), 2.0, ce.Flow())
	require.True(s.T(), c.FindNode("S1").Hidden())

	c.Push(ce.ID(), 1)
	require.Equal(s.T(), 2.0, e.Flow(), "original untouched")
	require.NoError(s.T(), c.AddNode(core.NewTransfer("X")))
	require.Nil(s.T(), s.g.FindNode("X"))
}

func TestGraphSuite(t *testing.T) {
	suite.Run(t, new(GraphSuite))
}
