package bfs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/waterflow/bfs"
	"github.com/katalvlaran/waterflow/core"
)

// diamond builds A→B→D and A→C→D with unit capacities.
func diamond(t *testing.T) *core.Graph {
	t.Helper()
	g := core.NewGraph()
	for _, k := range []string{"A", "B", "C", "D"} {
		require.NoError(t, g.AddNode(core.NewTransfer(k)))
	}
	for _, p := range [][2]string{{"A", "B"}, {"A", "C"}, {"B", "D"}, {"C", "D"}} {
		_, err := g.AddEdge(p[0], p[1], 1)
		require.NoError(t, err)
	}

	return g
}

func id(g *core.Graph, key string) core.NodeID { return g.FindNode(key).ID() }

// TestSearch_Errors verifies that invalid inputs and options are rejected.
func TestSearch_Errors(t *testing.T) {
	_, err := bfs.Search(nil, 0, 1)
	require.ErrorIs(t, err, bfs.ErrGraphNil)

	g := diamond(t)
	_, err = bfs.Search(g, 42, 0)
	require.ErrorIs(t, err, bfs.ErrNodeNotFound)
	_, err = bfs.Search(g, 0, 42)
	require.ErrorIs(t, err, bfs.ErrNodeNotFound)
	_, err = bfs.Search(g, 0, 3, bfs.WithEpsilon(-1))
	require.ErrorIs(t, err, bfs.ErrOptionViolation)
}

// TestSearch_FirstDiscoveryWins: ties follow adjacency order.
func TestSearch_FirstDiscoveryWins(t *testing.T) {
	g := diamond(t)
	res, err := bfs.Search(g, id(g, "A"), id(g, "D"))
	require.NoError(t, err)
	require.True(t, res.Reached(id(g, "D")))

	path, ok := res.PathTo(id(g, "D"))
	require.True(t, ok)
	require.Len(t, path, 2)
	require.Equal(t, g.FindEdge("A", "B").ID(), path[0].Edge)
	require.Equal(t, g.FindEdge("B", "D").ID(), path[1].Edge)
	require.True(t, path[0].Forward && path[1].Forward)

	_, ok = res.ParentOf(id(g, "A"))
	require.False(t, ok, "source has no parent")
}

// TestSearch_SaturatedAndHidden: saturated or hidden edges are skipped.
func TestSearch_SaturatedAndHidden(t *testing.T) {
	g := diamond(t)
	g.Push(g.FindEdge("A", "B").ID(), 1)
	require.NoError(t, g.HideNode("C"))

	res, err := bfs.Search(g, id(g, "A"), id(g, "D"))
	require.NoError(t, err)
	require.False(t, res.Reached(id(g, "D")))
	_, ok := res.PathTo(id(g, "D"))
	require.False(t, ok)
}

// TestSearch_BackwardStep: flow on A→B lets the search step from B back to A.
func TestSearch_BackwardStep(t *testing.T) {
	g := core.NewGraph()
	for _, k := range []string{"S", "A", "B", "C", "T"} {
		require.NoError(t, g.AddNode(core.NewTransfer(k)))
	}
	mustEdge := func(a, b string, c float64) core.EdgeID {
		eid, err := g.AddEdge(a, b, c)
		require.NoError(t, err)
		return eid
	}
	sa := mustEdge("S", "A", 1)
	ab := mustEdge("A", "B", 1)
	bt := mustEdge("B", "T", 1)
	sc := mustEdge("S", "C", 1)
	cb := mustEdge("C", "B", 1)
	_ = mustEdge("A", "T", 1)
	// Existing flow S→A→B→T saturates B→T.
	g.Push(sa, 1)
	g.Push(ab, 1)
	g.Push(bt, 1)

	res, err := bfs.Search(g, id(g, "S"), id(g, "T"))
	require.NoError(t, err)
	path, ok := res.PathTo(id(g, "T"))
	require.True(t, ok)
	// S→C→B, then back over A→B to A, then A→T.
	require.Equal(t, []bfs.Step{
		{Edge: sc, Forward: true},
		{Edge: cb, Forward: true},
		{Edge: ab, Forward: false},
		{Edge: g.FindEdge("A", "T").ID(), Forward: true},
	}, path)
}

// TestSearch_HiddenSource reaches nothing.
func TestSearch_HiddenSource(t *testing.T) {
	g := diamond(t)
	require.NoError(t, g.HideNode("A"))
	res, err := bfs.Search(g, id(g, "A"), id(g, "D"))
	require.NoError(t, err)
	require.Empty(t, res.Order)
	require.False(t, res.Reached(id(g, "D")))
}

// TestSearch_Hooks: OnVisit errors abort, EarlyExit(false) explores everything.
func TestSearch_Hooks(t *testing.T) {
	g := diamond(t)
	boom := errors.New("boom")
	_, err := bfs.Search(g, id(g, "A"), id(g, "D"), bfs.WithOnVisit(func(v core.NodeID) error {
		if v == id(g, "B") {
			return boom
		}
		return nil
	}))
	require.ErrorIs(t, err, boom)

	res, err := bfs.Search(g, id(g, "A"), id(g, "B"), bfs.WithEarlyExit(false))
	require.NoError(t, err)
	require.Len(t, res.Order, 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = bfs.Search(g, id(g, "A"), id(g, "D"), bfs.WithContext(ctx))
	require.ErrorIs(t, err, context.Canceled)
}

// TestSearch_PairedEdge: a reversed pipe is usable forward when its partner carries flow.
func TestSearch_PairedEdge(t *testing.T) {
	g := core.NewGraph()
	for _, k := range []string{"U", "V"} {
		require.NoError(t, g.AddNode(core.NewTransfer(k)))
	}
	fwd, rev, err := g.AddBidirectionalEdge("U", "V", 2)
	require.NoError(t, err)
	g.Push(fwd, 2)

	res, err := bfs.Search(g, id(g, "V"), id(g, "U"))
	require.NoError(t, err)
	path, ok := res.PathTo(id(g, "U"))
	require.True(t, ok)
	require.Equal(t, []bfs.Step{{Edge: rev, Forward: true}}, path, "residual of V→U is 2 − (−2) = 4")
}
