package flow_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/waterflow/core"
	"github.com/katalvlaran/waterflow/flow"
)

func TestLoadWithoutStore(t *testing.T) {
	n := newNetwork(t, exampleGraph(t))
	require.ErrorIs(t, n.Load(), flow.ErrNoSnapshot)
	require.Nil(t, n.Snapshot())
	_, ok := n.StoredSinkSupply("S1")
	require.False(t, ok)
}

func TestStoreLoadRoundTrip(t *testing.T) {
	g := exampleGraph(t)
	n := newNetwork(t, g)
	ctx := context.Background()

	_, err := n.MaxFlow(ctx, true)
	require.NoError(t, err)
	n.Store()
	want := g.Flows()
	wantPaths := n.Paths()

	_, err = n.MaxFlowExcluding(ctx, flow.ExcludeNodes("S2"), flow.BruteForce)
	require.NoError(t, err)
	require.InDelta(t, 4, n.Value(), 1e-9)

	require.NoError(t, n.Load())
	if diff := cmp.Diff(want, g.Flows()); diff != "" {
		t.Fatalf("flows after Load (-want +got):\n%s", diff)
	}
	require.Len(t, n.Paths(), len(wantPaths))
	require.True(t, n.Logging())
	require.InDelta(t, 10, n.Value(), 1e-9)
	requireConsistent(t, n)

	s1, ok := n.StoredSinkSupply("S1")
	require.True(t, ok)
	require.InDelta(t, 4, s1, 1e-9)
	_, ok = n.StoredSinkSupply("T")
	require.False(t, ok)
}

func TestSnapshotRefresh(t *testing.T) {
	g := exampleGraph(t)
	n := newNetwork(t, g)
	ctx := context.Background()

	_, err := n.MaxFlow(ctx, true)
	require.NoError(t, err)
	n.Store()
	first := n.Snapshot()
	require.NotSame(t, g, first)

	// Same topology and capacities: the clone is reused.
	n.Store()
	require.Same(t, first, n.Snapshot())

	// A capacity change forces a new clone.
	require.NoError(t, g.SetCapacity(edgeID(t, g, "R", "T"), 8))
	n.Store()
	require.NotSame(t, first, n.Snapshot())
	require.InDelta(t, 8, n.Snapshot().FindEdge("R", "T").Capacity(), 1e-9)
}

func TestStaleSnapshot(t *testing.T) {
	g := exampleGraph(t)
	n := newNetwork(t, g)

	_, err := n.MaxFlow(context.Background(), true)
	require.NoError(t, err)
	n.Store()

	require.NoError(t, g.AddNode(core.NewTransfer("X")))
	require.ErrorIs(t, n.Load(), flow.ErrStaleSnapshot)
}

func TestEnsureBaseline(t *testing.T) {
	g := exampleGraph(t)
	n := newNetwork(t, g)
	ctx := context.Background()

	require.NoError(t, n.EnsureBaseline(ctx))
	require.InDelta(t, 10, n.Value(), 1e-9)
	snap := n.Snapshot()
	require.NotNil(t, snap)

	// Disturb the flows; the stored baseline is loaded, not recomputed.
	_, err := n.MaxFlow(ctx, false)
	require.NoError(t, err)
	require.False(t, n.Logging())
	require.NoError(t, n.EnsureBaseline(ctx))
	require.True(t, n.Logging())
	require.Same(t, snap, n.Snapshot())
	requireConsistent(t, n)

	// A capacity change invalidates it.
	require.NoError(t, g.SetCapacity(edgeID(t, g, "T", "S1"), 1))
	require.NoError(t, n.EnsureBaseline(ctx))
	require.InDelta(t, 7, n.Value(), 1e-9)
	require.NotSame(t, snap, n.Snapshot())
}
