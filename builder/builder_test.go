package builder_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/waterflow/builder"
	"github.com/katalvlaran/waterflow/core"
)

// edgeKey identifies a pipe by its endpoint keys.
type edgeKey struct{ From, To string }

func pipes(g *core.Graph) map[edgeKey]float64 {
	m := make(map[edgeKey]float64)
	for _, e := range g.Edges() {
		m[edgeKey{g.Node(e.From()).Key, g.Node(e.To()).Key}] = e.Capacity()
	}
	return m
}

func TestBuilders_Functional(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		ctor  builder.Constructor
		wantV int
		wantE int
		check func(t *testing.T, g *core.Graph)
	}{
		{
			name:  "Trunk(3)",
			ctor:  builder.Trunk(3),
			wantV: 5, wantE: 4,
			check: func(t *testing.T, g *core.Graph) {
				got := pipes(g)
				for _, k := range []edgeKey{{"R_1", "PS_1"}, {"PS_1", "PS_2"}, {"PS_2", "PS_3"}, {"PS_3", "C_1"}} {
					assert.Equal(t, 10.0, got[k], "pipe %v", k)
				}
				assert.Equal(t, 30.0, g.FindNode("R_1").Source.MaxOutput)
				assert.Equal(t, 15.0, g.FindNode("C_1").Sink.Demand)
			},
		},
		{
			name:  "Trunk(0)",
			ctor:  builder.Trunk(0),
			wantV: 2, wantE: 1,
			check: func(t *testing.T, g *core.Graph) {
				assert.Contains(t, pipes(g), edgeKey{"R_1", "C_1"})
			},
		},
		{
			name:  "Fork(2)",
			ctor:  builder.Fork(2),
			wantV: 4, wantE: 3,
			check: func(t *testing.T, g *core.Graph) {
				got := pipes(g)
				assert.Contains(t, got, edgeKey{"R_1", "PS_1"})
				assert.Contains(t, got, edgeKey{"PS_1", "C_1"})
				assert.Contains(t, got, edgeKey{"PS_1", "C_2"})
				assert.Len(t, g.NodesByRole(core.RoleSink), 2)
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			g, err := builder.BuildNetwork(nil, nil, tc.ctor)
			require.NoError(t, err)
			assert.Equal(t, tc.wantV, g.NodeCount())
			assert.Equal(t, tc.wantE, g.EdgeCount())
			tc.check(t, g)
		})
	}
}

func TestBuilders_Validation(t *testing.T) {
	t.Parallel()

	_, err := builder.BuildNetwork(nil, nil, builder.Trunk(-1))
	assert.ErrorIs(t, err, builder.ErrTooFewNodes)

	_, err = builder.BuildNetwork(nil, nil, builder.Fork(0))
	assert.ErrorIs(t, err, builder.ErrTooFewNodes)

	_, err = builder.BuildNetwork(nil, nil, builder.RandomNetwork(1, 1, 1, 0.5))
	assert.ErrorIs(t, err, builder.ErrNeedRandSource)

	seeded := []builder.BuilderOption{builder.WithSeed(1)}
	_, err = builder.BuildNetwork(nil, seeded, builder.RandomNetwork(0, 1, 1, 0.5))
	assert.ErrorIs(t, err, builder.ErrTooFewNodes)

	_, err = builder.BuildNetwork(nil, seeded, builder.RandomNetwork(1, 1, 1, 1.5))
	assert.ErrorIs(t, err, builder.ErrInvalidProbability)

	_, err = builder.BuildNetwork(nil, nil, nil)
	assert.ErrorIs(t, err, builder.ErrConstructFailed)

	// Two constructors reuse the same keys.
	_, err = builder.BuildNetwork(nil, nil, builder.Trunk(1), builder.Trunk(1))
	assert.ErrorIs(t, err, builder.ErrConstructFailed)
}

func TestRandomNetwork_Deterministic(t *testing.T) {
	t.Parallel()

	build := func(seed int64) *core.Graph {
		g, err := builder.BuildNetwork(nil,
			[]builder.BuilderOption{builder.WithSeed(seed), builder.WithBidirectionalProb(0.3)},
			builder.RandomNetwork(3, 6, 4, 0.4))
		require.NoError(t, err)
		return g
	}

	a, b := build(42), build(42)
	assert.Equal(t, pipes(a), pipes(b))
	assert.Equal(t, a.EdgeCount(), b.EdgeCount())
	assert.Equal(t, 13, a.NodeCount())
}

func TestRandomNetwork_Anchors(t *testing.T) {
	t.Parallel()

	// p = 0 keeps only the anchor pipes.
	g, err := builder.BuildNetwork(nil,
		[]builder.BuilderOption{builder.WithSeed(3)},
		builder.RandomNetwork(2, 4, 3, 0))
	require.NoError(t, err)
	assert.Equal(t, 5, g.EdgeCount())

	for _, n := range g.NodesByRole(core.RoleSource) {
		assert.Len(t, n.Out(), 1, n.Key)
	}
	for _, n := range g.NodesByRole(core.RoleSink) {
		assert.Len(t, n.In(), 1, n.Key)
	}
}

func TestRandomNetwork_Bidirectional(t *testing.T) {
	t.Parallel()

	g, err := builder.BuildNetwork(nil,
		[]builder.BuilderOption{builder.WithSeed(9), builder.WithBidirectionalProb(1)},
		builder.RandomNetwork(1, 3, 1, 1))
	require.NoError(t, err)

	for _, e := range g.Edges() {
		require.True(t, e.Paired(), g.EdgeLabel(e.ID()))
		assert.Equal(t, e.ID(), g.Edge(e.Reverse()).Reverse())
	}
}

func TestOptions(t *testing.T) {
	t.Parallel()

	g, err := builder.BuildNetwork(nil,
		[]builder.BuilderOption{
			builder.WithKeyPrefixes("RES-", "", "CITY-"),
			builder.WithCapacityFn(func(*rand.Rand) float64 { return 4 }),
			builder.WithSupplyFn(func(*rand.Rand) float64 { return 7 }),
			builder.WithDemandFn(func(*rand.Rand) float64 { return 3 }),
		},
		builder.Trunk(1))
	require.NoError(t, err)

	assert.Equal(t, map[edgeKey]float64{{"RES-1", "PS_1"}: 4, {"PS_1", "CITY-1"}: 4}, pipes(g))
	assert.Equal(t, 7.0, g.FindNode("RES-1").Source.MaxOutput)
	assert.Equal(t, 3.0, g.FindNode("CITY-1").Sink.Demand)

	assert.Panics(t, func() { builder.WithRand(nil) })
	assert.Panics(t, func() { builder.WithCapacityFn(nil) })
	assert.Panics(t, func() { builder.WithBidirectionalProb(-0.1) })
}
