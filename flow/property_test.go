package flow_test

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/waterflow/builder"
	"github.com/katalvlaran/waterflow/core"
	"github.com/katalvlaran/waterflow/flow"
)

// randomNetwork builds a seeded layered network with some bidirectional pipes.
func randomNetwork(t testing.TB, seed int64, sources, transfers, sinks int, p float64) *core.Graph {
	t.Helper()
	g, err := builder.BuildNetwork(nil,
		[]builder.BuilderOption{builder.WithSeed(seed), builder.WithBidirectionalProb(0.3)},
		builder.RandomNetwork(sources, transfers, sinks, p))
	require.NoError(t, err)

	return g
}

func TestPropertyRandomNetworks(t *testing.T) {
	ctx := context.Background()

	for seed := int64(1); seed <= 25; seed++ {
		seed := seed
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			g := randomNetwork(t, seed, 3, 10, 4, 0.3)
			n := newNetwork(t, g)

			base, err := n.MaxFlow(ctx, true)
			require.NoError(t, err)
			requireConsistent(t, n)

			var offered, demanded float64
			for _, s := range g.NodesByRole(core.RoleSource) {
				offered += s.Source.MaxOutput
			}
			for _, s := range g.NodesByRole(core.RoleSink) {
				demanded += s.Sink.Demand
			}
			require.LessOrEqual(t, base, offered+1e-9)
			require.LessOrEqual(t, base, demanded+1e-9)

			// Pick a handful of real pipes and compare both strategies.
			rng := rand.New(rand.NewSource(seed))
			var pipes []core.EdgeID
			for _, e := range g.Edges() {
				if !n.IsSynthetic(e.ID()) {
					pipes = append(pipes, e.ID())
				}
			}
			visibility := g.SaveVisibility()
			for k := 0; k < 6 && len(pipes) > 0; k++ {
				ex := flow.ExcludeEdges(pipes[rng.Intn(len(pipes))])
				if k%2 == 1 {
					ex.Edges = append(ex.Edges, pipes[rng.Intn(len(pipes))])
				}

				inc, err := n.MaxFlowExcluding(ctx, ex, flow.Incremental)
				require.NoError(t, err)
				requireConsistent(t, n)

				brute, err := n.MaxFlowExcluding(ctx, ex, flow.BruteForce)
				require.NoError(t, err)
				requireConsistent(t, n)

				require.InDelta(t, brute, inc, 1e-6, "exclusion %v", ex.Edges)
				require.LessOrEqual(t, inc, base+1e-6)
				require.True(t, visibility.Equal(g.SaveVisibility()))
			}

			// Excluding a whole station agrees too.
			station := g.NodesByRole(core.RoleTransfer)[rng.Intn(10)].Key
			inc, err := n.MaxFlowExcluding(ctx, flow.ExcludeNodes(station), flow.Incremental)
			require.NoError(t, err)
			brute, err := n.MaxFlowExcluding(ctx, flow.ExcludeNodes(station), flow.BruteForce)
			require.NoError(t, err)
			require.InDelta(t, brute, inc, 1e-6, station)

			// Hiding and unhiding leaves the original maximum.
			g.UnhideAll()
			again, err := n.MaxFlow(ctx, true)
			require.NoError(t, err)
			require.InDelta(t, base, again, 1e-6)
		})
	}
}
