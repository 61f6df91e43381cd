// Package: waterflow/builder
//
// config.go - internal configuration and deterministic defaults.
//
// Deterministic defaults:
//   • prefixes    = "R_" / "PS_" / "C_"  (reservoir, pumping station, city)
//   • rng         = nil                  (pure/deterministic unless seeded)
//   • capacityFn  = 1 + rng.Intn(20), or 10 without rng
//   • supplyFn    = 10 + rng.Intn(41), or 30 without rng
//   • demandFn    = 5 + rng.Intn(21), or 15 without rng
//   • bidirP      = 0                    (every pipe one-way)

package builder

import (
	"math/rand"
	"strconv"

	"github.com/katalvlaran/waterflow/core"
)

// builderConfig aggregates all knobs used by constructors.
// It is passed by VALUE to constructors.
type builderConfig struct {
	sourcePrefix   string
	transferPrefix string
	sinkPrefix     string

	// RNG for stochastic choices; nil means “no randomness”.
	rng *rand.Rand

	capacityFn func(*rand.Rand) float64
	supplyFn   func(*rand.Rand) float64
	demandFn   func(*rand.Rand) float64

	// bidirP is the probability that a generated pipe is bidirectional.
	bidirP float64
}

// Deterministic defaults (named, no magic numbers).
const (
	defaultSourcePrefix   = "R_"
	defaultTransferPrefix = "PS_"
	defaultSinkPrefix     = "C_"
	defaultCapacity       = 10.0
	defaultSupply         = 30.0
	defaultDemand         = 15.0
)

func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{
		sourcePrefix:   defaultSourcePrefix,
		transferPrefix: defaultTransferPrefix,
		sinkPrefix:     defaultSinkPrefix,
		capacityFn:     uniformOr(1, 20, defaultCapacity),
		supplyFn:       uniformOr(10, 50, defaultSupply),
		demandFn:       uniformOr(5, 25, defaultDemand),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// uniformOr draws an integer in [lo, hi] from r, or returns fallback for a nil r.
func uniformOr(lo, hi int, fallback float64) func(*rand.Rand) float64 {
	return func(r *rand.Rand) float64 {
		if r == nil {
			return fallback
		}
		return float64(lo + r.Intn(hi-lo+1))
	}
}

// sourceKey, transferKey and sinkKey are 1-based, like dataset codes.
func (c builderConfig) sourceKey(i int) string   { return c.sourcePrefix + strconv.Itoa(i+1) }
func (c builderConfig) transferKey(i int) string { return c.transferPrefix + strconv.Itoa(i+1) }
func (c builderConfig) sinkKey(i int) string     { return c.sinkPrefix + strconv.Itoa(i+1) }

// pipe adds a one-way or, with probability bidirP, a bidirectional pipe
// between existing nodes from and to.
func (c builderConfig) pipe(g *core.Graph, from, to string) error {
	capacity := c.capacityFn(c.rng)
	if c.rng != nil && c.bidirP > 0 && c.rng.Float64() < c.bidirP {
		_, _, err := g.AddBidirectionalEdge(from, to, capacity)
		return err
	}
	_, err := g.AddEdge(from, to, capacity)

	return err
}
