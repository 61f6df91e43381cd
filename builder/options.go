// Package: waterflow/builder
//
// options.go - functional options for the builder package.
//
// Contract:
//   • Option constructors validate and PANIC on meaningless inputs.
//     Constructors themselves never panic.
//   • Determinism is explicit: seeding is done via WithSeed or WithRand.

package builder

import (
	"math/rand"
)

// BuilderOption customizes constructors by mutating a builderConfig before
// network construction begins.
type BuilderOption func(*builderConfig)

// WithRand provides an explicit RNG for stochastic constructors.
// Panics on nil; prefer WithSeed for reproducible runs.
func WithRand(r *rand.Rand) BuilderOption {
	if r == nil {
		panic("builder: WithRand(nil)")
	}
	return func(c *builderConfig) {
		c.rng = r
	}
}

// WithSeed creates a new *rand.Rand with the given seed.
func WithSeed(seed int64) BuilderOption {
	return func(c *builderConfig) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithCapacityFn overrides the per-pipe capacity generator. The function
// receives the (possibly nil) RNG. Panics on nil.
func WithCapacityFn(fn func(*rand.Rand) float64) BuilderOption {
	if fn == nil {
		panic("builder: WithCapacityFn(nil)")
	}
	return func(c *builderConfig) {
		c.capacityFn = fn
	}
}

// WithSupplyFn overrides the MaxOutput generator for sources. Panics on nil.
func WithSupplyFn(fn func(*rand.Rand) float64) BuilderOption {
	if fn == nil {
		panic("builder: WithSupplyFn(nil)")
	}
	return func(c *builderConfig) {
		c.supplyFn = fn
	}
}

// WithDemandFn overrides the Demand generator for sinks. Panics on nil.
func WithDemandFn(fn func(*rand.Rand) float64) BuilderOption {
	if fn == nil {
		panic("builder: WithDemandFn(nil)")
	}
	return func(c *builderConfig) {
		c.demandFn = fn
	}
}

// WithBidirectionalProb sets the probability that a generated pipe is
// bidirectional. It only takes effect with an RNG. Panics outside [0,1].
func WithBidirectionalProb(p float64) BuilderOption {
	if p < 0 || p > 1 {
		panic("builder: WithBidirectionalProb out of [0,1]")
	}
	return func(c *builderConfig) {
		c.bidirP = p
	}
}

// WithKeyPrefixes sets the key prefixes for sources, transfer stations and
// sinks. Empty values keep the defaults.
func WithKeyPrefixes(source, transfer, sink string) BuilderOption {
	return func(c *builderConfig) {
		if source != "" {
			c.sourcePrefix = source
		}
		if transfer != "" {
			c.transferPrefix = transfer
		}
		if sink != "" {
			c.sinkPrefix = sink
		}
	}
}
