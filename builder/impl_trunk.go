// Package: waterflow/builder
//
// impl_trunk.go - deterministic trunk line and fork constructors.

package builder

import (
	"github.com/katalvlaran/waterflow/core"
)

const (
	methodTrunk = "Trunk"
	methodFork  = "Fork"
)

// Trunk builds a single line: one source, n transfer stations in series and
// one sink. Every pipe is one-way and sized by the capacity generator, so
// the max flow is bounded by the narrowest pipe, MaxOutput and Demand.
//
// Keys: sourceKey(0) → transferKey(0) → … → transferKey(n-1) → sinkKey(0).
// Requires n ≥ 0. Complexity: O(n).
func Trunk(n int) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		if n < 0 {
			return builderErrorf(methodTrunk, "n=%d < 0: %w", n, ErrTooFewNodes)
		}
		src, snk := cfg.sourceKey(0), cfg.sinkKey(0)
		if err := g.AddNode(core.NewSource(src, cfg.supplyFn(cfg.rng))); err != nil {
			return builderErrorf(methodTrunk, "add %s: %v: %w", src, err, ErrConstructFailed)
		}
		prev := src
		for i := 0; i < n; i++ {
			key := cfg.transferKey(i)
			if err := g.AddNode(core.NewTransfer(key)); err != nil {
				return builderErrorf(methodTrunk, "add %s: %v: %w", key, err, ErrConstructFailed)
			}
			if err := cfg.pipe(g, prev, key); err != nil {
				return builderErrorf(methodTrunk, "pipe %s→%s: %v: %w", prev, key, err, ErrConstructFailed)
			}
			prev = key
		}
		if err := g.AddNode(core.NewSink(snk, cfg.demandFn(cfg.rng))); err != nil {
			return builderErrorf(methodTrunk, "add %s: %v: %w", snk, err, ErrConstructFailed)
		}
		if err := cfg.pipe(g, prev, snk); err != nil {
			return builderErrorf(methodTrunk, "pipe %s→%s: %v: %w", prev, snk, err, ErrConstructFailed)
		}

		return nil
	}
}

// Fork builds one source feeding a single transfer station that splits into
// k sinks. With default generators and no RNG every capacity is 10, the
// source offers 30 and every sink asks for 15.
//
// Requires k ≥ 1. Complexity: O(k).
func Fork(k int) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		if k < 1 {
			return builderErrorf(methodFork, "k=%d < 1: %w", k, ErrTooFewNodes)
		}
		src, hub := cfg.sourceKey(0), cfg.transferKey(0)
		if err := g.AddNode(core.NewSource(src, cfg.supplyFn(cfg.rng))); err != nil {
			return builderErrorf(methodFork, "add %s: %v: %w", src, err, ErrConstructFailed)
		}
		if err := g.AddNode(core.NewTransfer(hub)); err != nil {
			return builderErrorf(methodFork, "add %s: %v: %w", hub, err, ErrConstructFailed)
		}
		if err := cfg.pipe(g, src, hub); err != nil {
			return builderErrorf(methodFork, "pipe %s→%s: %v: %w", src, hub, err, ErrConstructFailed)
		}
		for i := 0; i < k; i++ {
			key := cfg.sinkKey(i)
			if err := g.AddNode(core.NewSink(key, cfg.demandFn(cfg.rng))); err != nil {
				return builderErrorf(methodFork, "add %s: %v: %w", key, err, ErrConstructFailed)
			}
			if err := cfg.pipe(g, hub, key); err != nil {
				return builderErrorf(methodFork, "pipe %s→%s: %v: %w", hub, key, err, ErrConstructFailed)
			}
		}

		return nil
	}
}
