// Package: waterflow/builder
//
// impl_random_network.go - seeded random layered water network.
//
// Layout:
//   sources → transfer stations → sinks, with forward pipes between
//   transfer stations (lower index to higher). Every source reaches at
//   least one station and every sink is fed by at least one station.

package builder

import (
	"github.com/katalvlaran/waterflow/core"
)

const methodRandomNetwork = "RandomNetwork"

// RandomNetwork builds a layered network with the given counts. Each
// optional pipe is drawn independently with probability p; the anchor pipes
// that keep every source and sink connected are always present.
//
// Requires sources, transfers, sinks ≥ 1, p ∈ [0,1] and an RNG.
// Complexity: O((sources + sinks) · transfers + transfers²).
func RandomNetwork(sources, transfers, sinks int, p float64) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		if sources < 1 || transfers < 1 || sinks < 1 {
			return builderErrorf(methodRandomNetwork, "sources=%d transfers=%d sinks=%d: %w",
				sources, transfers, sinks, ErrTooFewNodes)
		}
		if p < 0 || p > 1 {
			return builderErrorf(methodRandomNetwork, "p=%g: %w", p, ErrInvalidProbability)
		}
		if cfg.rng == nil {
			return builderErrorf(methodRandomNetwork, "%w", ErrNeedRandSource)
		}

		add := func(n *core.Node) error {
			if err := g.AddNode(n); err != nil {
				return builderErrorf(methodRandomNetwork, "add %s: %v: %w", n.Key, err, ErrConstructFailed)
			}
			return nil
		}
		link := func(from, to string) error {
			if err := cfg.pipe(g, from, to); err != nil {
				return builderErrorf(methodRandomNetwork, "pipe %s→%s: %v: %w", from, to, err, ErrConstructFailed)
			}
			return nil
		}

		for i := 0; i < sources; i++ {
			if err := add(core.NewSource(cfg.sourceKey(i), cfg.supplyFn(cfg.rng))); err != nil {
				return err
			}
		}
		for i := 0; i < transfers; i++ {
			if err := add(core.NewTransfer(cfg.transferKey(i))); err != nil {
				return err
			}
		}
		for i := 0; i < sinks; i++ {
			if err := add(core.NewSink(cfg.sinkKey(i), cfg.demandFn(cfg.rng))); err != nil {
				return err
			}
		}

		// Sources: one anchor station each, then optional extra pipes.
		for i := 0; i < sources; i++ {
			anchor := cfg.rng.Intn(transfers)
			for j := 0; j < transfers; j++ {
				if j != anchor && cfg.rng.Float64() >= p {
					continue
				}
				if err := link(cfg.sourceKey(i), cfg.transferKey(j)); err != nil {
					return err
				}
			}
		}

		// Stations: forward pipes only, so one-way pipes never form a cycle.
		for i := 0; i < transfers; i++ {
			for j := i + 1; j < transfers; j++ {
				if cfg.rng.Float64() >= p {
					continue
				}
				if err := link(cfg.transferKey(i), cfg.transferKey(j)); err != nil {
					return err
				}
			}
		}

		// Sinks: one anchor station each, then optional extra pipes.
		for i := 0; i < sinks; i++ {
			anchor := cfg.rng.Intn(transfers)
			for j := 0; j < transfers; j++ {
				if j != anchor && cfg.rng.Float64() >= p {
					continue
				}
				if err := link(cfg.transferKey(j), cfg.sinkKey(i)); err != nil {
					return err
				}
			}
		}

		return nil
	}
}
