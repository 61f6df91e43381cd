package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/waterflow/core"
	"github.com/katalvlaran/waterflow/flow"
	"github.com/katalvlaran/waterflow/telemetry"
)

// Balance shrinks the capacity of tight pipes to even out idle capacity
// without lowering the total max flow.
//
// A fresh logged MaxFlow gives the reference total. Each pass stores the
// network, lists the candidates (visible real edges with flow > eps,
// capacity > 0 and headroom ≤ Step, sorted by headroom ascending, capacity
// descending, ID ascending) and tries reducing one by floor(Step), clamped
// at zero and mirrored on the reverse pair. A try that drops the total is
// undone and the stored flows are loaded back.
//
//   - FirstImproving accepts the first try that keeps the total and starts
//     a new pass.
//   - BestOfPass tries every candidate and applies the one leaving the
//     lowest variance.
//
// The loop stops when a pass accepts nothing, after MaxAttempts tries, or
// when an accepted change improves the variance by less than Tolerance
// (relative). The network is left at the final max flow, which is never
// below the initial one.
//
// Complexity: O(A · V · E²) for A attempts.
func Balance(ctx context.Context, n *flow.Network, opts BalanceOptions) (res BalanceResult, err error) {
	if n == nil {
		return BalanceResult{}, ErrNilNetwork
	}
	if opts.Policy != FirstImproving && opts.Policy != BestOfPass {
		return BalanceResult{}, fmt.Errorf("%w: %d", ErrUnknownPolicy, opts.Policy)
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}

	ctx, span := tracer.Start(ctx, "analysis.Balance",
		trace.WithAttributes(
			attribute.Float64("balance.step", opts.Step),
			attribute.Int("balance.max_attempts", opts.MaxAttempts),
			attribute.String("balance.policy", opts.Policy.String()),
		),
	)
	defer span.End()
	defer func() {
		recordBalance(ctx, opts.Policy, res.Attempts)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "balance")
		}
	}()

	b := &balancer{
		n:      n,
		g:      n.Graph(),
		opts:   opts,
		delta:  math.Floor(opts.Step),
		logger: telemetry.LoggerWithTrace(ctx, n.Logger()),
	}
	if res.InitialFlow, err = n.MaxFlow(ctx, true); err != nil {
		return res, err
	}
	res.Before = ComputeMetrics(n)
	b.reference = res.InitialFlow

	if b.delta >= 1 {
		err = b.run(ctx, &res)
	}
	res.FinalFlow = n.Value()
	res.After = ComputeMetrics(n)
	span.SetAttributes(
		attribute.Int("balance.attempts", res.Attempts),
		attribute.Int("balance.changes", len(res.Changes)),
		attribute.Float64("balance.variance_before", res.Before.Variance),
		attribute.Float64("balance.variance_after", res.After.Variance),
	)

	return res, err
}

// balancer carries the state of one Balance call.
type balancer struct {
	n         *flow.Network
	g         *core.Graph
	opts      BalanceOptions
	delta     float64
	reference float64
	logger    *slog.Logger
}

func (b *balancer) run(ctx context.Context, res *BalanceResult) error {
	variance := res.Before.Variance
	for res.Attempts < b.opts.MaxAttempts {
		b.n.Store()
		candidates := b.candidates()
		if len(candidates) == 0 {
			return nil
		}

		var (
			change   CapacityChange
			accepted bool
			err      error
		)
		switch b.opts.Policy {
		case BestOfPass:
			change, accepted, err = b.bestOfPass(ctx, res, candidates)
		default:
			change, accepted, err = b.firstImproving(ctx, res, candidates)
		}
		if err != nil {
			return err
		}
		if !accepted {
			return nil
		}
		res.Changes = append(res.Changes, change)

		next := ComputeMetrics(b.n).Variance
		b.logger.Debug("balance: accepted",
			slog.String("edge", b.g.EdgeLabel(change.Edge)),
			slog.Float64("from", change.From),
			slog.Float64("to", change.To),
			slog.Float64("variance", next),
		)
		if b.opts.Tolerance > 0 && variance > 0 && (variance-next)/variance < b.opts.Tolerance {
			return nil
		}
		variance = next
	}

	return nil
}

// candidates lists the edges eligible for a reduction, best first.
func (b *balancer) candidates() []*core.Edge {
	eps := b.n.Epsilon()
	var out []*core.Edge
	for _, e := range b.g.Edges() {
		if !b.g.Visible(e.ID()) || b.n.IsSynthetic(e.ID()) {
			continue
		}
		if e.Flow() <= eps || e.Capacity() <= 0 || e.Residual() > b.opts.Step {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		a, c := out[i], out[j]
		if a.Residual() != c.Residual() {
			return a.Residual() < c.Residual()
		}
		if a.Capacity() != c.Capacity() {
			return a.Capacity() > c.Capacity()
		}
		return a.ID() < c.ID()
	})

	return out
}

// try reduces the capacity of e and recomputes. ok reports whether the
// total held; the reduction is left in place either way.
func (b *balancer) try(ctx context.Context, res *BalanceResult, e *core.Edge) (CapacityChange, bool, error) {
	if err := ctx.Err(); err != nil {
		return CapacityChange{}, false, err
	}
	res.Attempts++
	change := CapacityChange{Edge: e.ID(), From: e.Capacity(), To: math.Max(0, e.Capacity()-b.delta)}
	if err := b.g.SetCapacity(change.Edge, change.To); err != nil {
		return change, false, err
	}
	v, err := b.n.MaxFlow(ctx, true)
	if err != nil {
		return change, false, b.undo(change, err)
	}

	return change, v >= b.reference-b.n.Epsilon(), nil
}

// undo restores the capacity and the stored flows. cause is returned
// joined with any restore error.
func (b *balancer) undo(change CapacityChange, cause error) error {
	err := b.g.SetCapacity(change.Edge, change.From)
	if err == nil {
		err = b.n.Load()
	}

	return errors.Join(cause, err)
}

func (b *balancer) firstImproving(ctx context.Context, res *BalanceResult, candidates []*core.Edge) (CapacityChange, bool, error) {
	for _, e := range candidates {
		if res.Attempts >= b.opts.MaxAttempts {
			break
		}
		change, ok, err := b.try(ctx, res, e)
		if err != nil {
			return change, false, err
		}
		if ok {
			return change, true, nil
		}
		if err := b.undo(change, nil); err != nil {
			return change, false, err
		}
	}

	return CapacityChange{}, false, nil
}

func (b *balancer) bestOfPass(ctx context.Context, res *BalanceResult, candidates []*core.Edge) (CapacityChange, bool, error) {
	var (
		best     CapacityChange
		bestVar  = math.Inf(1)
		accepted bool
	)
	for _, e := range candidates {
		if res.Attempts >= b.opts.MaxAttempts {
			break
		}
		change, ok, err := b.try(ctx, res, e)
		if err != nil {
			return change, false, err
		}
		if ok {
			if v := ComputeMetrics(b.n).Variance; v < bestVar {
				best, bestVar, accepted = change, v, true
			}
		}
		if err := b.undo(change, nil); err != nil {
			return change, false, err
		}
	}
	if !accepted {
		return CapacityChange{}, false, nil
	}

	// Apply the winner for real.
	if err := b.g.SetCapacity(best.Edge, best.To); err != nil {
		return best, false, err
	}
	if _, err := b.n.MaxFlow(ctx, true); err != nil {
		return best, false, b.undo(best, err)
	}

	return best, true, nil
}
