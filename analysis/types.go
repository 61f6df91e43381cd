package analysis

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/waterflow/core"
)

// Sentinel errors for analysis operations.
var (
	// ErrUnknownSink is returned when a key does not name a sink.
	ErrUnknownSink = errors.New("analysis: unknown sink")

	// ErrNilNetwork is returned when a nil *flow.Network is passed.
	ErrNilNetwork = errors.New("analysis: network is nil")

	// ErrUnknownPolicy is returned for a Policy value outside the enum.
	ErrUnknownPolicy = errors.New("analysis: unknown balancing policy")
)

// Metrics summarizes the idle capacity (capacity − flow) of the counted edges.
// Variance is the population variance.
type Metrics struct {
	Count    int
	Max      float64
	Mean     float64
	Variance float64
}

// Policy selects which capacity reduction Balance accepts in a pass.
type Policy uint8

const (
	// FirstImproving accepts the first candidate that keeps the total flow
	// and restarts the pass.
	FirstImproving Policy = iota
	// BestOfPass evaluates every candidate of the pass and applies the one
	// leaving the lowest variance.
	BestOfPass
)

// String returns "first" or "best".
func (p Policy) String() string {
	switch p {
	case FirstImproving:
		return "first"
	case BestOfPass:
		return "best"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

// ParsePolicy is the inverse of Policy.String.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "first", "":
		return FirstImproving, nil
	case "best":
		return BestOfPass, nil
	default:
		return FirstImproving, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// Balancing defaults.
const (
	DefaultStep        = 1.0
	DefaultMaxAttempts = 200
)

// BalanceOptions tunes Balance.
type BalanceOptions struct {
	// Step bounds the headroom of a candidate and, floored, is the amount
	// its capacity shrinks by. floor(Step) < 1 makes Balance a no-op.
	Step float64
	// MaxAttempts bounds tentative recomputations. ≤ 0 uses DefaultMaxAttempts.
	MaxAttempts int
	// Tolerance stops the loop once an accepted change improves the variance
	// by less than this fraction. 0 disables the check.
	Tolerance float64
	Policy    Policy
}

// DefaultBalanceOptions returns Step 1, DefaultMaxAttempts, no tolerance
// and FirstImproving.
func DefaultBalanceOptions() BalanceOptions {
	return BalanceOptions{Step: DefaultStep, MaxAttempts: DefaultMaxAttempts}
}

// CapacityChange is one accepted capacity reduction.
type CapacityChange struct {
	Edge core.EdgeID
	From float64
	To   float64
}

// BalanceResult reports what Balance did.
type BalanceResult struct {
	Before      Metrics
	After       Metrics
	InitialFlow float64
	FinalFlow   float64
	Attempts    int
	Changes     []CapacityChange
}
