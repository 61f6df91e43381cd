// Package: waterflow/builder
//
// errors.go - sentinel errors for the builder package.
//
// Error policy:
//   • Only sentinel variables are exposed; branch with errors.Is.
//   • Implementations attach context with %w through builderErrorf.

package builder

import (
	"errors"
	"fmt"
)

// ErrTooFewNodes indicates that a count parameter is below the minimum for
// the requested constructor.
var ErrTooFewNodes = errors.New("builder: parameter too small")

// ErrInvalidProbability indicates a probability outside [0,1].
var ErrInvalidProbability = errors.New("builder: probability out of range")

// ErrNeedRandSource indicates that a stochastic constructor ran without an
// RNG (set WithSeed or WithRand).
var ErrNeedRandSource = errors.New("builder: rng is required")

// ErrConstructFailed indicates that a constructor could not build its
// topology, typically because the core graph rejected a node or pipe.
var ErrConstructFailed = errors.New("builder: construction failed")

// builderErrorf returns an error of the form "<method>: <message>" that keeps
// any %w operand in the chain.
func builderErrorf(method, format string, args ...any) error {
	return fmt.Errorf("%s: "+format, append([]any{method}, args...)...)
}
