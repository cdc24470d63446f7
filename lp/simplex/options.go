package simplex

import (
	"errors"
	"time"
)

// ErrUnsupportedBounds is returned for columns with an infinite lower bound.
var ErrUnsupportedBounds = errors.New("simplex: column lower bound must be finite")

// ErrMalformedProblem is returned when Problem slices disagree in length or
// reference unknown columns.
var ErrMalformedProblem = errors.New("simplex: malformed problem")

// ErrBadOption is returned by New for negative limits or gaps.
var ErrBadOption = errors.New("simplex: invalid option value")

// Options tunes the engine. The zero value is not valid; start from DefaultOptions.
type Options struct {
	// TimeLimit bounds one Solve call; 0 disables the budget.
	TimeLimit time.Duration

	// MaxNodes bounds branch-and-bound nodes; 0 means unlimited.
	MaxNodes int

	// AbsGap and RelGap prune nodes whose bound is within
	// max(AbsGap, RelGap·|incumbent|) of the incumbent.
	AbsGap float64
	RelGap float64

	// Tol is handed to gonum's simplex as the reduced-cost tolerance (0 = exact).
	Tol float64
}

// DefaultOptions returns: no time limit, no node limit, gaps 1e-9, Tol 0.
func DefaultOptions() Options {
	return Options{
		TimeLimit: 0,
		MaxNodes:  0,
		AbsGap:    1e-9,
		RelGap:    1e-9,
		Tol:       0,
	}
}

// Option mutates Options.
type Option func(*Options)

// WithTimeLimit sets the solve-time budget.
func WithTimeLimit(d time.Duration) Option {
	return func(o *Options) { o.TimeLimit = d }
}

// WithMaxNodes caps branch-and-bound nodes.
func WithMaxNodes(n int) Option {
	return func(o *Options) { o.MaxNodes = n }
}

// WithGap sets the absolute and relative optimality gaps.
func WithGap(abs, rel float64) Option {
	return func(o *Options) {
		o.AbsGap = abs
		o.RelGap = rel
	}
}

// WithTol sets the simplex reduced-cost tolerance.
func WithTol(tol float64) Option {
	return func(o *Options) { o.Tol = tol }
}

func validateOptions(o Options) error {
	if o.TimeLimit < 0 || o.MaxNodes < 0 || o.AbsGap < 0 || o.RelGap < 0 || o.Tol < 0 {
		return ErrBadOption
	}
	return nil
}
