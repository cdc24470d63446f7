package routing

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/lvplan/lp"
	"github.com/katalvlaran/lvplan/table"
)

// Run loads the distance sheet from src and solves it under opts.
func Run(ctx context.Context, src table.Source, eng lp.Engine, opts Options) (*Result, error) {
	d, err := Load(src, opts.Towns)
	if err != nil {
		return nil, err
	}
	return Solve(ctx, d, eng, opts)
}

// Solve builds the model for d, solves it (re-solving after each round of lazy
// cuts) and reconstructs the tour from the anchor.
//
// Errors: ErrBadOption, ErrUnknownTown, ErrTooManyTowns, lp.ErrNotOptimal,
// ErrNoConvergence, ErrMalformedRoute, ErrCrossCheck.
func Solve(ctx context.Context, d *Data, eng lp.Engine, opts Options) (*Result, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	anchor := opts.Anchor
	if anchor == "" {
		anchor = d.Towns[0]
	}
	if d.index(anchor) < 0 {
		return nil, fmt.Errorf("routing: anchor %q: %w", anchor, ErrUnknownTown)
	}

	strategy := opts.Strategy
	if strategy == Auto {
		strategy = Enumerate
		if len(d.Towns) > opts.MaxEnumerateTowns {
			strategy = Lazy
		}
	}
	f, err := Build(d, strategy, opts.MaxEnumerateTowns)
	if err != nil {
		return nil, err
	}

	res := &Result{Strategy: strategy}
	for {
		res.Rounds++
		sol, err := f.Model.Solve(ctx, eng)
		if err != nil {
			return nil, fmt.Errorf("routing: %w", err)
		}
		if err := sol.Err(); err != nil {
			return nil, fmt.Errorf("routing: round %d: %w", res.Rounds, err)
		}

		if strategy == Lazy {
			cycles, err := Cycles(d.Towns, f.Legs, sol)
			if err != nil {
				return nil, fmt.Errorf("routing: round %d: %w", res.Rounds, err)
			}
			if len(cycles) > 1 {
				if res.Rounds >= opts.MaxRounds {
					return nil, fmt.Errorf("routing: %d rounds: %w", res.Rounds, ErrNoConvergence)
				}
				added := 0
				for _, c := range cycles {
					ok, err := f.AddSubtourCut(c[:len(c)-1])
					if err != nil {
						return nil, err
					}
					if ok {
						added++
					}
				}
				if added == 0 {
					return nil, fmt.Errorf("routing: round %d repeats a cut sub-cycle: %w", res.Rounds, ErrNoConvergence)
				}
				continue
			}
		}

		route, err := Reconstruct(d, anchor, f.Legs, sol)
		if err != nil {
			return nil, err
		}
		res.Route = route
		res.Objective = sol.Objective()
		res.Nodes = sol.Nodes()
		res.Cuts = f.Cuts()
		break
	}

	if opts.CrossCheck {
		exact, err := ExactTour(d, anchor)
		if err != nil {
			return nil, err
		}
		if math.Abs(exact.Distance-res.Route.Distance) > lp.Eps*math.Max(1, math.Abs(exact.Distance)) {
			return nil, fmt.Errorf("routing: solved %v, exact %v: %w", res.Route.Distance, exact.Distance, ErrCrossCheck)
		}
	}
	return res, nil
}
