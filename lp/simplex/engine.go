package simplex

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/lvplan/lp"
)

// Engine implements lp.Engine.
type Engine struct {
	opts Options
}

var _ lp.Engine = (*Engine)(nil)

// New returns an engine configured by opts over DefaultOptions.
// Invalid option values panic: they are programmer errors, not model properties.
func New(opts ...Option) *Engine {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if err := validateOptions(o); err != nil {
		panic(err)
	}
	return &Engine{opts: o}
}

// Options returns the resolved options.
func (e *Engine) Options() Options { return e.opts }

// node is one branch-and-bound subproblem: the original rows under tightened bounds.
type node struct {
	lower, upper []float64
}

// Solve implements lp.Engine.
func (e *Engine) Solve(ctx context.Context, p *lp.Problem) (*lp.Result, error) {
	if err := validateProblem(p); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if e.opts.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.TimeLimit)
		defer cancel()
	}

	root := node{lower: clone(p.Lower), upper: clone(p.Upper)}
	integral := make([]bool, p.NumCols())
	for j, k := range p.Kinds {
		if k == lp.Integer || k == lp.Binary {
			integral[j] = true
			root.lower[j] = math.Ceil(root.lower[j] - lp.IntTol)
			root.upper[j] = math.Floor(root.upper[j] + lp.IntTol)
		}
	}

	s := &search{
		p:        p,
		opts:     e.opts,
		integral: integral,
		relax:    newRelaxer(p, e.opts.Tol),
		best:     math.Inf(1),
	}
	return s.run(ctx, root)
}

type search struct {
	p        *lp.Problem
	opts     Options
	integral []bool
	relax    *relaxer

	nodes     int
	incumbent []float64
	best      float64 // incumbent objective in minimisation form
}

func (s *search) sign() float64 {
	if s.p.Sense == lp.Maximize {
		return -1
	}
	return 1
}

func (s *search) run(ctx context.Context, root node) (*lp.Result, error) {
	stack := []node{root}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return s.interrupted(err)
		}
		if s.opts.MaxNodes > 0 && s.nodes >= s.opts.MaxNodes {
			return s.result(lp.StatusOther), nil
		}

		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s.nodes++

		rel, err := s.relax.solve(ctx, nd.lower, nd.upper)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return s.interrupted(ctxErr)
			}
			return nil, fmt.Errorf("node %d: %w", s.nodes, err)
		}
		switch rel.status {
		case lp.StatusInfeasible:
			continue
		case lp.StatusUnbounded:
			// An unbounded relaxation with integral data means an unbounded MIP.
			return &lp.Result{Status: lp.StatusUnbounded, Nodes: s.nodes}, nil
		case lp.StatusOptimal:
		default:
			return s.result(lp.StatusOther), nil
		}

		bound := s.sign() * rel.obj
		if s.incumbent != nil && bound >= s.best-s.gap() {
			continue
		}

		j := s.branchColumn(rel.x)
		if j < 0 {
			s.incumbent = rel.x
			s.best = bound
			continue
		}

		v := rel.x[j]
		down := node{lower: clone(nd.lower), upper: clone(nd.upper)}
		down.upper[j] = math.Floor(v)
		up := node{lower: clone(nd.lower), upper: clone(nd.upper)}
		up.lower[j] = math.Ceil(v)

		// LIFO: push the farther child first so the nearer rounding is explored next.
		if v-math.Floor(v) < 0.5 {
			stack = append(stack, up, down)
		} else {
			stack = append(stack, down, up)
		}
	}

	if s.incumbent == nil {
		return &lp.Result{Status: lp.StatusInfeasible, Nodes: s.nodes}, nil
	}
	return s.result(lp.StatusOptimal), nil
}

// interrupted ends the search on a context error: an expired deadline is the
// time budget and reports the incumbent, anything else is the caller's error.
func (s *search) interrupted(err error) (*lp.Result, error) {
	if errors.Is(err, context.DeadlineExceeded) {
		return s.result(lp.StatusTimeLimit), nil
	}
	return nil, err
}

// gap is the pruning slack around the incumbent.
func (s *search) gap() float64 {
	return math.Max(s.opts.AbsGap, s.opts.RelGap*math.Abs(s.best))
}

// branchColumn returns the most fractional integer column, or -1 when x is integral.
func (s *search) branchColumn(x []float64) int {
	best, bestFrac := -1, 0.0
	for j, isInt := range s.integral {
		if !isInt || lp.IsIntegral(x[j]) {
			continue
		}
		f := x[j] - math.Floor(x[j])
		frac := math.Min(f, 1-f)
		if frac > bestFrac {
			best, bestFrac = j, frac
		}
	}
	return best
}

// result packages the incumbent (if any) under status. Integer columns are snapped.
func (s *search) result(status lp.Status) *lp.Result {
	res := &lp.Result{Status: status, Nodes: s.nodes}
	if s.incumbent == nil {
		if status == lp.StatusOptimal {
			res.Status = lp.StatusInfeasible
		}
		return res
	}
	x := clone(s.incumbent)
	for j, isInt := range s.integral {
		if isInt {
			x[j] = math.Round(x[j])
		}
	}
	res.Values = x
	res.Objective = objective(s.p, x)
	return res
}

func validateProblem(p *lp.Problem) error {
	if p == nil {
		return fmt.Errorf("nil problem: %w", ErrMalformedProblem)
	}
	n := p.NumCols()
	if len(p.Lower) != n || len(p.Upper) != n || len(p.Kinds) != n {
		return fmt.Errorf("%q: column slices disagree: %w", p.Name, ErrMalformedProblem)
	}
	for j := 0; j < n; j++ {
		if math.IsInf(p.Lower[j], -1) || math.IsNaN(p.Lower[j]) {
			return fmt.Errorf("%q: column %d: %w", p.Name, j, ErrUnsupportedBounds)
		}
	}
	for _, r := range p.Rows {
		if len(r.Cols) != len(r.Coefs) {
			return fmt.Errorf("%q: row %q: %w", p.Name, r.Name, ErrMalformedProblem)
		}
		for _, j := range r.Cols {
			if j < 0 || j >= n {
				return fmt.Errorf("%q: row %q: column %d: %w", p.Name, r.Name, j, ErrMalformedProblem)
			}
		}
	}
	return nil
}

func clone(xs []float64) []float64 {
	out := make([]float64, len(xs))
	copy(out, xs)
	return out
}
