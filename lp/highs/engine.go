//go:build highs

// Package highs adapts the HiGHS solver (github.com/lanl/highs, cgo) to lp.Engine.
//
// Build with -tags highs and a HiGHS installation visible to cgo. Without the
// tag the package is empty and lvplan falls back to lp/simplex.
//
// The adapter is stateless: every Solve builds a fresh highs.Model from the
// problem snapshot, so one Engine may be shared by sequential scenario runs.
// A HiGHS run cannot be interrupted from Go; the context is checked before the
// model is handed over and the deadline is reported afterwards.
package highs

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/katalvlaran/lvplan/lp"
	"github.com/lanl/highs"
)

// Engine implements lp.Engine on top of HiGHS.
type Engine struct{}

var _ lp.Engine = Engine{}

// New returns a HiGHS engine.
func New() Engine { return Engine{} }

// Solve implements lp.Engine.
func (Engine) Solve(ctx context.Context, p *lp.Problem) (*lp.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &lp.Result{Status: lp.StatusTimeLimit}, nil
		}
		return nil, err
	}

	m := convert(p)
	sol, err := m.Solve()
	if err != nil {
		return nil, fmt.Errorf("highs: %q: %w", p.Name, err)
	}

	status := mapStatus(sol.Status == highs.Optimal, sol.Status.String())
	if status != lp.StatusOptimal {
		return &lp.Result{Status: status}, nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &lp.Result{Status: lp.StatusTimeLimit}, nil
	}

	x := make([]float64, p.NumCols())
	copy(x, sol.ColumnPrimal)
	for j, k := range p.Kinds {
		if k != lp.Continuous {
			x[j] = math.Round(x[j])
		}
	}
	z := p.Offset
	for j, c := range p.Objective {
		z += c * x[j]
	}
	return &lp.Result{Status: lp.StatusOptimal, Values: x, Objective: z}, nil
}

// convert maps the snapshot onto a highs.Model. HiGHS minimises by default, so
// maximisation negates the costs; the objective is recomputed from the primal.
func convert(p *lp.Problem) *highs.Model {
	n := p.NumCols()
	m := new(highs.Model)
	m.ColCosts = make([]float64, n)
	m.ColLower = make([]float64, n)
	m.ColUpper = make([]float64, n)
	copy(m.ColLower, p.Lower)
	copy(m.ColUpper, p.Upper)
	for j, c := range p.Objective {
		if p.Sense == lp.Maximize {
			c = -c
		}
		m.ColCosts[j] = c
	}
	if p.IsMIP() {
		m.VarTypes = make([]highs.VariableType, n)
		for j, k := range p.Kinds {
			if k == lp.Integer || k == lp.Binary {
				m.VarTypes[j] = highs.IntegerType
			}
		}
	}

	inf := math.Inf(1)
	m.RowLower = make([]float64, 0, len(p.Rows))
	m.RowUpper = make([]float64, 0, len(p.Rows))
	for i, r := range p.Rows {
		lo, hi := -inf, inf
		switch r.Rel {
		case lp.LE:
			hi = r.RHS
		case lp.GE:
			lo = r.RHS
		case lp.EQ:
			lo, hi = r.RHS, r.RHS
		}
		m.RowLower = append(m.RowLower, lo)
		m.RowUpper = append(m.RowUpper, hi)
		for t, j := range r.Cols {
			m.ConstMatrix = append(m.ConstMatrix, highs.Nonzero{Row: i, Col: j, Val: r.Coefs[t]})
		}
	}
	return m
}

// mapStatus translates a HiGHS model status. Only Optimal is compared by value;
// the remaining states are told apart by their printed names.
func mapStatus(optimal bool, name string) lp.Status {
	if optimal {
		return lp.StatusOptimal
	}
	name = strings.ToLower(name)
	switch {
	case strings.Contains(name, "infeasible"):
		return lp.StatusInfeasible
	case strings.Contains(name, "unbounded"):
		return lp.StatusUnbounded
	case strings.Contains(name, "time"):
		return lp.StatusTimeLimit
	default:
		return lp.StatusOther
	}
}
