package simplex

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/lvplan/lp"
	"gonum.org/v1/gonum/mat"
	golp "gonum.org/v1/gonum/optimize/convex/lp"
)

// feasTol is the slack accepted on rows that lost every active column.
const feasTol = 1e-9

// eagerRows is the standard-form size up to which every row is handed to gonum
// at once. Larger forms start from their equality and ≥ rows and activate ≤ rows
// only when a relaxed point violates them.
const eagerRows = 128

// relaxation is the outcome of one continuous solve under node bounds.
type relaxation struct {
	status lp.Status
	x      []float64 // original column space
	obj    float64   // in the problem's own sense, offset included
}

// stdRow is one row of the standard form before slack insertion: Σ a·y (≤|≥) b.
type stdRow struct {
	cols  []int // active column positions
	coefs []float64
	ge    bool
	rhs   float64
}

func (r stdRow) violated(y []float64) bool {
	lhs := 0.0
	for t, k := range r.cols {
		lhs += r.coefs[t] * y[k]
	}
	slack := feasTol * (1 + math.Abs(r.rhs))
	if r.ge {
		return lhs < r.rhs-slack
	}
	return lhs > r.rhs+slack
}

// relaxer solves node relaxations of one problem. Rows activated at one node
// stay active for every later node: any subset of rows is a valid relaxation,
// so sharing only saves rounds.
type relaxer struct {
	p   *lp.Problem
	tol float64

	rowOn   []bool // ≤ rows of p.Rows in the active set
	boundOn []bool // upper-bound rows per column in the active set
	rounds  int    // gonum calls, for tests and diagnostics
}

func newRelaxer(p *lp.Problem, tol float64) *relaxer {
	return &relaxer{
		p:       p,
		tol:     tol,
		rowOn:   make([]bool, len(p.Rows)),
		boundOn: make([]bool, p.NumCols()),
	}
}

// candidate is a standard-form row with the switch that activates it.
type candidate struct {
	row stdRow
	on  *bool // nil for rows that are always present
}

// solve solves the LP relaxation with column bounds [lower, upper].
func (r *relaxer) solve(ctx context.Context, lower, upper []float64) (relaxation, error) {
	p := r.p
	n := p.NumCols()
	sign := 1.0
	if p.Sense == lp.Maximize {
		sign = -1
	}

	// Crossed bounds: empty node.
	for j := 0; j < n; j++ {
		if lower[j] > upper[j]+feasTol {
			return relaxation{status: lp.StatusInfeasible}, nil
		}
	}

	// 1) Classify columns: fixed (substituted), active (std column), or loose (in no row).
	inRow := make([]bool, n)
	for _, row := range p.Rows {
		for _, j := range row.Cols {
			inRow[j] = true
		}
	}
	pos := make([]int, n) // original -> active position, -1 if not active
	var active []int
	for j := 0; j < n; j++ {
		pos[j] = -1
		if upper[j]-lower[j] <= feasTol {
			continue
		}
		if inRow[j] || !math.IsInf(upper[j], 1) {
			pos[j] = len(active)
			active = append(active, j)
		}
	}

	x := make([]float64, n)
	copy(x, lower)
	for j := 0; j < n; j++ {
		if upper[j]-lower[j] <= feasTol {
			continue
		}
		// Loose column: no row and no upper bound. Improving cost ⇒ unbounded.
		if pos[j] < 0 && sign*p.Objective[j] < 0 {
			return relaxation{status: lp.StatusUnbounded}, nil
		}
	}
	if len(active) == 0 {
		return finish(p, x), nil
	}

	// 2) Rows in shifted space; EQ splits into LE + GE so the slack columns
	// always give gonum a full-row-rank matrix.
	implied := make([]float64, len(active))
	for k := range implied {
		implied[k] = math.Inf(1)
	}
	var cands []candidate
	for i, row := range p.Rows {
		rhs := row.RHS
		var cols []int
		var coefs []float64
		for t, j := range row.Cols {
			rhs -= row.Coefs[t] * lower[j]
			if pos[j] >= 0 {
				cols = append(cols, pos[j])
				coefs = append(coefs, row.Coefs[t])
			}
		}
		if len(cols) == 0 {
			if !constantRowHolds(row.Rel, rhs) {
				return relaxation{status: lp.StatusInfeasible}, nil
			}
			continue
		}
		le := stdRow{cols: cols, coefs: coefs, rhs: rhs}
		ge := stdRow{cols: cols, coefs: coefs, ge: true, rhs: rhs}
		switch row.Rel {
		case lp.LE:
			on := &r.rowOn[i]
			if rhs < 0 {
				*on = true
			}
			cands = append(cands, candidate{row: le, on: on})
			tightenImplied(implied, le)
		case lp.GE:
			cands = append(cands, candidate{row: ge})
		case lp.EQ:
			cands = append(cands, candidate{row: le}, candidate{row: ge})
			tightenImplied(implied, le)
		default:
			return relaxation{}, fmt.Errorf("row %q: relation %d: %w", row.Name, row.Rel, ErrMalformedProblem)
		}
	}
	for k, j := range active {
		width := upper[j] - lower[j]
		if math.IsInf(width, 1) || implied[k] <= width+feasTol {
			continue
		}
		cands = append(cands, candidate{
			row: stdRow{cols: []int{k}, coefs: []float64{1}, rhs: width},
			on:  &r.boundOn[j],
		})
	}
	if len(cands) <= eagerRows {
		for _, c := range cands {
			if c.on != nil {
				*c.on = true
			}
		}
	}

	// 3) Solve, activating violated rows until the point satisfies every candidate.
	for {
		coverImproving(cands, active, sign, p.Objective)
		rows := make([]stdRow, 0, len(cands))
		deferred := 0
		for _, c := range cands {
			if c.on == nil || *c.on {
				rows = append(rows, c.row)
			} else {
				deferred++
			}
		}

		y, err := r.simplex(ctx, sign, active, rows)
		switch {
		case errors.Is(err, golp.ErrInfeasible):
			return relaxation{status: lp.StatusInfeasible}, nil
		case errors.Is(err, golp.ErrUnbounded):
			if deferred == 0 {
				return relaxation{status: lp.StatusUnbounded}, nil
			}
			// The subset may be unbounded where the full row set is not.
			for _, c := range cands {
				if c.on != nil {
					*c.on = true
				}
			}
			continue
		case ctx.Err() != nil && errors.Is(err, ctx.Err()):
			return relaxation{}, err
		case err != nil:
			return relaxation{status: lp.StatusOther}, fmt.Errorf("simplex: %w", err)
		}

		added := 0
		for _, c := range cands {
			if c.on != nil && !*c.on && c.row.violated(y) {
				*c.on = true
				added++
			}
		}
		if added > 0 {
			continue
		}

		for k, j := range active {
			x[j] = math.Min(math.Max(lower[j]+y[k], lower[j]), upper[j])
		}
		return finish(p, x), nil
	}
}

// coverImproving activates the deferred rows holding any column whose cost
// improves but which no active row holds; otherwise the subset is unbounded.
func coverImproving(cands []candidate, active []int, sign float64, obj []float64) {
	used := make([]bool, len(active))
	for _, c := range cands {
		if c.on == nil || *c.on {
			for _, k := range c.row.cols {
				used[k] = true
			}
		}
	}
	for _, c := range cands {
		if c.on == nil || *c.on {
			continue
		}
		for _, k := range c.row.cols {
			if !used[k] && sign*obj[active[k]] < 0 {
				*c.on = true
				break
			}
		}
	}
}

// tightenImplied records the upper bounds that a row with non-negative
// coefficients imposes on its columns in shifted space.
func tightenImplied(implied []float64, r stdRow) {
	if r.rhs < 0 {
		return
	}
	for _, a := range r.coefs {
		if a <= 0 {
			return
		}
	}
	for t, k := range r.cols {
		implied[k] = math.Min(implied[k], r.rhs/r.coefs[t])
	}
}

// simplex builds the dense standard form of rows, with one slack column per row,
// and solves it. Columns in no row sit at zero unless their cost improves, which
// is reported as golp.ErrUnbounded.
func (r *relaxer) simplex(ctx context.Context, sign float64, active []int, rows []stdRow) ([]float64, error) {
	na := len(active)
	used := make([]bool, na)
	for _, row := range rows {
		for t, k := range row.cols {
			if row.coefs[t] != 0 {
				used[k] = true
			}
		}
	}
	col := make([]int, na) // active position -> matrix column, -1 if unused
	nu := 0
	for k, j := range active {
		col[k] = -1
		if used[k] {
			col[k] = nu
			nu++
			continue
		}
		if sign*r.p.Objective[j] < 0 {
			return nil, golp.ErrUnbounded
		}
	}
	y := make([]float64, na)
	m := len(rows)
	if m == 0 {
		return y, nil
	}

	A := mat.NewDense(m, nu+m, nil)
	b := make([]float64, m)
	c := make([]float64, nu+m)
	for k, j := range active {
		if col[k] >= 0 {
			c[col[k]] = sign * r.p.Objective[j]
		}
	}
	for i, row := range rows {
		flip := 1.0
		if row.rhs < 0 {
			flip = -1
		}
		for t, k := range row.cols {
			if col[k] >= 0 {
				A.Set(i, col[k], A.At(i, col[k])+flip*row.coefs[t])
			}
		}
		slack := 1.0
		if row.ge {
			slack = -1
		}
		A.Set(i, nu+i, flip*slack)
		b[i] = flip * row.rhs
	}

	r.rounds++
	z, err := runSimplex(ctx, c, A, b, r.tol)
	if err != nil {
		return nil, err
	}
	for k := range active {
		if col[k] >= 0 {
			y[k] = z[col[k]]
		}
	}
	return y, nil
}

// runSimplex runs the gonum call in its own goroutine so that ctx bounds a single
// relaxation. On expiry the pivot is abandoned and finishes in the background;
// its inputs are not shared. Shape panics are reported as errors: they would be
// a bug in the conversion above rather than a property of the model.
func runSimplex(ctx context.Context, c []float64, A *mat.Dense, b []float64, tol float64) ([]float64, error) {
	type outcome struct {
		y   []float64
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		var o outcome
		defer func() {
			if rec := recover(); rec != nil {
				o = outcome{err: fmt.Errorf("gonum simplex panic: %v", rec)}
			}
			done <- o
		}()
		_, o.y, o.err = golp.Simplex(c, A, b, tol, nil)
	}()

	select {
	case o := <-done:
		return o.y, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func constantRowHolds(rel lp.Relation, rhs float64) bool {
	switch rel {
	case lp.LE:
		return 0 <= rhs+feasTol
	case lp.GE:
		return 0 >= rhs-feasTol
	default:
		return math.Abs(rhs) <= feasTol
	}
}

func finish(p *lp.Problem, x []float64) relaxation {
	return relaxation{status: lp.StatusOptimal, x: x, obj: objective(p, x)}
}

func objective(p *lp.Problem, x []float64) float64 {
	z := p.Offset
	for j, c := range p.Objective {
		z += c * x[j]
	}
	return z
}
