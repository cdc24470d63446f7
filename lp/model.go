package lp

import (
	"context"
	"fmt"
	"math"
)

// Var is a handle to a decision variable owned by exactly one Model.
type Var struct {
	index int
	owner *Model
}

// Index returns the column index of v inside its model.
func (v Var) Index() int { return v.index }

// Name returns the registered name of v ("" for the zero Var).
func (v Var) Name() string {
	if v.owner == nil {
		return ""
	}
	return v.owner.cols[v.index].name
}

type column struct {
	name   string
	domain Domain
}

// Row is one frozen linear constraint: Σ Coefs[i]·x[Cols[i]] Rel RHS.
type Row struct {
	Name  string
	Cols  []int
	Coefs []float64
	Rel   Relation
	RHS   float64
}

// Model collects variables, constraints and an objective.
// It is not safe for concurrent mutation; build it once, then Solve.
type Model struct {
	name      string
	cols      []column
	names     map[string]int
	rows      []Row
	objective *Expr
	sense     Sense
	relaxed   bool
}

// NewModel returns an empty minimisation model.
func NewModel(name string) *Model {
	return &Model{
		name:      name,
		names:     make(map[string]int),
		objective: NewExpr(),
	}
}

// Name returns the model name.
func (m *Model) Name() string { return m.name }

// NumVars returns the number of registered variables.
func (m *Model) NumVars() int { return len(m.cols) }

// NumConstraints returns the number of registered constraints.
func (m *Model) NumConstraints() int { return len(m.rows) }

// NewVar registers a variable. Names are unique per model.
//
// Errors: ErrDuplicateVar, ErrInvalidBounds.
func (m *Model) NewVar(name string, d Domain) (Var, error) {
	if _, exists := m.names[name]; exists {
		return Var{}, fmt.Errorf("NewVar(%q): %w", name, ErrDuplicateVar)
	}
	if d.Kind == Binary {
		d.Lower = math.Max(d.Lower, 0)
		d.Upper = math.Min(d.Upper, 1)
	}
	if math.IsNaN(d.Lower) || math.IsNaN(d.Upper) || d.Lower > d.Upper {
		return Var{}, fmt.Errorf("NewVar(%q): [%v, %v]: %w", name, d.Lower, d.Upper, ErrInvalidBounds)
	}
	v := Var{index: len(m.cols), owner: m}
	m.cols = append(m.cols, column{name: name, domain: d})
	m.names[name] = v.index
	return v, nil
}

// Lookup returns the variable registered under name.
func (m *Model) Lookup(name string) (Var, bool) {
	i, ok := m.names[name]
	if !ok {
		return Var{}, false
	}
	return Var{index: i, owner: m}, true
}

// AddConstraint appends e rel rhs. The constant part of e moves to the right-hand side
// and zero coefficients are dropped.
//
// Errors: ErrUnknownVar, ErrInvalidCoefficient.
func (m *Model) AddConstraint(name string, e *Expr, rel Relation, rhs float64) error {
	if math.IsNaN(rhs) || math.IsInf(rhs, 0) {
		return fmt.Errorf("AddConstraint(%q): rhs %v: %w", name, rhs, ErrInvalidCoefficient)
	}
	row := Row{Name: name, Rel: rel, RHS: rhs - e.Constant()}
	for _, t := range e.Terms() {
		if t.Var.owner != m {
			return fmt.Errorf("AddConstraint(%q): %w", name, ErrUnknownVar)
		}
		if math.IsNaN(t.Coef) || math.IsInf(t.Coef, 0) {
			return fmt.Errorf("AddConstraint(%q): coefficient of %s: %w", name, t.Var.Name(), ErrInvalidCoefficient)
		}
		if t.Coef == 0 {
			continue
		}
		row.Cols = append(row.Cols, t.Var.index)
		row.Coefs = append(row.Coefs, t.Coef)
	}
	m.rows = append(m.rows, row)
	return nil
}

// SetObjective replaces the objective.
func (m *Model) SetObjective(e *Expr, s Sense) {
	if e == nil {
		e = NewExpr()
	}
	m.objective = e
	m.sense = s
}

// SetRelaxed makes Problem drop integrality: declared kinds are kept on the model
// but every column is handed to the engine as continuous.
func (m *Model) SetRelaxed(relaxed bool) { m.relaxed = relaxed }

// Problem freezes the model into the engine-facing snapshot.
func (m *Model) Problem() (*Problem, error) {
	n := len(m.cols)
	p := &Problem{
		Name:      m.name,
		Sense:     m.sense,
		Objective: make([]float64, n),
		Offset:    m.objective.Constant(),
		Names:     make([]string, n),
		Lower:     make([]float64, n),
		Upper:     make([]float64, n),
		Kinds:     make([]Kind, n),
		Rows:      m.rows,
	}
	for j, c := range m.cols {
		p.Names[j] = c.name
		p.Lower[j] = c.domain.Lower
		p.Upper[j] = c.domain.Upper
		p.Kinds[j] = c.domain.Kind
		if m.relaxed {
			p.Kinds[j] = Continuous
		}
	}
	for _, t := range m.objective.Terms() {
		if t.Var.owner != m {
			return nil, fmt.Errorf("Problem(%q): objective: %w", m.name, ErrUnknownVar)
		}
		if math.IsNaN(t.Coef) || math.IsInf(t.Coef, 0) {
			return nil, fmt.Errorf("Problem(%q): objective coefficient of %s: %w", m.name, t.Var.Name(), ErrInvalidCoefficient)
		}
		p.Objective[t.Var.index] += t.Coef
	}
	return p, nil
}

// Solve hands the frozen problem to eng. A non-optimal status is not an error here:
// inspect Solution.Status or Solution.Err. The returned error reports engine failures.
func (m *Model) Solve(ctx context.Context, eng Engine) (*Solution, error) {
	if eng == nil {
		return nil, ErrNilEngine
	}
	p, err := m.Problem()
	if err != nil {
		return nil, err
	}
	res, err := eng.Solve(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("Solve(%q): %w", m.name, err)
	}
	return &Solution{model: m, result: res}, nil
}
