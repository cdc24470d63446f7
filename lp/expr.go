package lp

// Term is a single coefficient·variable product.
type Term struct {
	Var  Var
	Coef float64
}

// Expr is a linear expression Σ coef·var + constant.
// Terms keep first-insertion order; adding the same variable twice merges coefficients.
type Expr struct {
	terms    []Term
	pos      map[int]int // var index -> position in terms
	constant float64
}

// NewExpr returns an empty expression.
func NewExpr() *Expr {
	return &Expr{pos: make(map[int]int)}
}

// Add appends coef·v and returns e for chaining.
func (e *Expr) Add(v Var, coef float64) *Expr {
	if e.pos == nil {
		e.pos = make(map[int]int)
	}
	if i, ok := e.pos[v.index]; ok {
		e.terms[i].Coef += coef
		return e
	}
	e.pos[v.index] = len(e.terms)
	e.terms = append(e.terms, Term{Var: v, Coef: coef})
	return e
}

// AddExpr appends scale·other (terms and constant).
func (e *Expr) AddExpr(other *Expr, scale float64) *Expr {
	if other == nil {
		return e
	}
	for _, t := range other.terms {
		e.Add(t.Var, scale*t.Coef)
	}
	e.constant += scale * other.constant
	return e
}

// AddConst adds c to the constant part.
func (e *Expr) AddConst(c float64) *Expr {
	e.constant += c
	return e
}

// Terms returns a copy of the terms in insertion order.
func (e *Expr) Terms() []Term {
	if e == nil {
		return nil
	}
	out := make([]Term, len(e.terms))
	copy(out, e.terms)
	return out
}

// Constant returns the constant part.
func (e *Expr) Constant() float64 {
	if e == nil {
		return 0
	}
	return e.constant
}

// Eval evaluates the expression against solved values.
func (e *Expr) Eval(vals Values) float64 {
	if e == nil {
		return 0
	}
	sum := e.constant
	for _, t := range e.terms {
		sum += t.Coef * vals.Value(t.Var)
	}
	return sum
}

// Sum returns Σ 1·v over vars.
func Sum(vars ...Var) *Expr {
	e := NewExpr()
	for _, v := range vars {
		e.Add(v, 1)
	}
	return e
}
