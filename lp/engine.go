package lp

import (
	"context"
	"fmt"
)

// Engine is the consumed LP/MIP solver contract. Implementations must not retain p
// after Solve returns and must not mutate it.
type Engine interface {
	Solve(ctx context.Context, p *Problem) (*Result, error)
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(ctx context.Context, p *Problem) (*Result, error)

// Solve implements Engine.
func (f EngineFunc) Solve(ctx context.Context, p *Problem) (*Result, error) { return f(ctx, p) }

// Problem is an immutable column/row snapshot of a Model.
//
//	optimise  Objective·x + Offset   (Sense)
//	s.t.      Rows
//	          Lower ≤ x ≤ Upper, x[j] integral for Kinds[j] ∈ {Integer, Binary}
type Problem struct {
	Name      string
	Sense     Sense
	Objective []float64
	Offset    float64
	Names     []string
	Lower     []float64
	Upper     []float64
	Kinds     []Kind
	Rows      []Row
}

// NumCols returns the number of variables.
func (p *Problem) NumCols() int { return len(p.Objective) }

// NumRows returns the number of constraints.
func (p *Problem) NumRows() int { return len(p.Rows) }

// IsMIP reports whether any column carries an integrality requirement.
func (p *Problem) IsMIP() bool {
	for _, k := range p.Kinds {
		if k != Continuous {
			return true
		}
	}
	return false
}

// Result is what an Engine reports back.
type Result struct {
	Status    Status
	Values    []float64 // one per column; may be nil when no point is known
	Objective float64   // includes Problem.Offset
	Nodes     int       // branch-and-bound nodes explored (0 for pure LP)
}

// Values exposes solved variable values. Reporters depend on this rather than
// on *Solution so that they stay pure functions of (tables, values).
type Values interface {
	Value(v Var) float64
}

// Solution is the read-only outcome of Model.Solve.
type Solution struct {
	model  *Model
	result *Result
}

// Status returns the engine status.
func (s *Solution) Status() Status { return s.result.Status }

// Objective returns the objective value (meaningful when optimal).
func (s *Solution) Objective() float64 { return s.result.Objective }

// Nodes returns the number of branch-and-bound nodes explored.
func (s *Solution) Nodes() int { return s.result.Nodes }

// Value returns the solved value of v; 0 for foreign variables or when no point is known.
func (s *Solution) Value(v Var) float64 {
	if v.owner != s.model || v.index >= len(s.result.Values) {
		return 0
	}
	return s.result.Values[v.index]
}

// Err returns nil for StatusOptimal, otherwise an error wrapping ErrNotOptimal
// (and ErrTimeLimit for StatusTimeLimit).
func (s *Solution) Err() error {
	switch s.result.Status {
	case StatusOptimal:
		return nil
	case StatusTimeLimit:
		return fmt.Errorf("%s: %w: %w", s.model.name, ErrNotOptimal, ErrTimeLimit)
	default:
		return fmt.Errorf("%s: %w: status %s", s.model.name, ErrNotOptimal, s.result.Status)
	}
}
