package lp

import (
	"errors"
	"math"
)

// Kind is the declared domain class of a decision variable.
type Kind int

const (
	// Continuous variables take any real value within their bounds.
	Continuous Kind = iota
	// Integer variables take integral values within their bounds.
	Integer
	// Binary variables take 0 or 1.
	Binary
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Continuous:
		return "continuous"
	case Integer:
		return "integer"
	case Binary:
		return "binary"
	default:
		return "unknown"
	}
}

// Relation is the comparison operator of a linear constraint.
type Relation int

const (
	// LE is Σ a·x ≤ rhs.
	LE Relation = iota
	// EQ is Σ a·x = rhs.
	EQ
	// GE is Σ a·x ≥ rhs.
	GE
)

// String implements fmt.Stringer.
func (r Relation) String() string {
	switch r {
	case LE:
		return "<="
	case EQ:
		return "="
	case GE:
		return ">="
	default:
		return "?"
	}
}

// Sense selects minimisation or maximisation of the objective.
type Sense int

const (
	// Minimize the objective (default).
	Minimize Sense = iota
	// Maximize the objective.
	Maximize
)

// Status reports the outcome of a solve.
type Status int

const (
	// StatusOther covers numeric failures and unknown solver states.
	StatusOther Status = iota
	// StatusOptimal means Values hold a proven optimum.
	StatusOptimal
	// StatusInfeasible means no point satisfies every constraint.
	StatusInfeasible
	// StatusUnbounded means the objective can improve without limit.
	StatusUnbounded
	// StatusTimeLimit means the solve-time budget ran out before optimality was proven.
	StatusTimeLimit
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusInfeasible:
		return "INFEASIBLE"
	case StatusUnbounded:
		return "UNBOUNDED"
	case StatusTimeLimit:
		return "TIME_LIMIT"
	default:
		return "OTHER"
	}
}

// Domain bundles bounds and kind for the Variable Factory.
type Domain struct {
	Lower float64
	Upper float64
	Kind  Kind
}

var (
	// NonNegContinuous is x ∈ [0, +∞).
	NonNegContinuous = Domain{Lower: 0, Upper: math.Inf(1), Kind: Continuous}
	// NonNegInteger is x ∈ {0, 1, 2, …}.
	NonNegInteger = Domain{Lower: 0, Upper: math.Inf(1), Kind: Integer}
	// UnitInterval is x ∈ [0, 1].
	UnitInterval = Domain{Lower: 0, Upper: 1, Kind: Continuous}
	// BinaryDomain is x ∈ {0, 1}.
	BinaryDomain = Domain{Lower: 0, Upper: 1, Kind: Binary}
)

// Sentinel errors. Callers branch with errors.Is; call sites wrap with context.
var (
	// ErrDuplicateVar is returned when a variable name is registered twice in one model.
	ErrDuplicateVar = errors.New("lp: duplicate variable name")

	// ErrInvalidBounds is returned for NaN bounds or lower > upper.
	ErrInvalidBounds = errors.New("lp: invalid variable bounds")

	// ErrUnknownVar is returned when an expression references a variable of another model.
	ErrUnknownVar = errors.New("lp: variable does not belong to model")

	// ErrInvalidCoefficient is returned for NaN or infinite coefficients and right-hand sides.
	ErrInvalidCoefficient = errors.New("lp: invalid coefficient")

	// ErrNilEngine is returned by Model.Solve when no engine is supplied.
	ErrNilEngine = errors.New("lp: nil engine")

	// ErrNotOptimal is returned by Solution.Err for every status except StatusOptimal.
	ErrNotOptimal = errors.New("lp: no optimal solution")

	// ErrTimeLimit marks a solve that exhausted its time budget.
	ErrTimeLimit = errors.New("lp: solve time limit exceeded")
)
