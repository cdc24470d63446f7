// Package simplex is a pure-Go lp.Engine: LP relaxations are solved with
// gonum's dense simplex (gonum.org/v1/gonum/optimize/convex/lp) and integrality
// is enforced by a depth-first branch-and-bound.
//
// Standard form
//
// gonum solves   min cᵀy  s.t.  A·y = b, y ≥ 0,  with A of full row rank and no
// all-zero column. Every lp.Problem is brought into that shape per node:
//
//  1. Shift:     x = lower + y. Columns with lower == upper are substituted out.
//  2. Bounds:    a finite upper bound becomes the row y ≤ upper − lower, unless a
//     row with non-negative coefficients already implies it (degree rows of
//     binary legs, budget rows of weights).
//  3. Equality:  an EQ row is split into an LE row and a GE row.
//  4. Slack:     every row gets its own ±1 slack column, so A = [A₀ | D] with D
//     diagonal, which is always full row rank.
//  5. Sign:      rows with b < 0 are negated so the phase-1 start is well posed.
//  6. Empty:     columns that appear in no row are fixed at their lower bound
//     (or the problem is unbounded when their cost improves without limit).
//
// Row activation
//
// Forms of up to 128 rows are solved whole. Larger ones start from their EQ and
// GE rows plus the LE rows violated at y = 0; every other LE row (bound rows
// included) joins the form only after a relaxed point violates it, and the
// solve repeats until no candidate is violated. The optimum of that subset is
// the optimum of the full form. Activated rows stay active for the rest of the
// search, so later nodes start from the rows earlier nodes needed.
//
// Maximisation negates the costs. Columns with an infinite lower bound are not
// supported (ErrUnsupportedBounds); every lvplan model uses x ≥ 0.
//
// Branch-and-bound
//
// Nodes are explored depth first. The branching column is the most fractional
// integer column (ties: lowest index); the child nearer to the fractional value
// is explored first. A node is pruned when its relaxation cannot beat the
// incumbent by more than the configured absolute/relative gap. The search obeys
// Options.TimeLimit (and the caller's context deadline) and Options.MaxNodes.
//
// Complexity
//
// Every gonum call builds a dense (r+2e+u)×(n+r+2e+u) matrix for the r active
// inequality rows, e equality rows and u active bound rows, and gonum pivots on
// dense bases at O(m³) per iteration. Row activation keeps m near the rows that
// bind: the 1012 subtour rows of a 10-town routing instance reach the matrix
// only when violated. The engine is meant for small and medium models; use
// lp/highs beyond that.
package simplex
