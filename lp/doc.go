// Package lp is the modelling layer shared by every planning scenario: it owns
// decision variables, linear constraints and the objective, and hands a frozen
// snapshot of them to a pluggable solver Engine.
//
// 🚀 What does lp give you?
//
//   - Model     — named variables with explicit domains, linear (in)equalities,
//     a linear objective with a sense (Minimize / Maximize).
//   - Expr      — a sparse weighted sum of variables plus a constant.
//   - Vars[K]   — the Variable Factory: one variable per key of a cartesian
//     product, addressed by the same tuple type used in the data tables.
//   - Engine    — the consumed solver contract: Solve(ctx, *Problem) → *Result.
//   - Solution  — read-only solved values, objective and Status.
//
// Engines live in sub-packages:
//
//	lp/simplex — pure Go: gonum simplex relaxations + depth-first branch-and-bound
//	lp/highs   — HiGHS through cgo (build tag "highs")
//
// Tolerance policy:
//
//	Solver output is never compared with 0 directly. Eps governs "non-zero"
//	reporting and division guards, SelectThreshold governs binary selection
//	(a leg is taken iff value > 0.5), IntTol governs integrality checks in
//	branch-and-bound. All scenario packages go through NonZero, Selected and Ratio.
//
// Determinism:
//
//	Variables and rows are stored in creation order. Callers build them from
//	sorted entity sets (see package table), so the same input always yields
//	the same column order and the same tie-breaking among degenerate optima.
//
// Quick example:
//
//	m := lp.NewModel("toy")
//	x, _ := m.NewVar("x", lp.NonNegContinuous)
//	y, _ := m.NewVar("y", lp.NonNegContinuous)
//	_ = m.AddConstraint("cover", lp.NewExpr().Add(x, 1).Add(y, 1), lp.GE, 1)
//	m.SetObjective(lp.NewExpr().Add(x, 2).Add(y, 3), lp.Minimize)
//	sol, err := m.Solve(ctx, simplex.New())
package lp
