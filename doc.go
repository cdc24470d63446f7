// Package lvplan turns tabular planning data into linear and mixed-integer
// programs, solves them, and reports the answers in business terms.
//
// 🚀 What is in lvplan?
//
//	Three independent scenarios sharing one modelling layer:
//		• Supply chain: order, produce and deliver at minimum total cost
//		• Routing: the shortest closed tour through a fixed set of towns
//		• Portfolio: maximum-return and minimum-deviation monthly allocations
//
// ✨ Why lvplan?
//
//   - Deterministic – entity sets are sorted, so the same sheets give the same model
//   - Pluggable solvers – pure-Go simplex with branch-and-bound, or HiGHS via cgo
//   - Pure reporters – every metric is a function of (tables, solved values)
//
// Layout:
//
//	table/        — tabular sources (CSV, XLSX, in-memory), sparse keyed tables, entity sets
//	lp/           — variables, linear expressions, constraints, the Engine contract
//	lp/simplex/   — gonum simplex relaxations + depth-first branch-and-bound
//	lp/highs/     — HiGHS engine (build tag "highs")
//	supplychain/  — flow/capacity/demand model and the cost report
//	routing/      — degree and subtour-elimination rows, tour reconstruction, Held–Karp check
//	portfolio/    — returns, FX conversion, both allocation models and CSV tables
//	cmd/lvplan/   — batch CLI writing to stdout, a blob store and optionally SQL
//
// Pipeline:
//
//	Source ─▶ table ─▶ lp.Model ─▶ Engine ─▶ report ─▶ stdout / CSV / SQL
//
//	go install github.com/katalvlaran/lvplan/cmd/lvplan@latest
package lvplan
