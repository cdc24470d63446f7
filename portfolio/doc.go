// Package portfolio builds the two monthly allocation models: maximum return
// with a cash position, and minimum mean absolute deviation (MAD) subject to a
// return floor.
//
// Prices come in two native currencies (USD and EUR sheets) plus an FX sheet
// with an EURUSD column. Choosing USD converts EUR prices by multiplying with
// the rate of the same timestamp; choosing EUR divides USD prices by it.
// The monthly return of stock s at t ≥ t1 is price(t,s) / price(t−1,s); the
// average reward of s is the mean of its returns.
//
// Max-return, positions = stocks ∪ {Cash}:
//
//	Σ_p w[t,p] = 1,  0 ≤ w[t,p] ≤ MaxWeight           ∀ t
//	max Σ_{t≥t1} Σ_s w[t,s]·r[t,s]
//
// Min-risk, positions = stocks only:
//
//	Σ_s w[t,s] = 1,  0 ≤ w[t,s] ≤ MaxWeight           ∀ t
//	Σ_{t≥t1} Σ_s w[t,s]·r[t,s] ≥ MinReturn·(T−1)
//	−dev[t] ≤ Σ_s w[t,s]·(r[t,s] − avg[s]) ≤ dev[t]   ∀ t ≥ t1
//	min Σ_t dev[t]
//
// The deviation rows are the usual linearisation of |x| ≤ dev: at the optimum
// every dev[t] equals the absolute portfolio deviation of its period.
// The weight cap is applied as a variable bound.
package portfolio
