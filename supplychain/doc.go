// Package supplychain formulates and reports the multi-echelon supply-chain
// cost minimisation: suppliers ship raw materials to factories, factories turn
// materials into products, products are delivered to customers.
//
// Data
//
// Eight sparse tables, every missing cell read as 0:
//
//	stock           (supplier, material) → units on hand
//	material cost   (supplier, material) → price per unit
//	shipping        (supplier, factory)  → price per unit shipped
//	requirement     (product, material)  → material units per product unit
//	capacity        (product, factory)   → max units produced
//	production cost (product, factory)   → price per unit produced
//	demand          (product, customer)  → units ordered
//	delivery cost   (factory, customer)  → price per unit delivered
//
// Entities are projected from table keys: suppliers and materials from stock,
// factories from shipping columns, products from requirement rows, customers
// from demand columns. Each set must be non-empty.
//
// Model
//
//	order[s,m,f] ≥ 0, produce[p,f] ≥ 0, deliver[c,p,f] ≥ 0   (declared integer)
//
//	produce[p,f] ≥ Σ_c deliver[c,p,f]                        ∀ p,f
//	Σ_f deliver[c,p,f] ≥ demand[p,c]                          ∀ c,p
//	Σ_f order[s,m,f] ≤ stock[s,m]                             ∀ s,m
//	Σ_s order[s,m,f] − Σ_p produce[p,f]·requirement[p,m] ≥ 0  ∀ m,f
//	produce[p,f] ≤ capacity[p,f]                              ∀ p,f
//
//	min Σ order·(material cost + shipping) + Σ produce·production cost
//	    + Σ deliver·delivery cost
//
// The structure is a network flow, so with integral data the LP optimum is
// already integral; Options.Relaxed (the default) solves the relaxation.
//
// Reporting
//
// Report is a pure function of the data and the solved values. Amortised unit
// material cost per (material, factory) is spend / quantity ordered and is 0,
// with Defined=false, when nothing was ordered. The landed unit cost of a
// (customer, product) pair is only reported when units were delivered.
package supplychain
