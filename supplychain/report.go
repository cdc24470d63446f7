package supplychain

import (
	"github.com/katalvlaran/lvplan/lp"
	"github.com/katalvlaran/lvplan/table"
)

// NewReport derives every reported metric from the solved values. It reads d and
// vals only; totalCost is the solver's objective value.
func NewReport(d *Data, v *Vars, vals lp.Values, totalCost float64) *Report {
	r := &Report{TotalCost: totalCost}
	order := func(s, mat, f string) float64 { return vals.Value(v.Order.At(table.T(s, mat, f))) }
	produce := func(p, f string) float64 { return vals.Value(v.Produce.At(table.P(p, f))) }
	deliver := func(c, p, f string) float64 { return vals.Value(v.Deliver.At(table.T(c, p, f))) }

	// (a) orders and (b) bills.
	for _, f := range d.Factories {
		for _, mat := range d.Materials {
			for _, s := range d.Suppliers {
				if q := order(s, mat, f); lp.NonZero(q) {
					r.Orders = append(r.Orders, OrderLine{Factory: f, Material: mat, Supplier: s, Quantity: q})
				}
			}
		}
	}
	for _, f := range d.Factories {
		for _, s := range d.Suppliers {
			var amount float64
			for _, mat := range d.Materials {
				amount += order(s, mat, f) * (d.MaterialCost.At(s, mat) + d.Shipping.At(s, f))
			}
			if lp.NonZero(amount) {
				r.Bills = append(r.Bills, Bill{Factory: f, Supplier: s, Amount: amount})
			}
		}
	}

	// (a) production and (c) manufacturing cost per factory.
	for _, f := range d.Factories {
		var cost float64
		for _, p := range d.Products {
			q := produce(p, f)
			if lp.NonZero(q) {
				r.Production = append(r.Production, ProductionLine{Factory: f, Product: p, Quantity: q})
			}
			cost += q * d.ProductionCost.At(p, f)
		}
		r.FactoryCosts = append(r.FactoryCosts, FactoryCost{Factory: f, Cost: cost})
	}

	// (a) deliveries and (d) shipping cost per customer.
	for _, c := range d.Customers {
		var cost float64
		for _, p := range d.Products {
			for _, f := range d.Factories {
				q := deliver(c, p, f)
				if lp.NonZero(q) {
					r.Deliveries = append(r.Deliveries, DeliveryLine{Customer: c, Product: p, Factory: f, Quantity: q})
				}
				cost += q * d.DeliveryCost.At(f, c)
			}
		}
		r.ShippingCosts = append(r.ShippingCosts, CustomerCost{Customer: c, Cost: cost})
	}

	// (e) amortised unit material cost.
	unit := make(map[table.Pair]float64, len(d.Materials)*len(d.Factories))
	for _, f := range d.Factories {
		for _, mat := range d.Materials {
			var spend, qty float64
			for _, s := range d.Suppliers {
				q := order(s, mat, f)
				spend += q * (d.MaterialCost.At(s, mat) + d.Shipping.At(s, f))
				qty += q
			}
			u, ok := lp.Ratio(spend, qty)
			unit[table.P(mat, f)] = u
			r.UnitMaterialCosts = append(r.UnitMaterialCosts, UnitMaterialCost{
				Material: mat, Factory: f, Spend: spend, Quantity: qty, UnitCost: u, Defined: ok,
			})
		}
	}

	// Material consumed per delivery.
	for _, c := range d.Customers {
		for _, p := range d.Products {
			for _, f := range d.Factories {
				units := deliver(c, p, f)
				if !lp.NonZero(units) {
					continue
				}
				for _, mat := range d.Materials {
					if req := d.Requirement.At(p, mat); req != 0 {
						r.Allocations = append(r.Allocations, Allocation{
							Customer: c, Product: p, Factory: f, Material: mat,
							Units: units, Quantity: units * req,
						})
					}
				}
			}
		}
	}

	// (f) landed unit cost.
	for _, c := range d.Customers {
		for _, p := range d.Products {
			var units, total float64
			for _, f := range d.Factories {
				q := deliver(c, p, f)
				units += q
				for _, mat := range d.Materials {
					total += q * d.Requirement.At(p, mat) * unit[table.P(mat, f)]
				}
				total += q * (d.ProductionCost.At(p, f) + d.DeliveryCost.At(f, c))
			}
			if u, ok := lp.Ratio(total, units); ok {
				r.LandedCosts = append(r.LandedCosts, LandedCost{
					Customer: c, Product: p, Units: units, Total: total, UnitCost: u,
				})
			}
		}
	}
	return r
}
