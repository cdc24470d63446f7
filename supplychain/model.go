package supplychain

import (
	"fmt"

	"github.com/katalvlaran/lvplan/lp"
	"github.com/katalvlaran/lvplan/table"
)

// Build creates the variables, the five constraint groups and the cost objective.
// Variables are created in sorted entity order, so the same data always yields
// the same column order.
func Build(d *Data, opts Options) (*lp.Model, *Vars, error) {
	if d == nil {
		return nil, nil, ErrNilData
	}
	m := lp.NewModel(opts.Name)
	m.SetRelaxed(opts.Relaxed)

	var (
		v   Vars
		err error
	)
	if v.Order, err = lp.NewVars(m, "order", table.Triples(d.Suppliers, d.Materials, d.Factories), lp.NonNegInteger); err != nil {
		return nil, nil, fmt.Errorf("supplychain: Build: %w", err)
	}
	if v.Produce, err = lp.NewVars(m, "produce", table.Pairs(d.Products, d.Factories), lp.NonNegInteger); err != nil {
		return nil, nil, fmt.Errorf("supplychain: Build: %w", err)
	}
	if v.Deliver, err = lp.NewVars(m, "deliver", table.Triples(d.Customers, d.Products, d.Factories), lp.NonNegInteger); err != nil {
		return nil, nil, fmt.Errorf("supplychain: Build: %w", err)
	}

	if err := addConstraints(m, d, &v); err != nil {
		return nil, nil, fmt.Errorf("supplychain: Build: %w", err)
	}
	m.SetObjective(objective(d, &v), lp.Minimize)
	return m, &v, nil
}

func addConstraints(m *lp.Model, d *Data, v *Vars) error {
	// 1) Production covers deliveries; 5) production within capacity.
	for _, p := range d.Products {
		for _, f := range d.Factories {
			made := v.Produce.At(table.P(p, f))
			e := lp.NewExpr().Add(made, 1)
			for _, c := range d.Customers {
				e.Add(v.Deliver.At(table.T(c, p, f)), -1)
			}
			if err := m.AddConstraint(fmt.Sprintf("cover[%s,%s]", p, f), e, lp.GE, 0); err != nil {
				return err
			}
			if err := m.AddConstraint(fmt.Sprintf("capacity[%s,%s]", p, f), lp.Sum(made), lp.LE, d.Capacity.At(p, f)); err != nil {
				return err
			}
		}
	}

	// 2) Demand is met.
	for _, c := range d.Customers {
		for _, p := range d.Products {
			e := lp.NewExpr()
			for _, f := range d.Factories {
				e.Add(v.Deliver.At(table.T(c, p, f)), 1)
			}
			if err := m.AddConstraint(fmt.Sprintf("demand[%s,%s]", c, p), e, lp.GE, d.Demand.At(p, c)); err != nil {
				return err
			}
		}
	}

	// 3) Orders within stock.
	for _, s := range d.Suppliers {
		for _, mat := range d.Materials {
			e := lp.NewExpr()
			for _, f := range d.Factories {
				e.Add(v.Order.At(table.T(s, mat, f)), 1)
			}
			if err := m.AddConstraint(fmt.Sprintf("stock[%s,%s]", s, mat), e, lp.LE, d.Stock.At(s, mat)); err != nil {
				return err
			}
		}
	}

	// 4) Orders cover material consumption.
	for _, mat := range d.Materials {
		for _, f := range d.Factories {
			e := lp.NewExpr()
			for _, s := range d.Suppliers {
				e.Add(v.Order.At(table.T(s, mat, f)), 1)
			}
			for _, p := range d.Products {
				e.Add(v.Produce.At(table.P(p, f)), -d.Requirement.At(p, mat))
			}
			if err := m.AddConstraint(fmt.Sprintf("material[%s,%s]", mat, f), e, lp.GE, 0); err != nil {
				return err
			}
		}
	}
	return nil
}

func objective(d *Data, v *Vars) *lp.Expr {
	e := lp.NewExpr()
	for _, k := range v.Order.Keys() {
		s, mat, f := k.A, k.B, k.C
		e.Add(v.Order.At(k), d.MaterialCost.At(s, mat)+d.Shipping.At(s, f))
	}
	for _, k := range v.Produce.Keys() {
		e.Add(v.Produce.At(k), d.ProductionCost.At(k.A, k.B))
	}
	for _, k := range v.Deliver.Keys() {
		c, f := k.A, k.C
		e.Add(v.Deliver.At(k), d.DeliveryCost.At(f, c))
	}
	return e
}
