package supplychain

import (
	"bufio"
	"fmt"
	"io"
	"math"
)

// WriteText prints r as the line-oriented report. Quantities and money totals are
// rounded to integers; unit costs keep two decimals.
func WriteText(w io.Writer, r *Report) error {
	bw := bufio.NewWriter(w)
	n := func(v float64) int64 { return int64(math.Round(v)) }

	fmt.Fprintf(bw, "Overall Cost: %.2f\n\n", r.TotalCost)

	for _, o := range r.Orders {
		fmt.Fprintf(bw, "%s orders %s from %s for %d\n", o.Factory, o.Material, o.Supplier, n(o.Quantity))
	}
	fmt.Fprintln(bw)
	for _, b := range r.Bills {
		fmt.Fprintf(bw, "For %s, %s bills %d\n", b.Factory, b.Supplier, n(b.Amount))
	}
	fmt.Fprintln(bw)

	for _, fc := range r.FactoryCosts {
		for _, p := range r.Production {
			if p.Factory == fc.Factory {
				fmt.Fprintf(bw, "%s manufactured %s for %d\n", p.Factory, p.Product, n(p.Quantity))
			}
		}
		fmt.Fprintf(bw, "Overall manufacturing cost of %s is %d\n", fc.Factory, n(fc.Cost))
	}
	fmt.Fprintln(bw)

	for _, cc := range r.ShippingCosts {
		for _, d := range r.Deliveries {
			if d.Customer == cc.Customer {
				fmt.Fprintf(bw, "To %s, %d of %s are shipped from %s\n", d.Customer, n(d.Quantity), d.Product, d.Factory)
			}
		}
		fmt.Fprintf(bw, "Total Shipping Cost for %s is %d\n", cc.Customer, n(cc.Cost))
	}
	fmt.Fprintln(bw)

	for _, u := range r.UnitMaterialCosts {
		if u.Defined {
			fmt.Fprintf(bw, "Unit cost of %s at %s is %.2f\n", u.Material, u.Factory, u.UnitCost)
		}
	}
	for _, a := range r.Allocations {
		fmt.Fprintf(bw, "To %s, to deliver %d %s, %s orders %s for %d\n",
			a.Customer, n(a.Units), a.Product, a.Factory, a.Material, n(a.Quantity))
	}
	fmt.Fprintln(bw)

	for _, l := range r.LandedCosts {
		fmt.Fprintf(bw, "%s, %s: %.2f\n", l.Customer, l.Product, l.UnitCost)
	}
	return bw.Flush()
}
