package portfolio

import (
	"fmt"

	"github.com/katalvlaran/lvplan/lp"
	"github.com/katalvlaran/lvplan/table"
)

// MaxReturnModel is the max-return formulation.
type MaxReturnModel struct {
	Model     *lp.Model
	Positions []string
	Weight    *lp.Vars[table.Pair] // (timestamp, position)
}

// MinRiskModel is the min-MAD formulation.
type MinRiskModel struct {
	Model  *lp.Model
	Weight *lp.Vars[table.Pair] // (timestamp, stock)
	Dev    *lp.Vars[Period]     // timestamps[1:]
}

// BuildMaxReturn creates weight[t,p] for every timestamp and position in
// stocks ∪ {Cash}, the per-period budget rows and the summed-return objective.
func BuildMaxReturn(d *Data, opts Options) (*MaxReturnModel, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	positions := append(append([]string(nil), d.Stocks...), Cash)
	m := lp.NewModel("maxreturn_" + string(d.Currency))
	w, err := lp.NewVars(m, "weight", table.Pairs(d.Timestamps, positions), capped(opts))
	if err != nil {
		return nil, fmt.Errorf("portfolio: BuildMaxReturn: %w", err)
	}
	if err := addBudget(m, d.Timestamps, positions, w); err != nil {
		return nil, fmt.Errorf("portfolio: BuildMaxReturn: %w", err)
	}

	obj := lp.NewExpr()
	for _, t := range d.periods() {
		for _, s := range d.Stocks {
			obj.Add(w.At(table.P(t, s)), d.Return(t, s))
		}
	}
	m.SetObjective(obj, lp.Maximize)
	return &MaxReturnModel{Model: m, Positions: positions, Weight: w}, nil
}

// BuildMinRisk creates weight[t,s] over stocks only plus dev[t] for t ≥ t1,
// the budget rows, the return floor and the two-sided deviation rows.
func BuildMinRisk(d *Data, opts Options) (*MinRiskModel, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	m := lp.NewModel("minrisk_" + string(d.Currency))
	w, err := lp.NewVars(m, "weight", table.Pairs(d.Timestamps, d.Stocks), capped(opts))
	if err != nil {
		return nil, fmt.Errorf("portfolio: BuildMinRisk: %w", err)
	}
	periods := make([]Period, 0, len(d.Timestamps)-1)
	for _, t := range d.periods() {
		periods = append(periods, Period(t))
	}
	dev, err := lp.NewVars(m, "dev", periods, lp.NonNegContinuous)
	if err != nil {
		return nil, fmt.Errorf("portfolio: BuildMinRisk: %w", err)
	}
	if err := addBudget(m, d.Timestamps, d.Stocks, w); err != nil {
		return nil, fmt.Errorf("portfolio: BuildMinRisk: %w", err)
	}

	// Mean return over the T−1 periods ≥ MinReturn, scaled by T−1.
	floor := lp.NewExpr()
	for _, t := range d.periods() {
		for _, s := range d.Stocks {
			floor.Add(w.At(table.P(t, s)), d.Return(t, s))
		}
	}
	if err := m.AddConstraint("return_floor", floor, lp.GE, opts.MinReturn*float64(len(periods))); err != nil {
		return nil, fmt.Errorf("portfolio: BuildMinRisk: %w", err)
	}

	obj := lp.NewExpr()
	for _, p := range periods {
		t := string(p)
		deviation := lp.NewExpr()
		for _, s := range d.Stocks {
			deviation.Add(w.At(table.P(t, s)), d.Return(t, s)-d.Average[s])
		}
		lower := lp.NewExpr().AddExpr(deviation, 1).Add(dev.At(p), 1)
		upper := lp.NewExpr().AddExpr(deviation, 1).Add(dev.At(p), -1)
		if err := m.AddConstraint("dev_lo["+t+"]", lower, lp.GE, 0); err != nil {
			return nil, fmt.Errorf("portfolio: BuildMinRisk: %w", err)
		}
		if err := m.AddConstraint("dev_hi["+t+"]", upper, lp.LE, 0); err != nil {
			return nil, fmt.Errorf("portfolio: BuildMinRisk: %w", err)
		}
		obj.Add(dev.At(p), 1)
	}
	m.SetObjective(obj, lp.Minimize)
	return &MinRiskModel{Model: m, Weight: w, Dev: dev}, nil
}

func capped(opts Options) lp.Domain {
	return lp.Domain{Lower: 0, Upper: opts.MaxWeight, Kind: lp.Continuous}
}

func addBudget(m *lp.Model, timestamps, positions []string, w *lp.Vars[table.Pair]) error {
	for _, t := range timestamps {
		e := lp.NewExpr()
		for _, p := range positions {
			e.Add(w.At(table.P(t, p)), 1)
		}
		if err := m.AddConstraint("budget["+t+"]", e, lp.EQ, 1); err != nil {
			return err
		}
	}
	return nil
}
