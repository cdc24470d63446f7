package portfolio

import (
	"context"
	"fmt"

	"github.com/katalvlaran/lvplan/lp"
	"github.com/katalvlaran/lvplan/table"
)

// Run loads src in opts.Currency and solves both models. The models are
// independent: when one fails the other is still solved, res carries whatever
// solved, and the returned error is res.Err(). Input and option errors return a
// nil Result.
func Run(ctx context.Context, src table.Source, eng lp.Engine, opts Options) (*Result, error) {
	if err := validateOptions(opts); err != nil {
		return nil, fmt.Errorf("portfolio: %w", err)
	}
	d, err := Load(src, opts.Currency)
	if err != nil {
		return nil, err
	}
	res := &Result{Currency: d.Currency, Stocks: d.Stocks, AverageReward: d.Average}
	res.MaxReturn, res.MaxReturnErr = SolveMaxReturn(ctx, d, eng, opts)
	res.MinRisk, res.MinRiskErr = SolveMinRisk(ctx, d, eng, opts)
	return res, res.Err()
}

// SolveMaxReturn builds and solves the max-return model.
func SolveMaxReturn(ctx context.Context, d *Data, eng lp.Engine, opts Options) (*Allocation, error) {
	mr, err := BuildMaxReturn(d, opts)
	if err != nil {
		return nil, err
	}
	sol, err := solve(ctx, mr.Model, eng)
	if err != nil {
		return nil, err
	}
	return newAllocation("maxreturn", d, mr.Positions, mr.Weight, sol), nil
}

// SolveMinRisk builds and solves the min-risk model.
func SolveMinRisk(ctx context.Context, d *Data, eng lp.Engine, opts Options) (*Allocation, error) {
	mr, err := BuildMinRisk(d, opts)
	if err != nil {
		return nil, err
	}
	sol, err := solve(ctx, mr.Model, eng)
	if err != nil {
		return nil, err
	}
	a := newAllocation("minrisk", d, d.Stocks, mr.Weight, sol)
	a.Risk = sol.Objective()
	return a, nil
}

func solve(ctx context.Context, m *lp.Model, eng lp.Engine) (*lp.Solution, error) {
	sol, err := m.Solve(ctx, eng)
	if err != nil {
		return nil, fmt.Errorf("portfolio: %w", err)
	}
	if err := sol.Err(); err != nil {
		return nil, fmt.Errorf("portfolio: %w", err)
	}
	return sol, nil
}
