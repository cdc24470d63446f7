package supplychain

import (
	"context"
	"fmt"

	"github.com/katalvlaran/lvplan/lp"
	"github.com/katalvlaran/lvplan/table"
)

// Run loads src, builds and solves the model with eng, and reports the optimum.
// A non-optimal solve returns an error wrapping lp.ErrNotOptimal and no report.
func Run(ctx context.Context, src table.Source, eng lp.Engine, opts Options) (*Report, error) {
	d, err := Load(src)
	if err != nil {
		return nil, err
	}
	return Solve(ctx, d, eng, opts)
}

// Solve is Run on already loaded data.
func Solve(ctx context.Context, d *Data, eng lp.Engine, opts Options) (*Report, error) {
	m, v, err := Build(d, opts)
	if err != nil {
		return nil, err
	}
	sol, err := m.Solve(ctx, eng)
	if err != nil {
		return nil, fmt.Errorf("supplychain: %w", err)
	}
	if err := sol.Err(); err != nil {
		return nil, fmt.Errorf("supplychain: %w", err)
	}
	return NewReport(d, v, sol, sol.Objective()), nil
}
