package main

import (
	"context"
	"time"

	"github.com/katalvlaran/lvplan/internal/config"
	"github.com/katalvlaran/lvplan/lp"
	"github.com/katalvlaran/lvplan/lp/simplex"
)

func newEngine(c config.EngineConfig) (lp.Engine, error) {
	if c.Name == "highs" {
		eng, err := newHighs()
		if err != nil {
			return nil, err
		}
		return withTimeLimit(eng, c.TimeLimit), nil
	}
	return simplex.New(
		simplex.WithTimeLimit(c.TimeLimit),
		simplex.WithMaxNodes(c.MaxNodes),
		simplex.WithGap(simplex.DefaultOptions().AbsGap, c.Gap),
	), nil
}

// withTimeLimit gives every Solve of eng its own deadline.
func withTimeLimit(eng lp.Engine, d time.Duration) lp.Engine {
	if d <= 0 {
		return eng
	}
	return lp.EngineFunc(func(ctx context.Context, p *lp.Problem) (*lp.Result, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return eng.Solve(ctx, p)
	})
}
