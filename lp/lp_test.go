package lp_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/katalvlaran/lvplan/lp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type town string

func (t town) String() string { return string(t) }

type route struct{ from, to town }

func (r route) String() string { return string(r.from) + "," + string(r.to) }

func TestNewVar_DuplicateAndBounds(t *testing.T) {
	m := lp.NewModel("m")
	_, err := m.NewVar("x", lp.NonNegContinuous)
	require.NoError(t, err)

	_, err = m.NewVar("x", lp.NonNegInteger)
	require.ErrorIs(t, err, lp.ErrDuplicateVar)

	_, err = m.NewVar("bad", lp.Domain{Lower: 2, Upper: 1})
	require.ErrorIs(t, err, lp.ErrInvalidBounds)

	_, err = m.NewVar("nan", lp.Domain{Lower: math.NaN(), Upper: 1})
	require.ErrorIs(t, err, lp.ErrInvalidBounds)

	assert.Equal(t, 1, m.NumVars())
}

func TestNewVar_BinaryIsClamped(t *testing.T) {
	m := lp.NewModel("m")
	b, err := m.NewVar("b", lp.Domain{Lower: -3, Upper: 9, Kind: lp.Binary})
	require.NoError(t, err)

	p, err := m.Problem()
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.Lower[b.Index()])
	assert.Equal(t, 1.0, p.Upper[b.Index()])
	assert.True(t, p.IsMIP())
}

func TestLookup(t *testing.T) {
	m := lp.NewModel("m")
	x, _ := m.NewVar("x", lp.NonNegContinuous)

	got, ok := m.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, x, got)
	assert.Equal(t, "x", got.Name())

	_, ok = m.Lookup("y")
	assert.False(t, ok)
	assert.Equal(t, "", lp.Var{}.Name())
}

func TestExpr_MergesDuplicateTerms(t *testing.T) {
	m := lp.NewModel("m")
	x, _ := m.NewVar("x", lp.NonNegContinuous)
	y, _ := m.NewVar("y", lp.NonNegContinuous)

	e := lp.NewExpr().Add(x, 2).Add(y, 1).Add(x, 3).AddConst(4)
	other := lp.Sum(x, y).AddConst(1)
	e.AddExpr(other, -1)

	terms := e.Terms()
	require.Len(t, terms, 2)
	assert.Equal(t, x, terms[0].Var)
	assert.Equal(t, 4.0, terms[0].Coef)
	assert.Equal(t, y, terms[1].Var)
	assert.Equal(t, 0.0, terms[1].Coef)
	assert.Equal(t, 3.0, e.Constant())
}

func TestAddConstraint_MovesConstantAndDropsZeros(t *testing.T) {
	m := lp.NewModel("m")
	x, _ := m.NewVar("x", lp.NonNegContinuous)
	y, _ := m.NewVar("y", lp.NonNegContinuous)

	e := lp.NewExpr().Add(x, 1).Add(y, 0).AddConst(5)
	require.NoError(t, m.AddConstraint("c", e, lp.LE, 8))

	p, err := m.Problem()
	require.NoError(t, err)
	require.Len(t, p.Rows, 1)
	assert.Equal(t, []int{x.Index()}, p.Rows[0].Cols)
	assert.Equal(t, []float64{1}, p.Rows[0].Coefs)
	assert.Equal(t, 3.0, p.Rows[0].RHS)
	assert.Equal(t, lp.LE, p.Rows[0].Rel)
}

func TestAddConstraint_Errors(t *testing.T) {
	m := lp.NewModel("m")
	other := lp.NewModel("other")
	x, _ := m.NewVar("x", lp.NonNegContinuous)
	z, _ := other.NewVar("z", lp.NonNegContinuous)

	err := m.AddConstraint("foreign", lp.Sum(x, z), lp.EQ, 1)
	require.ErrorIs(t, err, lp.ErrUnknownVar)

	err = m.AddConstraint("nan", lp.NewExpr().Add(x, math.NaN()), lp.EQ, 1)
	require.ErrorIs(t, err, lp.ErrInvalidCoefficient)

	err = m.AddConstraint("inf", lp.Sum(x), lp.GE, math.Inf(1))
	require.ErrorIs(t, err, lp.ErrInvalidCoefficient)

	m.SetObjective(lp.Sum(z), lp.Minimize)
	_, err = m.Problem()
	require.ErrorIs(t, err, lp.ErrUnknownVar)
	assert.Equal(t, 0, m.NumConstraints())
}

func TestRelaxedProblemDropsKinds(t *testing.T) {
	m := lp.NewModel("m")
	_, _ = m.NewVar("b", lp.BinaryDomain)
	_, _ = m.NewVar("n", lp.NonNegInteger)
	m.SetRelaxed(true)

	p, err := m.Problem()
	require.NoError(t, err)
	assert.False(t, p.IsMIP())
	assert.Equal(t, []lp.Kind{lp.Continuous, lp.Continuous}, p.Kinds)
}

func TestNewVars_FactoryNamesAndOrder(t *testing.T) {
	m := lp.NewModel("routing")
	keys := []route{{"Cork", "Dublin"}, {"Dublin", "Cork"}}
	vs, err := lp.NewVars(m, "succ", keys, lp.BinaryDomain)
	require.NoError(t, err)

	assert.Equal(t, 2, vs.Len())
	assert.Equal(t, "succ", vs.Prefix())
	assert.Equal(t, keys, vs.Keys())
	assert.Equal(t, "succ[Cork,Dublin]", vs.At(keys[0]).Name())

	_, ok := vs.Get(route{"Cork", "Cork"})
	assert.False(t, ok)
	assert.Panics(t, func() { vs.At(route{"Cork", "Cork"}) })

	// The same family registered twice collides on names.
	_, err = lp.NewVars(m, "succ", keys, lp.BinaryDomain)
	require.ErrorIs(t, err, lp.ErrDuplicateVar)

	// Repeated keys collide too.
	_, err = lp.NewVars(m, "visit", []town{"Cork", "Cork"}, lp.BinaryDomain)
	require.ErrorIs(t, err, lp.ErrDuplicateVar)
}

func TestTolerance(t *testing.T) {
	assert.True(t, lp.Selected(0.9999997))
	assert.False(t, lp.Selected(3e-9))
	assert.False(t, lp.Selected(0.5))

	assert.False(t, lp.NonZero(5e-7))
	assert.True(t, lp.NonZero(-2e-6))

	assert.True(t, lp.IsIntegral(2.0000004))
	assert.False(t, lp.IsIntegral(2.01))

	r, ok := lp.Ratio(300, 100)
	require.True(t, ok)
	assert.Equal(t, 3.0, r)

	r, ok = lp.Ratio(300, 1e-9)
	assert.False(t, ok)
	assert.Equal(t, 0.0, r)
}

func TestSolveThroughEngineFunc(t *testing.T) {
	m := lp.NewModel("fake")
	x, _ := m.NewVar("x", lp.NonNegContinuous)
	y, _ := m.NewVar("y", lp.NonNegContinuous)
	m.SetObjective(lp.NewExpr().Add(x, 2).Add(y, 1).AddConst(1), lp.Maximize)

	var seen *lp.Problem
	eng := lp.EngineFunc(func(_ context.Context, p *lp.Problem) (*lp.Result, error) {
		seen = p
		return &lp.Result{Status: lp.StatusOptimal, Values: []float64{3, 4}, Objective: 11}, nil
	})

	sol, err := m.Solve(context.Background(), eng)
	require.NoError(t, err)
	require.NoError(t, sol.Err())
	assert.Equal(t, []float64{2, 1}, seen.Objective)
	assert.Equal(t, 1.0, seen.Offset)
	assert.Equal(t, lp.Maximize, seen.Sense)
	assert.Equal(t, []string{"x", "y"}, seen.Names)

	assert.Equal(t, 3.0, sol.Value(x))
	assert.Equal(t, 11.0, lp.NewExpr().Add(x, 2).Add(y, 1).AddConst(1).Eval(sol))

	foreign, _ := lp.NewModel("other").NewVar("x", lp.NonNegContinuous)
	assert.Equal(t, 0.0, sol.Value(foreign))
}

func TestSolutionErr(t *testing.T) {
	m := lp.NewModel("m")
	status := lp.StatusInfeasible
	eng := lp.EngineFunc(func(context.Context, *lp.Problem) (*lp.Result, error) {
		return &lp.Result{Status: status}, nil
	})

	sol, err := m.Solve(context.Background(), eng)
	require.NoError(t, err)
	require.ErrorIs(t, sol.Err(), lp.ErrNotOptimal)
	assert.NotErrorIs(t, sol.Err(), lp.ErrTimeLimit)
	assert.Contains(t, sol.Err().Error(), "INFEASIBLE")

	status = lp.StatusTimeLimit
	sol, err = m.Solve(context.Background(), eng)
	require.NoError(t, err)
	require.ErrorIs(t, sol.Err(), lp.ErrNotOptimal)
	require.ErrorIs(t, sol.Err(), lp.ErrTimeLimit)

	_, err = m.Solve(context.Background(), nil)
	require.ErrorIs(t, err, lp.ErrNilEngine)

	boom := errors.New("boom")
	_, err = m.Solve(context.Background(), lp.EngineFunc(func(context.Context, *lp.Problem) (*lp.Result, error) {
		return nil, boom
	}))
	require.ErrorIs(t, err, boom)
}

func TestStringers(t *testing.T) {
	assert.Equal(t, "binary", lp.Binary.String())
	assert.Equal(t, ">=", lp.GE.String())
	assert.Equal(t, "OPTIMAL", lp.StatusOptimal.String())
	assert.Equal(t, "OTHER", lp.Status(42).String())
}
