package portfolio_test

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"

	"github.com/katalvlaran/lvplan/lp"
	"github.com/katalvlaran/lvplan/lp/simplex"
	"github.com/katalvlaran/lvplan/portfolio"
	"github.com/katalvlaran/lvplan/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var months = []string{"2020-01-01 00:00:00", "2020-02-01 00:00:00", "2020-03-01 00:00:00"}

// dominant has AAA returning 10% in both periods while every other stock is flat.
func dominant(withEUR bool) table.Memory {
	src := table.Memory{
		portfolio.SheetUSD: {
			{"", "AAA", "BBB"},
			{months[0], "100", "50"},
			{months[1], "110", "50"},
			{months[2], "121", "50"},
		},
		portfolio.SheetEUR: {{""}},
		portfolio.SheetCurrency: {
			{"", "EURUSD"},
			{months[0], "1.25"},
			{months[1], "1.25"},
			{months[2], "1.25"},
		},
	}
	if withEUR {
		src[portfolio.SheetEUR] = [][]string{
			{"", "CCC", "DDD"},
			{months[0], "8", "20"},
			{months[1], "8", "20"},
			{months[2], "8", "20"},
		}
	}
	return src
}

// volatile has four months of moving prices and a moving exchange rate.
func volatile() table.Memory {
	ts := append(append([]string(nil), months...), "2020-04-01 00:00:00")
	return table.Memory{
		portfolio.SheetUSD: {
			{"", "AAA", "BBB"},
			{ts[0], "100", "50"},
			{ts[1], "110", "51"},
			{ts[2], "99", "52.02"},
			{ts[3], "118.8", "53.0604"},
		},
		portfolio.SheetEUR: {
			{"", "CCC", "DDD"},
			{ts[0], "10", "40"},
			{ts[1], "9", "40"},
			{ts[2], "9.9", "40"},
			{ts[3], "9.9", "40"},
		},
		portfolio.SheetCurrency: {
			{"", "EURUSD"},
			{ts[0], "1.1"},
			{ts[1], "1.2"},
			{ts[2], "1.1"},
			{ts[3], "1.0"},
		},
	}
}

func load(t *testing.T, src table.Source, cur portfolio.Currency) *portfolio.Data {
	t.Helper()
	d, err := portfolio.Load(src, cur)
	require.NoError(t, err)
	return d
}

func TestLoad_ReturnsAndAverages(t *testing.T) {
	d := load(t, dominant(true), portfolio.USD)
	assert.Equal(t, months, d.Timestamps)
	assert.Equal(t, []string{"AAA", "BBB", "CCC", "DDD"}, d.Stocks)
	assert.InDelta(t, 1.1, d.Return(months[1], "AAA"), 1e-12)
	assert.InDelta(t, 1.1, d.Return(months[2], "AAA"), 1e-12)
	assert.Equal(t, 0.0, d.Return(months[0], "AAA"))
	assert.InDelta(t, 1.1, d.Average["AAA"], 1e-12)
	assert.InDelta(t, 1.0, d.Average["CCC"], 1e-12)
}

func TestLoad_CurrencyConversion(t *testing.T) {
	usd := load(t, volatile(), portfolio.USD)
	p, _ := usd.Prices.Get(table.P(usd.Timestamps[0], "CCC"))
	assert.InDelta(t, 11.0, p, 1e-12) // 10 EUR × 1.1
	p, _ = usd.Prices.Get(table.P(usd.Timestamps[0], "AAA"))
	assert.Equal(t, 100.0, p)

	eur := load(t, volatile(), portfolio.EUR)
	p, _ = eur.Prices.Get(table.P(eur.Timestamps[1], "AAA"))
	assert.InDelta(t, 110/1.2, p, 1e-12)
	p, _ = eur.Prices.Get(table.P(eur.Timestamps[1], "CCC"))
	assert.Equal(t, 9.0, p)

	// r = (9 × 1.2) / (10 × 1.1) in USD, 9 / 10 in EUR.
	assert.InDelta(t, 10.8/11, usd.Return(usd.Timestamps[1], "CCC"), 1e-12)
	assert.InDelta(t, 0.9, eur.Return(eur.Timestamps[1], "CCC"), 1e-12)
}

func TestLoad_Errors(t *testing.T) {
	src := volatile()
	src[portfolio.SheetCurrency][2][1] = "None"
	_, err := portfolio.Load(src, portfolio.USD)
	require.ErrorIs(t, err, portfolio.ErrMissingRate)

	src = volatile()
	src[portfolio.SheetUSD][1][1] = "0"
	_, err = portfolio.Load(src, portfolio.USD)
	require.ErrorIs(t, err, portfolio.ErrBadPrice)

	src = volatile()
	src[portfolio.SheetUSD][3][2] = ""
	_, err = portfolio.Load(src, portfolio.USD)
	require.ErrorIs(t, err, portfolio.ErrBadPrice)

	src = volatile()
	src[portfolio.SheetEUR][0][1] = "AAA"
	_, err = portfolio.Load(src, portfolio.USD)
	require.ErrorIs(t, err, portfolio.ErrDuplicateStock)

	src = volatile()
	src[portfolio.SheetUSD] = src[portfolio.SheetUSD][:2]
	_, err = portfolio.Load(src, portfolio.USD)
	require.ErrorIs(t, err, portfolio.ErrTooFewPeriods)

	_, err = portfolio.Load(volatile(), "GBP")
	require.ErrorIs(t, err, portfolio.ErrUnknownCurrency)

	_, err = portfolio.ParseCurrency("gbp")
	require.ErrorIs(t, err, portfolio.ErrUnknownCurrency)
	c, err := portfolio.ParseCurrency(" eur ")
	require.NoError(t, err)
	assert.Equal(t, portfolio.EUR, c)
}

func TestMaxReturn_DominantStockTakesCap(t *testing.T) {
	d := load(t, dominant(true), portfolio.USD)
	a, err := portfolio.SolveMaxReturn(context.Background(), d, simplex.New(), portfolio.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"AAA", "BBB", "CCC", "DDD", portfolio.Cash}, a.Positions)
	assert.Equal(t, []string{"2020-01", "2020-02", "2020-03"}, a.Periods)
	for i := 1; i < len(a.Periods); i++ {
		assert.Equal(t, 30.0, a.Percent[i][0], "period %s", a.Periods[i])
		assert.Equal(t, 0.0, a.Percent[i][4], "cash earns nothing")
	}
	// 0.3 × 1.1 + 0.7 × 1 per period.
	assert.InDelta(t, 1.03, a.AverageReward, 1e-9)
}

func TestMaxReturn_TwoStocks(t *testing.T) {
	d := load(t, dominant(false), portfolio.USD)

	// Two stocks and cash cannot reach 100% at 30% each.
	_, err := portfolio.SolveMaxReturn(context.Background(), d, simplex.New(), portfolio.DefaultOptions())
	require.ErrorIs(t, err, lp.ErrNotOptimal)

	opts := portfolio.DefaultOptions()
	opts.MaxWeight = 0.5
	a, err := portfolio.SolveMaxReturn(context.Background(), d, simplex.New(), opts)
	require.NoError(t, err)
	for i := 1; i < len(a.Periods); i++ {
		assert.Equal(t, []float64{50, 50, 0}, a.Percent[i])
	}
}

func TestAllocationsRespectBudgetAndCap(t *testing.T) {
	res, err := portfolio.Run(context.Background(), volatile(), simplex.New(), portfolio.DefaultOptions())
	require.NoError(t, err)

	for _, a := range []*portfolio.Allocation{res.MaxReturn, res.MinRisk} {
		for i, row := range a.Percent {
			var sum float64
			for _, v := range row {
				sum += v
				assert.LessOrEqual(t, v, 30.0+1e-6, "%s %s", a.Model, a.Periods[i])
				assert.GreaterOrEqual(t, v, 0.0)
			}
			assert.InDelta(t, 100.0, sum, 0.05, "%s %s", a.Model, a.Periods[i])
		}
	}
	assert.NotContains(t, res.MinRisk.Positions, portfolio.Cash)
	assert.GreaterOrEqual(t, res.MinRisk.AverageReward, 1.005-1e-9)
	assert.GreaterOrEqual(t, res.MaxReturn.AverageReward, res.MinRisk.AverageReward-1e-9)
}

func TestMinRisk_DeviationBoundsAreTight(t *testing.T) {
	d := load(t, volatile(), portfolio.USD)
	mr, err := portfolio.BuildMinRisk(d, portfolio.DefaultOptions())
	require.NoError(t, err)
	sol, err := mr.Model.Solve(context.Background(), simplex.New())
	require.NoError(t, err)
	require.NoError(t, sol.Err())

	var total float64
	for _, p := range mr.Dev.Keys() {
		ts := string(p)
		var deviation, budget float64
		for _, s := range d.Stocks {
			w := sol.Value(mr.Weight.At(table.P(ts, s)))
			deviation += w * (d.Return(ts, s) - d.Average[s])
			budget += w
		}
		dev := sol.Value(mr.Dev.At(p))
		assert.LessOrEqual(t, math.Abs(deviation), dev+1e-6, "period %s", ts)
		assert.InDelta(t, math.Abs(deviation), dev, 1e-6, "period %s", ts)
		assert.InDelta(t, 1.0, budget, 1e-6)
		total += dev
	}
	assert.InDelta(t, sol.Objective(), total, 1e-9)
	assert.Equal(t, len(d.Timestamps)-1, mr.Dev.Len())
}

func TestMinRisk_InfeasibleFloor(t *testing.T) {
	opts := portfolio.DefaultOptions()
	opts.MinReturn = 1.5
	res, err := portfolio.Run(context.Background(), volatile(), simplex.New(), opts)
	require.ErrorIs(t, err, lp.ErrNotOptimal)

	require.NotNil(t, res)
	assert.Nil(t, res.MinRisk)
	require.ErrorIs(t, res.MinRiskErr, lp.ErrNotOptimal)
	require.NoError(t, res.MaxReturnErr)
	require.NotNil(t, res.MaxReturn)
	assert.Equal(t, []*portfolio.Allocation{res.MaxReturn}, res.Allocations())

	alone, err := portfolio.SolveMaxReturn(context.Background(), load(t, volatile(), portfolio.USD), simplex.New(), opts)
	require.NoError(t, err)
	assert.InDelta(t, alone.AverageReward, res.MaxReturn.AverageReward, 1e-9)

	var buf bytes.Buffer
	require.NoError(t, portfolio.WriteText(&buf, res))
	assert.Contains(t, buf.String(), "Max-return overall average monthly reward")
	assert.NotContains(t, buf.String(), "Min-risk")
}

func TestBadOptions(t *testing.T) {
	d := load(t, volatile(), portfolio.USD)
	opts := portfolio.DefaultOptions()
	opts.MaxWeight = 0
	_, err := portfolio.BuildMaxReturn(d, opts)
	require.ErrorIs(t, err, portfolio.ErrBadOption)

	opts = portfolio.DefaultOptions()
	opts.Currency = "JPY"
	_, err = portfolio.Run(context.Background(), volatile(), simplex.New(), opts)
	require.ErrorIs(t, err, portfolio.ErrUnknownCurrency)
}

func TestWriteCSV(t *testing.T) {
	d := load(t, dominant(true), portfolio.USD)
	a, err := portfolio.SolveMaxReturn(context.Background(), d, simplex.New(), portfolio.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "maxreturn_USD.csv", a.FileName())

	var buf bytes.Buffer
	require.NoError(t, a.WriteCSV(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, ",AAA,BBB,CCC,DDD,Cash", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2020-01,"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "2020-02,30.00,"), lines[2])
	assert.True(t, strings.HasSuffix(lines[3], ",0.00"), lines[3])
}

func TestWriteText(t *testing.T) {
	res, err := portfolio.Run(context.Background(), volatile(), simplex.New(), portfolio.DefaultOptions())
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, portfolio.WriteText(&buf, res))
	out := buf.String()
	assert.Contains(t, out, "Portfolio (USD)\n")
	assert.Contains(t, out, "The overall average monthly reward of BBB is 1.020000\n")
	assert.Contains(t, out, "Min-risk overall average monthly reward:")
}
