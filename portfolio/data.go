package portfolio

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvplan/table"
	"gonum.org/v1/gonum/stat"
)

// Data is the converted price history and derived returns of one currency.
type Data struct {
	Currency   Currency
	Timestamps []string // sorted
	Stocks     []string // USD stocks then EUR stocks, each sorted
	Prices     *table.Table
	Returns    *table.Table // (timestamp, stock) for Timestamps[1:]
	Average    map[string]float64
}

// Load reads the USD, EUR and Currency sheets and derives Data in cur.
func Load(src table.Source, cur Currency) (*Data, error) {
	ts, err := table.LoadAll(src, table.FloatRaw, SheetUSD, SheetEUR, SheetCurrency)
	if err != nil {
		return nil, fmt.Errorf("portfolio: Load: %w", err)
	}
	return NewData(ts[SheetUSD], ts[SheetEUR], ts[SheetCurrency], cur)
}

// NewData converts the foreign series into cur and computes returns and averages.
// Timestamps are the row labels of the USD sheet.
//
// Errors: ErrUnknownCurrency, ErrTooFewPeriods, ErrDuplicateStock, ErrMissingRate, ErrBadPrice.
func NewData(usd, eur, fx *table.Table, cur Currency) (*Data, error) {
	if cur != USD && cur != EUR {
		return nil, fmt.Errorf("portfolio: %q: %w", cur, ErrUnknownCurrency)
	}
	d := &Data{
		Currency:   cur,
		Timestamps: table.RowLabels(usd),
		Prices:     table.New("prices " + string(cur)),
		Returns:    table.New("returns " + string(cur)),
		Average:    make(map[string]float64),
	}
	if len(d.Timestamps) < 2 {
		return nil, ErrTooFewPeriods
	}

	usdStocks, eurStocks := table.ColLabels(usd), table.ColLabels(eur)
	inUSD := make(map[string]bool, len(usdStocks))
	for _, s := range usdStocks {
		inUSD[s] = true
	}
	for _, s := range eurStocks {
		if inUSD[s] {
			return nil, fmt.Errorf("portfolio: %s: %w", s, ErrDuplicateStock)
		}
	}
	d.Stocks = append(append(d.Stocks, usdStocks...), eurStocks...)

	convert := func(src *table.Table, foreign bool) error {
		for _, k := range src.Keys() {
			v, _ := src.Get(k)
			if foreign {
				rate, ok := fx.Get(table.P(k.A, ColumnEURUSD))
				if !ok || rate <= 0 {
					return fmt.Errorf("portfolio: %s: %w", k.A, ErrMissingRate)
				}
				if cur == USD {
					v *= rate
				} else {
					v /= rate
				}
			}
			d.Prices.Set(k, v)
		}
		return nil
	}
	if err := convert(usd, cur == EUR); err != nil {
		return nil, err
	}
	if err := convert(eur, cur == USD); err != nil {
		return nil, err
	}

	series := make([]float64, 0, len(d.Timestamps)-1)
	for _, s := range d.Stocks {
		series = series[:0]
		for i := 1; i < len(d.Timestamps); i++ {
			prev, ok1 := d.Prices.Get(table.P(d.Timestamps[i-1], s))
			now, ok2 := d.Prices.Get(table.P(d.Timestamps[i], s))
			if !ok1 || !ok2 || prev <= 0 || math.IsNaN(now) {
				return nil, fmt.Errorf("portfolio: %s at %s: %w", s, d.Timestamps[i], ErrBadPrice)
			}
			r := now / prev
			d.Returns.Set(table.P(d.Timestamps[i], s), r)
			series = append(series, r)
		}
		d.Average[s] = stat.Mean(series, nil)
	}
	return d, nil
}

// Return is r[t, s]; 0 for the first timestamp.
func (d *Data) Return(t, s string) float64 { return d.Returns.At(t, s) }

// periods returns Timestamps[1:], the timestamps that carry returns.
func (d *Data) periods() []string { return d.Timestamps[1:] }
