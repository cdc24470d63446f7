package portfolio

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/katalvlaran/lvplan/lp"
	"github.com/katalvlaran/lvplan/table"
)

// newAllocation renders solved weights as percentages per period.
func newAllocation(model string, d *Data, positions []string, w *lp.Vars[table.Pair], vals lp.Values) *Allocation {
	a := &Allocation{
		Model:     model,
		Currency:  d.Currency,
		Positions: append([]string(nil), positions...),
		Periods:   make([]string, 0, len(d.Timestamps)),
		Percent:   make([][]float64, 0, len(d.Timestamps)),
	}
	for _, t := range d.Timestamps {
		a.Periods = append(a.Periods, yearMonth(t))
		row := make([]float64, len(positions))
		for j, p := range positions {
			row[j] = round2(vals.Value(w.At(table.P(t, p))) * 100)
		}
		a.Percent = append(a.Percent, row)
	}

	var total float64
	for _, t := range d.periods() {
		for _, s := range d.Stocks {
			total += vals.Value(w.At(table.P(t, s))) * d.Return(t, s)
		}
	}
	a.AverageReward = total / float64(len(d.Timestamps)-1)
	return a
}

// yearMonth truncates "2019-03-01 00:00:00" to "2019-03".
func yearMonth(ts string) string {
	if len(ts) > 7 {
		return ts[:7]
	}
	return ts
}

func round2(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0 // no "-0.00"
	}
	return r
}

// WriteCSV writes a header ("", positions…) followed by one row per period.
func (a *Allocation) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{""}, a.Positions...)); err != nil {
		return err
	}
	rec := make([]string, len(a.Positions)+1)
	for i, period := range a.Periods {
		rec[0] = period
		for j, v := range a.Percent[i] {
			rec[j+1] = strconv.FormatFloat(v, 'f', 2, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FileName is "<model>_<currency>.csv".
func (a *Allocation) FileName() string {
	return a.Model + "_" + string(a.Currency) + ".csv"
}
