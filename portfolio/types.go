package portfolio

import (
	"errors"
	"fmt"
	"strings"
)

// Sheet and column names read by Load.
const (
	SheetUSD      = "USD"
	SheetEUR      = "EUR"
	SheetCurrency = "Currency"
	ColumnEURUSD  = "EURUSD"
)

// Cash is the non-investing position of the max-return model.
const Cash = "Cash"

// Currency selects the reporting currency of all prices.
type Currency string

// Supported currencies.
const (
	USD Currency = "USD"
	EUR Currency = "EUR"
)

// ParseCurrency accepts "USD" or "EUR" in any case.
func ParseCurrency(s string) (Currency, error) {
	switch c := Currency(strings.ToUpper(strings.TrimSpace(s))); c {
	case USD, EUR:
		return c, nil
	default:
		return "", fmt.Errorf("portfolio: %q: %w", s, ErrUnknownCurrency)
	}
}

// Sentinel errors.
var (
	ErrUnknownCurrency = errors.New("portfolio: unknown currency")
	ErrMissingRate     = errors.New("portfolio: missing EURUSD rate")
	ErrBadPrice        = errors.New("portfolio: missing or non-positive price")
	ErrDuplicateStock  = errors.New("portfolio: stock listed in both currencies")
	ErrTooFewPeriods   = errors.New("portfolio: at least two timestamps are required")
	ErrBadOption       = errors.New("portfolio: invalid option")
)

// Options configures both models.
type Options struct {
	Currency Currency

	// MaxWeight caps every position in every period.
	MaxWeight float64

	// MinReturn is the floor on the mean monthly return ratio of the min-risk model.
	MinReturn float64
}

// DefaultOptions returns USD, a 30% cap and a 0.5% monthly return floor.
func DefaultOptions() Options {
	return Options{Currency: USD, MaxWeight: 0.3, MinReturn: 1.005}
}

func validateOptions(o Options) error {
	if o.Currency != USD && o.Currency != EUR {
		return fmt.Errorf("currency %q: %w", o.Currency, ErrUnknownCurrency)
	}
	if !(o.MaxWeight > 0 && o.MaxWeight <= 1) || o.MinReturn <= 0 {
		return ErrBadOption
	}
	return nil
}

// Period is a timestamp label used as a variable key.
type Period string

// String implements fmt.Stringer.
func (p Period) String() string { return string(p) }

// Allocation is a solved model rendered for output: one row per timestamp, one
// column per position, weights in percent rounded to two decimals.
type Allocation struct {
	Model     string   // "maxreturn" or "minrisk"
	Currency  Currency
	Positions []string
	Periods   []string    // timestamps truncated to YYYY-MM
	Percent   [][]float64 // [period][position]

	// AverageReward is the mean realised monthly return ratio.
	AverageReward float64

	// Risk is Σ dev[t] for the min-risk model, 0 otherwise.
	Risk float64
}

// Result bundles the derived inputs and both allocations of one currency.
// A model that failed leaves its allocation nil and its error set.
type Result struct {
	Currency      Currency
	Stocks        []string
	AverageReward map[string]float64
	MaxReturn     *Allocation
	MinRisk       *Allocation

	MaxReturnErr error
	MinRiskErr   error
}

// Err joins the per-model errors; nil when both models solved.
func (r *Result) Err() error {
	return errors.Join(r.MaxReturnErr, r.MinRiskErr)
}

// Allocations returns the allocations that solved, max-return first.
func (r *Result) Allocations() []*Allocation {
	var out []*Allocation
	for _, a := range []*Allocation{r.MaxReturn, r.MinRisk} {
		if a != nil {
			out = append(out, a)
		}
	}
	return out
}
