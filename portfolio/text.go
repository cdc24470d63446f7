package portfolio

import (
	"bufio"
	"fmt"
	"io"
)

// WriteText prints the average reward of every stock and of both portfolios.
func WriteText(w io.Writer, r *Result) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Portfolio (%s)\n", r.Currency)
	for _, s := range r.Stocks {
		fmt.Fprintf(bw, "The overall average monthly reward of %s is %.6f\n", s, r.AverageReward[s])
	}
	if r.MaxReturn != nil {
		fmt.Fprintf(bw, "Max-return overall average monthly reward: %.6f\n", r.MaxReturn.AverageReward)
	}
	if r.MinRisk != nil {
		fmt.Fprintf(bw, "Min-risk overall average monthly reward: %.6f (total deviation %.6f)\n",
			r.MinRisk.AverageReward, r.MinRisk.Risk)
	}
	return bw.Flush()
}
