package routing

import (
	"bufio"
	"fmt"
	"io"
)

// WriteText prints the total distance followed by one "from -> to : distance" line per leg.
func WriteText(w io.Writer, r *Result) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Overall Distance: %g\n\n", r.Route.Distance)
	for _, l := range r.Route.Legs {
		fmt.Fprintf(bw, "%s -> %s : %g\n", l.From, l.To, l.Distance)
	}
	return bw.Flush()
}
