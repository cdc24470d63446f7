package routing

import (
	"fmt"

	"github.com/katalvlaran/lvplan/lp"
	"github.com/katalvlaran/lvplan/table"
)

// Reconstruct walks the selected legs from anchor and returns the closed tour.
// The walk takes at most N steps.
//
// Errors: ErrUnknownTown, ErrMalformedRoute.
func Reconstruct(d *Data, anchor string, legs *lp.Vars[table.Pair], vals lp.Values) (*Route, error) {
	n := len(d.Towns)
	if d.index(anchor) < 0 {
		return nil, fmt.Errorf("routing: anchor %q: %w", anchor, ErrUnknownTown)
	}

	r := &Route{Towns: make([]string, 0, n+1)}
	visited := make(map[string]bool, n)
	cur := anchor
	r.Towns = append(r.Towns, cur)
	visited[cur] = true

	for step := 1; step <= n; step++ {
		next, err := successor(d.Towns, cur, legs, vals)
		if err != nil {
			return nil, fmt.Errorf("routing: Reconstruct: %w", err)
		}
		dist := d.Dist(cur, next)
		r.Legs = append(r.Legs, Leg{From: cur, To: next, Distance: dist})
		r.Distance += dist
		r.Towns = append(r.Towns, next)

		if next == anchor {
			if step != n {
				return nil, fmt.Errorf("routing: Reconstruct: back at %s after %d of %d legs: %w", anchor, step, n, ErrMalformedRoute)
			}
			if err := ValidateTour(r.Towns, d.Towns, anchor); err != nil {
				return nil, err
			}
			return r, nil
		}
		if visited[next] {
			return nil, fmt.Errorf("routing: Reconstruct: %s revisited: %w", next, ErrMalformedRoute)
		}
		visited[next] = true
		cur = next
	}
	return nil, fmt.Errorf("routing: Reconstruct: no return to %s within %d legs: %w", anchor, n, ErrMalformedRoute)
}

// ValidateTour enforces the Hamiltonian-cycle invariants
//
//	len(tour) == N+1, tour[0] == tour[N] == anchor,
//	every town appears exactly once in tour[0:N].
//
// Complexity: O(N).
func ValidateTour(tour []string, towns []string, anchor string) error {
	n := len(towns)
	if n == 0 || len(tour) != n+1 {
		return fmt.Errorf("routing: tour of %d stops for %d towns: %w", len(tour), n, ErrMalformedRoute)
	}
	if tour[0] != anchor || tour[n] != anchor {
		return fmt.Errorf("routing: tour must start and end at %s: %w", anchor, ErrMalformedRoute)
	}
	want := make(map[string]bool, n)
	for _, t := range towns {
		want[t] = false
	}
	for _, t := range tour[:n] {
		seen, ok := want[t]
		if !ok || seen {
			return fmt.Errorf("routing: %s is unknown or repeated: %w", t, ErrMalformedRoute)
		}
		want[t] = true
	}
	return nil
}
