package routing

import (
	"fmt"

	"github.com/katalvlaran/lvplan/lp"
	"github.com/katalvlaran/lvplan/table"
)

// Visitation states of the cycle walk.
const (
	white = iota // not reached
	gray         // on the current walk
	black        // belongs to a finished cycle
)

// successor returns the unique selected outgoing leg of town.
// Errors: ErrMalformedRoute for none or several.
func successor(towns []string, town string, legs *lp.Vars[table.Pair], vals lp.Values) (string, error) {
	next := ""
	for _, u := range towns {
		if u == town || !lp.Selected(vals.Value(legs.At(table.P(town, u)))) {
			continue
		}
		if next != "" {
			return "", fmt.Errorf("%s leaves to both %s and %s: %w", town, next, u, ErrMalformedRoute)
		}
		next = u
	}
	if next == "" {
		return "", fmt.Errorf("%s has no selected outgoing leg: %w", town, ErrMalformedRoute)
	}
	return next, nil
}

// Cycles decomposes the selected legs into disjoint closed cycles [t0 … t0].
// Walks start at the smallest unreached town, so each cycle begins at its own
// smallest town and cycles are ordered by it.
//
// Errors: ErrMalformedRoute when the selection is not a permutation.
//
// Complexity: O(N²) value lookups.
func Cycles(towns []string, legs *lp.Vars[table.Pair], vals lp.Values) ([][]string, error) {
	state := make(map[string]int, len(towns))
	var cycles [][]string

	for _, start := range towns {
		if state[start] != white {
			continue
		}
		path := []string{start}
		state[start] = gray
		cur := start
		for {
			next, err := successor(towns, cur, legs, vals)
			if err != nil {
				return nil, err
			}
			if state[next] == white {
				state[next] = gray
				path = append(path, next)
				cur = next
				continue
			}
			// A walk may only close on its own first town.
			if state[next] == black || next != start {
				return nil, fmt.Errorf("%s is entered twice: %w", next, ErrMalformedRoute)
			}
			break
		}
		for _, t := range path {
			state[t] = black
		}
		cycles = append(cycles, append(path, start))
	}
	return cycles, nil
}
