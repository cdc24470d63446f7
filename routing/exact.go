package routing

import (
	"fmt"
	"math"
)

// ExactTour solves the instance exactly with Held–Karp dynamic programming and
// returns the tour rotated to start at anchor.
//
// dp[mask][j] is the cheapest path that leaves the anchor, visits exactly the
// towns in mask and ends at j; the tour closes by returning from the best j.
// Ties keep the first predecessor in town order.
//
// Errors: ErrUnknownTown, ErrTooManyTowns (N > MaxExactTowns).
//
// Complexity: O(N²·2^N) time, O(N·2^N) memory.
func ExactTour(d *Data, anchor string) (*Route, error) {
	n := len(d.Towns)
	if n > MaxExactTowns {
		return nil, fmt.Errorf("routing: ExactTour: %d towns > %d: %w", n, MaxExactTowns, ErrTooManyTowns)
	}
	a := d.index(anchor)
	if a < 0 {
		return nil, fmt.Errorf("routing: ExactTour: anchor %q: %w", anchor, ErrUnknownTown)
	}

	// Index 0 is the anchor; the other towns keep their sorted order.
	order := make([]string, 0, n)
	order = append(order, anchor)
	for _, t := range d.Towns {
		if t != anchor {
			order = append(order, t)
		}
	}
	dist := make([][]float64, n)
	for i := range order {
		dist[i] = make([]float64, n)
		for j := range order {
			if i != j {
				dist[i][j] = d.Dist(order[i], order[j])
			}
		}
	}

	full := 1<<n - 1
	dp := make([][]float64, 1<<n)
	parent := make([][]int, 1<<n)
	for mask := range dp {
		dp[mask] = make([]float64, n)
		parent[mask] = make([]int, n)
		for j := range dp[mask] {
			dp[mask][j] = math.Inf(1)
			parent[mask][j] = -1
		}
	}
	dp[1][0] = 0

	for mask := 1; mask <= full; mask += 2 { // odd masks contain the anchor
		for j := 1; j < n; j++ {
			if mask&(1<<j) == 0 {
				continue
			}
			prev := mask ^ (1 << j)
			for k := 0; k < n; k++ {
				if prev&(1<<k) == 0 || math.IsInf(dp[prev][k], 1) {
					continue
				}
				if c := dp[prev][k] + dist[k][j]; c < dp[mask][j] {
					dp[mask][j] = c
					parent[mask][j] = k
				}
			}
		}
	}

	best, last := math.Inf(1), -1
	for j := 1; j < n; j++ {
		if c := dp[full][j] + dist[j][0]; c < best {
			best, last = c, j
		}
	}

	idx := make([]int, n+1)
	mask, j := full, last
	for i := n - 1; i >= 1; i-- {
		idx[i] = j
		p := parent[mask][j]
		mask ^= 1 << j
		j = p
	}

	r := &Route{Towns: make([]string, n+1)}
	for i, k := range idx {
		r.Towns[i] = order[k]
	}
	for i := 0; i < n; i++ {
		from, to := r.Towns[i], r.Towns[i+1]
		dd := d.Dist(from, to)
		r.Legs = append(r.Legs, Leg{From: from, To: to, Distance: dd})
		r.Distance += dd
	}
	return r, nil
}
