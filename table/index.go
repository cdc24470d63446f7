package table

import (
	"fmt"
	"sort"
)

// RowLabels returns the sorted distinct first key elements over ts.
//
// Complexity: O(K log K) for K present cells.
func RowLabels(ts ...*Table) []string {
	return project(ts, func(k Pair) string { return k.A })
}

// ColLabels returns the sorted distinct second key elements over ts.
func ColLabels(ts ...*Table) []string {
	return project(ts, func(k Pair) string { return k.B })
}

func project(ts []*Table, axis func(Pair) string) []string {
	seen := make(map[string]struct{})
	for _, t := range ts {
		if t == nil {
			continue
		}
		for k := range t.cells {
			seen[axis(k)] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// RequireEntities returns ErrEmptyEntitySet, naming the entity, when labels is empty.
func RequireEntities(entity string, labels []string) error {
	if len(labels) == 0 {
		return fmt.Errorf("%s: %w", entity, ErrEmptyEntitySet)
	}
	return nil
}

// Pairs returns the cartesian product a×b in row-major order.
func Pairs(a, b []string) []Pair {
	out := make([]Pair, 0, len(a)*len(b))
	for _, x := range a {
		for _, y := range b {
			out = append(out, Pair{A: x, B: y})
		}
	}
	return out
}

// Triples returns the cartesian product a×b×c in row-major order.
func Triples(a, b, c []string) []Triple {
	out := make([]Triple, 0, len(a)*len(b)*len(c))
	for _, x := range a {
		for _, y := range b {
			for _, z := range c {
				out = append(out, Triple{A: x, B: y, C: z})
			}
		}
	}
	return out
}
