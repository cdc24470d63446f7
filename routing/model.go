package routing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/katalvlaran/lvplan/lp"
	"github.com/katalvlaran/lvplan/table"
	"gonum.org/v1/gonum/stat/combin"
)

// Formulation is a routing model under construction. Lazy generation keeps
// adding rows to the same model between solves.
type Formulation struct {
	Model *lp.Model
	Legs  *lp.Vars[table.Pair] // (from, to), from ≠ to

	data *Data
	cuts map[string]struct{} // signatures of subsets already cut
}

// Build creates the leg variables, degree rows and distance objective. With
// Enumerate it also adds the full subtour family.
func Build(d *Data, strategy Strategy, maxEnumerate int) (*Formulation, error) {
	if strategy == Enumerate && len(d.Towns) > maxEnumerate {
		return nil, fmt.Errorf("routing: %d towns > %d: %w", len(d.Towns), maxEnumerate, ErrTooManyTowns)
	}

	m := lp.NewModel("routing")
	keys := make([]table.Pair, 0, len(d.Towns)*(len(d.Towns)-1))
	for _, a := range d.Towns {
		for _, b := range d.Towns {
			if a != b {
				keys = append(keys, table.P(a, b))
			}
		}
	}
	legs, err := lp.NewVars(m, "leg", keys, lp.BinaryDomain)
	if err != nil {
		return nil, fmt.Errorf("routing: Build: %w", err)
	}
	f := &Formulation{Model: m, Legs: legs, data: d, cuts: make(map[string]struct{})}

	for _, t := range d.Towns {
		out, in := lp.NewExpr(), lp.NewExpr()
		for _, u := range d.Towns {
			if u == t {
				continue
			}
			out.Add(legs.At(table.P(t, u)), 1)
			in.Add(legs.At(table.P(u, t)), 1)
		}
		if err := m.AddConstraint("out["+t+"]", out, lp.EQ, 1); err != nil {
			return nil, fmt.Errorf("routing: Build: %w", err)
		}
		if err := m.AddConstraint("in["+t+"]", in, lp.EQ, 1); err != nil {
			return nil, fmt.Errorf("routing: Build: %w", err)
		}
	}

	obj := lp.NewExpr()
	for _, k := range keys {
		obj.Add(legs.At(k), d.Dist(k.A, k.B))
	}
	m.SetObjective(obj, lp.Minimize)

	if strategy == Enumerate {
		if err := f.enumerate(); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Cuts returns the number of subtour rows added so far.
func (f *Formulation) Cuts() int { return len(f.cuts) }

// enumerate adds a subtour row for every subset of size 2..N−1.
//
// Complexity: 2^N − N − 2 rows, the k-subset row holding k(k−1) terms.
func (f *Formulation) enumerate() error {
	n := len(f.data.Towns)
	subset := make([]string, 0, n)
	for k := 2; k < n; k++ {
		for _, idx := range combin.Combinations(n, k) {
			subset = subset[:0]
			for _, i := range idx {
				subset = append(subset, f.data.Towns[i])
			}
			if _, err := f.AddSubtourCut(subset); err != nil {
				return err
			}
		}
	}
	return nil
}

// AddSubtourCut adds Σ_{a,b∈S} leg[a,b] ≤ |S|−1 for the towns in S. It reports
// false when S was already cut or has fewer than two or all N towns.
func (f *Formulation) AddSubtourCut(s []string) (bool, error) {
	if len(s) < 2 || len(s) >= len(f.data.Towns) {
		return false, nil
	}
	members := append([]string(nil), s...)
	sort.Strings(members)
	sig := strings.Join(members, ",")
	if _, dup := f.cuts[sig]; dup {
		return false, nil
	}

	e := lp.NewExpr()
	for _, a := range members {
		for _, b := range members {
			if a != b {
				e.Add(f.Legs.At(table.P(a, b)), 1)
			}
		}
	}
	if err := f.Model.AddConstraint("subtour["+sig+"]", e, lp.LE, float64(len(members)-1)); err != nil {
		return false, fmt.Errorf("routing: AddSubtourCut: %w", err)
	}
	f.cuts[sig] = struct{}{}
	return true, nil
}
