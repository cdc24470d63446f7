package routing

import (
	"fmt"

	"github.com/katalvlaran/lvplan/table"
)

// Data is a validated distance instance.
type Data struct {
	Towns    []string     // sorted
	Distance *table.Table // (from, to)
}

// Load reads the distance sheet from src and selects towns (empty: every row label).
func Load(src table.Source, towns []string) (*Data, error) {
	dist, err := table.Load(src, SheetDistances, table.FloatRaw)
	if err != nil {
		return nil, fmt.Errorf("routing: Load: %w", err)
	}
	return NewData(dist, towns)
}

// NewData checks that every ordered pair of distinct towns has a distance.
//
// Errors: ErrTooFewTowns, ErrUnknownTown, ErrMissingDistance.
func NewData(dist *table.Table, towns []string) (*Data, error) {
	if dist == nil {
		dist = table.New(SheetDistances)
	}
	known := table.RowLabels(dist)
	if len(towns) == 0 {
		towns = known
	}
	set := make(map[string]struct{}, len(known))
	for _, t := range known {
		set[t] = struct{}{}
	}

	selected := make(map[string]struct{}, len(towns))
	for _, t := range towns {
		if _, ok := set[t]; !ok {
			return nil, fmt.Errorf("routing: %q: %w", t, ErrUnknownTown)
		}
		selected[t] = struct{}{}
	}
	sorted := make([]string, 0, len(selected))
	for _, t := range table.RowLabels(dist) {
		if _, ok := selected[t]; ok {
			sorted = append(sorted, t)
		}
	}
	if len(sorted) < 2 {
		return nil, ErrTooFewTowns
	}

	for _, a := range sorted {
		for _, b := range sorted {
			if a == b {
				continue
			}
			if _, ok := dist.Get(table.P(a, b)); !ok {
				return nil, fmt.Errorf("routing: %s -> %s: %w", a, b, ErrMissingDistance)
			}
		}
	}
	return &Data{Towns: sorted, Distance: dist}, nil
}

// Dist returns d(a, b).
func (d *Data) Dist(a, b string) float64 { return d.Distance.At(a, b) }

func (d *Data) index(town string) int {
	for i, t := range d.Towns {
		if t == town {
			return i
		}
	}
	return -1
}
