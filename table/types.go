package table

import (
	"errors"
	"sort"
)

// Pair is a two-label key, e.g. (supplier, material).
type Pair struct {
	A, B string
}

// P builds a Pair.
func P(a, b string) Pair { return Pair{A: a, B: b} }

// String implements fmt.Stringer ("a,b").
func (p Pair) String() string { return p.A + "," + p.B }

// Less orders pairs lexicographically.
func (p Pair) Less(q Pair) bool {
	if p.A != q.A {
		return p.A < q.A
	}
	return p.B < q.B
}

// Swap returns (B, A).
func (p Pair) Swap() Pair { return Pair{A: p.B, B: p.A} }

// Triple is a three-label key, e.g. (supplier, material, factory).
type Triple struct {
	A, B, C string
}

// T builds a Triple.
func T(a, b, c string) Triple { return Triple{A: a, B: b, C: c} }

// String implements fmt.Stringer ("a,b,c").
func (t Triple) String() string { return t.A + "," + t.B + "," + t.C }

// Less orders triples lexicographically.
func (t Triple) Less(u Triple) bool {
	if t.A != u.A {
		return t.A < u.A
	}
	if t.B != u.B {
		return t.B < u.B
	}
	return t.C < u.C
}

// Table is a sparse mapping (row-label, column-label) → value.
// Keys are unique; insertion order is irrelevant.
type Table struct {
	name  string
	cells map[Pair]float64
}

// New returns an empty table.
func New(name string) *Table {
	return &Table{name: name, cells: make(map[Pair]float64)}
}

// FromMap builds a table from a literal map (tests, embedding).
func FromMap(name string, m map[Pair]float64) *Table {
	t := New(name)
	for k, v := range m {
		t.cells[k] = v
	}
	return t
}

// Name returns the sheet name the table was loaded from.
func (t *Table) Name() string { return t.name }

// Set stores v under k.
func (t *Table) Set(k Pair, v float64) { t.cells[k] = v }

// Get returns the value under k and whether the cell is present.
func (t *Table) Get(k Pair) (float64, bool) {
	v, ok := t.cells[k]
	return v, ok
}

// At returns the value under k, or 0 when the cell is absent.
func (t *Table) At(row, col string) float64 {
	return t.cells[Pair{A: row, B: col}]
}

// Len returns the number of present cells.
func (t *Table) Len() int { return len(t.cells) }

// Keys returns all present keys sorted lexicographically.
func (t *Table) Keys() []Pair {
	keys := make([]Pair, 0, len(t.cells))
	for k := range t.cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// Each calls fn for every present cell in key order.
func (t *Table) Each(fn func(k Pair, v float64)) {
	for _, k := range t.Keys() {
		fn(k, t.cells[k])
	}
}

// Sentinel errors.
var (
	// ErrMissingSheet is returned when a source has no sheet with the requested name.
	ErrMissingSheet = errors.New("table: sheet not found")

	// ErrEmptySheet is returned for a sheet without a header row.
	ErrEmptySheet = errors.New("table: sheet has no header row")

	// ErrBadCell is returned when a cell cannot be converted under the table's cell kind.
	ErrBadCell = errors.New("table: malformed cell")

	// ErrDuplicateLabel is returned when a sheet repeats a row or column label.
	ErrDuplicateLabel = errors.New("table: duplicate label")

	// ErrEmptyEntitySet is returned when a scenario requires a non-empty entity set.
	ErrEmptyEntitySet = errors.New("table: empty entity set")
)
