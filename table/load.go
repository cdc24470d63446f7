package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CellKind declares how cell text converts to a number.
type CellKind int

const (
	// FloatCells parse any finite decimal.
	FloatCells CellKind = iota
	// IntCells accept integral values only ("12", "12.0"); "12.5" is ErrBadCell.
	IntCells
)

// MissingPolicy declares what an empty or "None" cell becomes.
type MissingPolicy int

const (
	// MissingAbsent leaves the cell out of the table.
	MissingAbsent MissingPolicy = iota
	// MissingDefault stores Policy.Default.
	MissingDefault
)

// Policy configures Load.
type Policy struct {
	Cells   CellKind
	Missing MissingPolicy
	Default float64
}

// IntZero is the policy for integer cost/quantity sheets: missing cells are 0.
var IntZero = Policy{Cells: IntCells, Missing: MissingDefault, Default: 0}

// FloatRaw is the policy for raw float sheets: missing cells stay absent.
var FloatRaw = Policy{Cells: FloatCells, Missing: MissingAbsent}

// noneLiteral is how spreadsheet exports spell an empty cell.
const noneLiteral = "None"

func isMissing(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == noneLiteral
}

// Load reads sheet name from src into a Table under pol.
// Rows and columns with an empty or "None" label are skipped; short rows are
// treated as missing trailing cells.
//
// Errors: ErrMissingSheet, ErrEmptySheet, ErrDuplicateLabel, ErrBadCell (wrapped
// with the cell position).
func Load(src Source, name string, pol Policy) (*Table, error) {
	rows, err := src.Sheet(name)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("Load(%q): %w", name, ErrEmptySheet)
	}

	header := rows[0]
	cols := make(map[string]struct{}, len(header))
	for c := 1; c < len(header); c++ {
		if isMissing(header[c]) {
			continue
		}
		label := strings.TrimSpace(header[c])
		if _, dup := cols[label]; dup {
			return nil, fmt.Errorf("Load(%q): column %q: %w", name, label, ErrDuplicateLabel)
		}
		cols[label] = struct{}{}
	}

	t := New(name)
	seen := make(map[string]struct{}, len(rows))
	for r := 1; r < len(rows); r++ {
		row := rows[r]
		if len(row) == 0 || isMissing(row[0]) {
			continue
		}
		rowLabel := strings.TrimSpace(row[0])
		if _, dup := seen[rowLabel]; dup {
			return nil, fmt.Errorf("Load(%q): row %q: %w", name, rowLabel, ErrDuplicateLabel)
		}
		seen[rowLabel] = struct{}{}
		for c := 1; c < len(header); c++ {
			if isMissing(header[c]) {
				continue
			}
			colLabel := strings.TrimSpace(header[c])
			var cell string
			if c < len(row) {
				cell = row[c]
			}
			if isMissing(cell) {
				if pol.Missing == MissingDefault {
					t.Set(Pair{A: rowLabel, B: colLabel}, pol.Default)
				}
				continue
			}
			v, err := parseCell(cell, pol.Cells)
			if err != nil {
				return nil, fmt.Errorf("Load(%q): cell (%s, %s) %q: %w", name, rowLabel, colLabel, cell, err)
			}
			t.Set(Pair{A: rowLabel, B: colLabel}, v)
		}
	}
	return t, nil
}

func parseCell(s string, kind CellKind) (float64, error) {
	s = strings.TrimSpace(s)
	if kind == IntCells {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return float64(i), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrBadCell
	}
	if kind == IntCells && f != math.Trunc(f) {
		return 0, ErrBadCell
	}
	return f, nil
}

// LoadAll loads several sheets with one policy, keyed by sheet name.
func LoadAll(src Source, pol Policy, names ...string) (map[string]*Table, error) {
	out := make(map[string]*Table, len(names))
	for _, n := range names {
		t, err := Load(src, n, pol)
		if err != nil {
			return nil, err
		}
		out[n] = t
	}
	return out, nil
}
