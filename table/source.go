package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// Source returns raw sheets by name. The first row of a sheet holds column labels;
// the first cell of every later row holds a row label.
type Source interface {
	Sheet(name string) ([][]string, error)
}

// Memory is an in-memory Source.
type Memory map[string][][]string

// Sheet implements Source.
func (m Memory) Sheet(name string) ([][]string, error) {
	rows, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("Memory.Sheet(%q): %w", name, ErrMissingSheet)
	}
	return rows, nil
}

// CSVDir reads "<Dir>/<sheet>.csv".
type CSVDir struct {
	Dir string
}

// Sheet implements Source.
func (d CSVDir) Sheet(name string) ([][]string, error) {
	path := filepath.Join(d.Dir, name+".csv")
	f, err := os.Open(path) // #nosec G304: sheet names come from scenario definitions
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("CSVDir.Sheet(%q): %w", name, ErrMissingSheet)
		}
		return nil, fmt.Errorf("CSVDir.Sheet(%q): %w", name, err)
	}
	defer func() { _ = f.Close() }()

	return readCSV(f, name)
}

func readCSV(r io.Reader, name string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows are padded by Load
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", name, err)
	}
	return rows, nil
}

// Workbook reads worksheets of an .xlsx file.
type Workbook struct {
	f *excelize.File
}

// OpenWorkbook opens an .xlsx file. Close it when done.
func OpenWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("OpenWorkbook(%q): %w", path, err)
	}
	return &Workbook{f: f}, nil
}

// ReadWorkbook opens an .xlsx stream.
func ReadWorkbook(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("ReadWorkbook: %w", err)
	}
	return &Workbook{f: f}, nil
}

// Sheet implements Source.
func (w *Workbook) Sheet(name string) ([][]string, error) {
	idx, err := w.f.GetSheetIndex(name)
	if err != nil || idx < 0 {
		return nil, fmt.Errorf("Workbook.Sheet(%q): %w", name, ErrMissingSheet)
	}
	rows, err := w.f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("Workbook.Sheet(%q): %w", name, err)
	}
	return rows, nil
}

// Close releases the workbook.
func (w *Workbook) Close() error { return w.f.Close() }
