package table_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/lvplan/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func stockSheet() [][]string {
	return [][]string{
		{"", "M2", "M1", "None"},
		{"S2", "5", "None", "9"},
		{"S1", "3", "4"},
		{"None", "1", "1", "1"},
	}
}

func TestLoad_IntZeroPolicy(t *testing.T) {
	src := table.Memory{"Supplier stock": stockSheet()}
	tb, err := table.Load(src, "Supplier stock", table.IntZero)
	require.NoError(t, err)

	// 2 rows × 2 labelled columns, every cell present (None -> 0).
	require.Equal(t, 4, tb.Len())
	assert.Equal(t, 5.0, tb.At("S2", "M2"))
	assert.Equal(t, 0.0, tb.At("S2", "M1"))
	assert.Equal(t, 3.0, tb.At("S1", "M2"))
	assert.Equal(t, 4.0, tb.At("S1", "M1"))

	v, ok := tb.Get(table.P("S2", "M1"))
	assert.True(t, ok)
	assert.Zero(t, v)
}

func TestLoad_FloatRawKeepsMissingAbsent(t *testing.T) {
	src := table.Memory{"USD": {
		{"", "AAPL", "MSFT"},
		{"2020-01-31", "100.5", ""},
		{"2020-02-29", "None", "170.25"},
	}}
	tb, err := table.Load(src, "USD", table.FloatRaw)
	require.NoError(t, err)
	require.Equal(t, 2, tb.Len())

	_, ok := tb.Get(table.P("2020-01-31", "MSFT"))
	assert.False(t, ok)
	assert.InDelta(t, 170.25, tb.At("2020-02-29", "MSFT"), 1e-12)
}

func TestLoad_IntCellsRejectFractions(t *testing.T) {
	src := table.Memory{"cap": {{"", "F1"}, {"P1", "12.5"}}}
	_, err := table.Load(src, "cap", table.IntZero)
	require.ErrorIs(t, err, table.ErrBadCell)

	src = table.Memory{"cap": {{"", "F1"}, {"P1", "12.0"}}}
	tb, err := table.Load(src, "cap", table.IntZero)
	require.NoError(t, err)
	assert.Equal(t, 12.0, tb.At("P1", "F1"))
}

func TestLoad_Errors(t *testing.T) {
	_, err := table.Load(table.Memory{}, "nope", table.IntZero)
	require.ErrorIs(t, err, table.ErrMissingSheet)

	_, err = table.Load(table.Memory{"empty": nil}, "empty", table.IntZero)
	require.ErrorIs(t, err, table.ErrEmptySheet)

	_, err = table.Load(table.Memory{"x": {{"", "A"}, {"r", "abc"}}}, "x", table.FloatRaw)
	require.ErrorIs(t, err, table.ErrBadCell)
}

func TestLoad_DuplicateLabels(t *testing.T) {
	rows := table.Memory{"d": {{"", "F1", "F2"}, {"P1", "1", "2"}, {" P1 ", "3", "4"}}}
	_, err := table.Load(rows, "d", table.IntZero)
	require.ErrorIs(t, err, table.ErrDuplicateLabel)
	assert.Contains(t, err.Error(), `row "P1"`)

	cols := table.Memory{"d": {{"", "F1", "F1"}, {"P1", "1", "2"}}}
	_, err = table.Load(cols, "d", table.FloatRaw)
	require.ErrorIs(t, err, table.ErrDuplicateLabel)

	// Blank labels are skipped, not duplicates.
	blank := table.Memory{"d": {{"", "F1", ""}, {"P1", "1", "9"}, {"", "5", "5"}, {"P2", "2", ""}}}
	tb, err := table.Load(blank, "d", table.FloatRaw)
	require.NoError(t, err)
	assert.Equal(t, 2.0, tb.At("P2", "F1"))
}

func TestIndexer_SortedDistinct(t *testing.T) {
	a := table.FromMap("a", map[table.Pair]float64{
		table.P("S3", "M1"): 1, table.P("S1", "M2"): 1, table.P("S2", "M1"): 1,
	})
	b := table.FromMap("b", map[table.Pair]float64{table.P("S1", "M3"): 1})

	assert.Equal(t, []string{"S1", "S2", "S3"}, table.RowLabels(a, b))
	assert.Equal(t, []string{"M1", "M2", "M3"}, table.ColLabels(a, b))
	assert.Empty(t, table.RowLabels(nil))

	require.ErrorIs(t, table.RequireEntities("factories", nil), table.ErrEmptyEntitySet)
	require.NoError(t, table.RequireEntities("factories", []string{"F1"}))
}

func TestCartesianProducts(t *testing.T) {
	ps := table.Pairs([]string{"a", "b"}, []string{"x", "y"})
	assert.Equal(t, []table.Pair{{"a", "x"}, {"a", "y"}, {"b", "x"}, {"b", "y"}}, ps)

	ts := table.Triples([]string{"a"}, []string{"b", "c"}, []string{"d"})
	assert.Equal(t, []table.Triple{{"a", "b", "d"}, {"a", "c", "d"}}, ts)
	assert.Equal(t, "a,c,d", ts[1].String())
	assert.True(t, ts[0].Less(ts[1]))
}

func TestKeysDeterministic(t *testing.T) {
	tb := table.New("t")
	tb.Set(table.P("b", "1"), 2)
	tb.Set(table.P("a", "2"), 1)
	tb.Set(table.P("a", "1"), 3)
	assert.Equal(t, []table.Pair{{"a", "1"}, {"a", "2"}, {"b", "1"}}, tb.Keys())
}

func TestCSVDir(t *testing.T) {
	dir := t.TempDir()
	body := ",F1,F2\nS1,3,None\nS2,,7\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Raw material shipping.csv"), []byte(body), 0o600))

	tb, err := table.Load(table.CSVDir{Dir: dir}, "Raw material shipping", table.IntZero)
	require.NoError(t, err)
	assert.Equal(t, 4, tb.Len())
	assert.Equal(t, 7.0, tb.At("S2", "F2"))

	_, err = table.Load(table.CSVDir{Dir: dir}, "Distances", table.IntZero)
	require.ErrorIs(t, err, table.ErrMissingSheet)
}

func TestWorkbook(t *testing.T) {
	f := excelize.NewFile()
	_, err := f.NewSheet("Distances")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Distances", "A1", &[]interface{}{"", "Cork", "Dublin"}))
	require.NoError(t, f.SetSheetRow("Distances", "A2", &[]interface{}{"Cork", 0, 257}))
	require.NoError(t, f.SetSheetRow("Distances", "A3", &[]interface{}{"Dublin", 257, 0}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	wb, err := table.ReadWorkbook(buf)
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()

	tb, err := table.Load(wb, "Distances", table.IntZero)
	require.NoError(t, err)
	assert.Equal(t, 257.0, tb.At("Cork", "Dublin"))

	_, err = table.Load(wb, "Missing", table.IntZero)
	require.ErrorIs(t, err, table.ErrMissingSheet)
}
