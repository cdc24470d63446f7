// Package table is the Tabular Data Source and Entity Indexer of lvplan.
//
// A sheet is a rectangular grid of text cells:
//
//	          | Col-1 | Col-2 | …
//	  Row-1   |  v11  |  v12  |
//	  Row-2   |  v21  |  None |
//
// The first row holds column labels, the first cell of every later row holds a row
// label. Load turns a sheet into a sparse Table keyed by Pair{row, col}. Cells that
// are empty or the literal "None" follow a caller-declared Policy: either they take
// a default value (0 for cost/quantity tables) or they are left out of the table.
//
// Sources:
//
//	Memory   — in-memory sheets (tests, embedding)
//	CSVDir   — one "<sheet>.csv" file per sheet in a directory
//	Workbook — an .xlsx workbook, one worksheet per sheet (excelize)
//
// Entity Indexer:
//
//	RowLabels / ColLabels project the distinct first / second key elements of
//	one or more tables and return them sorted lexicographically, so variable
//	creation order is reproducible run to run. RequireEntities turns an empty
//	set into ErrEmptyEntitySet, a configuration fault that is never tolerated.
//
// Keys are value types: Pair and Triple compare by value, order lexicographically
// and print as "a,b" / "a,b,c".
package table
