package workbook

import "strings"

// Table is a named-column view over raw sheet cells. Cells are strings as
// read from the workbook; an empty string is a missing value.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable builds a Table from raw cell rows. The row at index skipRows is
// the header; everything above it is discarded. A skipRows at or past the
// end of the data yields an empty table.
func NewTable(raw [][]string, skipRows int) Table {
	if skipRows < 0 || skipRows >= len(raw) {
		return Table{}
	}

	header := make([]string, len(raw[skipRows]))
	for i, col := range raw[skipRows] {
		header[i] = strings.TrimSpace(col)
	}

	rows := make([][]string, 0, len(raw)-skipRows-1)
	for _, row := range raw[skipRows+1:] {
		rows = append(rows, row)
	}

	return Table{Columns: header, Rows: rows}
}

// ColIndex returns the position of the named column.
func (t Table) ColIndex(name string) (int, bool) {
	for i, col := range t.Columns {
		if col == name {
			return i, true
		}
	}
	return 0, false
}

// Cell returns the cell at (row, col), or "" when either index is out of
// range for the stored data. Short rows are treated as padded with empties.
func (t Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	if col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// Empty reports whether the table has no columns and no rows.
func (t Table) Empty() bool {
	return len(t.Columns) == 0 && len(t.Rows) == 0
}

// DropEmptyRows returns a copy of the table without rows whose every cell
// is blank.
func (t Table) DropEmptyRows() Table {
	rows := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		empty := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				empty = false
				break
			}
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return Table{Columns: t.Columns, Rows: rows}
}
