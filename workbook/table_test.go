package workbook

import "testing"

func TestNewTableHeaderOffset(t *testing.T) {
	raw := [][]string{
		{"junk", "junk"},
		{"Well", "Well Position "},
		{"1", "A1"},
		{"2", "A2"},
	}

	table := NewTable(raw, 1)
	if len(table.Columns) != 2 || table.Columns[0] != "Well" || table.Columns[1] != "Well Position" {
		t.Errorf("unexpected header: %v", table.Columns)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 data rows, got %d", len(table.Rows))
	}
	if table.Cell(1, 1) != "A2" {
		t.Errorf("unexpected cell: %q", table.Cell(1, 1))
	}
}

func TestNewTableZeroOffset(t *testing.T) {
	raw := [][]string{
		{"Well", "CT"},
		{"1", "21.2"},
	}

	table := NewTable(raw, 0)
	if len(table.Columns) != 2 || table.Columns[0] != "Well" {
		t.Errorf("a zero offset must use the first row as the header: %v", table.Columns)
	}
	if len(table.Rows) != 1 || table.Cell(0, 1) != "21.2" {
		t.Errorf("rows: %v", table.Rows)
	}
}

func TestNewTableOffsetPastEnd(t *testing.T) {
	table := NewTable([][]string{{"a"}}, 5)
	if !table.Empty() {
		t.Errorf("expected empty table, got %+v", table)
	}
}

func TestColIndex(t *testing.T) {
	table := Table{Columns: []string{"Well", "Reading"}}

	if i, ok := table.ColIndex("Reading"); !ok || i != 1 {
		t.Errorf("Reading: got (%d, %v)", i, ok)
	}
	if _, ok := table.ColIndex("Missing"); ok {
		t.Error("found a column that does not exist")
	}
}

func TestCellOutOfRange(t *testing.T) {
	table := Table{Columns: []string{"a", "b"}, Rows: [][]string{{"x"}}}

	if got := table.Cell(0, 1); got != "" {
		t.Errorf("short row: got %q", got)
	}
	if got := table.Cell(3, 0); got != "" {
		t.Errorf("row out of range: got %q", got)
	}
}

func TestDropEmptyRows(t *testing.T) {
	table := Table{
		Columns: []string{"a", "b"},
		Rows: [][]string{
			{"1", "2"},
			{"", "  "},
			{"", "3"},
			{},
		},
	}

	got := table.DropEmptyRows()
	if len(got.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got.Rows))
	}
	if got.Rows[1][1] != "3" {
		t.Errorf("unexpected surviving row: %v", got.Rows[1])
	}
}
