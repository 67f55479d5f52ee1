// Package workbook reads instrument-export spreadsheets and exposes their
// sheets as tables with named columns.
package workbook

import (
	"errors"
	"fmt"
	"os"

	"github.com/carbocation/pfx"
	"github.com/extrame/xls"
)

// ErrSheetNotFound is returned by ParseSheet when the workbook has no sheet
// with the requested name.
var ErrSheetNotFound = errors.New("sheet not found")

// Workbook is an open instrument-export file.
type Workbook struct {
	wb *xls.WorkBook
}

// Open opens the workbook at path. A missing file yields an error that
// satisfies errors.Is(err, fs.ErrNotExist).
func Open(path string) (*Workbook, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, pfx.Err(err)
	}

	return &Workbook{wb: wb}, nil
}

// SheetNames lists the workbook's sheet names in file order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, 0, w.wb.NumSheets())
	for i := 0; i < w.wb.NumSheets(); i++ {
		if sheet := w.wb.GetSheet(i); sheet != nil {
			names = append(names, sheet.Name)
		}
	}
	return names
}

// HasSheet reports whether the workbook contains a sheet with this name.
func (w *Workbook) HasSheet(name string) bool {
	for _, sheetName := range w.SheetNames() {
		if sheetName == name {
			return true
		}
	}
	return false
}

// ParseSheet extracts the named sheet as a Table, treating the row at index
// skipRows as the header row.
func (w *Workbook) ParseSheet(name string, skipRows int) (Table, error) {
	var sheet *xls.WorkSheet
	for i := 0; i < w.wb.NumSheets(); i++ {
		if s := w.wb.GetSheet(i); s != nil && s.Name == name {
			sheet = s
			break
		}
	}
	if sheet == nil {
		return Table{}, fmt.Errorf("%q: %w", name, ErrSheetNotFound)
	}

	raw := make([][]string, 0, int(sheet.MaxRow)+1)
	for rowID := 0; rowID <= int(sheet.MaxRow); rowID++ {
		row := sheet.Row(rowID)
		if row == nil {
			raw = append(raw, nil)
			continue
		}

		cells := make([]string, 0, row.LastCol()+1)
		for colID := 0; colID <= row.LastCol(); colID++ {
			cells = append(cells, row.Col(colID))
		}
		raw = append(raw, cells)
	}

	return NewTable(raw, skipRows), nil
}
