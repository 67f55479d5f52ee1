package etl

import (
	"encoding/csv"
	"os"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"

	"github.com/biolumen/qpcretl/workbook"
)

// writeCSVRows persists a slice of tagged measurement rows.
func writeCSVRows(path string, rows interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(rows, f); err != nil {
		return pfx.Err(err)
	}
	return pfx.Err(f.Close())
}

// writeTable persists a raw table, padding short rows to the header width.
func writeTable(path string, t workbook.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return pfx.Err(err)
	}
	for _, row := range t.Rows {
		record := make([]string, len(t.Columns))
		copy(record, row)
		if err := w.Write(record); err != nil {
			return pfx.Err(err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return pfx.Err(err)
	}
	return pfx.Err(f.Close())
}
