package measure

import (
	"fmt"
	"log"
	"strings"

	"github.com/biolumen/qpcretl/workbook"
)

// Expected column sets for the measurement sheets.
var (
	MeltColumns = []string{
		"Well", "Well Position", "Reading", "Temperature",
		"Fluorescence", "Derivative", "Target Name",
	}
	AmplificationColumns = []string{
		"Well", "Well Position", "Cycle", "Target Name", "Rn", "Delta Rn",
	}
)

// SchemaValidationError reports every expected column missing from a sheet.
type SchemaValidationError struct {
	Sheet   string
	Missing []string
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("missing expected columns in %s: [%s]", e.Sheet, strings.Join(e.Missing, ", "))
}

// RequireColumns fails with a SchemaValidationError listing every expected
// column the table lacks.
func RequireColumns(t workbook.Table, sheet string, expected []string) error {
	var missing []string
	for _, col := range expected {
		if _, ok := t.ColIndex(col); !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &SchemaValidationError{Sheet: sheet, Missing: missing}
	}
	return nil
}

// ValidateMelt checks the melt-curve sheet for its expected columns and
// converts it to typed rows. No row-level cleanup is applied: every row of
// the raw table survives.
func ValidateMelt(t workbook.Table) ([]MeltRow, error) {
	if err := RequireColumns(t, "Melt Curve Raw Data", MeltColumns); err != nil {
		return nil, err
	}

	col := func(name string) int {
		i, _ := t.ColIndex(name)
		return i
	}
	well, pos, reading := col("Well"), col("Well Position"), col("Reading")
	temp, fluo, deriv, target := col("Temperature"), col("Fluorescence"), col("Derivative"), col("Target Name")

	rows := make([]MeltRow, 0, len(t.Rows))
	for i := range t.Rows {
		rows = append(rows, MeltRow{
			Well:         strings.TrimSpace(t.Cell(i, well)),
			WellPosition: strings.TrimSpace(t.Cell(i, pos)),
			Reading:      parseInt(t.Cell(i, reading)),
			Temperature:  parseFloat(t.Cell(i, temp)),
			Fluorescence: parseFloat(t.Cell(i, fluo)),
			Derivative:   parseFloat(t.Cell(i, deriv)),
			TargetName:   parseTarget(t.Cell(i, target)),
		})
	}
	return rows, nil
}

// ValidateAmplification checks the amplification sheet for its expected
// columns, then drops rows missing a Well, Rn, or Delta Rn value. The
// dropped count is returned so the cleanup is observable.
func ValidateAmplification(t workbook.Table) ([]AmplificationRow, int, error) {
	if err := RequireColumns(t, "Amplification Data", AmplificationColumns); err != nil {
		return nil, 0, err
	}

	col := func(name string) int {
		i, _ := t.ColIndex(name)
		return i
	}
	well, pos, cycle := col("Well"), col("Well Position"), col("Cycle")
	target, rn, deltaRn := col("Target Name"), col("Rn"), col("Delta Rn")

	rows := make([]AmplificationRow, 0, len(t.Rows))
	dropped := 0
	for i := range t.Rows {
		if strings.TrimSpace(t.Cell(i, well)) == "" ||
			strings.TrimSpace(t.Cell(i, rn)) == "" ||
			strings.TrimSpace(t.Cell(i, deltaRn)) == "" {
			dropped++
			continue
		}

		rows = append(rows, AmplificationRow{
			Well:         strings.TrimSpace(t.Cell(i, well)),
			WellPosition: strings.TrimSpace(t.Cell(i, pos)),
			Cycle:        parseInt(t.Cell(i, cycle)),
			TargetName:   parseTarget(t.Cell(i, target)),
			Rn:           parseFloat(t.Cell(i, rn)),
			DeltaRn:      parseFloat(t.Cell(i, deltaRn)),
		})
	}

	if dropped > 0 {
		log.Printf("[WARN] Dropped %d amplification rows with missing Well, Rn, or Delta Rn", dropped)
	}
	return rows, dropped, nil
}

// ValidateResults removes fully empty rows from the results table. The
// caller is responsible for parsing the sheet at the export's header offset.
func ValidateResults(t workbook.Table) workbook.Table {
	return t.DropEmptyRows()
}
