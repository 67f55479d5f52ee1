// Package replicate combines persisted per-run measurement tables and
// averages them across the wells of each replicate group.
package replicate

import (
	"github.com/biolumen/qpcretl/measure"
)

// Data types selecting which persisted per-run table to load.
const (
	DataTypeMelt          = "melt"
	DataTypeAmplification = "amplification"
)

// Per-run artifact filenames.
const (
	MeltFileName          = "melt_curve_data.csv"
	AmplificationFileName = "amplification_data.csv"
)

// Row is a measurement row reduced to what aggregation needs: the well it
// came from, its technical-read index, and its numeric columns by name.
// Amplification rows have no read index; their Reading is always 0.
type Row struct {
	RunID        string
	WellPosition string
	Reading      int
	Values       map[string]float64
}

// FromMelt converts melt-curve rows, tagging each with the run it came from.
func FromMelt(rows []measure.MeltRow, runID string) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, Row{
			RunID:        runID,
			WellPosition: r.WellPosition,
			Reading:      r.Reading,
			Values: map[string]float64{
				"Temperature":  r.Temperature,
				"Fluorescence": r.Fluorescence,
				"Derivative":   r.Derivative,
			},
		})
	}
	return out
}

// FromAmplification converts amplification rows, tagging each with the run
// it came from.
func FromAmplification(rows []measure.AmplificationRow, runID string) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, Row{
			RunID:        runID,
			WellPosition: r.WellPosition,
			Values: map[string]float64{
				"Cycle":    float64(r.Cycle),
				"Rn":       r.Rn,
				"Delta Rn": r.DeltaRn,
			},
		})
	}
	return out
}
