// Package measure defines the canonical per-well measurement rows and
// validates the raw sheets they are parsed from.
package measure

import (
	"math"
	"strconv"
	"strings"

	"gopkg.in/guregu/null.v3"
)

// MeltRow is one melt-curve measurement: fluorescence and its derivative at
// one temperature step of one well.
type MeltRow struct {
	Well         string      `csv:"Well"`
	WellPosition string      `csv:"Well Position"`
	Reading      int         `csv:"Reading"`
	Temperature  float64     `csv:"Temperature"`
	Fluorescence float64     `csv:"Fluorescence"`
	Derivative   float64     `csv:"Derivative"`
	TargetName   null.String `csv:"Target Name"`
}

// AmplificationRow is one amplification measurement: normalized and
// baseline-corrected fluorescence at one cycle of one well.
type AmplificationRow struct {
	Well         string      `csv:"Well"`
	WellPosition string      `csv:"Well Position"`
	Cycle        int         `csv:"Cycle"`
	TargetName   null.String `csv:"Target Name"`
	Rn           float64     `csv:"Rn"`
	DeltaRn      float64     `csv:"Delta Rn"`
}

// parseFloat is lenient the way the export demands: blank or malformed
// numeric cells become NaN rather than an error.
func parseFloat(cell string) float64 {
	s := strings.TrimSpace(cell)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseInt tolerates blank cells and exported integers that carry a decimal
// point ("1.0").
func parseInt(cell string) int {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

func parseTarget(cell string) null.String {
	s := strings.TrimSpace(cell)
	if s == "" {
		return null.String{}
	}
	return null.StringFrom(s)
}
