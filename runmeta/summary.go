package runmeta

import (
	"math"
	"strings"

	"github.com/biolumen/qpcretl/measure"
)

// MeltSummary describes the validated melt-curve table.
type MeltSummary struct {
	NumWells         int        `json:"num_wells"`
	TemperatureRange [2]float64 `json:"temperature_range"`
	UniqueTargets    []string   `json:"unique_targets"`
}

// AmplificationSummary describes the validated amplification table.
type AmplificationSummary struct {
	NumCycles         int      `json:"num_cycles"`
	NumAmplifiedWells int      `json:"num_amplified_wells"`
	UniqueTargets     []string `json:"unique_targets"`
}

// Summary carries descriptive statistics nested under the metadata record.
type Summary struct {
	MeltCurve     MeltSummary          `json:"melt_curve"`
	Amplification AmplificationSummary `json:"amplification"`
}

// ComputeSummary derives descriptive statistics from the validated
// measurement tables without mutating them.
func ComputeSummary(melt []measure.MeltRow, amp []measure.AmplificationRow) *Summary {
	s := &Summary{
		MeltCurve:     MeltSummary{UniqueTargets: []string{}},
		Amplification: AmplificationSummary{UniqueTargets: []string{}},
	}

	meltWells := make(map[string]bool)
	meltTargets := make(map[string]bool)
	tempSeen := false
	for _, row := range melt {
		if row.Well != "" {
			meltWells[row.Well] = true
		}
		if math.IsNaN(row.Temperature) {
			continue
		}
		if !tempSeen {
			s.MeltCurve.TemperatureRange = [2]float64{row.Temperature, row.Temperature}
			tempSeen = true
		} else {
			if row.Temperature < s.MeltCurve.TemperatureRange[0] {
				s.MeltCurve.TemperatureRange[0] = row.Temperature
			}
			if row.Temperature > s.MeltCurve.TemperatureRange[1] {
				s.MeltCurve.TemperatureRange[1] = row.Temperature
			}
		}
	}
	for _, row := range melt {
		if target := targetName(row.TargetName.ValueOrZero()); target != "" && !meltTargets[target] {
			meltTargets[target] = true
			s.MeltCurve.UniqueTargets = append(s.MeltCurve.UniqueTargets, target)
		}
	}
	s.MeltCurve.NumWells = len(meltWells)

	ampWells := make(map[string]bool)
	ampTargets := make(map[string]bool)
	for _, row := range amp {
		if row.Well != "" {
			ampWells[row.Well] = true
		}
		if row.Cycle > s.Amplification.NumCycles {
			s.Amplification.NumCycles = row.Cycle
		}
		if target := targetName(row.TargetName.ValueOrZero()); target != "" && !ampTargets[target] {
			ampTargets[target] = true
			s.Amplification.UniqueTargets = append(s.Amplification.UniqueTargets, target)
		}
	}
	s.Amplification.NumAmplifiedWells = len(ampWells)

	return s
}

func targetName(raw string) string {
	return strings.TrimSpace(raw)
}
