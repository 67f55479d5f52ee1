package runmeta

import (
	"log"
	"strings"

	"github.com/biolumen/qpcretl/workbook"
)

// Extract converts the "Sample Setup" sheet into a RunMetadata record. It is
// total: every failure while resolving an individual field is reported as a
// [WARN] and the documented default stands, so the caller always receives a
// complete record.
//
// The export places "Block Type" in the sheet's first header cell and the
// block value in the second, so the block type is read from the header row
// rather than the key/value body.
func Extract(setup workbook.Table) RunMetadata {
	md := NewRunMetadata()

	if len(setup.Columns) > 1 && strings.TrimSpace(setup.Columns[1]) != "" {
		md.BlockType = strings.TrimSpace(setup.Columns[1])
	}

	// Key/value lookup over the first two columns. Last occurrence wins
	// when a key repeats.
	kv := make(map[string]string, len(setup.Rows))
	for i := range setup.Rows {
		key := strings.TrimSpace(setup.Cell(i, 0))
		if key == "" {
			continue
		}
		kv[key] = setup.Cell(i, 1)
	}

	lookup := func(key string, fallback string) string {
		if v, ok := kv[key]; ok && strings.TrimSpace(v) != "" {
			return v
		}
		return fallback
	}

	md.Chemistry = lookup("Chemistry", md.Chemistry)
	md.PassiveReference = lookup("Passive Reference", md.PassiveReference)
	md.ExperimentType = lookup("Experiment Type", md.ExperimentType)
	md.QuantificationCycleMethod = lookup("Quantification Cycle Method", md.QuantificationCycleMethod)
	md.SignalSmoothingOn = FlexBoolFrom(lookup("Signal Smoothing On", ""))

	if raw := lookup("Date Created", ""); raw != "" {
		canonical, err := ParseCanonical(raw)
		if err != nil {
			log.Printf("[WARN] Could not parse Date Created %q: %v", raw, err)
			md.DateCreated = CleanTimestamp(raw)
		} else {
			md.DateCreated = canonical
		}
	}

	// The run end time names the output directory, so it is never left
	// unset: an absent or unparsable value falls back to the current
	// wall-clock time.
	if raw := lookup("Experiment Run End Time", ""); raw != "" {
		canonical, err := ParseCanonical(raw)
		if err != nil {
			log.Printf("[WARN] Could not parse Experiment Run End Time %q: %v", raw, err)
			md.ExperimentRunEndTime = timeNow().Format(CanonicalTimeLayout)
		} else {
			md.ExperimentRunEndTime = canonical
		}
	} else {
		md.ExperimentRunEndTime = timeNow().Format(CanonicalTimeLayout)
	}

	return md
}
