// Package runmeta models per-run metadata extracted from the "Sample Setup"
// sheet of an instrument export: run-level settings, sample names, replicate
// well groupings, and optional descriptive statistics.
package runmeta

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ETLVersion tags every metadata record with the pipeline version that
// produced it.
const ETLVersion = "v1.0.0"

// MetadataFileName is the per-run metadata artifact name.
const MetadataFileName = "metadata.json"

// RunMetadata is the canonical per-run metadata record.
type RunMetadata struct {
	CreatedByETLVersion       string        `json:"created_by_etl_version"`
	BlockType                 string        `json:"block_type"`
	Chemistry                 string        `json:"chemistry"`
	PassiveReference          string        `json:"passive_reference"`
	DateCreated               string        `json:"date_created"`
	ExperimentType            string        `json:"experiment_type"`
	QuantificationCycleMethod string        `json:"quantification_cycle_method"`
	SignalSmoothingOn         FlexBool      `json:"signal_smoothing_on"`
	ExperimentRunEndTime      string        `json:"experiment_run_end_time"`
	Samples                   []string      `json:"samples"`
	Replicates                *ReplicateMap `json:"replicates,omitempty"`
	Summary                   *Summary      `json:"summary,omitempty"`
}

// NewRunMetadata returns a fresh record populated with the documented
// defaults. Each call returns an independent value; callers never share
// backing storage.
func NewRunMetadata() RunMetadata {
	return RunMetadata{
		CreatedByETLVersion:       ETLVersion,
		BlockType:                 "Unknown",
		Chemistry:                 "Not specified",
		PassiveReference:          "None",
		ExperimentType:            "Unknown",
		QuantificationCycleMethod: "Standard",
		Samples:                   []string{},
	}
}

// FlexBool holds a setup-sheet flag that is usually boolean but may carry an
// arbitrary raw value. Recognized boolean text serializes as JSON
// true/false; anything else round-trips as the raw string. The zero value is
// false.
type FlexBool struct {
	Bool bool
	Raw  string
}

// FlexBoolFrom interprets a raw cell value.
func FlexBoolFrom(raw string) FlexBool {
	s := strings.TrimSpace(raw)
	if s == "" {
		return FlexBool{}
	}

	if b, err := strconv.ParseBool(strings.ToLower(s)); err == nil {
		return FlexBool{Bool: b}
	}
	switch strings.ToLower(s) {
	case "yes", "on":
		return FlexBool{Bool: true}
	case "no", "off":
		return FlexBool{Bool: false}
	}

	return FlexBool{Raw: s}
}

func (f FlexBool) MarshalJSON() ([]byte, error) {
	if f.Raw != "" {
		return json.Marshal(f.Raw)
	}
	return json.Marshal(f.Bool)
}

func (f *FlexBool) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = FlexBool{Bool: b}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = FlexBoolFrom(s)
	return nil
}
