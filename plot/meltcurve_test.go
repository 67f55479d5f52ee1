package plot

import (
	"bytes"
	"strings"
	"testing"
)

const aggregatedCSV = `Reading,Temperature,Derivative_mean,Derivative_std,Replicate Group
1,60,0.1,0.01,X_1
1,65,0.5,0.02,X_1
1,70,0.2,,X_1
1,60,0.3,0.01,X_2
1,65,0.9,0.02,X_2
1,70,0.4,0.01,X_2
`

func TestReadAggregated(t *testing.T) {
	series, err := ReadAggregated(strings.NewReader(aggregatedCSV))
	if err != nil {
		t.Fatal(err)
	}

	if len(series) != 2 {
		t.Fatalf("expected 2 series, got %d", len(series))
	}
	if series[0].Name != "X_1" || series[1].Name != "X_2" {
		t.Errorf("series order: %q, %q", series[0].Name, series[1].Name)
	}
	if len(series[0].Temperatures) != 3 || series[0].Temperatures[1] != 65 {
		t.Errorf("temperatures: %v", series[0].Temperatures)
	}
	if series[1].Values[1] != 0.9 {
		t.Errorf("values: %v", series[1].Values)
	}
}

func TestReadAggregatedMissingColumn(t *testing.T) {
	csv := "Reading,Temperature,Replicate Group\n1,60,X_1\n"
	if _, err := ReadAggregated(strings.NewReader(csv)); err == nil {
		t.Error("expected an error for missing Derivative_mean")
	}
}

func TestMeltCurveRendersPNG(t *testing.T) {
	series, err := ReadAggregated(strings.NewReader(aggregatedCSV))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := MeltCurve(series, &buf); err != nil {
		t.Fatal(err)
	}
	if buf.Len() == 0 {
		t.Fatal("no output")
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Errorf("output does not look like a PNG: % x", buf.Bytes()[:8])
	}
}

func TestMeltCurveEmptyInput(t *testing.T) {
	if err := MeltCurve(nil, &bytes.Buffer{}); err == nil {
		t.Error("expected an error for empty series")
	}
}
