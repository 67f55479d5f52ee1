package replicate

import (
	"bytes"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/biolumen/qpcretl/runmeta"
)

func meltRow(well string, reading int, temp, fluo float64) Row {
	return Row{
		WellPosition: well,
		Reading:      reading,
		Values:       map[string]float64{"Temperature": temp, "Fluorescence": fluo},
	}
}

func TestAverageMeanAndStd(t *testing.T) {
	replicates := runmeta.NewReplicateMap()
	replicates.Add("X_1", "A1")
	replicates.Add("X_1", "B1")

	rows := []Row{
		meltRow("A1", 1, 50, 10),
		meltRow("B1", 1, 50, 12),
	}

	out, report := Average(rows, replicates, "Temperature", []string{"Fluorescence"})
	if len(report.SkippedGroups) != 0 {
		t.Errorf("skipped groups: %v", report.SkippedGroups)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out))
	}

	row := out[0]
	if row.Reading != 1 || row.ID != 50 || row.Group != "X_1" {
		t.Errorf("row identity: %+v", row)
	}
	if len(row.Stats) != 1 || row.Stats[0].Column != "Fluorescence" {
		t.Fatalf("stats: %+v", row.Stats)
	}
	if row.Stats[0].Mean != 11.0 {
		t.Errorf("mean: %v", row.Stats[0].Mean)
	}
	if math.Abs(row.Stats[0].Std-math.Sqrt2) > 1e-9 {
		t.Errorf("sample std of {10, 12} should be sqrt(2), got %v", row.Stats[0].Std)
	}
}

func TestAverageSkipsNaNValueCells(t *testing.T) {
	replicates := runmeta.NewReplicateMap()
	replicates.Add("X_1", "A1")
	replicates.Add("X_1", "B1")
	replicates.Add("X_1", "C1")

	// C1's fluorescence cell was blank in the export; the other two wells
	// still define the group's statistics at this measurement point.
	rows := []Row{
		meltRow("A1", 1, 50, 10),
		meltRow("B1", 1, 50, 12),
		meltRow("C1", 1, 50, math.NaN()),
	}

	out, _ := Average(rows, replicates, "Temperature", []string{"Fluorescence"})
	if len(out) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out))
	}
	if out[0].Stats[0].Mean != 11.0 {
		t.Errorf("mean should skip the undefined cell, got %v", out[0].Stats[0].Mean)
	}
	if math.Abs(out[0].Stats[0].Std-math.Sqrt2) > 1e-9 {
		t.Errorf("std should skip the undefined cell, got %v", out[0].Stats[0].Std)
	}
}

func TestAverageAllValuesNaN(t *testing.T) {
	replicates := runmeta.NewReplicateMap()
	replicates.Add("X_1", "A1")

	out, _ := Average([]Row{meltRow("A1", 1, 50, math.NaN())}, replicates, "Temperature", []string{"Fluorescence"})
	if len(out) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out))
	}
	if !math.IsNaN(out[0].Stats[0].Mean) || !math.IsNaN(out[0].Stats[0].Std) {
		t.Errorf("no defined values should leave the stats undefined: %+v", out[0].Stats[0])
	}
}

func TestAverageDropsNaNIDRows(t *testing.T) {
	replicates := runmeta.NewReplicateMap()
	replicates.Add("X_1", "A1")
	replicates.Add("X_1", "B1")

	rows := []Row{
		meltRow("A1", 1, 50, 10),
		meltRow("B1", 1, 50, 12),
		meltRow("A1", 1, math.NaN(), 99),
	}

	out, _ := Average(rows, replicates, "Temperature", []string{"Fluorescence"})
	if len(out) != 1 {
		t.Fatalf("rows without a defined id value must join no partition, got %d rows", len(out))
	}
	if out[0].ID != 50 || out[0].Stats[0].Mean != 11.0 {
		t.Errorf("surviving partition: %+v", out[0])
	}
}

func TestAverageSingleWellGroupHasNaNStd(t *testing.T) {
	replicates := runmeta.NewReplicateMap()
	replicates.Add("X_1", "A1")

	out, _ := Average([]Row{meltRow("A1", 1, 50, 10)}, replicates, "Temperature", []string{"Fluorescence"})
	if len(out) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out))
	}
	if out[0].Stats[0].Mean != 10 {
		t.Errorf("mean: %v", out[0].Stats[0].Mean)
	}
	if !math.IsNaN(out[0].Stats[0].Std) {
		t.Errorf("single-well std should be NaN, got %v", out[0].Stats[0].Std)
	}
}

func TestAverageSkipsEmptyGroups(t *testing.T) {
	replicates := runmeta.NewReplicateMap()
	replicates.Add("X_1", "A1")
	replicates.Add("Y_9", "H9")

	out, report := Average([]Row{meltRow("A1", 1, 50, 10)}, replicates, "Temperature", []string{"Fluorescence"})
	if len(out) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out))
	}
	if !reflect.DeepEqual(report.SkippedGroups, []string{"Y_9"}) {
		t.Errorf("skipped groups: %v", report.SkippedGroups)
	}
}

func TestAverageNoMatchesAtAll(t *testing.T) {
	replicates := runmeta.NewReplicateMap()
	replicates.Add("X_1", "A1")

	out, report := Average(nil, replicates, "Temperature", []string{"Fluorescence"})
	if len(out) != 0 {
		t.Errorf("expected empty output, got %v", out)
	}
	if len(report.SkippedGroups) != 1 {
		t.Errorf("skipped groups: %v", report.SkippedGroups)
	}
}

func TestAverageGroupAndPartitionOrder(t *testing.T) {
	replicates := runmeta.NewReplicateMap()
	replicates.Add("X_2", "A2")
	replicates.Add("X_1", "A1")

	rows := []Row{
		meltRow("A1", 2, 60, 1),
		meltRow("A1", 1, 70, 2),
		meltRow("A1", 1, 60, 3),
		meltRow("A2", 1, 60, 4),
	}

	out, _ := Average(rows, replicates, "Temperature", []string{"Fluorescence"})

	type point struct {
		group   string
		reading int
		id      float64
	}
	var got []point
	for _, row := range out {
		got = append(got, point{row.Group, row.Reading, row.ID})
	}

	// Groups follow replicate-map insertion order; partitions within a
	// group are sorted by (Reading, id).
	want := []point{
		{"X_2", 1, 60},
		{"X_1", 1, 60},
		{"X_1", 1, 70},
		{"X_1", 2, 60},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order:\n got %v\nwant %v", got, want)
	}
}

func TestAverageMultipleValueColumns(t *testing.T) {
	replicates := runmeta.NewReplicateMap()
	replicates.Add("X_1", "A1")
	replicates.Add("X_1", "B1")

	rows := []Row{
		{WellPosition: "A1", Reading: 1, Values: map[string]float64{"Temperature": 50, "Fluorescence": 10, "Derivative": 1}},
		{WellPosition: "B1", Reading: 1, Values: map[string]float64{"Temperature": 50, "Fluorescence": 12, "Derivative": 3}},
	}

	out, _ := Average(rows, replicates, "Temperature", []string{"Fluorescence", "Derivative"})
	if len(out) != 1 || len(out[0].Stats) != 2 {
		t.Fatalf("out: %+v", out)
	}
	if out[0].Stats[1].Column != "Derivative" || out[0].Stats[1].Mean != 2 {
		t.Errorf("derivative stats: %+v", out[0].Stats[1])
	}
}

func TestWriteCSV(t *testing.T) {
	rows := []AggregatedRow{
		{
			Reading: 1,
			ID:      50,
			Group:   "X_1",
			Stats:   []ColumnStat{{Column: "Fluorescence", Mean: 11, Std: math.NaN()}},
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows, "Temperature", []string{"Fluorescence"}); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "Reading,Temperature,Fluorescence_mean,Fluorescence_std,Replicate Group" {
		t.Errorf("header: %q", lines[0])
	}
	if lines[1] != "1,50,11,,X_1" {
		t.Errorf("row: %q", lines[1])
	}
}

func TestWriteCSVWithRunDate(t *testing.T) {
	rows := []AggregatedRow{
		{
			RunDate: "2024-05-13",
			Reading: 1,
			ID:      3,
			Group:   "X_1",
			Stats:   []ColumnStat{{Column: "Delta Rn", Mean: 0.5, Std: 0.25}},
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows, "Cycle", []string{"Delta Rn"}); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "Run Date,Reading,Cycle,Delta Rn_mean,Delta Rn_std,Replicate Group" {
		t.Errorf("header: %q", lines[0])
	}
	if lines[1] != "2024-05-13,1,3,0.5,0.25,X_1" {
		t.Errorf("row: %q", lines[1])
	}
}
