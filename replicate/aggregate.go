package replicate

import (
	"encoding/csv"
	"io"
	"log"
	"math"
	"sort"
	"strconv"

	"github.com/carbocation/pfx"
	"github.com/montanaflynn/stats"

	"github.com/biolumen/qpcretl/runmeta"
)

// ColumnStat is the mean and sample standard deviation of one value column
// within one partition.
type ColumnStat struct {
	Column string
	Mean   float64
	Std    float64
}

// AggregatedRow is one averaged measurement point of one replicate group.
// RunDate is set only in per-run aggregation mode.
type AggregatedRow struct {
	RunDate string
	Reading int
	ID      float64
	Stats   []ColumnStat
	Group   string
}

// AverageReport records the groups that contributed no rows.
type AverageReport struct {
	SkippedGroups []string
}

// Average computes, for each replicate group, the mean and sample standard
// deviation of the requested value columns at every (Reading, idColumn)
// measurement point across the group's wells.
//
// Groups are processed in the replicate map's insertion order; a group whose
// wells do not appear in the input contributes zero rows and no error.
// Within a group, partitions are emitted sorted by (Reading, id value).
//
// Undefined (NaN) cells are skipped, not propagated: a row with a NaN id
// value joins no partition, and a NaN cell in a value column is left out of
// that column's mean and deviation. A partition with fewer than two defined
// values has an undefined standard deviation; with none, an undefined mean.
func Average(rows []Row, replicates *runmeta.ReplicateMap, idColumn string, valueColumns []string) ([]AggregatedRow, AverageReport) {
	var out []AggregatedRow
	var report AverageReport

	if replicates == nil {
		return nil, report
	}

	for _, group := range replicates.Keys() {
		wells := make(map[string]bool)
		for _, w := range replicates.Wells(group) {
			wells[w] = true
		}

		type partitionKey struct {
			reading int
			id      float64
		}
		partitions := make(map[partitionKey][]Row)
		var order []partitionKey

		for _, row := range rows {
			if !wells[row.WellPosition] {
				continue
			}
			// An undefined id value has no measurement point to land
			// on; such rows never form a partition.
			if math.IsNaN(row.Values[idColumn]) {
				continue
			}
			key := partitionKey{reading: row.Reading, id: row.Values[idColumn]}
			if _, ok := partitions[key]; !ok {
				order = append(order, key)
			}
			partitions[key] = append(partitions[key], row)
		}

		if len(partitions) == 0 {
			log.Printf("[WARN] Replicate group %s has no matching wells in the input; skipping", group)
			report.SkippedGroups = append(report.SkippedGroups, group)
			continue
		}

		sort.Slice(order, func(i, j int) bool {
			if order[i].reading != order[j].reading {
				return order[i].reading < order[j].reading
			}
			return order[i].id < order[j].id
		})

		for _, key := range order {
			agg := AggregatedRow{Reading: key.reading, ID: key.id, Group: group}
			for _, col := range valueColumns {
				// Undefined cells do not participate: one blank
				// well must not erase the rest of the group's
				// statistics at this measurement point.
				vals := make([]float64, 0, len(partitions[key]))
				for _, row := range partitions[key] {
					if math.IsNaN(row.Values[col]) {
						continue
					}
					vals = append(vals, row.Values[col])
				}
				agg.Stats = append(agg.Stats, ColumnStat{
					Column: col,
					Mean:   mean(vals),
					Std:    sampleStd(vals),
				})
			}
			out = append(out, agg)
		}
	}

	return out, report
}

func mean(vals []float64) float64 {
	m, err := stats.Mean(stats.Float64Data(vals))
	if err != nil {
		return math.NaN()
	}
	return m
}

// sampleStd uses the n-1 denominator; fewer than two observations have no
// defined sample deviation.
func sampleStd(vals []float64) float64 {
	if len(vals) < 2 {
		return math.NaN()
	}
	sd, err := stats.StandardDeviationSample(stats.Float64Data(vals))
	if err != nil {
		return math.NaN()
	}
	return sd
}

// WriteCSV writes aggregated rows with the documented column layout:
// Reading, the id column, {col}_mean and {col}_std for every value column,
// and Replicate Group. A "Run Date" column is prepended when any row
// carries one. NaN serializes as an empty cell.
func WriteCSV(w io.Writer, rows []AggregatedRow, idColumn string, valueColumns []string) error {
	withDate := false
	for _, row := range rows {
		if row.RunDate != "" {
			withDate = true
			break
		}
	}

	cw := csv.NewWriter(w)

	header := []string{}
	if withDate {
		header = append(header, "Run Date")
	}
	header = append(header, "Reading", idColumn)
	for _, col := range valueColumns {
		header = append(header, col+"_mean", col+"_std")
	}
	header = append(header, "Replicate Group")
	if err := cw.Write(header); err != nil {
		return pfx.Err(err)
	}

	for _, row := range rows {
		record := []string{}
		if withDate {
			record = append(record, row.RunDate)
		}
		record = append(record, strconv.Itoa(row.Reading), formatFloat(row.ID))
		for _, col := range valueColumns {
			stat, ok := findStat(row.Stats, col)
			if !ok {
				record = append(record, "", "")
				continue
			}
			record = append(record, formatFloat(stat.Mean), formatFloat(stat.Std))
		}
		record = append(record, row.Group)
		if err := cw.Write(record); err != nil {
			return pfx.Err(err)
		}
	}

	cw.Flush()
	return pfx.Err(cw.Error())
}

func findStat(columnStats []ColumnStat, col string) (ColumnStat, bool) {
	for _, s := range columnStats {
		if s.Column == col {
			return s, true
		}
	}
	return ColumnStat{}, false
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
