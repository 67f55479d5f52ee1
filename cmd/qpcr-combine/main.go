// qpcr-combine reloads persisted per-run datasets from one or more run
// directories, averages them across the replicate groups recorded in the
// first run's metadata, and writes the combined CSV.
package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/biolumen/qpcretl/replicate"
	"github.com/biolumen/qpcretl/runmeta"
)

func main() {
	var runs string
	var dataType string
	var output string
	var valueCols string
	var perRun bool

	flag.StringVar(&runs, "runs", "", "Comma-separated run directories to combine")
	flag.StringVar(&dataType, "data-type", replicate.DataTypeMelt, "Which dataset to load: melt or amplification")
	flag.StringVar(&output, "output", "combined_output.csv", "Output CSV path")
	flag.StringVar(&valueCols, "value-columns", "", "Comma-separated value columns to average (default: Fluorescence for melt, Delta Rn for amplification)")
	flag.BoolVar(&perRun, "per-run", false, "Aggregate each run separately and prepend its run date")
	flag.Parse()

	if runs == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}
	runDirs := strings.Split(runs, ",")

	idColumn := "Temperature"
	valueColumns := []string{"Fluorescence"}
	if dataType == replicate.DataTypeAmplification {
		idColumn = "Cycle"
		valueColumns = []string{"Delta Rn"}
	}
	if valueCols != "" {
		valueColumns = strings.Split(valueCols, ",")
	}

	// Replicate groupings come from the first run's metadata; runs being
	// compared share a plate layout.
	metadata, err := runmeta.Load(runDirs[0])
	if err != nil {
		log.Fatalln("[ERROR] Could not load metadata:", err)
	}
	if metadata.Replicates == nil || metadata.Replicates.Len() == 0 {
		log.Fatalln("[ERROR] Metadata has no replicate groupings")
	}

	var aggregated []replicate.AggregatedRow
	if perRun {
		aggregated, err = aggregatePerRun(runDirs, dataType, idColumn, valueColumns, metadata)
	} else {
		aggregated, err = aggregateCombined(runDirs, dataType, idColumn, valueColumns, metadata)
	}
	if err != nil {
		log.Fatalln("[ERROR]", err)
	}

	f, err := os.Create(output)
	if err != nil {
		log.Fatalln("[ERROR] Could not create output:", err)
	}
	defer f.Close()

	if err := replicate.WriteCSV(f, aggregated, idColumn, valueColumns); err != nil {
		log.Fatalln("[ERROR] Could not write output:", err)
	}
	log.Printf("[INFO] Saved replicate-averaged data to %s", output)
}

func aggregateCombined(runDirs []string, dataType, idColumn string, valueColumns []string, metadata runmeta.RunMetadata) ([]replicate.AggregatedRow, error) {
	rows, _, err := replicate.LoadRuns(runDirs, dataType)
	if err != nil {
		return nil, err
	}
	aggregated, _ := replicate.Average(rows, metadata.Replicates, idColumn, valueColumns)
	return aggregated, nil
}

// aggregatePerRun averages each run's data independently and tags every
// output row with that run's date, so downstream comparison can separate
// runs instead of pooling them.
func aggregatePerRun(runDirs []string, dataType, idColumn string, valueColumns []string, metadata runmeta.RunMetadata) ([]replicate.AggregatedRow, error) {
	var out []replicate.AggregatedRow

	for _, dir := range runDirs {
		rows, skipped, err := replicate.LoadRuns([]string{dir}, dataType)
		if err != nil {
			return nil, err
		}
		if len(skipped) > 0 {
			continue
		}

		runDate := metadata.ExperimentRunEndTime
		if md, err := runmeta.Load(dir); err == nil {
			runDate = md.ExperimentRunEndTime
		}
		if fields := strings.Fields(runDate); len(fields) > 0 {
			runDate = fields[0]
		}

		aggregated, _ := replicate.Average(rows, metadata.Replicates, idColumn, valueColumns)
		for i := range aggregated {
			aggregated[i].RunDate = runDate
		}
		out = append(out, aggregated...)
	}

	return out, nil
}
