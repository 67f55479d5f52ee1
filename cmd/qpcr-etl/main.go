// qpcr-etl ingests one instrument-export workbook and writes the per-run
// canonical artifacts: metadata.json, melt_curve_data.csv,
// amplification_data.csv, and results_table.csv.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/biolumen/qpcretl/etl"
	"github.com/biolumen/qpcretl/runmeta"
)

func main() {
	var opts etl.Options
	var version bool

	flag.StringVar(&opts.Input, "input", "", "Path to the input workbook")
	flag.StringVar(&opts.OutputDir, "output", "runs", "Base output directory")
	flag.BoolVar(&opts.Verbose, "verbose", false, "Enable verbose output")
	flag.BoolVar(&opts.DryRun, "dry-run", false, "Validate and transform without saving any output")
	flag.BoolVar(&opts.SkipMetadata, "skip-metadata", false, "Skip saving metadata.json")
	flag.BoolVar(&opts.SkipSummary, "skip-summary", false, "Skip summary stats in metadata.json")
	flag.IntVar(&opts.SetupOffset, "setup-offset", etl.DefaultSetupOffset, "Header row offset of the extended Sample Setup and Results tables")
	flag.BoolVar(&version, "version", false, "Print the ETL version and exit")
	flag.Parse()

	if version {
		fmt.Printf("qpcr-etl %s\n", runmeta.ETLVersion)
		return
	}

	if opts.Input == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	if _, err := etl.Run(opts); err != nil {
		log.Fatalln("[ERROR] ETL process failed:", err)
	}
}
