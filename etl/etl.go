// Package etl orchestrates the per-workbook pipeline: open the export,
// validate its sheets, extract run metadata and replicate groupings, and
// persist the canonical per-run datasets.
package etl

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"

	"github.com/biolumen/qpcretl/measure"
	"github.com/biolumen/qpcretl/replicate"
	"github.com/biolumen/qpcretl/runmeta"
	"github.com/biolumen/qpcretl/workbook"
)

// Sheet names expected in the export.
const (
	SheetSampleSetup   = "Sample Setup"
	SheetMeltCurve     = "Melt Curve Raw Data"
	SheetAmplification = "Amplification Data"
	SheetResults       = "Results"
)

// DefaultSetupOffset is the row index at which the extended Sample Setup and
// Results tables begin in the export layout. It is an assumption about the
// export format, not something derived from sheet content, so it is
// configurable per invocation.
const DefaultSetupOffset = 35

// Per-run CSV artifact names. The melt and amplification names are owned by
// the replicate package, which reloads them during cross-run combination.
const (
	MeltFileName          = replicate.MeltFileName
	AmplificationFileName = replicate.AmplificationFileName
	ResultsFileName       = "results_table.csv"
)

// Options configures one pipeline invocation. SetupOffset is the header
// row offset of the extended Sample Setup and Results tables and is used as
// given; the standard export layout is DefaultSetupOffset.
type Options struct {
	Input        string
	OutputDir    string
	Verbose      bool
	DryRun       bool // validate and transform, but write nothing
	SkipMetadata bool
	SkipSummary  bool
	SetupOffset  int
}

// Result carries everything the pipeline produced for one workbook.
type Result struct {
	RunDir        string
	Metadata      runmeta.RunMetadata
	Melt          []measure.MeltRow
	Amplification []measure.AmplificationRow
	Results       workbook.Table

	// Leniency counters.
	DroppedAmplificationRows int
	SkippedWellRows          int
}

// Run executes the pipeline for one workbook. Validation happens before any
// artifact is written: a missing sheet or column aborts the run with no
// partial per-run output.
func Run(opts Options) (*Result, error) {
	wb, err := workbook.Open(opts.Input)
	if err != nil {
		return nil, err
	}

	if !wb.HasSheet(SheetSampleSetup) {
		return nil, fmt.Errorf("%q: %w", SheetSampleSetup, workbook.ErrSheetNotFound)
	}

	setup, err := wb.ParseSheet(SheetSampleSetup, 0)
	if err != nil {
		return nil, err
	}

	res := &Result{Metadata: runmeta.Extract(setup)}

	// The extended table shares the Sample Setup sheet below the key/value
	// block. Failures here are recoverable: the run proceeds without
	// sample names or replicate groupings.
	if extended, err := wb.ParseSheet(SheetSampleSetup, opts.SetupOffset); err != nil {
		log.Printf("[WARN] Could not extract sample names from extended Sample Setup: %v", err)
	} else {
		samples, replicates, skipped := runmeta.BuildReplicates(extended)
		res.SkippedWellRows = skipped
		if replicates != nil {
			res.Metadata.Samples = samples
			res.Metadata.Replicates = replicates
			if opts.Verbose {
				log.Printf("[INFO] Found %d unique sample names.", len(samples))
				log.Printf("[INFO] Built %d replicate groups.", replicates.Len())
			}
		}
	}

	meltTable, err := wb.ParseSheet(SheetMeltCurve, 0)
	if err != nil {
		return nil, err
	}
	res.Melt, err = measure.ValidateMelt(meltTable)
	if err != nil {
		return nil, err
	}

	ampTable, err := wb.ParseSheet(SheetAmplification, 0)
	if err != nil {
		return nil, err
	}
	res.Amplification, res.DroppedAmplificationRows, err = measure.ValidateAmplification(ampTable)
	if err != nil {
		return nil, err
	}

	resultsTable, err := wb.ParseSheet(SheetResults, opts.SetupOffset)
	if err != nil {
		return nil, err
	}
	res.Results = measure.ValidateResults(resultsTable)

	if opts.Verbose {
		log.Printf("[INFO] Loaded Melt Curve Raw Data with %d rows.", len(res.Melt))
		log.Printf("[INFO] Loaded Amplification Data with %d rows.", len(res.Amplification))
		log.Printf("[INFO] Loaded Results Data with %d rows.", len(res.Results.Rows))
	}

	if !opts.SkipSummary {
		res.Metadata.Summary = runmeta.ComputeSummary(res.Melt, res.Amplification)
	}

	res.RunDir = filepath.Join(opts.OutputDir, RunDirName(res.Metadata.ExperimentRunEndTime))

	if opts.DryRun {
		log.Printf("[INFO] Dry run: skipping all writes for %s", res.RunDir)
		return res, nil
	}

	if err := persist(opts, res); err != nil {
		return nil, pfx.Err(err)
	}

	log.Printf("[INFO] Run directory initialized at: %s", res.RunDir)
	return res, nil
}

// RunDirName derives the per-run directory name from the canonical run end
// time, with ":" removed and spaces replaced.
func RunDirName(runEndTime string) string {
	return "run_" + strings.NewReplacer(":", "", " ", "_").Replace(runEndTime)
}

func persist(opts Options, res *Result) error {
	if err := os.MkdirAll(res.RunDir, 0o755); err != nil {
		return pfx.Err(err)
	}

	if !opts.SkipMetadata {
		if err := runmeta.Save(res.Metadata, res.RunDir); err != nil {
			return pfx.Err(fmt.Errorf("saving metadata: %w", err))
		}
		log.Printf("[INFO] Metadata saved to %s", filepath.Join(res.RunDir, runmeta.MetadataFileName))
	}

	meltPath := filepath.Join(res.RunDir, MeltFileName)
	if err := writeCSVRows(meltPath, &res.Melt); err != nil {
		return pfx.Err(err)
	}
	log.Printf("[INFO] Melt Curve data saved to %s", meltPath)

	ampPath := filepath.Join(res.RunDir, AmplificationFileName)
	if err := writeCSVRows(ampPath, &res.Amplification); err != nil {
		return pfx.Err(err)
	}
	log.Printf("[INFO] Amplification data saved to %s", ampPath)

	resultsPath := filepath.Join(res.RunDir, ResultsFileName)
	if err := writeTable(resultsPath, res.Results); err != nil {
		return pfx.Err(err)
	}
	log.Printf("[INFO] Results data saved to %s", resultsPath)

	return nil
}
