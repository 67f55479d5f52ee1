package replicate

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"

	"github.com/biolumen/qpcretl/measure"
)

// FileNameFor maps a data type to its per-run artifact filename.
func FileNameFor(dataType string) (string, error) {
	switch dataType {
	case DataTypeMelt:
		return MeltFileName, nil
	case DataTypeAmplification:
		return AmplificationFileName, nil
	}
	return "", fmt.Errorf("unknown data type %q", dataType)
}

// LoadRuns loads the persisted per-run table selected by dataType from each
// run directory, in input order, and concatenates the rows. Every row is
// tagged with a run id equal to its directory's base name.
//
// A directory without the expected file contributes no rows and no error; it
// is reported in the returned skipped list so callers (and tests) can see
// the omission.
func LoadRuns(runDirs []string, dataType string) ([]Row, []string, error) {
	fileName, err := FileNameFor(dataType)
	if err != nil {
		return nil, nil, pfx.Err(err)
	}

	var all []Row
	var skipped []string

	for _, dir := range runDirs {
		path := filepath.Join(dir, fileName)
		runID := filepath.Base(dir)

		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("[WARN] Run %s has no %s; skipping", runID, fileName)
			skipped = append(skipped, dir)
			continue
		}
		if err != nil {
			return nil, skipped, pfx.Err(err)
		}

		rows, err := loadRows(f, dataType, runID)
		f.Close()
		if err != nil {
			return nil, skipped, pfx.Err(fmt.Errorf("loading %s: %w", path, err))
		}
		all = append(all, rows...)
	}

	return all, skipped, nil
}

func loadRows(f *os.File, dataType, runID string) ([]Row, error) {
	switch dataType {
	case DataTypeMelt:
		var rows []measure.MeltRow
		if err := gocsv.UnmarshalFile(f, &rows); err != nil {
			return nil, err
		}
		return FromMelt(rows, runID), nil
	case DataTypeAmplification:
		var rows []measure.AmplificationRow
		if err := gocsv.UnmarshalFile(f, &rows); err != nil {
			return nil, err
		}
		return FromAmplification(rows, runID), nil
	}
	return nil, fmt.Errorf("unknown data type %q", dataType)
}
