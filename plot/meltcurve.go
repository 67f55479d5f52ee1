// Package plot renders replicate-averaged melt curves to PNG.
package plot

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/carbocation/pfx"
	"github.com/wcharczuk/go-chart/v2"
)

// Series is one replicate group's averaged melt curve.
type Series struct {
	Name         string
	Temperatures []float64
	Values       []float64
}

// ReadAggregated parses a replicate-averaged CSV into one series per
// replicate group, in first-seen order. The input must carry Temperature,
// Derivative_mean, and Replicate Group columns; rows with a blank or
// unparsable Derivative_mean are skipped.
func ReadAggregated(r io.Reader) ([]Series, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, pfx.Err(err)
	}
	if len(records) == 0 {
		return nil, pfx.Err(fmt.Errorf("no rows in aggregated input"))
	}

	header := make(map[string]int)
	for i, col := range records[0] {
		header[col] = i
	}
	for _, col := range []string{"Temperature", "Derivative_mean", "Replicate Group"} {
		if _, ok := header[col]; !ok {
			return nil, pfx.Err(fmt.Errorf("aggregated input is missing column %q", col))
		}
	}

	var series []Series
	index := make(map[string]int)

	for _, record := range records[1:] {
		temp, err := strconv.ParseFloat(record[header["Temperature"]], 64)
		if err != nil {
			continue
		}
		val, err := strconv.ParseFloat(record[header["Derivative_mean"]], 64)
		if err != nil || math.IsNaN(val) {
			continue
		}
		group := record[header["Replicate Group"]]

		i, ok := index[group]
		if !ok {
			i = len(series)
			index[group] = i
			series = append(series, Series{Name: group})
		}
		series[i].Temperatures = append(series[i].Temperatures, temp)
		series[i].Values = append(series[i].Values, val)
	}

	return series, nil
}

// MeltCurve renders one line per replicate group and writes the PNG to w.
func MeltCurve(series []Series, w io.Writer) error {
	if len(series) == 0 {
		return pfx.Err(fmt.Errorf("no series to plot"))
	}

	graph := chart.Chart{
		Title:  "Melt Curve",
		Width:  1024,
		Height: 640,
		XAxis: chart.XAxis{
			Name: "Temperature (C)",
		},
		YAxis: chart.YAxis{
			Name: "Derivative (mean)",
		},
	}
	for _, s := range series {
		graph.Series = append(graph.Series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: s.Temperatures,
			YValues: s.Values,
		})
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	// Render to a byte buffer
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return pfx.Err(err)
	}

	if _, err := buffer.WriteTo(w); err != nil {
		return pfx.Err(err)
	}
	return nil
}

// MeltCurveFile reads an aggregated CSV and writes the rendered curve to
// outPath.
func MeltCurveFile(inputCSV, outPath string) error {
	in, err := os.Open(inputCSV)
	if err != nil {
		return pfx.Err(err)
	}
	defer in.Close()

	series, err := ReadAggregated(in)
	if err != nil {
		return pfx.Err(err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return pfx.Err(err)
	}
	defer out.Close()

	if err := MeltCurve(series, out); err != nil {
		return pfx.Err(err)
	}
	return pfx.Err(out.Close())
}
