// qpcr-plot renders a replicate-averaged melt-curve CSV as a PNG, one line
// per replicate group.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/biolumen/qpcretl/plot"
)

func main() {
	var input string
	var output string

	flag.StringVar(&input, "input", "", "Replicate-averaged CSV with Temperature, Derivative_mean, and Replicate Group columns")
	flag.StringVar(&output, "output", "melt_curve.png", "Output PNG path")
	flag.Parse()

	if input == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := plot.MeltCurveFile(input, output); err != nil {
		log.Fatalln("[ERROR] Plotting failed:", err)
	}

	log.Printf("[INFO] Melt curve written to %s", output)
}
