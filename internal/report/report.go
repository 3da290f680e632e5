package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/drakos74/bitrate/internal/model"
)

const (
	ClassHeader = "********* ONE BITRATE **********"
	PlotStart   = "#PLOTSTUFF"
	PlotClass   = "#BITRATE"
	PlotDone    = "#PLOTDONE"
)

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Write writes the readable dump of the classes followed by the replot section.
func Write(w io.Writer, classes []model.Class) error {
	bw := bufio.NewWriter(w)
	for _, class := range classes {
		fmt.Fprintln(bw, ClassHeader)
		for _, r := range class {
			fmt.Fprintf(bw, "psize=%d, ncodes=%d, dist=%s, model=%s\n",
				r.PatternSize, r.CodebookSize, formatFloat(r.Distortion), r.Source)
		}
	}
	// the model path is not needed for plotting
	fmt.Fprintln(bw, PlotStart)
	for _, class := range classes {
		fmt.Fprintln(bw, PlotClass)
		for _, r := range class {
			fmt.Fprintf(bw, "%d,%d,%s\n", r.PatternSize, r.CodebookSize, formatFloat(r.Distortion))
		}
	}
	fmt.Fprintln(bw, PlotDone)
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("could not write report: %w", err)
	}
	return nil
}

// WriteFile writes the report of the classes to the given file.
func WriteFile(path string, classes []model.Class) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create report '%s': %w", path, err)
	}
	if err := Write(f, classes); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
