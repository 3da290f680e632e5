package plot

import (
	"fmt"
	"sort"

	"github.com/drakos74/bitrate/internal/model"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Points returns the (pattern size, distortion) points of the class sorted by pattern size.
func Points(class model.Class) plotter.XYs {
	xys := make(plotter.XYs, len(class))
	for i, r := range class {
		xys[i].X = float64(r.PatternSize)
		xys[i].Y = r.Distortion
	}
	sort.SliceStable(xys, func(i, j int) bool {
		return xys[i].X < xys[j].X
	})
	return xys
}

// Curves creates one distortion curve per bitrate class.
func Curves(title string, classes []model.Class) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "pattern size"
	p.Y.Label.Text = "distortion"
	p.Legend.Top = true

	for i, class := range classes {
		if len(class) == 0 {
			continue
		}
		line, points, err := plotter.NewLinePoints(Points(class))
		if err != nil {
			return nil, fmt.Errorf("could not plot class %d: %w", i, err)
		}
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(i)
		points.Color = plotutil.Color(i)
		points.Shape = plotutil.Shape(i)
		p.Add(line, points)
		p.Legend.Add(class.Label(), line, points)
	}
	return p, nil
}

// Save renders the curves of the classes into the given image file.
// The format follows the file extension.
func Save(path string, classes []model.Class) error {
	p, err := Curves("bitrate curves", classes)
	if err != nil {
		return err
	}
	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("could not save plot to '%s': %w", path, err)
	}
	return nil
}
