package plotting

import (
	"errors"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Series is one spectrum indexed by degree l.
type Series struct {
	Name   string
	Values []float64
}

// points returns (l, value) for the strictly positive values, the only ones
// a log axis can show.
func (s Series) points() plotter.XYs {
	pts := make(plotter.XYs, 0, len(s.Values))
	for l, v := range s.Values {
		if v > 0 {
			pts = append(pts, plotter.XY{X: float64(l), Y: v})
		}
	}
	return pts
}

// SpectrumPlot draws each series against degree on a logarithmic value axis.
func SpectrumPlot(title string, series ...Series) (*plot.Plot, error) {
	if len(series) == 0 {
		return nil, errors.New("no spectra to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Degree l"
	p.Y.Label.Text = "Energy"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	added := 0
	for i, s := range series {
		pts := s.points()
		if len(pts) == 0 {
			continue
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", s.Name, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(s.Name, line)
		added++
	}
	if added == 0 {
		return nil, errors.New("spectra have no positive values")
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// SaveSpectrumPlot writes the spectrum plot to path.
func SaveSpectrumPlot(path, title string, series ...Series) error {
	p, err := SpectrumPlot(title, series...)
	if err != nil {
		return err
	}
	if err := p.Save(DefaultWidth, DefaultHeight, path); err != nil {
		return fmt.Errorf("save spectrum plot: %w", err)
	}
	return nil
}
