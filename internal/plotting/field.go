// Package plotting renders spatial fields and degree spectra, as PNG/SVG
// through gonum/plot and as standalone HTML through go-echarts.
package plotting

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Default image size for saved plots.
const (
	DefaultWidth  = 10 * vg.Inch
	DefaultHeight = 5 * vg.Inch
)

// Field is a spatial field on a latitude/longitude grid: rows follow Lats
// (north to south), columns follow Lons, both in degrees.
type Field struct {
	Name   string
	Lats   []float64
	Lons   []float64
	Values mat.Matrix
}

// Validate checks that the coordinate slices match the value matrix.
func (f Field) Validate() error {
	r, c := f.Values.Dims()
	if r != len(f.Lats) || c != len(f.Lons) {
		return fmt.Errorf("field %q is %dx%d but has %d lats and %d lons", f.Name, r, c, len(f.Lats), len(f.Lons))
	}
	if r < 2 || c < 2 {
		return fmt.Errorf("field %q needs at least 2x2 points, got %dx%d", f.Name, r, c)
	}
	return nil
}

// Range returns the smallest and largest value of the field.
func (f Field) Range() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	r, c := f.Values.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := f.Values.At(i, j)
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return lo, hi
}

// gridXYZ adapts a Field to plotter.GridXYZ, which wants ascending Y.
type gridXYZ struct{ f Field }

func (g gridXYZ) Dims() (c, r int) { return len(g.f.Lons), len(g.f.Lats) }
func (g gridXYZ) X(c int) float64  { return g.f.Lons[c] }
func (g gridXYZ) Y(r int) float64  { return g.f.Lats[len(g.f.Lats)-1-r] }
func (g gridXYZ) Z(c, r int) float64 {
	return g.f.Values.At(len(g.f.Lats)-1-r, c)
}

// FieldPlot draws f as a heat map with a diverging blue–red palette centred
// on zero.
func FieldPlot(f Field) (*plot.Plot, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	lo, hi := f.Range()
	bound := math.Max(math.Abs(lo), math.Abs(hi))
	if bound == 0 || math.IsNaN(bound) || math.IsInf(bound, 0) {
		bound = 1
	}

	cm := moreland.SmoothBlueRed()
	cm.SetMin(-bound)
	cm.SetMax(bound)

	p := plot.New()
	p.Title.Text = f.Name
	p.X.Label.Text = "Longitude (°)"
	p.Y.Label.Text = "Latitude (°)"

	hm := plotter.NewHeatMap(gridXYZ{f}, cm.Palette(255))
	hm.Min, hm.Max = -bound, bound
	p.Add(hm)
	return p, nil
}

// SaveFieldPlot writes the heat map of f to path. The format follows the
// file extension (.png, .svg, .pdf).
func SaveFieldPlot(f Field, path string) error {
	p, err := FieldPlot(f)
	if err != nil {
		return err
	}
	if err := p.Save(DefaultWidth, DefaultHeight, path); err != nil {
		return fmt.Errorf("save field plot: %w", err)
	}
	return nil
}
