package operators

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/fluidsht/internal/sht"
	"github.com/banshee-data/fluidsht/internal/sht/norm"
)

// parsevalWeights returns, per spectral index, the factor w such that the
// area mean of f² is Σ w·|a_lm|². Orders m > 0 count twice for the implied
// negative-m conjugates.
func parsevalWeights(g sht.Grid, conv norm.Convention) []float64 {
	w := make([]float64, g.NLM())
	ls, ms := g.Degrees(), g.Orders()
	for i := range w {
		w[i] = conv.Norm.SquaredNorm(ls[i], ms[i]) / (4 * math.Pi)
		if ms[i] > 0 {
			w[i] *= 2
		}
	}
	return w
}

// SpectrumFromSH returns the variance of the field per degree l. The sum
// over l is the area mean of f².
func (o *Operators2D) SpectrumFromSH(aLM []complex128) []float64 {
	o.grid.CheckSpectral(aLM)
	spec := make([]float64, o.grid.Lmax+1)
	ls := o.grid.Degrees()
	for i, a := range aLM {
		abs := cmplx.Abs(a)
		spec[ls[i]] += o.weights[i] * abs * abs
	}
	return spec
}

// SpectrumFromVSH returns the kinetic energy ½|V|² per degree l of the
// velocity described by (uD, uR). The sum over l is the area mean of ½|V|².
func (o *Operators2D) SpectrumFromVSH(uD, uR []complex128) []float64 {
	o.grid.CheckSpectral(uD)
	o.grid.CheckSpectral(uR)
	spec := make([]float64, o.grid.Lmax+1)
	ls := o.grid.Degrees()
	l2 := o.backend.L2Idx()
	for i := range uD {
		d, r := cmplx.Abs(uD[i]), cmplx.Abs(uR[i])
		spec[ls[i]] += 0.5 * l2[i] * o.weights[i] * (d*d + r*r)
	}
	return spec
}

// SpectrumFromVec is SpectrumFromVSH of the vector spherical harmonics of (u, v).
func (o *Operators2D) SpectrumFromVec(u, v *mat.Dense) []float64 {
	uD, uR := o.backend.VSHFromVec(u, v, nil, nil)
	return o.SpectrumFromVSH(uD, uR)
}

// MeanSpat returns the area-weighted mean of field over the sphere.
func (o *Operators2D) MeanSpat(field *mat.Dense) float64 {
	aLM := o.backend.SHT(field, nil)
	return real(aLM[0]) * o.conv.Norm.Y00()
}

// MeanSquareSpat returns the area-weighted mean of the square of field's
// truncated expansion, via Parseval.
func (o *Operators2D) MeanSquareSpat(field *mat.Dense) float64 {
	return floats.Sum(o.SpectrumFromSH(o.backend.SHT(field, nil)))
}
