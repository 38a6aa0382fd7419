package sht

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// GridType selects the latitude node placement. Node placement itself is
// owned by the backend.
type GridType int

const (
	// Gaussian places nlat = lmax+1 nodes at the Gauss–Legendre roots.
	Gaussian GridType = iota
	// Regular places equiangular nodes at colatitudes (j+1/2)π/nlat,
	// excluding the poles.
	Regular
)

// Default construction parameters.
const (
	DefaultLmax   = 15
	DefaultRadius = 1.0
)

func (g GridType) String() string {
	switch g {
	case Gaussian:
		return "gaussian"
	case Regular:
		return "regular"
	default:
		return fmt.Sprintf("GridType(%d)", int(g))
	}
}

// ParseGridType resolves a grid type name. The empty name selects Gaussian.
func ParseGridType(name string) (GridType, error) {
	switch name {
	case "", "gaussian":
		return Gaussian, nil
	case "regular":
		return Regular, nil
	}
	return 0, configErrorf("grid_type", "unknown grid type %q (want gaussian or regular)", name)
}

// Grid is the immutable description of the spatial grid and the spectral
// truncation shared by an operator and its backend.
type Grid struct {
	Nlat   int
	Nlon   int
	Lmax   int
	Mmax   int
	Mres   int
	Radius float64
	Type   GridType
}

// NewGrid applies the grid policy. Zero values of nlat, nlon, mmax, mres
// and radius are derived from lmax; supplied dimensions that disagree with
// the truncation fail with ErrConfiguration.
func NewGrid(nlat, nlon, lmax, mmax, mres int, radius float64, typ GridType) (Grid, error) {
	if lmax < 1 {
		return Grid{}, configErrorf("lmax", "lmax must be at least 1, got %d", lmax)
	}
	if mres == 0 {
		mres = 1
	}
	if mres < 0 {
		return Grid{}, configErrorf("mres", "mres must be positive, got %d", mres)
	}
	if mmax == 0 {
		mmax = lmax / mres
	}
	if mmax < 0 || mmax*mres > lmax {
		return Grid{}, configErrorf("mmax", "mmax*mres must be in [1, lmax=%d], got %d*%d", lmax, mmax, mres)
	}
	if radius == 0 {
		radius = DefaultRadius
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		return Grid{}, configErrorf("radius", "radius must be positive and finite, got %g", radius)
	}

	mTop := mmax * mres
	switch typ {
	case Gaussian:
		if nlat == 0 {
			nlat = lmax + 1
		}
		if nlat != lmax+1 {
			return Grid{}, configErrorf("nlat", "gaussian grid needs nlat == lmax+1 = %d, got %d", lmax+1, nlat)
		}
		if nlon == 0 {
			nlon = 2*mTop + 1
		}
		if nlon != 2*mTop+1 {
			return Grid{}, configErrorf("nlon", "gaussian grid needs nlon == 2*mmax*mres+1 = %d, got %d", 2*mTop+1, nlon)
		}
	case Regular:
		if nlat == 0 {
			nlat = 2 * (lmax + 1)
		}
		if nlat < 2*lmax+1 {
			return Grid{}, configErrorf("nlat", "regular grid needs nlat >= 2*lmax+1 = %d, got %d", 2*lmax+1, nlat)
		}
		if nlon == 0 {
			nlon = 2*mTop + 2
		}
		if nlon < 2*mTop+1 {
			return Grid{}, configErrorf("nlon", "regular grid needs nlon >= 2*mmax*mres+1 = %d, got %d", 2*mTop+1, nlon)
		}
	default:
		return Grid{}, configErrorf("grid_type", "unknown grid type %v", typ)
	}

	return Grid{Nlat: nlat, Nlon: nlon, Lmax: lmax, Mmax: mmax, Mres: mres, Radius: radius, Type: typ}, nil
}

// NLM returns the number of spectral modes.
func (g Grid) NLM() int {
	return (g.Mmax+1)*(g.Lmax+1) - g.Mres*g.Mmax*(g.Mmax+1)/2
}

// Index returns the flat spectral index of degree l and order m. Modes are
// stored m-major: every l for m = 0, then every l for m = mres, and so on.
func (g Grid) Index(l, m int) int {
	im := m / g.Mres
	return im*(2*(g.Lmax+1)-(im+1)*g.Mres)/2 + l
}

// Degrees returns the harmonic degree l of each spectral index.
func (g Grid) Degrees() []int {
	ls := make([]int, 0, g.NLM())
	for im := 0; im <= g.Mmax; im++ {
		for l := im * g.Mres; l <= g.Lmax; l++ {
			ls = append(ls, l)
		}
	}
	return ls
}

// Orders returns the harmonic order m of each spectral index.
func (g Grid) Orders() []int {
	ms := make([]int, 0, g.NLM())
	for im := 0; im <= g.Mmax; im++ {
		m := im * g.Mres
		for l := m; l <= g.Lmax; l++ {
			ms = append(ms, m)
		}
	}
	return ms
}

// L2Idx returns l(l+1) for each spectral index.
func (g Grid) L2Idx() []float64 {
	ls := g.Degrees()
	out := make([]float64, len(ls))
	for i, l := range ls {
		out[i] = float64(l * (l + 1))
	}
	return out
}

// NewSpatial returns a (nlat, nlon) field filled with value.
func (g Grid) NewSpatial(value float64) *mat.Dense {
	data := make([]float64, g.Nlat*g.Nlon)
	if value != 0 {
		for i := range data {
			data[i] = value
		}
	}
	return mat.NewDense(g.Nlat, g.Nlon, data)
}

// NewSpatialRandom returns a field of uniform values in [-1, 1).
func (g Grid) NewSpatialRandom(src rand.Source) *mat.Dense {
	u := distuv.Uniform{Min: -1, Max: 1, Src: src}
	data := make([]float64, g.Nlat*g.Nlon)
	for i := range data {
		data[i] = u.Rand()
	}
	return mat.NewDense(g.Nlat, g.Nlon, data)
}

// NewSpectral returns a spectral field filled with value.
func (g Grid) NewSpectral(value complex128) []complex128 {
	out := make([]complex128, g.NLM())
	if value != 0 {
		for i := range out {
			out[i] = value
		}
	}
	return out
}

// NewSpectralRandom returns a spectral field with standard normal real and
// imaginary parts. The m = 0 coefficients are real so the field represents
// a real spatial field.
func (g Grid) NewSpectralRandom(src rand.Source) []complex128 {
	n := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	out := make([]complex128, g.NLM())
	for i, m := range g.Orders() {
		if m == 0 {
			out[i] = complex(n.Rand(), 0)
			continue
		}
		out[i] = complex(n.Rand(), n.Rand())
	}
	return out
}

// CheckSpatial panics if f does not have the grid's spatial shape.
func (g Grid) CheckSpatial(f *mat.Dense) {
	if r, c := f.Dims(); r != g.Nlat || c != g.Nlon {
		panic(fmt.Sprintf("sht: spatial field is %dx%d, grid is %dx%d", r, c, g.Nlat, g.Nlon))
	}
}

// CheckSpectral panics if a does not have NLM coefficients.
func (g Grid) CheckSpectral(a []complex128) {
	if len(a) != g.NLM() {
		panic(fmt.Sprintf("sht: spectral field has %d modes, grid has %d", len(a), g.NLM()))
	}
}

// SpectralBuffer returns dst zeroed, or a new zeroed field when dst is nil.
func (g Grid) SpectralBuffer(dst []complex128) []complex128 {
	if dst == nil {
		return g.NewSpectral(0)
	}
	g.CheckSpectral(dst)
	for i := range dst {
		dst[i] = 0
	}
	return dst
}

// SpatialBuffer returns dst, or a new zeroed field when dst is nil. A
// non-nil dst keeps its contents; callers overwrite every element.
func (g Grid) SpatialBuffer(dst *mat.Dense) *mat.Dense {
	if dst == nil {
		return g.NewSpatial(0)
	}
	g.CheckSpatial(dst)
	return dst
}
