package operators

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/fluidsht/internal/monitoring"
	"github.com/banshee-data/fluidsht/internal/sht"
	"github.com/banshee-data/fluidsht/internal/sht/norm"

	// Backends register themselves with the sht registry.
	_ "github.com/banshee-data/fluidsht/internal/sht/directsht"
	_ "github.com/banshee-data/fluidsht/internal/sht/gonumsht"
)

// Options are the construction parameters of an Operators2D. Zero values
// select the defaults.
type Options struct {
	// Backend is "default", "sht2d.<method>" or "fluidsht.sht2d.<method>".
	Backend string

	Nlat int
	Nlon int
	// N2 is the third dimension of a volumetric transform. Non-zero values
	// are rejected: only 2-D transforms exist.
	N2   int
	Lmax int // default 15
	Mmax int // default lmax/mres
	Mres int // default 1

	// Norm is "orthonormal", "fourpi" (default), "schmidt" or "unnormalized".
	Norm string
	// CSPhase includes the Condon–Shortley phase. nil means true.
	CSPhase *bool
	// GridType is "gaussian" (default) or "regular".
	GridType string
	Radius   float64 // default 1
}

// Operators2D performs 2-D spherical harmonic transforms and spectral
// operations. It is immutable after New.
type Operators2D struct {
	backend sht.Backend
	grid    sht.Grid
	conv    norm.Convention
	derived derivedSet
	zerosSH []complex128
	weights []float64 // Parseval weights per mode
}

// New resolves the backend, grid and normalization described by opts.
func New(opts Options) (*Operators2D, error) {
	if opts.N2 != 0 {
		return nil, sht.UnsupportedError(opts.Backend, "3-D transforms (n2 != 0)")
	}
	lmax := opts.Lmax
	if lmax == 0 {
		lmax = sht.DefaultLmax
	}
	gridType, err := sht.ParseGridType(opts.GridType)
	if err != nil {
		return nil, err
	}
	n, err := norm.Parse(opts.Norm)
	if err != nil {
		return nil, sht.ConfigError(opts.Backend, "norm", err)
	}
	conv := norm.Convention{Norm: n, CSPhase: true}
	if opts.CSPhase != nil {
		conv.CSPhase = *opts.CSPhase
	}
	grid, err := sht.NewGrid(opts.Nlat, opts.Nlon, lmax, opts.Mmax, opts.Mres, opts.Radius, gridType)
	if err != nil {
		return nil, err
	}

	backend, err := sht.Open(opts.Backend, grid, conv)
	if err != nil {
		return nil, err
	}
	monitoring.Logf("%s: nlat=%d, nlon=%d", backend.Name(), grid.Nlat, grid.Nlon)

	return newFromBackend(backend), nil
}

// NewFromBackend wraps an already constructed backend.
func NewFromBackend(b sht.Backend) *Operators2D {
	return newFromBackend(b)
}

func newFromBackend(b sht.Backend) *Operators2D {
	grid := b.Grid()
	return &Operators2D{
		backend: b,
		grid:    grid,
		conv:    b.Convention(),
		derived: newDerivedSet(b.L2Idx(), grid.Radius),
		zerosSH: grid.NewSpectral(0),
		weights: parsevalWeights(grid, b.Convention()),
	}
}

// Backend returns the wrapped backend.
func (o *Operators2D) Backend() sht.Backend { return o.backend }

// TypeSHT returns the backend selector name.
func (o *Operators2D) TypeSHT() string { return o.backend.Name() }

func (o *Operators2D) Grid() sht.Grid              { return o.grid }
func (o *Operators2D) Convention() norm.Convention { return o.conv }
func (o *Operators2D) GridType() sht.GridType      { return o.grid.Type }
func (o *Operators2D) Nlat() int                   { return o.grid.Nlat }
func (o *Operators2D) Nlon() int                   { return o.grid.Nlon }
func (o *Operators2D) Lmax() int                   { return o.grid.Lmax }
func (o *Operators2D) Mmax() int                   { return o.grid.Mmax }
func (o *Operators2D) Radius() float64             { return o.grid.Radius }
func (o *Operators2D) NLM() int                    { return o.backend.NLM() }

// ShapeX returns the spatial shape (nlat, nlon).
func (o *Operators2D) ShapeX() (int, int) { return o.grid.Nlat, o.grid.Nlon }

// ShapeK returns the spectral length nlm.
func (o *Operators2D) ShapeK() int { return o.backend.NLM() }

// L2Idx returns l(l+1) per spectral index. Do not modify.
func (o *Operators2D) L2Idx() []float64 { return o.backend.L2Idx() }

// Lats returns node latitudes in degrees, north to south.
func (o *Operators2D) Lats() []float64 { return o.backend.Lats() }

// Lons returns node longitudes in degrees.
func (o *Operators2D) Lons() []float64 { return o.backend.Lons() }

// CreateArraySpat returns a spatial field filled with value.
func (o *Operators2D) CreateArraySpat(value float64) *mat.Dense {
	return o.grid.NewSpatial(value)
}

// CreateArraySpatRandom returns a spatial field of uniform values in [-1, 1).
func (o *Operators2D) CreateArraySpatRandom(src rand.Source) *mat.Dense {
	return o.grid.NewSpatialRandom(src)
}

// CreateArraySH returns a spectral field filled with value.
func (o *Operators2D) CreateArraySH(value complex128) []complex128 {
	return o.grid.NewSpectral(value)
}

// CreateArraySHRandom returns a random spectral field of a real spatial field.
func (o *Operators2D) CreateArraySHRandom(src rand.Source) []complex128 {
	return o.grid.NewSpectralRandom(src)
}

// SHT is the backend's analysis; dst, when given, receives the result.
func (o *Operators2D) SHT(field *mat.Dense, dst []complex128) []complex128 {
	return o.backend.SHT(field, dst)
}

// ISHT is the backend's synthesis; dst, when given, receives the result.
func (o *Operators2D) ISHT(fieldLM []complex128, dst *mat.Dense) *mat.Dense {
	return o.backend.ISHT(fieldLM, dst)
}

// VSHFromVec computes the vector spherical harmonics (uD, uR) of (u, v).
func (o *Operators2D) VSHFromVec(u, v *mat.Dense, uD, uR []complex128) ([]complex128, []complex128) {
	return o.backend.VSHFromVec(u, v, uD, uR)
}

// VecFromVSH computes (u, v) from the vector spherical harmonics.
func (o *Operators2D) VecFromVSH(uD, uR []complex128, u, v *mat.Dense) (*mat.Dense, *mat.Dense) {
	return o.backend.VecFromVSH(uD, uR, u, v)
}
