// Package gonumsht is the fast SHT backend. It tabulates the associated
// Legendre functions once per grid and uses gonum's real FFT along each
// latitude circle. It supports both Gaussian and regular grids.
//
// The backend registers itself as "sht2d.with_gonum" on import.
package gonumsht

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/fluidsht/internal/sht"
	"github.com/banshee-data/fluidsht/internal/sht/legendre"
	"github.com/banshee-data/fluidsht/internal/sht/norm"
)

// Name is the backend selector.
const Name = "sht2d.with_gonum"

// SHTns-style constants. The phase flag is a bit OR-ed into the
// normalization word.
const (
	shtOrthonormal = 0
	shtFourPi      = 1
	shtSchmidt     = 2
	shtNoCSPhase   = 1024
)

// Conventions lists the normalizations this backend offers and their
// native constants.
var Conventions = norm.Table{
	Backend: Name,
	Codes: map[norm.Normalization]int{
		norm.Orthonormal: shtOrthonormal,
		norm.FourPi:      shtFourPi,
		norm.Schmidt:     shtSchmidt,
	},
	CSPhase:   0,
	NoCSPhase: shtNoCSPhase,
}

// decode turns native constants into the convention the Legendre tables
// are built with.
func decode(r norm.Resolved) (norm.Convention, error) {
	var n norm.Normalization
	switch r.Code {
	case shtOrthonormal:
		n = norm.Orthonormal
	case shtFourPi:
		n = norm.FourPi
	case shtSchmidt:
		n = norm.Schmidt
	default:
		return norm.Convention{}, fmt.Errorf("unknown normalization code %d", r.Code)
	}
	if r.PhaseCode&^shtNoCSPhase != 0 {
		return norm.Convention{}, fmt.Errorf("unknown phase flags %#x", r.PhaseCode)
	}
	return norm.Convention{Norm: n, CSPhase: r.PhaseCode&shtNoCSPhase == 0}, nil
}

func init() {
	sht.Register(sht.Registration{
		Name:       Name,
		Preference: 0,
		Open: func(g sht.Grid, c norm.Convention) (sht.Backend, error) {
			return New(g, c)
		},
	})
}

// Backend implements sht.Backend. It keeps FFT work buffers, so a Backend
// must not be used from more than one goroutine at a time.
type Backend struct {
	grid     sht.Grid
	resolved norm.Resolved
	conv     norm.Convention
	nodes    legendre.Nodes
	table    *legendre.Table
	kernel   *legendre.Kernel
	fft      *fourier.FFT

	l2idx []float64
	lats  []float64
	lons  []float64

	// scratch
	coeffA, coeffB []complex128 // nlon/2+1
	fA, fB         []complex128 // mmax+1
	row            []float64    // nlon
}

// New builds the backend for grid and conv.
func New(grid sht.Grid, conv norm.Convention) (*Backend, error) {
	return newWithTable(grid, conv, Conventions)
}

func newWithTable(grid sht.Grid, conv norm.Convention, table norm.Table) (*Backend, error) {
	resolved, err := table.Resolve(conv)
	if err != nil {
		return nil, sht.ConfigError(Name, "norm", err)
	}
	native, err := decode(resolved)
	if err != nil {
		return nil, sht.ConfigError(Name, "norm", err)
	}

	nodes := legendre.NodesFor(grid)
	nc := grid.Nlon/2 + 1
	b := &Backend{
		grid:     grid,
		resolved: resolved,
		conv:     native,
		nodes:    nodes,
		table:    legendre.NewTable(grid, native, nodes),
		kernel:   legendre.NewKernel(grid, native),
		fft:      fourier.NewFFT(grid.Nlon),
		l2idx:    grid.L2Idx(),
		lats:     nodes.LatitudesDeg(),
		lons:     legendre.LongitudesDeg(grid.Nlon),
		coeffA:   make([]complex128, nc),
		coeffB:   make([]complex128, nc),
		fA:       make([]complex128, grid.Mmax+1),
		fB:       make([]complex128, grid.Mmax+1),
		row:      make([]float64, grid.Nlon),
	}
	return b, nil
}

func (b *Backend) Name() string                { return Name }
func (b *Backend) Grid() sht.Grid              { return b.grid }
func (b *Backend) Convention() norm.Convention { return b.conv }
func (b *Backend) NLM() int                    { return b.grid.NLM() }
func (b *Backend) L2Idx() []float64            { return b.l2idx }
func (b *Backend) Lats() []float64             { return b.lats }
func (b *Backend) Lons() []float64             { return b.lons }

// Resolved returns the backend-native convention constants.
func (b *Backend) Resolved() norm.Resolved { return b.resolved }

// analyzeRow stores the per-order Fourier coefficients of row in F,
// normalised so that F[im] = (1/nlon) Σ_k row[k] e^{-i m φ_k}.
func (b *Backend) analyzeRow(row []float64, coeff, F []complex128) {
	b.fft.Coefficients(coeff, row)
	inv := complex(1/float64(b.grid.Nlon), 0)
	for im := range F {
		F[im] = coeff[im*b.grid.Mres] * inv
	}
}

// synthRow writes Re F[0] + 2 Re Σ_{m>0} F[im] e^{i m φ_k} into row.
func (b *Backend) synthRow(F, coeff []complex128, row []float64) {
	for i := range coeff {
		coeff[i] = 0
	}
	for im, f := range F {
		coeff[im*b.grid.Mres] = f
	}
	coeff[0] = complex(real(coeff[0]), 0)
	b.fft.Sequence(row, coeff)
}

// SHT computes the spectral coefficients of field.
func (b *Backend) SHT(field *mat.Dense, dst []complex128) []complex128 {
	b.grid.CheckSpatial(field)
	dst = b.grid.SpectralBuffer(dst)
	for j := 0; j < b.grid.Nlat; j++ {
		b.analyzeRow(field.RawRowView(j), b.coeffA, b.fA)
		b.kernel.AnalyzeScalar(b.table.P[j], b.fA, 2*math.Pi*b.nodes.Weights[j], dst)
	}
	b.kernel.FinishScalar(dst)
	return dst
}

// ISHT synthesises the spatial field of fieldLM.
func (b *Backend) ISHT(fieldLM []complex128, dst *mat.Dense) *mat.Dense {
	b.grid.CheckSpectral(fieldLM)
	dst = b.grid.SpatialBuffer(dst)
	for j := 0; j < b.grid.Nlat; j++ {
		b.kernel.SynthScalar(b.table.P[j], fieldLM, b.fA)
		b.synthRow(b.fA, b.coeffA, dst.RawRowView(j))
	}
	return dst
}

// VSHFromVec computes the vector spherical harmonics of (u, v).
func (b *Backend) VSHFromVec(u, v *mat.Dense, uD, uR []complex128) ([]complex128, []complex128) {
	b.grid.CheckSpatial(u)
	b.grid.CheckSpatial(v)
	uD = b.grid.SpectralBuffer(uD)
	uR = b.grid.SpectralBuffer(uR)
	for j := 0; j < b.grid.Nlat; j++ {
		// colatitude component is southward: −v
		vrow := v.RawRowView(j)
		for k, x := range vrow {
			b.row[k] = -x
		}
		b.analyzeRow(b.row, b.coeffA, b.fA)
		b.analyzeRow(u.RawRowView(j), b.coeffB, b.fB)
		b.kernel.AnalyzeVector(b.table.DP[j], b.table.MP[j], b.fA, b.fB, 2*math.Pi*b.nodes.Weights[j], uD, uR)
	}
	b.kernel.FinishVector(uD, uR)
	return uD, uR
}

// VecFromVSH synthesises (u, v) from the vector spherical harmonics.
func (b *Backend) VecFromVSH(uD, uR []complex128, u, v *mat.Dense) (*mat.Dense, *mat.Dense) {
	b.grid.CheckSpectral(uD)
	b.grid.CheckSpectral(uR)
	u = b.grid.SpatialBuffer(u)
	v = b.grid.SpatialBuffer(v)
	for j := 0; j < b.grid.Nlat; j++ {
		b.kernel.SynthVector(b.table.DP[j], b.table.MP[j], uD, uR, b.fA, b.fB)
		vrow := v.RawRowView(j)
		b.synthRow(b.fA, b.coeffA, vrow)
		for k := range vrow {
			vrow[k] = -vrow[k]
		}
		b.synthRow(b.fB, b.coeffB, u.RawRowView(j))
	}
	return u, v
}
