// Package directsht is the reference SHT backend. It evaluates the Legendre
// functions on the fly and sums the longitude Fourier series directly, so
// it holds almost no precomputed state. Only the Gaussian grid is offered.
//
// The backend registers itself as "sht2d.with_direct" on import.
package directsht

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/fluidsht/internal/sht"
	"github.com/banshee-data/fluidsht/internal/sht/legendre"
	"github.com/banshee-data/fluidsht/internal/sht/norm"
)

// Name is the backend selector.
const Name = "sht2d.with_direct"

// MaxLmaxUnnormalized bounds lmax for the unnormalized convention, beyond
// which (l+m)!/(l-m)! overflows the working precision.
const MaxLmaxUnnormalized = 85

// SHTOOLS-style constants.
const (
	normFourPi       = 1
	normSchmidt      = 2
	normUnnormalized = 3
	normOrthonormal  = 4

	csPhaseOn  = -1
	csPhaseOff = 1
)

// Conventions lists the normalizations this backend offers and their
// native constants.
var Conventions = norm.Table{
	Backend: Name,
	Codes: map[norm.Normalization]int{
		norm.Orthonormal:  normOrthonormal,
		norm.FourPi:       normFourPi,
		norm.Schmidt:      normSchmidt,
		norm.Unnormalized: normUnnormalized,
	},
	CSPhase:   csPhaseOn,
	NoCSPhase: csPhaseOff,
}

func decode(r norm.Resolved) (norm.Convention, error) {
	var c norm.Convention
	switch r.Code {
	case normFourPi:
		c.Norm = norm.FourPi
	case normSchmidt:
		c.Norm = norm.Schmidt
	case normUnnormalized:
		c.Norm = norm.Unnormalized
	case normOrthonormal:
		c.Norm = norm.Orthonormal
	default:
		return c, fmt.Errorf("unknown normalization code %d", r.Code)
	}
	switch r.PhaseCode {
	case csPhaseOn:
		c.CSPhase = true
	case csPhaseOff:
	default:
		return c, fmt.Errorf("csphase must be %d or %d, got %d", csPhaseOn, csPhaseOff, r.PhaseCode)
	}
	return c, nil
}

func init() {
	sht.Register(sht.Registration{
		Name:       Name,
		Preference: 10,
		Open: func(g sht.Grid, c norm.Convention) (sht.Backend, error) {
			return New(g, c)
		},
	})
}

// Backend implements sht.Backend.
type Backend struct {
	grid     sht.Grid
	resolved norm.Resolved
	conv     norm.Convention
	nodes    legendre.Nodes
	eval     *legendre.Evaluator
	kernel   *legendre.Kernel

	cos, sin [][]float64 // [im][k] of m·φ_k

	l2idx []float64
	lats  []float64
	lons  []float64
}

// New builds the backend. Regular grids are not implemented.
func New(grid sht.Grid, conv norm.Convention) (*Backend, error) {
	return newWithTable(grid, conv, Conventions)
}

func newWithTable(grid sht.Grid, conv norm.Convention, table norm.Table) (*Backend, error) {
	if grid.Type != sht.Gaussian {
		return nil, sht.UnsupportedError(Name, fmt.Sprintf("%s grid", grid.Type))
	}
	resolved, err := table.Resolve(conv)
	if err != nil {
		return nil, sht.ConfigError(Name, "norm", err)
	}
	native, err := decode(resolved)
	if err != nil {
		return nil, sht.ConfigError(Name, "norm", err)
	}
	if native.Norm == norm.Unnormalized && grid.Lmax > MaxLmaxUnnormalized {
		return nil, sht.ConfigError(Name, "lmax",
			fmt.Errorf("unnormalized harmonics need lmax <= %d, got %d", MaxLmaxUnnormalized, grid.Lmax))
	}

	b := &Backend{
		grid:     grid,
		resolved: resolved,
		conv:     native,
		nodes:    legendre.GaussNodes(grid.Nlat),
		eval:     legendre.NewEvaluator(grid, native),
		kernel:   legendre.NewKernel(grid, native),
		l2idx:    grid.L2Idx(),
		lons:     legendre.LongitudesDeg(grid.Nlon),
		cos:      make([][]float64, grid.Mmax+1),
		sin:      make([][]float64, grid.Mmax+1),
	}
	b.lats = b.nodes.LatitudesDeg()
	for im := range b.cos {
		m := float64(im * grid.Mres)
		b.cos[im] = make([]float64, grid.Nlon)
		b.sin[im] = make([]float64, grid.Nlon)
		for k := 0; k < grid.Nlon; k++ {
			phi := 2 * math.Pi * float64(k) / float64(grid.Nlon)
			b.cos[im][k] = math.Cos(m * phi)
			b.sin[im][k] = math.Sin(m * phi)
		}
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

// dft sets F[im] = (1/nlon) Σ_k row[k] e^{-i m φ_k}.
func (b *Backend) dft(row []float64, F []complex128) {
	n := float64(b.grid.Nlon)
	for im := range F {
		var re, im2 float64
		for k, x := range row {
			re += x * b.cos[im][k]
			im2 -= x * b.sin[im][k]
		}
		F[im] = complex(re/n, im2/n)
	}
}

// idft sets row[k] = Re F[0] + 2 Re Σ_{m>0} F[im] e^{i m φ_k}.
func (b *Backend) idft(F []complex128, row []float64) {
	for k := range row {
		x := real(F[0])
		for im := 1; im < len(F); im++ {
			x += 2 * (real(F[im])*b.cos[im][k] - imag(F[im])*b.sin[im][k])
		}
		row[k] = x
	}
}

type scratch struct {
	p, dp, mp []float64
	fA, fB    []complex128
	row       []float64
}

func (b *Backend) newScratch() *scratch {
	nlm, nm := b.grid.NLM(), b.grid.Mmax+1
	return &scratch{
		p: make([]float64, nlm), dp: make([]float64, nlm), mp: make([]float64, nlm),
		fA: make([]complex128, nm), fB: make([]complex128, nm),
		row: make([]float64, b.grid.Nlon),
	}
}

func (b *Backend) SHT(field *mat.Dense, dst []complex128) []complex128 {
	b.grid.CheckSpatial(field)
	dst = b.grid.SpectralBuffer(dst)
	s := b.newScratch()
	for j := 0; j < b.grid.Nlat; j++ {
		b.eval.At(b.nodes.Cos[j], b.nodes.Sin[j], s.p, s.dp, s.mp)
		b.dft(field.RawRowView(j), s.fA)
		b.kernel.AnalyzeScalar(s.p, s.fA, 2*math.Pi*b.nodes.Weights[j], dst)
	}
	b.kernel.FinishScalar(dst)
	return dst
}

func (b *Backend) ISHT(fieldLM []complex128, dst *mat.Dense) *mat.Dense {
	b.grid.CheckSpectral(fieldLM)
	dst = b.grid.SpatialBuffer(dst)
	s := b.newScratch()
	for j := 0; j < b.grid.Nlat; j++ {
		b.eval.At(b.nodes.Cos[j], b.nodes.Sin[j], s.p, s.dp, s.mp)
		b.kernel.SynthScalar(s.p, fieldLM, s.fA)
		b.idft(s.fA, dst.RawRowView(j))
	}
	return dst
}

func (b *Backend) VSHFromVec(u, v *mat.Dense, uD, uR []complex128) ([]complex128, []complex128) {
	b.grid.CheckSpatial(u)
	b.grid.CheckSpatial(v)
	uD = b.grid.SpectralBuffer(uD)
	uR = b.grid.SpectralBuffer(uR)
	s := b.newScratch()
	for j := 0; j < b.grid.Nlat; j++ {
		b.eval.At(b.nodes.Cos[j], b.nodes.Sin[j], s.p, s.dp, s.mp)
		for k, x := range v.RawRowView(j) {
			s.row[k] = -x
		}
		b.dft(s.row, s.fA)
		b.dft(u.RawRowView(j), s.fB)
		b.kernel.AnalyzeVector(s.dp, s.mp, s.fA, s.fB, 2*math.Pi*b.nodes.Weights[j], uD, uR)
	}
	b.kernel.FinishVector(uD, uR)
	return uD, uR
}

func (b *Backend) VecFromVSH(uD, uR []complex128, u, v *mat.Dense) (*mat.Dense, *mat.Dense) {
	b.grid.CheckSpectral(uD)
	b.grid.CheckSpectral(uR)
	u = b.grid.SpatialBuffer(u)
	v = b.grid.SpatialBuffer(v)
	s := b.newScratch()
	for j := 0; j < b.grid.Nlat; j++ {
		b.eval.At(b.nodes.Cos[j], b.nodes.Sin[j], s.p, s.dp, s.mp)
		b.kernel.SynthVector(s.dp, s.mp, uD, uR, s.fA, s.fB)
		b.idft(s.fA, s.row)
		vrow := v.RawRowView(j)
		for k, x := range s.row {
			vrow[k] = -x
		}
		b.idft(s.fB, u.RawRowView(j))
	}
	return u, v
}
