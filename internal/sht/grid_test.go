package sht

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewGrid_Defaults(t *testing.T) {
	tests := []struct {
		name                 string
		lmax, mres           int
		typ                  GridType
		nlat, nlon, mmax, nm int
	}{
		{"gaussian lmax 15", 15, 1, Gaussian, 16, 31, 15, 136},
		{"regular lmax 15", 15, 1, Regular, 32, 32, 15, 136},
		{"gaussian lmax 1", 1, 1, Gaussian, 2, 3, 1, 3},
		{"gaussian mres 2", 8, 2, Gaussian, 9, 17, 4, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGrid(0, 0, tt.lmax, 0, tt.mres, 0, tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.nlat, g.Nlat)
			assert.Equal(t, tt.nlon, g.Nlon)
			assert.Equal(t, tt.mmax, g.Mmax)
			assert.Equal(t, tt.nm, g.NLM())
			assert.Equal(t, 1.0, g.Radius)
			assert.Len(t, g.Degrees(), g.NLM())
		})
	}
}

func TestNewGrid_Mismatch(t *testing.T) {
	tests := []struct {
		name       string
		nlat, nlon int
		lmax, mmax int
		radius     float64
		typ        GridType
		param      string
	}{
		{"gaussian nlat", 15, 0, 15, 0, 1, Gaussian, "nlat"},
		{"gaussian nlon", 16, 32, 15, 0, 1, Gaussian, "nlon"},
		{"regular nlat too small", 30, 0, 15, 0, 1, Regular, "nlat"},
		{"regular nlon too small", 0, 30, 15, 0, 1, Regular, "nlon"},
		{"lmax zero", 0, 0, 0, 0, 1, Gaussian, "lmax"},
		{"mmax beyond lmax", 0, 0, 4, 5, 1, Gaussian, "mmax"},
		{"negative radius", 0, 0, 4, 0, -1, Gaussian, "radius"},
		{"NaN radius", 0, 0, 4, 0, math.NaN(), Gaussian, "radius"},
		{"infinite radius", 0, 0, 4, 0, math.Inf(1), Gaussian, "radius"},
		{"negative infinite radius", 0, 0, 4, 0, math.Inf(-1), Gaussian, "radius"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGrid(tt.nlat, tt.nlon, tt.lmax, tt.mmax, 1, tt.radius, tt.typ)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfiguration))
			var shtErr *Error
			require.True(t, errors.As(err, &shtErr))
			assert.Equal(t, tt.param, shtErr.Param)
		})
	}
}

func TestNewGrid_RegularAcceptsLargerGrids(t *testing.T) {
	g, err := NewGrid(64, 128, 15, 0, 1, 2, Regular)
	require.NoError(t, err)
	assert.Equal(t, 64, g.Nlat)
	assert.Equal(t, 128, g.Nlon)
	assert.Equal(t, 2.0, g.Radius)
}

func TestParseGridType(t *testing.T) {
	for name, want := range map[string]GridType{"": Gaussian, "gaussian": Gaussian, "regular": Regular} {
		got, err := ParseGridType(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseGridType("healpix")
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, "GridType(7)", GridType(7).String())
}

func TestGrid_Layout(t *testing.T) {
	g, err := NewGrid(0, 0, 6, 0, 2, 1, Gaussian)
	require.NoError(t, err)

	ls, ms := g.Degrees(), g.Orders()
	for i := range ls {
		if got := g.Index(ls[i], ms[i]); got != i {
			t.Errorf("Index(%d, %d) = %d, want %d", ls[i], ms[i], got, i)
		}
		if ms[i]%g.Mres != 0 || ls[i] < ms[i] || ls[i] > g.Lmax {
			t.Errorf("invalid mode (l=%d, m=%d) at %d", ls[i], ms[i], i)
		}
	}
	l2 := g.L2Idx()
	assert.Equal(t, 0.0, l2[0])
	assert.Equal(t, 42.0, l2[g.Index(6, 4)])
}

func TestGrid_Constructors(t *testing.T) {
	g, err := NewGrid(0, 0, 5, 0, 1, 1, Gaussian)
	require.NoError(t, err)

	f := g.NewSpatial(2.5)
	r, c := f.Dims()
	assert.Equal(t, [2]int{g.Nlat, g.Nlon}, [2]int{r, c})
	assert.Equal(t, 2.5, f.At(r-1, c-1))

	a := g.NewSpectral(1i)
	assert.Len(t, a, g.NLM())
	assert.Equal(t, 1i, a[g.NLM()-1])

	rf := g.NewSpatialRandom(rand.NewPCG(1, 2))
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := rf.At(i, j)
			if v < -1 || v >= 1 {
				t.Fatalf("random value %g outside [-1, 1)", v)
			}
		}
	}

	ra := g.NewSpectralRandom(rand.NewPCG(1, 2))
	for l := 0; l <= g.Lmax; l++ {
		assert.Equal(t, 0.0, imag(ra[g.Index(l, 0)]), "m=0 mode must be real")
	}
	assert.NotEqual(t, 0.0, imag(ra[g.Index(3, 2)]))
}

func TestGrid_Buffers(t *testing.T) {
	g, err := NewGrid(0, 0, 3, 0, 1, 1, Gaussian)
	require.NoError(t, err)

	dst := g.NewSpectral(5)
	got := g.SpectralBuffer(dst)
	assert.Same(t, &dst[0], &got[0], "buffer must be reused")
	assert.Equal(t, g.NewSpectral(0), got)

	assert.Panics(t, func() { g.SpectralBuffer(make([]complex128, 2)) })
	assert.Panics(t, func() { g.SpatialBuffer(mat.NewDense(1, 1, nil)) })

	field := g.NewSpatial(3)
	assert.Same(t, field, g.SpatialBuffer(field))
}
