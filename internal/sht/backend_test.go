package sht

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/fluidsht/internal/sht/norm"
)

// stubBackend satisfies Backend without transforming anything.
type stubBackend struct {
	name string
	grid Grid
	conv norm.Convention
}

func (s *stubBackend) Name() string                { return s.name }
func (s *stubBackend) Grid() Grid                  { return s.grid }
func (s *stubBackend) Convention() norm.Convention { return s.conv }
func (s *stubBackend) NLM() int                    { return s.grid.NLM() }
func (s *stubBackend) L2Idx() []float64            { return s.grid.L2Idx() }
func (s *stubBackend) Lats() []float64             { return nil }
func (s *stubBackend) Lons() []float64             { return nil }
func (s *stubBackend) SHT(*mat.Dense, []complex128) []complex128 {
	return s.grid.NewSpectral(0)
}
func (s *stubBackend) ISHT([]complex128, *mat.Dense) *mat.Dense { return s.grid.NewSpatial(0) }
func (s *stubBackend) VSHFromVec(_, _ *mat.Dense, _, _ []complex128) ([]complex128, []complex128) {
	return s.grid.NewSpectral(0), s.grid.NewSpectral(0)
}
func (s *stubBackend) VecFromVSH(_, _ []complex128, _, _ *mat.Dense) (*mat.Dense, *mat.Dense) {
	return s.grid.NewSpatial(0), s.grid.NewSpatial(0)
}

var errNoLibrary = errors.New("shared library not found")

func init() {
	open := func(name string) func(Grid, norm.Convention) (Backend, error) {
		return func(g Grid, c norm.Convention) (Backend, error) {
			return &stubBackend{name: name, grid: g, conv: c}, nil
		}
	}
	Register(Registration{Name: "sht2d.stub_fast", Preference: 0, Open: open("sht2d.stub_fast")})
	Register(Registration{Name: "sht2d.stub_slow", Preference: 5, Open: open("sht2d.stub_slow")})
	Register(Registration{
		Name:       "sht2d.stub_missing",
		Preference: -1,
		Available:  func() error { return errNoLibrary },
		Open:       open("sht2d.stub_missing"),
	})
	Register(Registration{
		Name:       "sht2d.stub_broken",
		Preference: 20,
		Open: func(Grid, norm.Convention) (Backend, error) {
			return nil, errors.New("plan allocation failed")
		},
	})
	Register(Registration{
		Name:       "sht2d.stub_picky",
		Preference: 21,
		Open: func(Grid, norm.Convention) (Backend, error) {
			return nil, UnsupportedError("", "regular grid")
		},
	})
}

func TestBackends_PreferenceOrder(t *testing.T) {
	assert.Equal(t, []string{
		"sht2d.stub_missing",
		"sht2d.stub_fast",
		"sht2d.stub_slow",
		"sht2d.stub_broken",
		"sht2d.stub_picky",
	}, Backends())
}

func TestRegister_Panics(t *testing.T) {
	open := func(Grid, norm.Convention) (Backend, error) { return nil, nil }
	assert.Panics(t, func() { Register(Registration{Name: "sht2d.stub_fast", Open: open}) })
	assert.Panics(t, func() { Register(Registration{Name: "sht3d.volume", Open: open}) })
	assert.Panics(t, func() { Register(Registration{Name: "sht2d.no_open"}) })
}

func TestResolve(t *testing.T) {
	t.Setenv(EnvDefaultBackend, "")

	tests := []struct {
		selector string
		want     string
		kind     error
	}{
		{"", "sht2d.stub_fast", nil},
		{"default", "sht2d.stub_fast", nil},
		{"sht2d.stub_slow", "sht2d.stub_slow", nil},
		{"fluidsht.sht2d.stub_slow", "sht2d.stub_slow", nil},
		{"sht3d.with_fft", "", ErrUnsupported},
		{"fluidsht.sht3d.with_fft", "", ErrUnsupported},
		{"fft2d.with_fftw", "", ErrConfiguration},
		{"stub_fast", "", ErrConfiguration},
		{"sht2d.with_nothing", "", ErrUnavailableBackend},
		{"sht2d.stub_missing", "", ErrUnavailableBackend},
	}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			got, err := Resolve(tt.selector)
			if tt.kind != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.kind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_UnavailableKeepsCause(t *testing.T) {
	_, err := Resolve("sht2d.stub_missing")
	assert.ErrorIs(t, err, errNoLibrary)
}

func TestResolve_EnvOverride(t *testing.T) {
	t.Setenv(EnvDefaultBackend, "fluidsht.sht2d.stub_slow")
	got, err := Resolve("default")
	require.NoError(t, err)
	assert.Equal(t, "sht2d.stub_slow", got)

	t.Setenv(EnvDefaultBackend, "bogus")
	_, err = Resolve("default")
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestResolve_EnvDefaultAliasProbes(t *testing.T) {
	for _, env := range []string{"default", "fluidsht.default"} {
		t.Run(env, func(t *testing.T) {
			t.Setenv(EnvDefaultBackend, env)
			for _, selector := range []string{"", "default"} {
				got, err := Resolve(selector)
				require.NoError(t, err)
				assert.Equal(t, "sht2d.stub_fast", got)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	t.Setenv(EnvDefaultBackend, "")
	g, err := NewGrid(0, 0, 4, 0, 1, 1, Gaussian)
	require.NoError(t, err)

	b, err := Open("default", g, norm.DefaultConvention())
	require.NoError(t, err)
	assert.Equal(t, "sht2d.stub_fast", b.Name())
	assert.Equal(t, g, b.Grid())

	_, err = Open("sht2d.stub_broken", g, norm.DefaultConvention())
	assert.ErrorIs(t, err, ErrUnavailableBackend)
	assert.Contains(t, err.Error(), "plan allocation failed")

	_, err = Open("sht2d.stub_picky", g, norm.DefaultConvention())
	require.ErrorIs(t, err, ErrUnsupported)
	var shtErr *Error
	require.ErrorAs(t, err, &shtErr)
	assert.Equal(t, "sht2d.stub_picky", shtErr.Backend)
}
