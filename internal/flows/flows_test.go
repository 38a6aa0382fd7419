package flows

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/fluidsht/internal/sht/operators"
	"github.com/banshee-data/fluidsht/internal/testutil"
)

func TestByName(t *testing.T) {
	oper, err := operators.New(operators.Options{Lmax: 8})
	require.NoError(t, err)

	assert.Equal(t, []string{"rh", "solid"}, Names())
	for _, name := range Names() {
		f, err := ByName(name, oper)
		require.NoError(t, err)
		assert.Equal(t, name, f.Name)
		r, c := f.U.Dims()
		assert.Equal(t, [2]int{9, 17}, [2]int{r, c})
	}
	_, err = ByName("vortex", oper)
	assert.ErrorContains(t, err, "unknown flow")
}

func TestFlow_Fits(t *testing.T) {
	oper, err := operators.New(operators.Options{Lmax: 8})
	require.NoError(t, err)
	rh := RossbyHaurwitz(oper, RHOmega, RHK, RHWave)
	solid := SolidBody(oper, 1)

	tests := []struct {
		name             string
		flow             Flow
		lmax, mmax, mres int
		wantErr          string
	}{
		{"rh default truncation", rh, 8, 8, 1, ""},
		{"rh lmax too small", rh, 4, 4, 1, "needs lmax >= 5"},
		{"rh mres skips wave", rh, 8, 2, 3, "zonal wavenumber 4"},
		{"rh mres divides wave", rh, 8, 4, 2, ""},
		{"rh mmax below wave", rh, 8, 3, 1, "zonal wavenumber 4"},
		{"solid any orders", solid, 8, 2, 3, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.flow.Fits(tt.lmax, tt.mmax, tt.mres)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestFlows_MatchOperators(t *testing.T) {
	for _, name := range Names() {
		for _, backend := range []string{"sht2d.with_gonum", "sht2d.with_direct"} {
			t.Run(name+"/"+backend, func(t *testing.T) {
				oper, err := operators.New(operators.Options{Backend: backend, Lmax: 12, Radius: EarthRadius})
				require.NoError(t, err)
				f, err := ByName(name, oper)
				require.NoError(t, err)
				require.LessOrEqual(t, f.MinDegree, oper.Lmax())

				div, rot := oper.DivRotSHFromVec(f.U, f.V, nil, nil)
				tol := 1e-9 * maxAbs(f.Vorticity)

				testutil.AssertSpatClose(t, oper.ISHT(div, nil), oper.CreateArraySpat(0), tol)
				testutil.AssertSpatClose(t, oper.ISHT(rot, nil), f.Vorticity, tol)

				u, v := oper.VecFromRotSH(rot, nil, nil)
				uMax := maxAbs(f.U)
				testutil.AssertSpatClose(t, u, f.U, 1e-9*uMax)
				testutil.AssertSpatClose(t, v, f.V, 1e-9*uMax)
			})
		}
	}
}

func maxAbs(m mat.Matrix) float64 {
	var hi float64
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			hi = max(hi, math.Abs(m.At(i, j)))
		}
	}
	return hi
}
