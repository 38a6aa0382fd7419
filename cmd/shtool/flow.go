package main

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/fluidsht/internal/flows"
	"github.com/banshee-data/fluidsht/internal/plotting"
	"github.com/banshee-data/fluidsht/internal/sht/operators"
)

// analysis is the Helmholtz decomposition of one flow on one operator.
type analysis struct {
	oper *operators.Operators2D
	flow flows.Flow

	div, rot []complex128
	uD, uR   []complex128

	divergence, vorticity, streamfunction *mat.Dense
}

func analyzeFlow(oper *operators.Operators2D, name string) (*analysis, error) {
	flow, err := flows.ByName(name, oper)
	if err != nil {
		return nil, err
	}
	if err := flow.Fits(oper.Lmax(), oper.Mmax(), oper.Grid().Mres); err != nil {
		return nil, err
	}
	a := &analysis{oper: oper, flow: flow}
	a.uD, a.uR = oper.VSHFromVec(flow.U, flow.V, nil, nil)
	a.div, a.rot = oper.DivRotSHFromVSH(a.uD, a.uR, nil, nil)
	a.divergence = oper.ISHT(a.div, nil)
	a.vorticity = oper.ISHT(a.rot, nil)
	a.streamfunction = oper.ISHT(oper.InvLaplacianSH(a.rot, false, nil), nil)
	return a, nil
}

// field returns a named spatial field of the analysis.
func (a *analysis) field(name string) (plotting.Field, error) {
	var m *mat.Dense
	switch name {
	case "u":
		m = a.flow.U
	case "v":
		m = a.flow.V
	case "vorticity":
		m = a.vorticity
	case "divergence":
		m = a.divergence
	case "streamfunction":
		m = a.streamfunction
	default:
		return plotting.Field{}, fmt.Errorf("unknown field %q (want u, v, vorticity, divergence or streamfunction)", name)
	}
	return plotting.Field{
		Name:   fmt.Sprintf("%s (%s flow)", name, a.flow.Name),
		Lats:   a.oper.Lats(),
		Lons:   a.oper.Lons(),
		Values: m,
	}, nil
}

// spectra returns the kinetic energy spectra of the rotational and
// divergent parts and the enstrophy spectrum.
func (a *analysis) spectra() []plotting.Series {
	zero := a.oper.CreateArraySH(0)
	enstrophy := a.oper.SpectrumFromSH(a.rot)
	floats.Scale(0.5, enstrophy)
	return []plotting.Series{
		{Name: "rotational energy", Values: a.oper.SpectrumFromVSH(zero, a.uR)},
		{Name: "divergent energy", Values: a.oper.SpectrumFromVSH(a.uD, zero)},
		{Name: "enstrophy", Values: enstrophy},
	}
}

func maxAbs(m *mat.Dense) float64 {
	return floats.Norm(m.RawMatrix().Data, math.Inf(1))
}

func maxAbsDiff(a, b *mat.Dense) float64 {
	return floats.Distance(a.RawMatrix().Data, b.RawMatrix().Data, math.Inf(1))
}
