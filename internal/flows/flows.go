// Package flows builds analytic horizontal velocity fields with known
// divergence and vorticity, used to exercise and demonstrate the operators.
package flows

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Earth-like parameters of the Rossby–Haurwitz test case.
const (
	EarthRadius = 6.37122e6
	RHOmega     = 7.848e-6
	RHK         = 7.848e-6
	RHWave      = 4
)

// Grid is the part of an operator a flow needs: node coordinates in degrees
// and the sphere radius.
type Grid interface {
	Lats() []float64
	Lons() []float64
	Radius() float64
}

// Flow is a velocity field with its analytic vorticity. The divergence of
// every flow here is zero.
type Flow struct {
	Name      string
	U, V      *mat.Dense
	Vorticity *mat.Dense
	// MinDegree is the smallest lmax that represents the flow exactly.
	MinDegree int
	// Wave is the zonal wavenumber of the non-axisymmetric part, 0 if none.
	Wave int
}

// Fits reports an error unless the truncation (lmax, mmax, mres) holds
// every mode of the flow.
func (f Flow) Fits(lmax, mmax, mres int) error {
	if f.MinDegree > lmax {
		return fmt.Errorf("flow %q needs lmax >= %d, have %d", f.Name, f.MinDegree, lmax)
	}
	if f.Wave > 0 && (mres < 1 || f.Wave%mres != 0 || f.Wave > mmax*mres) {
		return fmt.Errorf("flow %q needs zonal wavenumber %d, have orders 0..%d in steps of %d",
			f.Name, f.Wave, mmax*mres, mres)
	}
	return nil
}

type builder func(g Grid) Flow

var registry = map[string]builder{
	"solid": func(g Grid) Flow { return SolidBody(g, 20) },
	"rh":    func(g Grid) Flow { return RossbyHaurwitz(g, RHOmega, RHK, RHWave) },
}

// Names lists the flows ByName accepts.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ByName builds the named flow on g.
func ByName(name string, g Grid) (Flow, error) {
	b, ok := registry[name]
	if !ok {
		return Flow{}, fmt.Errorf("unknown flow %q (want one of %v)", name, Names())
	}
	return b(g), nil
}

// eval fills a field from a function of latitude and longitude in radians.
func eval(g Grid, f func(phi, lambda float64) float64) *mat.Dense {
	lats, lons := g.Lats(), g.Lons()
	m := mat.NewDense(len(lats), len(lons), nil)
	for i, lat := range lats {
		phi := lat * math.Pi / 180
		for j, lon := range lons {
			m.Set(i, j, f(phi, lon*math.Pi/180))
		}
	}
	return m
}

// SolidBody is a zonal rotation u = speed·cos(lat) with vorticity
// 2·speed·sin(lat)/a.
func SolidBody(g Grid, speed float64) Flow {
	a := g.Radius()
	return Flow{
		Name:      "solid",
		U:         eval(g, func(phi, _ float64) float64 { return speed * math.Cos(phi) }),
		V:         eval(g, func(float64, float64) float64 { return 0 }),
		Vorticity: eval(g, func(phi, _ float64) float64 { return 2 * speed * math.Sin(phi) / a }),
		MinDegree: 1,
	}
}

// RossbyHaurwitz is the non-divergent wave with streamfunction
//
//	ψ = −a²ω sin φ + a²K cos^R φ sin φ cos Rλ
//
// and vorticity ∇²ψ = 2ω sin φ − (R+1)(R+2) K cos^R φ sin φ cos Rλ.
func RossbyHaurwitz(g Grid, omega, k float64, wave int) Flow {
	a := g.Radius()
	r := float64(wave)
	return Flow{
		Name: "rh",
		U: eval(g, func(phi, lambda float64) float64 {
			c, s := math.Cos(phi), math.Sin(phi)
			return a*omega*c + a*k*math.Pow(c, r-1)*(r*s*s-c*c)*math.Cos(r*lambda)
		}),
		V: eval(g, func(phi, lambda float64) float64 {
			c, s := math.Cos(phi), math.Sin(phi)
			return -a * k * r * math.Pow(c, r-1) * s * math.Sin(r*lambda)
		}),
		Vorticity: eval(g, func(phi, lambda float64) float64 {
			c, s := math.Cos(phi), math.Sin(phi)
			return 2*omega*s - (r+1)*(r+2)*k*math.Pow(c, r)*s*math.Cos(r*lambda)
		}),
		MinDegree: wave + 1,
		Wave:      wave,
	}
}
