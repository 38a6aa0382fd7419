// Package legendre provides the latitude quadratures and associated
// Legendre function tables shared by the transform backends.
package legendre

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/banshee-data/fluidsht/internal/sht"
)

// Nodes is a latitude quadrature ordered north to south. Weights integrate
// over x = cos(colatitude) on [-1, 1], so they sum to 2.
type Nodes struct {
	Cos     []float64
	Sin     []float64
	Weights []float64
}

// Len returns the number of nodes.
func (n Nodes) Len() int { return len(n.Cos) }

// LatitudesDeg returns the node latitudes in degrees.
func (n Nodes) LatitudesDeg() []float64 {
	lats := make([]float64, len(n.Cos))
	for j, x := range n.Cos {
		lats[j] = 90 - math.Acos(x)*180/math.Pi
	}
	return lats
}

// GaussNodes returns the n-point Gauss–Legendre rule, exact for polynomials
// in x up to degree 2n-1.
func GaussNodes(n int) Nodes {
	x := make([]float64, n)
	w := make([]float64, n)
	quad.Legendre{}.FixedLocations(x, w, -1, 1)

	// North first means descending x.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return x[order[a]] > x[order[b]] })

	nodes := Nodes{Cos: make([]float64, n), Sin: make([]float64, n), Weights: make([]float64, n)}
	for j, i := range order {
		nodes.Cos[j] = x[i]
		nodes.Sin[j] = math.Sqrt((1 - x[i]) * (1 + x[i]))
		nodes.Weights[j] = w[i]
	}
	return nodes
}

// FejerNodes returns Fejér's first rule on n equiangular colatitudes
// (j+1/2)π/n. It is exact for polynomials in x up to degree n-1.
func FejerNodes(n int) Nodes {
	nodes := Nodes{Cos: make([]float64, n), Sin: make([]float64, n), Weights: make([]float64, n)}
	for j := 0; j < n; j++ {
		theta := (float64(j) + 0.5) * math.Pi / float64(n)
		nodes.Cos[j] = math.Cos(theta)
		nodes.Sin[j] = math.Sin(theta)

		sum := 0.0
		for k := 1; k <= n/2; k++ {
			sum += math.Cos(2*float64(k)*theta) / float64(4*k*k-1)
		}
		nodes.Weights[j] = 2 / float64(n) * (1 - 2*sum)
	}
	return nodes
}

// NodesFor returns the quadrature matching the grid's type and nlat.
func NodesFor(g sht.Grid) Nodes {
	if g.Type == sht.Regular {
		return FejerNodes(g.Nlat)
	}
	return GaussNodes(g.Nlat)
}

// LongitudesDeg returns nlon equispaced longitudes starting at 0.
func LongitudesDeg(nlon int) []float64 {
	lons := make([]float64, nlon)
	for k := range lons {
		lons[k] = 360 * float64(k) / float64(nlon)
	}
	return lons
}
