package legendre

import (
	"math"

	"github.com/banshee-data/fluidsht/internal/sht"
	"github.com/banshee-data/fluidsht/internal/sht/norm"
)

// Evaluator computes, at one colatitude, the normalized associated Legendre
// functions of every spectral mode together with the two quantities the
// vector transforms need:
//
//	P[i]  = Y_lm(θ, 0)
//	DP[i] = ∂Y_lm/∂θ (θ, 0)
//	MP[i] = m·Y_lm(θ, 0)/sin θ
//
// with i = Grid.Index(l, m) and Y_lm in the evaluator's convention.
type Evaluator struct {
	grid  sht.Grid
	scale []float64 // normalization × phase per mode
	sect  []float64 // sectoral recurrence factors √((2m+1)/(2m))
}

// NewEvaluator precomputes the per-mode factors for grid and conv.
func NewEvaluator(grid sht.Grid, conv norm.Convention) *Evaluator {
	e := &Evaluator{grid: grid, scale: make([]float64, grid.NLM())}
	for im := 0; im <= grid.Mmax; im++ {
		m := im * grid.Mres
		for l := m; l <= grid.Lmax; l++ {
			e.scale[grid.Index(l, m)] = conv.Norm.Scale(l, m) * conv.PhaseSign(m)
		}
	}
	mTop := grid.Mmax * grid.Mres
	e.sect = make([]float64, mTop+1)
	for m := 1; m <= mTop; m++ {
		e.sect[m] = math.Sqrt(float64(2*m+1) / float64(2*m))
	}
	return e
}

// At fills p, dp and mp (each of length NLM) at the node with cos θ = x and
// sin θ = s. s must be positive: nodes never sit on a pole.
func (e *Evaluator) At(x, s float64, p, dp, mp []float64) {
	g := e.grid
	pmm := 1 / math.Sqrt(4*math.Pi)
	mPrev := 0
	for im := 0; im <= g.Mmax; im++ {
		m := im * g.Mres
		for ; mPrev < m; mPrev++ {
			pmm *= e.sect[mPrev+1] * s
		}

		base := g.Index(m, m)
		// Orthonormal values, unscaled, for l = m .. lmax.
		prev2, prev1 := 0.0, pmm
		for l := m; l <= g.Lmax; l++ {
			var cur float64
			switch l {
			case m:
				cur = pmm
			case m + 1:
				cur = math.Sqrt(float64(2*m+3)) * x * pmm
			default:
				fl, fm := float64(l), float64(m)
				a := math.Sqrt((4*fl*fl - 1) / (fl*fl - fm*fm))
				b := math.Sqrt(((fl-1)*(fl-1) - fm*fm) / (4*(fl-1)*(fl-1) - 1))
				cur = a * (x*prev1 - b*prev2)
			}
			if l > m {
				prev2, prev1 = prev1, cur
			}

			// dP̄_l/dθ = (l x P̄_l − √((2l+1)(l²−m²)/(2l−1)) P̄_{l−1}) / sin θ
			below := 0.0
			if l > m {
				below = prev2
			}
			fl, fm := float64(l), float64(m)
			c := 0.0
			if l > 0 {
				c = math.Sqrt((2*fl + 1) * (fl*fl - fm*fm) / (2*fl - 1))
			}

			i := base + (l - m)
			sc := e.scale[i]
			p[i] = sc * cur
			dp[i] = sc * (fl*x*cur - c*below) / s
			mp[i] = sc * fm * cur / s
		}
	}
}

// Table holds Evaluator output for every node of a quadrature, indexed
// [node][mode].
type Table struct {
	P  [][]float64
	DP [][]float64
	MP [][]float64
}

// NewTable evaluates grid's modes at every node.
func NewTable(grid sht.Grid, conv norm.Convention, nodes Nodes) *Table {
	e := NewEvaluator(grid, conv)
	n, nlm := nodes.Len(), grid.NLM()
	t := &Table{P: make([][]float64, n), DP: make([][]float64, n), MP: make([][]float64, n)}
	for j := 0; j < n; j++ {
		t.P[j] = make([]float64, nlm)
		t.DP[j] = make([]float64, nlm)
		t.MP[j] = make([]float64, nlm)
		e.At(nodes.Cos[j], nodes.Sin[j], t.P[j], t.DP[j], t.MP[j])
	}
	return t
}
