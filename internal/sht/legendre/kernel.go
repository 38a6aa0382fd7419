package legendre

import (
	"github.com/banshee-data/fluidsht/internal/sht"
	"github.com/banshee-data/fluidsht/internal/sht/norm"
)

// Kernel performs the Legendre half of the transforms for a single
// latitude node: it maps per-order Fourier coefficients F[im] (im = m/mres)
// to and from spectral coefficients, given the node's P, DP and MP rows as
// produced by an Evaluator.
//
// Analysis accumulates quadrature sums; Finish divides them by the mode
// norms once every node has been visited.
type Kernel struct {
	grid       sht.Grid
	invNorm    []float64 // 1/∫|Y|²
	invVecNorm []float64 // 1/(l(l+1)∫|Y|²), 0 at l = 0
}

// NewKernel precomputes the mode norms for grid and conv.
func NewKernel(grid sht.Grid, conv norm.Convention) *Kernel {
	nlm := grid.NLM()
	k := &Kernel{grid: grid, invNorm: make([]float64, nlm), invVecNorm: make([]float64, nlm)}
	for im := 0; im <= grid.Mmax; im++ {
		m := im * grid.Mres
		for l := m; l <= grid.Lmax; l++ {
			i := grid.Index(l, m)
			c := conv.Norm.SquaredNorm(l, m)
			k.invNorm[i] = 1 / c
			if l > 0 {
				k.invVecNorm[i] = 1 / (float64(l*(l+1)) * c)
			}
		}
	}
	return k
}

// SynthScalar sets F[im] = Σ_l a_lm P_lm.
func (k *Kernel) SynthScalar(p []float64, a []complex128, F []complex128) {
	g := k.grid
	for im := 0; im <= g.Mmax; im++ {
		m := im * g.Mres
		base := g.Index(m, m)
		var sum complex128
		for i := base; i <= base+g.Lmax-m; i++ {
			sum += a[i] * complex(p[i], 0)
		}
		F[im] = sum
	}
}

// AnalyzeScalar adds weight·P_lm·F[im] to acc.
func (k *Kernel) AnalyzeScalar(p []float64, F []complex128, weight float64, acc []complex128) {
	g := k.grid
	for im := 0; im <= g.Mmax; im++ {
		m := im * g.Mres
		base := g.Index(m, m)
		f := F[im] * complex(weight, 0)
		for i := base; i <= base+g.Lmax-m; i++ {
			acc[i] += f * complex(p[i], 0)
		}
	}
}

// SynthVector sets the colatitude and longitude components of
// V = ∇uD − r̂×∇uR for every order:
//
//	Ft[im] = Σ_l uD·DP + i·uR·MP
//	Fp[im] = Σ_l i·uD·MP − uR·DP
func (k *Kernel) SynthVector(dp, mp []float64, uD, uR []complex128, Ft, Fp []complex128) {
	g := k.grid
	for im := 0; im <= g.Mmax; im++ {
		m := im * g.Mres
		base := g.Index(m, m)
		var st, sp complex128
		for i := base; i <= base+g.Lmax-m; i++ {
			d := complex(dp[i], 0)
			q := complex(0, mp[i])
			st += uD[i]*d + uR[i]*q
			sp += uD[i]*q - uR[i]*d
		}
		Ft[im] = st
		Fp[im] = sp
	}
}

// AnalyzeVector adds the node's contribution to the projections of V onto
// ∇Y*_lm (accD) and −r̂×∇Y*_lm (accR).
func (k *Kernel) AnalyzeVector(dp, mp []float64, Ft, Fp []complex128, weight float64, accD, accR []complex128) {
	g := k.grid
	w := complex(weight, 0)
	for im := 0; im <= g.Mmax; im++ {
		m := im * g.Mres
		base := g.Index(m, m)
		ft, fp := Ft[im]*w, Fp[im]*w
		for i := base; i <= base+g.Lmax-m; i++ {
			d := complex(dp[i], 0)
			q := complex(0, mp[i])
			accD[i] += ft*d - fp*q
			accR[i] -= fp*d + ft*q
		}
	}
}

// FinishScalar turns accumulated quadrature sums into coefficients.
func (k *Kernel) FinishScalar(acc []complex128) {
	for i := range acc {
		acc[i] *= complex(k.invNorm[i], 0)
	}
	k.realM0(acc)
}

// FinishVector turns accumulated vector projections into (uD, uR). The
// l = 0 mode carries no vector field and is set to zero.
func (k *Kernel) FinishVector(accD, accR []complex128) {
	for i := range accD {
		s := complex(k.invVecNorm[i], 0)
		accD[i] *= s
		accR[i] *= s
	}
	k.realM0(accD)
	k.realM0(accR)
}

// realM0 drops rounding noise from the imaginary part of m = 0 modes, which
// are real for any real field.
func (k *Kernel) realM0(a []complex128) {
	for l := 0; l <= k.grid.Lmax; l++ {
		a[l] = complex(real(a[l]), 0)
	}
}
