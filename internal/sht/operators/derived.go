package operators

// k2Floor stands in for K2 at l = 0 in K2not0 so that raw division by it
// stays finite. Inverse quantities never divide by it: they are masked.
const k2Floor = 1e-15

// derivedSet holds the degree-based scalings of one grid. Computed once in
// New; the grid and radius never change afterwards.
type derivedSet struct {
	k2        []float64 // l(l+1)/r²
	k2Not0    []float64 // k2 with k2Floor at l = 0
	k2R       []float64 // l(l+1)/r
	invK2Not0 []float64 // 1/k2, exactly 0 at l = 0
	invK2R    []float64 // r/(l(l+1)), exactly 0 at l = 0
}

func newDerivedSet(l2idx []float64, radius float64) derivedSet {
	n := len(l2idx)
	d := derivedSet{
		k2:        make([]float64, n),
		k2Not0:    make([]float64, n),
		k2R:       make([]float64, n),
		invK2Not0: make([]float64, n),
		invK2R:    make([]float64, n),
	}
	r2 := radius * radius
	for i, l2 := range l2idx {
		d.k2[i] = l2 / r2
		d.k2R[i] = l2 / radius
		if l2 == 0 {
			d.k2Not0[i] = k2Floor
			continue
		}
		d.k2Not0[i] = d.k2[i]
		d.invK2Not0[i] = 1 / d.k2[i]
		d.invK2R[i] = d.invK2Not0[i] / radius
	}
	return d
}

// K2 returns l(l+1)/r², the eigenvalues of −Δ. Do not modify.
func (o *Operators2D) K2() []float64 { return o.derived.k2 }

// K2Not0 returns K2 with a tiny positive floor (≤ 1e-14) at l = 0. Do not modify.
func (o *Operators2D) K2Not0() []float64 { return o.derived.k2Not0 }

// K2R returns l(l+1)/r. Do not modify.
func (o *Operators2D) K2R() []float64 { return o.derived.k2R }

// InvK2Not0 returns 1/K2 with the l = 0 mode set to 0. Do not modify.
func (o *Operators2D) InvK2Not0() []float64 { return o.derived.invK2Not0 }

// InvK2R returns r/(l(l+1)) with the l = 0 mode set to 0. Do not modify.
func (o *Operators2D) InvK2R() []float64 { return o.derived.invK2R }

// LaplacianSH returns Δa = −K2·a, or +K2·a when negative is set. dst may
// be a or nil.
func (o *Operators2D) LaplacianSH(a []complex128, negative bool, dst []complex128) []complex128 {
	return o.scale(a, o.derived.k2, sign(negative), dst)
}

// InvLaplacianSH returns Δ⁻¹a = −a/K2, or +a/K2 when negative is set, with
// the l = 0 mode set to zero. dst may be a or nil.
func (o *Operators2D) InvLaplacianSH(a []complex128, negative bool, dst []complex128) []complex128 {
	return o.scale(a, o.derived.invK2Not0, sign(negative), dst)
}

func sign(negative bool) float64 {
	if negative {
		return 1
	}
	return -1
}

// scale writes s·factor[i]·a[i] into dst. Elementwise, so dst may alias a.
func (o *Operators2D) scale(a []complex128, factor []float64, s float64, dst []complex128) []complex128 {
	o.grid.CheckSpectral(a)
	if dst == nil {
		dst = make([]complex128, len(a))
	}
	o.grid.CheckSpectral(dst)
	for i, f := range factor {
		dst[i] = complex(s*f, 0) * a[i]
	}
	return dst
}
