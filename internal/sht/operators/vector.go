package operators

import "gonum.org/v1/gonum/mat"

// DivRotSHFromVSH computes the divergence and vorticity spectra from the
// vector spherical harmonics:
//
//	div_lm = −K2r·uD_lm      rot_lm = K2r·uR_lm
//
// div and rot are overwritten. They may be uD and uR respectively.
func (o *Operators2D) DivRotSHFromVSH(uD, uR, div, rot []complex128) ([]complex128, []complex128) {
	div = o.scale(uD, o.derived.k2R, -1, div)
	rot = o.scale(uR, o.derived.k2R, 1, rot)
	return div, rot
}

// VSHFromDivRotSH is the inverse of DivRotSHFromVSH:
//
//	uD_lm = −div_lm·invK2r      uR_lm = rot_lm·invK2r
//
// The l = 0 mode of uD and uR is zero. uD and uR may be div and rot
// respectively.
func (o *Operators2D) VSHFromDivRotSH(div, rot, uD, uR []complex128) ([]complex128, []complex128) {
	uD = o.scale(div, o.derived.invK2R, -1, uD)
	uR = o.scale(rot, o.derived.invK2R, 1, uR)
	return uD, uR
}

// VecFromDivRotSH computes the velocity (u, v) from horizontal divergence
// and vertical vorticity spectra. u and v are overwritten.
func (o *Operators2D) VecFromDivRotSH(div, rot []complex128, u, v *mat.Dense) (*mat.Dense, *mat.Dense) {
	uD, uR := o.VSHFromDivRotSH(div, rot, nil, nil)
	return o.backend.VecFromVSH(uD, uR, u, v)
}

// VecFromRotSH computes the non-divergent velocity of a vorticity spectrum.
func (o *Operators2D) VecFromRotSH(rot []complex128, u, v *mat.Dense) (*mat.Dense, *mat.Dense) {
	return o.VecFromDivRotSH(o.zerosSH, rot, u, v)
}

// VecFromDivSH computes the irrotational velocity of a divergence spectrum.
func (o *Operators2D) VecFromDivSH(div []complex128, u, v *mat.Dense) (*mat.Dense, *mat.Dense) {
	return o.VecFromDivRotSH(div, o.zerosSH, u, v)
}

// DivRotSHFromVec computes the horizontal divergence and vertical vorticity
// spectra of (u, v). div and rot are overwritten; they first receive the
// vector spherical harmonics and are then scaled in place.
func (o *Operators2D) DivRotSHFromVec(u, v *mat.Dense, div, rot []complex128) ([]complex128, []complex128) {
	uD, uR := o.backend.VSHFromVec(u, v, div, rot)
	return o.DivRotSHFromVSH(uD, uR, uD, uR)
}

// GradfFromFSH computes the eastward and northward components of the
// gradient of f on the sphere from its spectrum. Both outputs are
// overwritten.
func (o *Operators2D) GradfFromFSH(fLM []complex128, gradLon, gradLat *mat.Dense) (*mat.Dense, *mat.Dense) {
	gradLon, gradLat = o.backend.VecFromVSH(fLM, o.zerosSH, gradLon, gradLat)
	inv := 1 / o.grid.Radius
	gradLon.Scale(inv, gradLon)
	gradLat.Scale(inv, gradLat)
	return gradLon, gradLat
}
