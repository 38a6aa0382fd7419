// Package norm is the registry of spherical harmonic normalization and
// phase conventions.
//
// Every convention is expressed relative to the orthonormal harmonics Ȳ_lm
// (∫|Ȳ_lm|² dΩ = 1):
//
//	orthonormal   Y_lm = Ȳ_lm                               ∫|Y|² = 1
//	fourpi        Y_lm = √(4π) Ȳ_lm                         ∫|Y|² = 4π
//	schmidt       Y_lm = √(4π/(2l+1)) Ȳ_lm                  ∫|Y|² = 4π/(2l+1)
//	unnormalized  Y_lm = √(4π/(2l+1)·(l+m)!/(l−m)!) Ȳ_lm    ∫|Y|² = 4π/(2l+1)·(l+m)!/(l−m)!
//
// The Condon–Shortley phase (−1)^m is part of Ȳ_lm when Convention.CSPhase
// is set. The registry never touches field data; backends resolve a
// Convention against their own Table once, at construction.
package norm

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Normalization names a harmonic normalization.
type Normalization int

const (
	Orthonormal Normalization = iota
	FourPi
	Schmidt
	Unnormalized
)

// Default is used when no normalization is named.
const Default = FourPi

// ErrUnknown is returned for a name or code outside the registry.
var ErrUnknown = errors.New("unknown normalization")

var names = map[Normalization]string{
	Orthonormal:  "orthonormal",
	FourPi:       "fourpi",
	Schmidt:      "schmidt",
	Unnormalized: "unnormalized",
}

func (n Normalization) String() string {
	if s, ok := names[n]; ok {
		return s
	}
	return fmt.Sprintf("Normalization(%d)", int(n))
}

// Names lists the registered normalization names.
func Names() []string {
	out := make([]string, 0, len(names))
	for _, s := range names {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Parse resolves a normalization name. Names are matched exactly; the empty
// name selects Default.
func Parse(name string) (Normalization, error) {
	if name == "" {
		return Default, nil
	}
	for n, s := range names {
		if s == name {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w %q (want one of %s)", ErrUnknown, name, strings.Join(Names(), ", "))
}

// Scale is the factor turning the orthonormal harmonic of degree l and
// order m into this normalization's harmonic.
func (n Normalization) Scale(l, m int) float64 {
	switch n {
	case FourPi:
		return math.Sqrt(4 * math.Pi)
	case Schmidt:
		return math.Sqrt(4 * math.Pi / float64(2*l+1))
	case Unnormalized:
		lgPlus, _ := math.Lgamma(float64(l + m + 1))
		lgMinus, _ := math.Lgamma(float64(l - m + 1))
		return math.Sqrt(4*math.Pi/float64(2*l+1)) * math.Exp(0.5*(lgPlus-lgMinus))
	default:
		return 1
	}
}

// SquaredNorm returns ∫|Y_lm|² dΩ over the unit sphere.
func (n Normalization) SquaredNorm(l, m int) float64 {
	s := n.Scale(l, m)
	return s * s
}

// Y00 returns the (constant) value of the l = 0 harmonic.
func (n Normalization) Y00() float64 {
	return n.Scale(0, 0) / math.Sqrt(4*math.Pi)
}

// Convention is a normalization plus the phase flag, fixed for the lifetime
// of an operator.
type Convention struct {
	Norm    Normalization
	CSPhase bool
}

// DefaultConvention is fourpi with the Condon–Shortley phase.
func DefaultConvention() Convention {
	return Convention{Norm: Default, CSPhase: true}
}

func (c Convention) String() string {
	if c.CSPhase {
		return c.Norm.String()
	}
	return c.Norm.String() + "+no_cs_phase"
}

// PhaseSign returns (−1)^m when the Condon–Shortley phase is on, else 1.
func (c Convention) PhaseSign(m int) float64 {
	if c.CSPhase && m%2 == 1 {
		return -1
	}
	return 1
}
