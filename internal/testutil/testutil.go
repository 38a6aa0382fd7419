// Package testutil provides shared numerical test helpers.
//
// Transforms are compared with an absolute tolerance. Helpers report the
// largest deviation and a go-cmp diff of the offending entries so that a
// failing round trip points at the modes that broke.
package testutil

import (
	"math"
	"math/cmplx"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/mat"
)

// TB is the subset of testing.TB the assertions need.
type TB interface {
	Helper()
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
}

// ApproxComplex compares complex128 values to within an absolute tolerance.
func ApproxComplex(tol float64) cmp.Option {
	return cmp.Comparer(func(x, y complex128) bool {
		return cmplx.Abs(x-y) <= tol
	})
}

// ApproxFloat compares float64 values to within an absolute tolerance.
func ApproxFloat(tol float64) cmp.Option {
	return cmpopts.EquateApprox(0, tol)
}

// MaxAbsDiffSH returns max |a[i] − b[i]|. Slices of different length give +Inf.
func MaxAbsDiffSH(a, b []complex128) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	var worst float64
	for i := range a {
		worst = math.Max(worst, cmplx.Abs(a[i]-b[i]))
	}
	return worst
}

// MaxAbsDiffSpat returns the largest absolute entry of a − b. Matrices of
// different shape give +Inf.
func MaxAbsDiffSpat(a, b mat.Matrix) float64 {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		return math.Inf(1)
	}
	var worst float64
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			worst = math.Max(worst, math.Abs(a.At(i, j)-b.At(i, j)))
		}
	}
	return worst
}

// AssertSHClose fails the test when got and want differ by more than tol
// in any mode.
func AssertSHClose(t TB, got, want []complex128, tol float64) {
	t.Helper()
	if diff := cmp.Diff(want, got, ApproxComplex(tol)); diff != "" {
		t.Errorf("spectra differ by up to %.3g (tol %.3g) (-want +got):\n%s", MaxAbsDiffSH(got, want), tol, diff)
	}
}

// AssertSpatClose fails the test when got and want differ by more than tol
// at any grid point.
func AssertSpatClose(t TB, got, want mat.Matrix, tol float64) {
	t.Helper()
	if d := MaxAbsDiffSpat(got, want); !(d <= tol) {
		t.Errorf("fields differ by up to %.3g (tol %.3g)", d, tol)
	}
}

// AssertFloatsClose fails the test when got and want differ by more than tol
// in any element.
func AssertFloatsClose(t TB, got, want []float64, tol float64) {
	t.Helper()
	if diff := cmp.Diff(want, got, ApproxFloat(tol)); diff != "" {
		t.Errorf("values differ (tol %.3g) (-want +got):\n%s", tol, diff)
	}
}
