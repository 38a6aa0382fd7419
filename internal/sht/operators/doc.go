// Package operators provides Operators2D, the backend-independent facade over
// 2-D spherical harmonic transforms.
//
// An Operators2D wraps one sht.Backend chosen at construction and adds the
// spectral operators derived from the degree index and the Helmholtz
// (divergence/vorticity) decomposition of horizontal vector fields.
//
// # Construction
//
//	oper, err := operators.New(operators.Options{Lmax: 15})
//	// nlat = 16, nlon = 31, nlm = 136 on the default Gaussian grid
//
// The backend selector, the grid policy and the normalization are resolved
// once, in New. Failures are *sht.Error values classified by
// sht.ErrConfiguration, sht.ErrUnavailableBackend and sht.ErrUnsupported.
//
// # Vector convention
//
// u is the eastward and v the northward velocity. The vector spherical
// harmonic pair (uD, uR) defines V = ∇uD − r̂×∇uR on the unit sphere, so
//
//	div_lm = −l(l+1)/a · uD_lm      rot_lm = +l(l+1)/a · uR_lm
//
// on a sphere of radius a. The same convention holds for every backend and
// no operator negates the backend's output.
//
// # Degenerate mode
//
// The l = 0 mode has no inverse Laplacian. Every inverse quantity is masked
// to exactly zero there, so VSHFromDivRotSH and InvLaplacianSH return zero
// for the constant mode instead of a non-finite value.
//
// # Buffers and concurrency
//
// Methods accept optional output buffers; nil allocates a zeroed buffer of
// the right shape, non-nil buffers are overwritten and returned. An output
// buffer must not alias an input of the same call chain unless a method
// says otherwise; the result is undefined.
//
// An Operators2D is not safe for concurrent use: backends keep work
// buffers. Callers that share one across goroutines must serialize access.
package operators
