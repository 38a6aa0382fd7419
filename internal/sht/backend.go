package sht

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/fluidsht/internal/sht/norm"
)

// Backend is the capability every SHT engine provides. Operators compose
// against this contract only.
//
// Spectral fields have Grid().NLM() coefficients laid out as described by
// Grid.Index. Spatial fields are (nlat, nlon) with row 0 northernmost.
//
// Vector fields use u for the eastward and v for the northward component.
// The vector spherical harmonic pair (uD, uR) is radius-free and defines
//
//	V = ∇uD − r̂ × ∇uR
//
// on the unit sphere, so that the horizontal divergence of V on a sphere of
// radius a is −l(l+1)/a·uD and its radial vorticity is +l(l+1)/a·uR.
//
// A nil dst argument allocates a new zeroed buffer; a non-nil dst is
// overwritten and returned. Buffers with the wrong shape cause a panic.
type Backend interface {
	Name() string
	Grid() Grid
	Convention() norm.Convention
	NLM() int
	L2Idx() []float64
	// Lats returns node latitudes in degrees, north to south.
	Lats() []float64
	// Lons returns node longitudes in degrees, from 0 eastwards.
	Lons() []float64

	SHT(field *mat.Dense, dst []complex128) []complex128
	ISHT(fieldLM []complex128, dst *mat.Dense) *mat.Dense
	VSHFromVec(u, v *mat.Dense, uD, uR []complex128) ([]complex128, []complex128)
	VecFromVSH(uD, uR []complex128, u, v *mat.Dense) (*mat.Dense, *mat.Dense)
}

// Registration describes a backend that can be selected by name.
type Registration struct {
	// Name is the selector without the "fluidsht." prefix, e.g. "sht2d.with_gonum".
	Name string
	// Preference orders candidates for the default selector; lower wins.
	Preference int
	// Available reports whether the backend can be used here. nil means always.
	Available func() error
	Open      func(Grid, norm.Convention) (Backend, error)
}

// EnvDefaultBackend overrides the backend picked by the "default" selector.
const EnvDefaultBackend = "FLUIDSHT_SHT2D"

const (
	modulePrefix = "fluidsht."
	prefix2D     = "sht2d."
	prefix3D     = "sht3d."
)

var (
	registryMu sync.RWMutex
	registry   = map[string]Registration{}
)

// Register makes a backend available to Open. It panics on a duplicate or
// malformed name, the way database/sql drivers do.
func Register(r Registration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if !strings.HasPrefix(r.Name, prefix2D) || r.Open == nil {
		panic(fmt.Sprintf("sht: invalid backend registration %q", r.Name))
	}
	if _, dup := registry[r.Name]; dup {
		panic(fmt.Sprintf("sht: backend %q registered twice", r.Name))
	}
	registry[r.Name] = r
}

// Backends returns the registered backend names in preference order.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	regs := make([]Registration, 0, len(registry))
	for _, r := range registry {
		regs = append(regs, r)
	}
	sort.Slice(regs, func(i, j int) bool {
		if regs[i].Preference != regs[j].Preference {
			return regs[i].Preference < regs[j].Preference
		}
		return regs[i].Name < regs[j].Name
	})
	names := make([]string, len(regs))
	for i, r := range regs {
		names[i] = r.Name
	}
	return names
}

// Resolve turns a selector into a registered backend name. The selector is
// "default" (or empty), or "sht2d.<method>" optionally prefixed with
// "fluidsht.". The default selector honours $FLUIDSHT_SHT2D and otherwise
// probes registered backends in preference order.
func Resolve(selector string) (string, error) {
	if isDefault(selector) {
		env := os.Getenv(EnvDefaultBackend)
		if isDefault(env) {
			return probeDefault()
		}
		selector = env
	}

	name := strings.TrimPrefix(selector, modulePrefix)
	switch {
	case strings.HasPrefix(name, prefix3D):
		return "", UnsupportedError(selector, "3-D transforms are not implemented")
	case !strings.HasPrefix(name, prefix2D):
		return "", &Error{
			Kind:  ErrConfiguration,
			Param: "backend",
			Err: fmt.Errorf("cannot instantiate %q: expected 'default', 'fluidsht.sht2d.<method>' or 'sht2d.<method>'",
				selector),
		}
	}

	registryMu.RLock()
	r, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return "", &Error{Kind: ErrUnavailableBackend, Backend: name, Err: errors.New("no such backend registered")}
	}
	if r.Available != nil {
		if err := r.Available(); err != nil {
			return "", &Error{Kind: ErrUnavailableBackend, Backend: name, Err: err}
		}
	}
	return name, nil
}

func isDefault(selector string) bool {
	return selector == "" || selector == "default" || selector == modulePrefix+"default"
}

func probeDefault() (string, error) {
	var errs []error
	for _, name := range Backends() {
		registryMu.RLock()
		r := registry[name]
		registryMu.RUnlock()
		if r.Available == nil {
			return name, nil
		}
		err := r.Available()
		if err == nil {
			return name, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", name, err))
	}
	if len(errs) == 0 {
		errs = append(errs, errors.New("no backends registered"))
	}
	return "", &Error{Kind: ErrUnavailableBackend, Backend: "default", Err: errors.Join(errs...)}
}

// Open resolves selector and constructs the backend for grid and conv.
func Open(selector string, grid Grid, conv norm.Convention) (Backend, error) {
	name, err := Resolve(selector)
	if err != nil {
		return nil, err
	}
	registryMu.RLock()
	r := registry[name]
	registryMu.RUnlock()

	b, err := r.Open(grid, conv)
	if err != nil {
		var shtErr *Error
		if errors.As(err, &shtErr) {
			if shtErr.Backend == "" {
				shtErr.Backend = name
			}
			return nil, shtErr
		}
		return nil, &Error{Kind: ErrUnavailableBackend, Backend: name, Err: err}
	}
	return b, nil
}
