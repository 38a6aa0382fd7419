package norm

import "fmt"

// Table lists the conventions a backend understands and the native
// constants it uses for them.
type Table struct {
	Backend string
	Codes   map[Normalization]int
	// Phase flag values for Condon–Shortley on and off.
	CSPhase   int
	NoCSPhase int
}

// Resolved holds the native constants a backend is constructed from. The
// backend decodes them itself; nothing else of the requested Convention is
// passed on.
type Resolved struct {
	Backend   string
	Code      int
	PhaseCode int
}

func (r Resolved) String() string {
	return fmt.Sprintf("%s code=%d phase=%d", r.Backend, r.Code, r.PhaseCode)
}

// Supports reports whether the table has a code for n.
func (t Table) Supports(n Normalization) bool {
	_, ok := t.Codes[n]
	return ok
}

// Resolve maps conv to the table's constants. A normalization the backend
// does not offer wraps ErrUnknown.
func (t Table) Resolve(conv Convention) (Resolved, error) {
	if !t.Supports(conv.Norm) {
		return Resolved{}, fmt.Errorf("%w: %s is not offered by %s", ErrUnknown, conv.Norm, t.Backend)
	}
	phase := t.NoCSPhase
	if conv.CSPhase {
		phase = t.CSPhase
	}
	return Resolved{Backend: t.Backend, Code: t.Codes[conv.Norm], PhaseCode: phase}, nil
}
