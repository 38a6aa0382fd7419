package sht

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Use errors.Is against these to classify a failure.
var (
	// ErrConfiguration reports an unrecognised selector, an unknown
	// normalization or grid type, or grid dimensions that do not agree
	// with the truncation.
	ErrConfiguration = errors.New("configuration error")

	// ErrUnavailableBackend reports a backend that is not registered or
	// cannot be loaded in this environment.
	ErrUnavailableBackend = errors.New("backend unavailable")

	// ErrUnsupported reports a request the active backend does not
	// implement, such as 3-D transforms.
	ErrUnsupported = errors.New("unsupported operation")
)

// Error carries the context needed to diagnose a construction failure:
// which backend was involved and which parameter was at fault.
type Error struct {
	Kind    error
	Backend string
	Param   string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	sep := ": "
	if e.Backend != "" {
		fmt.Fprintf(&b, "%sbackend=%s", sep, e.Backend)
		sep = " "
	}
	if e.Param != "" {
		fmt.Fprintf(&b, "%sparam=%s", sep, e.Param)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Is reports whether target is the kind of this error.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// configErrorf builds an ErrConfiguration for param.
func configErrorf(param, format string, args ...interface{}) error {
	return &Error{Kind: ErrConfiguration, Param: param, Err: fmt.Errorf(format, args...)}
}

// ConfigError wraps err as an ErrConfiguration attributed to backend and param.
func ConfigError(backend, param string, err error) error {
	return &Error{Kind: ErrConfiguration, Backend: backend, Param: param, Err: err}
}

// UnsupportedError reports that backend does not implement what.
func UnsupportedError(backend, what string) error {
	return &Error{Kind: ErrUnsupported, Backend: backend, Err: errors.New(what)}
}
