package engine

import "errors"

var (
	// ErrUnknownAttribute is returned by registry when no converter is
	// registered for the attribute. Callers are expected to check CanConvert
	// first.
	ErrUnknownAttribute = errors.New("unknown attribute")
	// ErrUnknownBreakpoint is returned for attribute suffix outside of the
	// closed breakpoint set.
	ErrUnknownBreakpoint = errors.New("unknown breakpoint")
)
