package engine

import (
	"fmt"
	"slices"
)

// Breakpoint is a responsive qualifier suffixed to attribute name, e.g.
// fxLayout.gt-sm. Empty value means attribute applies to all viewports.
type Breakpoint string

const (
	BreakpointNone Breakpoint = ""
	BreakpointXS   Breakpoint = "xs"
	BreakpointSM   Breakpoint = "sm"
	BreakpointMD   Breakpoint = "md"
	BreakpointLG   Breakpoint = "lg"
	BreakpointXL   Breakpoint = "xl"
	BreakpointLtSM Breakpoint = "lt-sm"
	BreakpointLtMD Breakpoint = "lt-md"
	BreakpointLtLG Breakpoint = "lt-lg"
	BreakpointLtXL Breakpoint = "lt-xl"
	BreakpointGtXS Breakpoint = "gt-xs"
	BreakpointGtSM Breakpoint = "gt-sm"
	BreakpointGtMD Breakpoint = "gt-md"
	BreakpointGtLG Breakpoint = "gt-lg"
)

var breakpoints = []Breakpoint{
	BreakpointXS, BreakpointSM, BreakpointMD, BreakpointLG, BreakpointXL,
	BreakpointLtSM, BreakpointLtMD, BreakpointLtLG, BreakpointLtXL,
	BreakpointGtXS, BreakpointGtSM, BreakpointGtMD, BreakpointGtLG,
}

// Directional breakpoints are approximated by a single explicit one. This is
// a fixed table, lt-md and gt-sm are not the same viewport range even though
// they share prefix.
var prefixes = map[Breakpoint]string{
	BreakpointXS:   "xs",
	BreakpointSM:   "sm",
	BreakpointMD:   "md",
	BreakpointLG:   "lg",
	BreakpointXL:   "xl",
	BreakpointLtSM: "xs",
	BreakpointLtMD: "sm",
	BreakpointLtLG: "md",
	BreakpointLtXL: "lg",
	BreakpointGtXS: "sm",
	BreakpointGtSM: "md",
	BreakpointGtMD: "lg",
	BreakpointGtLG: "xl",
}

// Breakpoints returns all known breakpoints (without none) in enumeration
// order.
func Breakpoints() []Breakpoint {
	return slices.Clone(breakpoints)
}

// ClassifyBreakpoint converts attribute name suffix to breakpoint.
func ClassifyBreakpoint(suffix string) (Breakpoint, error) {
	if len(suffix) == 0 {
		return BreakpointNone, nil
	}
	bp := Breakpoint(suffix)
	if _, ok := prefixes[bp]; !ok {
		return BreakpointNone, fmt.Errorf("%w: %q", ErrUnknownBreakpoint, suffix)
	}
	return bp, nil
}

func (b Breakpoint) IsNone() bool {
	return b == BreakpointNone
}

func (b Breakpoint) String() string {
	if b == BreakpointNone {
		return "none"
	}
	return string(b)
}

// Prefix returns target variant prefix for breakpoint, empty for none.
func (b Breakpoint) Prefix() string {
	return prefixes[b]
}

// Apply prefixes class with breakpoint variant.
func (b Breakpoint) Apply(class string) string {
	if p := b.Prefix(); len(p) > 0 {
		return p + ":" + class
	}
	return class
}
