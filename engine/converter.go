package engine

import (
	"go.uber.org/zap"

	"fxmig/markup"
)

// Context is produced by converter Prepare for a single (element, attribute)
// pair and handed back to Convert of the same converter.
type Context interface {
	// PropertyBinding reports whether attribute was written with property
	// binding syntax, e.g. [fxFlex]="expr".
	PropertyBinding() bool
	SetPropertyBinding(bool)
}

// BaseContext is embedded by converter specific contexts.
type BaseContext struct {
	binding bool
}

func (c *BaseContext) PropertyBinding() bool {
	return c.binding
}

func (c *BaseContext) SetPropertyBinding(v bool) {
	c.binding = v
}

// AttributeConverter converts single layout attribute (with all of its
// breakpoint variants) to the target syntax.
//
// Prepare must not modify the document, it is called for every element before
// any Convert of the same run. Convert mutates element it was given and nothing
// else.
type AttributeConverter interface {
	Name() string
	UsesBreakpoints() bool
	Prepare(root, el *markup.Node) Context
	Convert(values []string, el *markup.Node, bp Breakpoint, ctx Context) error
}

// Base implements common part of AttributeConverter and is supposed to be
// embedded by concrete converters.
type Base struct {
	name        string
	breakpoints bool
	log         *zap.Logger
}

func NewBase(name string, breakpoints bool) Base {
	return Base{name: name, breakpoints: breakpoints}
}

func (b *Base) Name() string {
	return b.name
}

func (b *Base) UsesBreakpoints() bool {
	return b.breakpoints
}

func (b *Base) Prepare(_, _ *markup.Node) Context {
	return &BaseContext{}
}

// Log returns logger bound by registry on registration.
func (b *Base) Log() *zap.Logger {
	if b.log == nil {
		return zap.NewNop()
	}
	return b.log
}

func (b *Base) bindLogger(log *zap.Logger) {
	b.log = log
}

// MissingValue reports absent positional value for which default is going to
// be used.
func (b *Base) MissingValue(what, def string) {
	b.Log().Warn("No value for "+what, zap.String("attribute", b.name), zap.String("default", def))
}

// AttributeNames returns all attribute names converter is responsible for:
// base name followed by every breakpoint variant in enumeration order.
func AttributeNames(c AttributeConverter) []string {
	if !c.UsesBreakpoints() {
		return []string{c.Name()}
	}
	names := make([]string, 0, len(breakpoints)+1)
	names = append(names, c.Name())
	for _, bp := range breakpoints {
		names = append(names, c.Name()+"."+string(bp))
	}
	return names
}
