package engine

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"fxmig/markup"
)

// Descriptor describes target syntax of a registry.
type Descriptor struct {
	Name       string
	Extensions []string // lower case, with leading dot
	Format     string   // formatting profile requested for produced documents
}

func (d Descriptor) SupportsExtension(ext string) bool {
	return slices.Contains(d.Extensions, strings.ToLower(ext))
}

// Registry keeps converters by normalized attribute name. It is built once
// and must not be changed after pipeline started using it.
type Registry struct {
	desc       Descriptor
	log        *zap.Logger
	converters map[string]AttributeConverter
	order      []string
}

func NewRegistry(desc Descriptor, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		desc:       desc,
		log:        log,
		converters: make(map[string]AttributeConverter),
	}
}

// Register adds converter, converter registered later under the same name
// replaces earlier one keeping its position.
func (r *Registry) Register(cs ...AttributeConverter) *Registry {
	for _, c := range cs {
		name := NormalizeAttribute(c.Name())
		if _, ok := r.converters[name]; !ok {
			r.order = append(r.order, name)
		}
		if b, ok := c.(interface{ bindLogger(*zap.Logger) }); ok {
			b.bindLogger(r.log.With(zap.String("converter", name)))
		}
		r.converters[name] = c
	}
	return r
}

func (r *Registry) Descriptor() Descriptor {
	return r.desc
}

func (r *Registry) Logger() *zap.Logger {
	return r.log
}

func (r *Registry) lookup(name string) (AttributeConverter, error) {
	c, ok := r.converters[NormalizeAttribute(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
	}
	return c, nil
}

// CanConvert reports whether attribute could be converted. For breakpoint
// suffixed names the answer comes from the converter of the base name.
func (r *Registry) CanConvert(name string, suffixed bool) bool {
	if !suffixed {
		_, ok := r.converters[NormalizeAttribute(name)]
		return ok
	}
	base, _, _ := strings.Cut(NormalizeAttribute(name), ".")
	c, ok := r.converters[base]
	if !ok {
		return false
	}
	return c.UsesBreakpoints()
}

func (r *Registry) Prepare(name string, root, el *markup.Node) (Context, error) {
	c, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	ctx := c.Prepare(root, el)
	if ctx == nil {
		ctx = &BaseContext{}
	}
	return ctx, nil
}

func (r *Registry) Convert(name string, values []string, el *markup.Node, bp Breakpoint, ctx Context) error {
	c, err := r.lookup(name)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = &BaseContext{}
	}
	return c.Convert(values, el, bp, ctx)
}

// AttributeNames returns names of every attribute registry is able to
// convert, in registration order.
func (r *Registry) AttributeNames() []string {
	var names []string
	for _, name := range r.order {
		names = append(names, AttributeNames(r.converters[name])...)
	}
	return names
}
