// Package plaincss converts layout attributes to inline style declarations.
// Inline styles cannot carry media conditions, so breakpoint variants of the
// attributes are not converted.
package plaincss

import (
	"go.uber.org/zap"

	"fxmig/css"
	"fxmig/engine"
	"fxmig/markup"
)

// Descriptor of the generated markup.
var Descriptor = engine.Descriptor{
	Name:       "plain-css",
	Extensions: []string{".html", ".htm"},
	Format:     "html",
}

// New returns registry with all plain CSS converters.
func New(log *zap.Logger) *engine.Registry {
	if log == nil {
		log = zap.NewNop()
	}
	p := css.NewParser(log)
	return engine.NewRegistry(Descriptor, log).Register(
		&flex{newConverter("fxFlex", p)},
		&flexFill{newConverter("fxFlexFill", p)},
		&flexOffset{newConverter("fxFlexOffset", p)},
		&flexOrder{newConverter("fxFlexOrder", p)},
		&layout{newConverter("fxLayout", p)},
		&layoutAlign{newConverter("fxLayoutAlign", p)},
		&layoutGap{newConverter("fxLayoutGap", p)},
	)
}

type converter struct {
	engine.Base
	parser *css.Parser
}

func newConverter(name string, p *css.Parser) converter {
	return converter{Base: engine.NewBase(name, false), parser: p}
}

// style merges property/value pairs into element style attribute.
func (c *converter) style(el *markup.Node, pairs ...string) {
	existing, _ := el.Attr("style")
	decls := c.parser.ParseInline(existing)

	var add css.Declarations
	for i := 0; i+1 < len(pairs); i += 2 {
		add = add.Set(pairs[i], pairs[i+1])
	}
	el.SetAttr("style", decls.Merge(add).String())
}

// alignValues maps canonical alignment to CSS keywords.
var alignValues = map[string]string{
	"start":    "flex-start",
	"end":      "flex-end",
	"center":   "center",
	"around":   "space-around",
	"between":  "space-between",
	"evenly":   "space-evenly",
	"stretch":  "stretch",
	"baseline": "baseline",
}
