package tailwind

import (
	"strings"

	"fxmig/engine"
	"fxmig/markup"
)

type flex struct {
	engine.Base
}

func newFlex() *flex {
	return &flex{Base: engine.NewBase("fxFlex", true)}
}

func (c *flex) Convert(values []string, el *markup.Node, bp engine.Breakpoint, _ engine.Context) error {
	f, missing := engine.ResolveFlex(values)
	switch {
	case len(values) == 0:
		c.MissingValue("fxFlex", "initial")
	case len(missing) > 0:
		c.MissingValue("basis for fxFlex", f.Basis)
	}

	var class string
	switch {
	case len(f.Keyword) > 0:
		class = "flex-" + f.Keyword
	case f.BasisOnly:
		class = "flex-" + arbitrary(f.Basis)
	default:
		class = "flex-" + arbitrary(f.String())
	}
	el.AddClass(bp.Apply(class))
	return nil
}

type flexFill struct {
	engine.Base
}

func newFlexFill() *flexFill {
	return &flexFill{Base: engine.NewBase("fxFlexFill", true)}
}

func (c *flexFill) Convert(_ []string, el *markup.Node, bp engine.Breakpoint, _ engine.Context) error {
	for _, class := range []string{"w-full", "min-w-full", "h-full", "min-h-full"} {
		el.AddClass(bp.Apply(class))
	}
	return nil
}

type flexOffset struct {
	engine.Base
}

func newFlexOffset() *flexOffset {
	return &flexOffset{Base: engine.NewBase("fxFlexOffset", true)}
}

func (c *flexOffset) Prepare(root, el *markup.Node) engine.Context {
	return engine.PrepareLayout(root, el)
}

func (c *flexOffset) Convert(values []string, el *markup.Node, bp engine.Breakpoint, ctx engine.Context) error {
	offset := "0"
	if len(values) > 0 {
		offset = values[0]
	} else {
		c.MissingValue("fxFlexOffset", offset)
	}

	// unitless offset is a step of the spacing scale
	side := "ml"
	if lc, ok := ctx.(*engine.LayoutContext); ok {
		switch {
		case lc.Column:
			side = "mt"
		case lc.RTL:
			side = "mr"
		}
	}
	el.AddClass(bp.Apply(utility(side, offset)))
	return nil
}

type flexOrder struct {
	engine.Base
}

func newFlexOrder() *flexOrder {
	return &flexOrder{Base: engine.NewBase("fxFlexOrder", true)}
}

func (c *flexOrder) Convert(values []string, el *markup.Node, bp engine.Breakpoint, _ engine.Context) error {
	order := "first"
	if len(values) > 0 {
		order = strings.ToLower(values[0])
	} else {
		c.MissingValue("fxFlexOrder", order)
	}

	var class string
	switch {
	case order == "first" || order == "last" || order == "none":
		class = "order-" + order
	case engine.IsNumber(order):
		class = utility("order", order)
	default:
		class = "order-" + arbitrary(order)
	}
	el.AddClass(bp.Apply(class))
	return nil
}
