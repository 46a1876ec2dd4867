package tailwind

import (
	"go.uber.org/zap"

	"fxmig/engine"
	"fxmig/markup"
)

type layout struct {
	engine.Base
}

func newLayout() *layout {
	return &layout{Base: engine.NewBase("fxLayout", true)}
}

var directionClasses = map[string]string{
	"row":            "flex-row",
	"column":         "flex-col",
	"row-reverse":    "flex-row-reverse",
	"column-reverse": "flex-col-reverse",
}

func (c *layout) Convert(values []string, el *markup.Node, bp engine.Breakpoint, _ engine.Context) error {
	if len(values) == 0 {
		c.MissingValue("fxLayout", "row")
	}
	l, unknown := engine.ParseLayout(values)
	if len(unknown) > 0 {
		c.Log().Warn("Ignoring unsupported fxLayout values", zap.Strings("values", unknown))
	}

	// display utility is not responsive, every variant needs flex container
	if l.Inline {
		el.AddClass("inline-flex")
	} else {
		el.AddClass("flex")
	}
	el.AddClass(bp.Apply(directionClasses[l.Direction]))
	if len(l.Wrap) > 0 {
		el.AddClass(bp.Apply("flex-" + l.Wrap))
	}
	return nil
}

type layoutAlign struct {
	engine.Base
}

func newLayoutAlign() *layoutAlign {
	return &layoutAlign{Base: engine.NewBase("fxLayoutAlign", true)}
}

func (c *layoutAlign) Prepare(root, el *markup.Node) engine.Context {
	return engine.PrepareLayout(root, el)
}

func (c *layoutAlign) Convert(values []string, el *markup.Node, bp engine.Breakpoint, ctx engine.Context) error {
	main, cross := "start", "stretch"
	switch len(values) {
	case 0:
		c.MissingValue("main-axis for fxLayoutAlign", main)
		c.MissingValue("cross-axis for fxLayoutAlign", cross)
	case 1:
		main = values[0]
		c.MissingValue("cross-axis for fxLayoutAlign", cross)
	default:
		main, cross = values[0], values[1]
	}

	if a, ok := engine.MainAxisAlign(main); ok {
		el.AddClass(bp.Apply("justify-" + a))
	} else {
		c.Log().Warn("Unsupported main-axis alignment", zap.String("value", main))
	}

	column := false
	if lc, ok := ctx.(*engine.LayoutContext); ok {
		column = lc.Column
	}
	var (
		a  string
		ok bool
	)
	if column {
		if a, ok = engine.CrossAxisContentAlign(cross); ok {
			el.AddClass(bp.Apply("content-" + a))
		}
	} else {
		if a, ok = engine.CrossAxisItemsAlign(cross); ok {
			el.AddClass(bp.Apply("items-" + a))
		}
	}
	if !ok {
		c.Log().Warn("Unsupported cross-axis alignment", zap.String("value", cross), zap.Bool("column", column))
	}
	return nil
}

type layoutGap struct {
	engine.Base
}

func newLayoutGap() *layoutGap {
	return &layoutGap{Base: engine.NewBase("fxLayoutGap", true)}
}

func (c *layoutGap) Convert(values []string, el *markup.Node, bp engine.Breakpoint, _ engine.Context) error {
	gap := "0"
	if len(values) > 0 {
		gap = values[0]
	} else {
		c.MissingValue("fxLayoutGap", gap)
	}

	// unitless gap is a step of the spacing scale, plain CSS reads it as px
	el.AddClass(bp.Apply("gap-" + engine.Arbitrary(gap)))
	if len(values) > 1 && values[1] == "grid" {
		el.AddClass(bp.Apply("grid"))
	}
	return nil
}
