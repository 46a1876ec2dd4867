package plaincss

import (
	"strings"

	"go.uber.org/zap"

	"fxmig/engine"
	"fxmig/markup"
)

type flex struct{ converter }

func (c *flex) Convert(values []string, el *markup.Node, _ engine.Breakpoint, _ engine.Context) error {
	f, missing := engine.ResolveFlex(values)
	switch {
	case len(values) == 0:
		c.MissingValue("fxFlex", "initial")
	case len(missing) > 0:
		c.MissingValue("basis for fxFlex", f.Basis)
	}

	v := f.String()
	if f.BasisOnly {
		v = "1 1 " + f.Basis
	}
	c.style(el, "flex", v)
	return nil
}

type flexFill struct{ converter }

func (c *flexFill) Convert(_ []string, el *markup.Node, _ engine.Breakpoint, _ engine.Context) error {
	c.style(el,
		"width", "100%",
		"height", "100%",
		"min-width", "100%",
		"min-height", "100%",
	)
	return nil
}

type flexOffset struct{ converter }

func (c *flexOffset) Prepare(root, el *markup.Node) engine.Context {
	return engine.PrepareLayout(root, el)
}

func (c *flexOffset) Convert(values []string, el *markup.Node, _ engine.Breakpoint, ctx engine.Context) error {
	offset := "0"
	if len(values) > 0 {
		offset = values[0]
	} else {
		c.MissingValue("fxFlexOffset", offset)
	}
	// unitless offset is a percentage of the parent
	if engine.IsNumber(offset) && offset != "0" {
		offset += "%"
	}

	prop := "margin-left"
	if lc, ok := ctx.(*engine.LayoutContext); ok {
		switch {
		case lc.Column:
			prop = "margin-top"
		case lc.RTL:
			prop = "margin-right"
		}
	}
	c.style(el, prop, offset)
	return nil
}

type flexOrder struct{ converter }

func (c *flexOrder) Convert(values []string, el *markup.Node, _ engine.Breakpoint, _ engine.Context) error {
	order := "first"
	if len(values) > 0 {
		order = strings.ToLower(values[0])
	} else {
		c.MissingValue("fxFlexOrder", order)
	}

	switch order {
	case "first":
		order = "-9999"
	case "last":
		order = "9999"
	case "none":
		order = "0"
	}
	c.style(el, "order", order)
	return nil
}

type layout struct{ converter }

func (c *layout) Convert(values []string, el *markup.Node, _ engine.Breakpoint, _ engine.Context) error {
	if len(values) == 0 {
		c.MissingValue("fxLayout", "row")
	}
	l, unknown := engine.ParseLayout(values)
	if len(unknown) > 0 {
		c.Log().Warn("Ignoring unsupported fxLayout values", zap.Strings("values", unknown))
	}

	display := "flex"
	if l.Inline {
		display = "inline-flex"
	}
	pairs := []string{"display", display, "flex-direction", l.Direction}
	if len(l.Wrap) > 0 {
		pairs = append(pairs, "flex-wrap", l.Wrap)
	}
	c.style(el, pairs...)
	return nil
}

type layoutAlign struct{ converter }

func (c *layoutAlign) Prepare(root, el *markup.Node) engine.Context {
	return engine.PrepareLayout(root, el)
}

func (c *layoutAlign) Convert(values []string, el *markup.Node, _ engine.Breakpoint, ctx engine.Context) error {
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

	var pairs []string
	if a, ok := engine.MainAxisAlign(main); ok {
		pairs = append(pairs, "justify-content", alignValues[a])
	} else {
		c.Log().Warn("Unsupported main-axis alignment", zap.String("value", main))
	}

	column := false
	if lc, ok := ctx.(*engine.LayoutContext); ok {
		column = lc.Column
	}
	prop, lookup := "align-items", engine.CrossAxisItemsAlign
	if column {
		prop, lookup = "align-content", engine.CrossAxisContentAlign
	}
	if a, ok := lookup(cross); ok {
		pairs = append(pairs, prop, alignValues[a])
	} else {
		c.Log().Warn("Unsupported cross-axis alignment", zap.String("value", cross), zap.Bool("column", column))
	}

	if len(pairs) > 0 {
		c.style(el, pairs...)
	}
	return nil
}

type layoutGap struct{ converter }

func (c *layoutGap) Convert(values []string, el *markup.Node, _ engine.Breakpoint, _ engine.Context) error {
	gap := "0"
	if len(values) > 0 {
		gap = values[0]
	} else {
		c.MissingValue("fxLayoutGap", gap)
	}
	if engine.IsNumber(gap) && gap != "0" {
		gap += "px"
	}

	pairs := []string{"gap", gap}
	if len(values) > 1 && values[1] == "grid" {
		pairs = append(pairs, "display", "grid")
	}
	c.style(el, pairs...)
	return nil
}
