package engine

import (
	"slices"
	"strings"

	"fxmig/markup"
)

// LayoutContext is prepared by converters whose output depends on the layout
// of the parent element.
type LayoutContext struct {
	BaseContext
	Column bool // parent lays out children vertically
	RTL    bool // right to left text direction
}

// PrepareLayout inspects parent fxLayout attribute (row when absent) and text
// direction of the element.
func PrepareLayout(root, el *markup.Node) Context {
	ctx := &LayoutContext{
		Column: ParentDirection(el) == "column",
		RTL:    TextDirection(root, el) == "rtl",
	}
	return ctx
}

// ParentDirection returns "row" or "column", reverse variants are folded into
// the base direction.
func ParentDirection(el *markup.Node) string {
	p := el.ParentElement()
	if p == nil {
		return "row"
	}
	value, ok := p.Attr("fxLayout")
	if !ok {
		if value, ok = p.Attr("[fxLayout]"); ok {
			value, ok = BindingLiteral(value)
		}
	}
	if !ok {
		return "row"
	}
	tokens := SplitValues(value)
	if len(tokens) == 0 {
		return "row"
	}
	if strings.TrimSuffix(strings.ToLower(tokens[0]), "-reverse") == "column" {
		return "column"
	}
	return "row"
}

// TextDirection returns value of dir attribute of the closest element having
// one, falling back to the <html> element and then to "ltr".
func TextDirection(root, el *markup.Node) string {
	for n := el; n != nil; n = n.ParentElement() {
		if dir, ok := n.Attr("dir"); ok && len(strings.TrimSpace(dir)) > 0 {
			return strings.ToLower(strings.TrimSpace(dir))
		}
	}
	if root != nil {
		if h := root.FindElement("html"); h != nil {
			if dir, ok := h.Attr("dir"); ok && len(strings.TrimSpace(dir)) > 0 {
				return strings.ToLower(strings.TrimSpace(dir))
			}
		}
	}
	return "ltr"
}

// Layout is an interpreted fxLayout value.
type Layout struct {
	Direction string // row, column, row-reverse or column-reverse
	Wrap      string // wrap, wrap-reverse, nowrap or empty
	Inline    bool
}

var (
	layoutDirections = []string{"row", "column", "row-reverse", "column-reverse"}
	layoutWraps      = []string{"wrap", "wrap-reverse", "nowrap"}
)

// ParseLayout interprets fxLayout tokens, first one is direction. Tokens it
// does not understand are returned in unknown.
func ParseLayout(values []string) (l Layout, unknown []string) {
	l.Direction = "row"
	for i, v := range values {
		v = strings.ToLower(v)
		switch {
		case i == 0 && slices.Contains(layoutDirections, v):
			l.Direction = v
		case i > 0 && slices.Contains(layoutWraps, v) && len(l.Wrap) == 0:
			l.Wrap = v
		case v == "inline":
			l.Inline = true
		default:
			unknown = append(unknown, values[i])
		}
	}
	return l, unknown
}

var (
	mainAxisAlign = map[string]string{
		"start":         "start",
		"flex-start":    "start",
		"center":        "center",
		"end":           "end",
		"flex-end":      "end",
		"space-around":  "around",
		"space-between": "between",
		"space-evenly":  "evenly",
	}
	crossAxisItemsAlign = map[string]string{
		"start":      "start",
		"flex-start": "start",
		"center":     "center",
		"end":        "end",
		"flex-end":   "end",
		"stretch":    "stretch",
		"baseline":   "baseline",
	}
	crossAxisContentAlign = map[string]string{
		"start":         "start",
		"flex-start":    "start",
		"center":        "center",
		"end":           "end",
		"flex-end":      "end",
		"space-around":  "around",
		"space-between": "between",
		"space-evenly":  "evenly",
		"stretch":       "stretch",
		"baseline":      "baseline",
	}
)

// MainAxisAlign maps fxLayoutAlign main axis value to one of start, center,
// end, around, between or evenly.
func MainAxisAlign(v string) (string, bool) {
	a, ok := mainAxisAlign[strings.ToLower(v)]
	return a, ok
}

// CrossAxisItemsAlign maps cross axis value used for row layouts.
func CrossAxisItemsAlign(v string) (string, bool) {
	a, ok := crossAxisItemsAlign[strings.ToLower(v)]
	return a, ok
}

// CrossAxisContentAlign maps cross axis value used for column layouts.
func CrossAxisContentAlign(v string) (string, bool) {
	a, ok := crossAxisContentAlign[strings.ToLower(v)]
	return a, ok
}
