// Package debug renders template trees for troubleshooting reports.
package debug

import (
	"fmt"
	"strconv"
	"strings"

	"fxmig/markup"
)

// TreeWriter accumulates indented outline, two spaces per level.
type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw *TreeWriter) String() string {
	return tw.w.String()
}

func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

func (tw *TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

func (tw *TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

// Markup returns outline of template tree. Elements changed by migration are
// marked with "*", whitespace only text is omitted.
func Markup(root *markup.Node) string {
	tw := NewTreeWriter()
	if root != nil {
		tw.node(0, root)
	}
	return tw.String()
}

func (tw *TreeWriter) node(depth int, n *markup.Node) {
	switch n.Type {
	case markup.DocumentNode:
		tw.Line(depth, "#document")
	case markup.ElementNode:
		mark := ""
		if n.Modified() {
			mark = " *"
		}
		tw.Line(depth, "<%s>%s", n.Tag, mark)
		for _, a := range n.Attrs {
			if a.HasValue {
				tw.TextBlock(depth+1, "@"+a.Key, a.Val)
			} else {
				tw.Line(depth+1, "@%s", a.Key)
			}
		}
	case markup.TextNode:
		if strings.TrimSpace(n.Data) == "" {
			return
		}
		tw.TextBlock(depth, "#text", n.Data)
	case markup.CommentNode:
		tw.TextBlock(depth, "#comment", n.Data)
	case markup.DoctypeNode:
		tw.TextBlock(depth, "#doctype", n.Data)
	}
	for _, c := range n.Children {
		tw.node(depth+1, c)
	}
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
