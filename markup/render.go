package markup

import (
	"io"
	"strings"
)

// RenderOptions controls how modified start tags are written. Untouched tags
// are always written verbatim.
type RenderOptions struct {
	// WrapAttributes puts every attribute of a modified start tag on its own
	// line when the tag does not fit into PrintWidth.
	WrapAttributes bool
	PrintWidth     int
	TabWidth       int
}

// lineWriter remembers text of the current output line to know indentation
// of a tag being written.
type lineWriter struct {
	sb   strings.Builder
	line strings.Builder
}

func (w *lineWriter) WriteString(s string) {
	w.sb.WriteString(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		w.line.Reset()
		s = s[i+1:]
	}
	w.line.WriteString(s)
}

// indent returns leading whitespace of current line if nothing else was
// written on it yet.
func (w *lineWriter) indent() (string, bool) {
	l := w.line.String()
	if strings.TrimLeft(l, " \t") != "" {
		return "", false
	}
	return l, true
}

// Render writes the tree rooted at n.
func Render(w io.Writer, n *Node, opts RenderOptions) error {
	_, err := io.WriteString(w, RenderString(n, opts))
	return err
}

// RenderString returns text of the tree rooted at n.
func RenderString(n *Node, opts RenderOptions) string {
	lw := &lineWriter{}

	type frame struct {
		node  *Node
		close bool
	}
	stack := []frame{{node: n}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.close {
			lw.WriteString(f.node.end)
			continue
		}
		switch f.node.Type {
		case ElementNode:
			lw.WriteString(renderStartTag(f.node, lw, opts))
			stack = append(stack, frame{node: f.node, close: true})
		case DocumentNode:
		default:
			lw.WriteString(f.node.Data)
		}
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: f.node.Children[i]})
		}
	}
	return lw.sb.String()
}

func (n *Node) String() string {
	return RenderString(n, RenderOptions{})
}

func renderStartTag(n *Node, lw *lineWriter, opts RenderOptions) string {
	if !n.dirty {
		return n.start
	}

	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(n.Tag)
	for _, a := range n.Attrs {
		b.WriteString(a.lead)
		b.WriteString(a.text())
	}
	b.WriteString(n.tail)
	b.WriteByte('>')
	tag := b.String()

	if !opts.WrapAttributes || len(n.Attrs) < 2 || strings.ContainsRune(tag, '\n') {
		return tag
	}
	indent, ok := lw.indent()
	if !ok || len(indent)+len(tag) <= opts.PrintWidth {
		return tag
	}

	inner := indent + strings.Repeat(" ", opts.TabWidth)
	b.Reset()
	b.WriteByte('<')
	b.WriteString(n.Tag)
	for _, a := range n.Attrs {
		b.WriteByte('\n')
		b.WriteString(inner)
		b.WriteString(a.text())
	}
	b.WriteByte('\n')
	b.WriteString(indent)
	if strings.Contains(n.tail, "/") {
		b.WriteByte('/')
	}
	b.WriteByte('>')
	return b.String()
}
