// Package markup keeps HTML templates as a lossless node tree. Parsing relies
// on golang.org/x/net/html tokenizer for token boundaries, but attribute names
// keep their original case (templates use case sensitive bindings such as
// [formControl] or fxLayout.gt-sm) and every tag which was not modified is
// written back exactly as it was read.
package markup

import (
	"html"
	"slices"
	"strings"
)

type NodeType int

const (
	DocumentNode NodeType = iota
	ElementNode
	TextNode
	CommentNode
	DoctypeNode
)

// Attribute is a single attribute of an element start tag.
type Attribute struct {
	Key      string
	Val      string // as written in the source, entities are not decoded
	Quote    byte   // 0 for unquoted and valueless attributes
	HasValue bool

	lead string // whitespace preceding attribute in the source
	raw  string // original text, empty when attribute was created or changed
}

// Value returns attribute value with character references decoded.
func (a Attribute) Value() string {
	return html.UnescapeString(a.Val)
}

func (a Attribute) text() string {
	if len(a.raw) > 0 {
		return a.raw
	}
	if !a.HasValue {
		return a.Key
	}
	q := a.Quote
	if q == 0 {
		q = '"'
	}
	return a.Key + "=" + string(q) + a.Val + string(q)
}

// Node is a document tree node. Element nodes are mutated in place, tree
// identity never changes after parsing.
type Node struct {
	Type     NodeType
	Tag      string // as written in the source
	Attrs    []Attribute
	Data     string // raw text of text, comment and doctype nodes
	Parent   *Node
	Children []*Node

	start string // original start tag
	end   string // original end tag, empty when element was closed implicitly
	tail  string // text between last attribute and closing '>', e.g. " /"
	dirty bool
}

func (n *Node) IsElement() bool {
	return n != nil && n.Type == ElementNode
}

// Modified reports whether start tag of the element has to be rendered anew.
func (n *Node) Modified() bool {
	return n.dirty
}

// ParentElement returns closest ancestor element or nil for top level nodes.
func (n *Node) ParentElement() *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == ElementNode {
			return p
		}
	}
	return nil
}

func (n *Node) appendChild(c *Node) {
	c.Parent = n
	n.Children = append(n.Children, c)
}

func (n *Node) index(key string) int {
	return slices.IndexFunc(n.Attrs, func(a Attribute) bool { return a.Key == key })
}

// Attr returns decoded value of the attribute with exactly matching name.
func (n *Node) Attr(key string) (string, bool) {
	if i := n.index(key); i >= 0 {
		return n.Attrs[i].Value(), true
	}
	return "", false
}

func (n *Node) HasAttr(key string) bool {
	return n.index(key) >= 0
}

// AttrKeys returns attribute names in source order.
func (n *Node) AttrKeys() []string {
	keys := make([]string, 0, len(n.Attrs))
	for _, a := range n.Attrs {
		keys = append(keys, a.Key)
	}
	return keys
}

// SetAttr replaces value of existing attribute keeping its position or appends
// new attribute to the end of the tag.
func (n *Node) SetAttr(key, val string) {
	q := byte('"')
	switch {
	case strings.ContainsRune(val, '"') && !strings.ContainsRune(val, '\''):
		q = '\''
	case strings.ContainsRune(val, '"'):
		val = strings.ReplaceAll(val, `"`, "&quot;")
	}
	n.dirty = true
	if i := n.index(key); i >= 0 {
		a := &n.Attrs[i]
		a.Val, a.Quote, a.HasValue, a.raw = val, q, true, ""
		return
	}
	n.Attrs = append(n.Attrs, Attribute{Key: key, Val: val, Quote: q, HasValue: true, lead: " "})
}

// RemoveAttr deletes attribute together with whitespace preceding it.
func (n *Node) RemoveAttr(key string) bool {
	i := n.index(key)
	if i < 0 {
		return false
	}
	n.Attrs = slices.Delete(n.Attrs, i, i+1)
	n.dirty = true
	return true
}

// Classes returns tokens of the class attribute.
func (n *Node) Classes() []string {
	if i := n.index("class"); i >= 0 {
		return strings.Fields(n.Attrs[i].Val)
	}
	return nil
}

func (n *Node) HasClass(class string) bool {
	return slices.Contains(n.Classes(), class)
}

// AddClass appends classes which are not present yet. Existing class
// attribute text is kept as is.
func (n *Node) AddClass(classes ...string) {
	have := n.Classes()
	var add []string
	for _, c := range classes {
		for _, f := range strings.Fields(c) {
			if !slices.Contains(have, f) && !slices.Contains(add, f) {
				add = append(add, f)
			}
		}
	}
	if len(add) == 0 {
		return
	}
	cur, _ := n.rawAttr("class")
	cur = strings.TrimSpace(cur)
	if len(cur) > 0 {
		cur += " "
	}
	n.SetAttr("class", cur+strings.Join(add, " "))
}

func (n *Node) rawAttr(key string) (string, bool) {
	if i := n.index(key); i >= 0 {
		return n.Attrs[i].Val, true
	}
	return "", false
}

// FindElement returns first element (in document order) with given tag name,
// comparison is case insensitive.
func (n *Node) FindElement(tag string) *Node {
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.Type == ElementNode && strings.EqualFold(cur.Tag, tag) {
			return cur
		}
		for i := len(cur.Children) - 1; i >= 0; i-- {
			stack = append(stack, cur.Children[i])
		}
	}
	return nil
}
