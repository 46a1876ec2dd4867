package engine

import (
	"fxmig/markup"
)

// LocateElements returns elements which have at least one of the named
// attributes. Attribute names are compared after normalization, so both
// fxFlex and [fxFlex] match "fxFlex". Tree is walked without recursion and
// elements are returned in document order.
func LocateElements(root *markup.Node, names []string) []*markup.Node {
	want := make(map[string]struct{}, len(names))
	for _, name := range names {
		want[NormalizeAttribute(name)] = struct{}{}
	}

	var found []*markup.Node
	stack := NewStack[*markup.Node](0)
	_ = stack.Push(root)
	for !stack.Empty() {
		n, _ := stack.Pop()
		if n.IsElement() && hasAnyAttr(n, want) {
			found = append(found, n)
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			_ = stack.Push(n.Children[i])
		}
	}
	return found
}

func hasAnyAttr(n *markup.Node, want map[string]struct{}) bool {
	for _, a := range n.Attrs {
		if _, ok := want[NormalizeAttribute(a.Key)]; ok {
			return true
		}
	}
	return false
}
